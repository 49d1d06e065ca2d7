package rotation

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/zirnhelt/curated-podcast-generator/internal/logger"
)

// DefaultLookaheadDays is how far ahead of an event's start date it already
// shows up as upcoming.
const DefaultLookaheadDays = 7

// Event is a year-agnostic recurring date range tied to one org, several
// orgs, or the whole roster.
type Event struct {
	Name            string   `json:"name"`
	StartDate       string   `json:"start_date"` // MM-DD
	EndDate         string   `json:"end_date"`   // MM-DD
	OrganizationID  string   `json:"organization_id,omitempty"`
	OrganizationIDs []string `json:"organization_ids,omitempty"`
	AllOrgs         bool     `json:"all_orgs,omitempty"`
	PSAAngle        string   `json:"psa_angle"`
}

// LoadEvents reads the event calendar config.
func LoadEvents(path string) ([]Event, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read events config: %w", err)
	}
	var raw struct {
		Events []Event `json:"events"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse events config: %w", err)
	}
	return raw.Events, nil
}

// FindActive returns events active today or starting within the lookahead
// window, most specific first: a single-day awareness date always sorts
// ahead of a month-long seasonal range active on the same day. Events with
// unparseable dates are skipped. Ranges where end < start wrap across the
// year boundary (e.g. Dec 20 - Jan 5) and stay active on both sides of Jan 1.
func FindActive(today time.Time, events []Event, lookaheadDays int) []Event {
	today = truncateToDay(today)
	year := today.Year()

	type scored struct {
		duration int
		event    Event
	}
	var active []scored

	for _, e := range events {
		start, ok1 := materializeDate(e.StartDate, year)
		end, ok2 := materializeDate(e.EndDate, year)
		if !ok1 || !ok2 {
			logger.Warn("skipping event with unparseable dates",
				"event", e.Name, "start", e.StartDate, "end", e.EndDate)
			continue
		}

		wrapped := end.Before(start)
		var duration int
		var isActive bool
		if wrapped {
			// Range spans the new year: active from start through Dec 31
			// and from Jan 1 through end.
			duration = daysBetween(start, end.AddDate(1, 0, 0))
			isActive = !today.Before(start) || !today.After(end)
		} else {
			duration = daysBetween(start, end)
			isActive = !today.Before(start) && !today.After(end)
		}

		if isActive {
			active = append(active, scored{duration, e})
			continue
		}

		if daysUntil := daysBetween(today, start); daysUntil > 0 && daysUntil <= lookaheadDays {
			active = append(active, scored{duration, e})
		}
	}

	// Stable: events of equal duration keep their config order.
	sort.SliceStable(active, func(i, j int) bool {
		return active[i].duration < active[j].duration
	})

	out := make([]Event, len(active))
	for i, s := range active {
		out[i] = s.event
	}
	return out
}

// EventMatch pairs a matched event with the roster organization it selects.
type EventMatch struct {
	Event Event
	Org   Organization
	Angle string
}

// MatchToRoster walks events in specificity order and returns the first one
// whose target is on today's roster. An all-orgs event matches the first
// roster entry, deterministically. The returned angle has the event's
// template placeholders filled in.
func MatchToRoster(active []Event, roster []Organization) (EventMatch, bool) {
	byID := make(map[string]Organization, len(roster))
	for _, org := range roster {
		byID[org.ID] = org
	}

	for _, e := range active {
		if e.OrganizationID != "" {
			if org, ok := byID[e.OrganizationID]; ok {
				return EventMatch{Event: e, Org: org, Angle: FormatAngle(e.PSAAngle, org)}, true
			}
		}

		for _, id := range e.OrganizationIDs {
			if org, ok := byID[id]; ok {
				return EventMatch{Event: e, Org: org, Angle: FormatAngle(e.PSAAngle, org)}, true
			}
		}

		if e.AllOrgs && len(roster) > 0 {
			org := roster[0]
			return EventMatch{Event: e, Org: org, Angle: FormatAngle(e.PSAAngle, org)}, true
		}
	}
	return EventMatch{}, false
}

// FormatAngle fills {org_name} and {org_website} placeholders in an event's
// angle template. Organizations without a website get a spoken fallback.
func FormatAngle(template string, org Organization) string {
	website := org.Website
	if website == "" {
		website = "their website"
	}
	return strings.NewReplacer(
		"{org_name}", org.Name,
		"{org_website}", website,
	).Replace(template)
}

// materializeDate turns an MM-DD string into a concrete date in the given
// year. Rejects malformed strings and dates that don't exist that year
// (Feb 29 outside leap years).
func materializeDate(mmdd string, year int) (time.Time, bool) {
	parsed, err := time.Parse("01-02", mmdd)
	if err != nil {
		return time.Time{}, false
	}
	t := time.Date(year, parsed.Month(), parsed.Day(), 0, 0, 0, 0, time.UTC)
	if t.Month() != parsed.Month() || t.Day() != parsed.Day() {
		return time.Time{}, false
	}
	return t, true
}

func daysBetween(from, to time.Time) int {
	return int(to.Sub(from).Hours() / 24)
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
