// Package psa selects the community organization to spotlight on a given
// day: an event-driven pick when the calendar matches today's roster,
// otherwise cooldown-aware round robin.
package psa

import (
	"fmt"
	"time"

	"github.com/zirnhelt/curated-podcast-generator/internal/logger"
	"github.com/zirnhelt/curated-podcast-generator/internal/rotation"
)

const (
	SourceEvent    = "event"
	SourceRotation = "rotation"
)

// Selection is the per-day spotlight pick handed to the caller.
type Selection struct {
	OrgID          string `json:"org_id"`
	OrgName        string `json:"org_name"`
	OrgShortName   string `json:"org_short_name"`
	OrgDescription string `json:"org_description"`
	OrgWebsite     string `json:"org_website,omitempty"`
	PSAAngle       string `json:"psa_angle,omitempty"`
	EventName      string `json:"event_name,omitempty"`
	Source         string `json:"source"`
}

// Selector holds the static roster and calendar plus the state store the
// rotation path persists through. Construct once at process start; there is
// no hidden cached config behind it.
type Selector struct {
	Orgs          []rotation.Organization
	Events        []rotation.Event
	States        *rotation.StateStore
	LookaheadDays int
	MinDays       int
}

func NewSelector(orgs []rotation.Organization, events []rotation.Event, states *rotation.StateStore) *Selector {
	return &Selector{
		Orgs:          orgs,
		Events:        events,
		States:        states,
		LookaheadDays: rotation.DefaultLookaheadDays,
		MinDays:       rotation.DefaultMinDays,
	}
}

// Select returns today's spotlight, or nil when no organization is assigned
// to today's weekday (a normal quiet day, not an error).
//
// The event path is a side-channel override: it touches no rotation state,
// so an awareness day never desynchronizes the fair rotation for that
// weekday. Only the rotation path mutates and persists state.
func (s *Selector) Select(today time.Time) (*Selection, error) {
	weekday := rotation.WeekdayIndex(today)
	roster := rotation.RosterFor(weekday, s.Orgs)
	if len(roster) == 0 {
		logger.Info("no organizations assigned to weekday, skipping spotlight", "weekday", weekday)
		return nil, nil
	}

	active := rotation.FindActive(today, s.Events, s.LookaheadDays)
	if m, ok := rotation.MatchToRoster(active, roster); ok {
		logger.Info("event-driven spotlight",
			"event", m.Event.Name, "org", m.Org.ID)
		sel := fromOrg(m.Org)
		sel.PSAAngle = m.Angle
		sel.EventName = m.Event.Name
		sel.Source = SourceEvent
		return sel, nil
	}

	st := s.States.Load()
	org, ok := rotation.SelectRotation(weekday, roster, st, today, s.MinDays)
	if !ok {
		return nil, nil
	}
	if err := s.States.Save(st); err != nil {
		return nil, fmt.Errorf("persist rotation state: %w", err)
	}

	logger.Info("rotation spotlight", "org", org.ID, "weekday", weekday)
	sel := fromOrg(org)
	sel.Source = SourceRotation
	return sel, nil
}

func fromOrg(org rotation.Organization) *Selection {
	return &Selection{
		OrgID:          org.ID,
		OrgName:        org.Name,
		OrgShortName:   org.ShortName,
		OrgDescription: org.Description,
		OrgWebsite:     org.Website,
	}
}
