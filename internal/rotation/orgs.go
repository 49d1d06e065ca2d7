package rotation

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// Organization is one community organization in the rotation roster.
// Static configuration; eligibility on a date is purely weekday membership.
type Organization struct {
	ID          string   `json:"-"`
	Name        string   `json:"name"`
	ShortName   string   `json:"short_name"`
	Description string   `json:"description"`
	Website     string   `json:"website,omitempty"`
	Weekdays    []int    `json:"weekdays"`
	Tags        []string `json:"tags"`
}

// LoadOrganizations reads the organization roster config. The JSON object's
// key order is preserved: roster order is what makes round robin and
// "first eligible" event matching deterministic.
func LoadOrganizations(path string) ([]Organization, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read organizations config: %w", err)
	}

	var raw struct {
		Organizations json.RawMessage `json:"organizations"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse organizations config: %w", err)
	}

	orgs, err := decodeOrderedOrgs(raw.Organizations)
	if err != nil {
		return nil, fmt.Errorf("parse organizations config: %w", err)
	}

	for _, org := range orgs {
		for _, d := range org.Weekdays {
			if d < 0 || d > 6 {
				return nil, fmt.Errorf("organization %q: weekday %d out of range", org.ID, d)
			}
		}
	}
	return orgs, nil
}

// decodeOrderedOrgs walks the object token by token because
// encoding/json maps do not preserve key order.
func decodeOrderedOrgs(data []byte) ([]Organization, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, fmt.Errorf("organizations must be a JSON object")
	}

	var orgs []Organization
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		id, ok := keyTok.(string)
		if !ok {
			return nil, fmt.Errorf("unexpected key token %v", keyTok)
		}
		var org Organization
		if err := dec.Decode(&org); err != nil {
			return nil, fmt.Errorf("organization %q: %w", id, err)
		}
		org.ID = id
		orgs = append(orgs, org)
	}
	return orgs, nil
}

// RosterFor returns the organizations eligible on a weekday (0=Monday),
// in roster order.
func RosterFor(weekday int, orgs []Organization) []Organization {
	var roster []Organization
	for _, org := range orgs {
		for _, d := range org.Weekdays {
			if d == weekday {
				roster = append(roster, org)
				break
			}
		}
	}
	return roster
}

// WeekdayIndex maps a time to the 0=Monday .. 6=Sunday convention the
// roster and state files use.
func WeekdayIndex(t time.Time) int {
	return (int(t.Weekday()) + 6) % 7
}
