package psa

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zirnhelt/curated-podcast-generator/internal/rotation"
)

// Friday 2026-02-06, weekday index 4.
var friday = time.Date(2026, 2, 6, 0, 0, 0, 0, time.UTC)

var testOrgs = []rotation.Organization{
	{ID: "scout-island", Name: "Scout Island Nature Centre", ShortName: "Scout Island",
		Description: "Nature education centre", Website: "scoutisland.ca", Weekdays: []int{4}},
	{ID: "first-journey-trails", Name: "First Journey Trails", ShortName: "First Journey Trails",
		Description: "Trail building", Website: "firstjourneytrails.com", Weekdays: []int{4}},
	{ID: "ccacs", Name: "Central Cariboo Arts & Culture Society", ShortName: "CCACS",
		Description: "Arts and culture", Weekdays: []int{0}},
}

func newTestSelector(t *testing.T, events []rotation.Event) (*Selector, string) {
	t.Helper()
	statePath := filepath.Join(t.TempDir(), "psa_rotation_state.json")
	return NewSelector(testOrgs, events, rotation.NewStateStore(statePath)), statePath
}

func TestSelect_EmptyRosterMeansNoSelection(t *testing.T) {
	s, _ := newTestSelector(t, nil)
	// Wednesday: nobody is assigned.
	wednesday := time.Date(2026, 2, 4, 0, 0, 0, 0, time.UTC)
	sel, err := s.Select(wednesday)
	require.NoError(t, err)
	assert.Nil(t, sel)
}

func TestSelect_EventOverride(t *testing.T) {
	events := []rotation.Event{
		{Name: "Trail Day", StartDate: "02-06", EndDate: "02-06",
			OrganizationID: "first-journey-trails",
			PSAAngle:       "Celebrate Trail Day with {org_name} at {org_website}.",
		},
	}
	s, _ := newTestSelector(t, events)

	sel, err := s.Select(friday)
	require.NoError(t, err)
	require.NotNil(t, sel)
	assert.Equal(t, SourceEvent, sel.Source)
	assert.Equal(t, "first-journey-trails", sel.OrgID)
	assert.Equal(t, "Trail Day", sel.EventName)
	assert.Equal(t, "Celebrate Trail Day with First Journey Trails at firstjourneytrails.com.", sel.PSAAngle)
}

func TestSelect_EventPathUpdatesNoRotationState(t *testing.T) {
	events := []rotation.Event{
		{Name: "Trail Day", StartDate: "02-06", EndDate: "02-06",
			OrganizationID: "first-journey-trails", PSAAngle: "x"},
	}
	s, statePath := newTestSelector(t, events)

	sel, err := s.Select(friday)
	require.NoError(t, err)
	require.Equal(t, SourceEvent, sel.Source)

	// No state file written at all: the override is a side channel.
	_, statErr := os.Stat(statePath)
	assert.True(t, os.IsNotExist(statErr))

	// And the next rotation day is unaffected by the override.
	nextFriday := friday.AddDate(0, 0, 7)
	s.Events = nil
	rotSel, err := s.Select(nextFriday)
	require.NoError(t, err)
	require.NotNil(t, rotSel)
	assert.Equal(t, "scout-island", rotSel.OrgID)
}

func TestSelect_RotationFallbackPersistsState(t *testing.T) {
	s, statePath := newTestSelector(t, nil)

	sel, err := s.Select(friday)
	require.NoError(t, err)
	require.NotNil(t, sel)
	assert.Equal(t, SourceRotation, sel.Source)
	assert.Equal(t, "scout-island", sel.OrgID)
	assert.Empty(t, sel.PSAAngle)
	assert.Empty(t, sel.EventName)

	st := rotation.NewStateStore(statePath).Load()
	assert.Equal(t, 0, st.Rotation["4"])
	assert.Equal(t, "2026-02-06", st.LastAired["scout-island"])
}

func TestSelect_RotationAlternatesAcrossWeeks(t *testing.T) {
	s, _ := newTestSelector(t, nil)

	first, err := s.Select(friday)
	require.NoError(t, err)
	second, err := s.Select(friday.AddDate(0, 0, 7))
	require.NoError(t, err)
	third, err := s.Select(friday.AddDate(0, 0, 14))
	require.NoError(t, err)

	assert.Equal(t, "scout-island", first.OrgID)
	assert.Equal(t, "first-journey-trails", second.OrgID)
	assert.Equal(t, "scout-island", third.OrgID)
}

func TestSelect_EventForOffRosterOrgFallsBackToRotation(t *testing.T) {
	events := []rotation.Event{
		// Targets a Monday org; today is Friday.
		{Name: "Arts Week", StartDate: "02-02", EndDate: "02-08",
			OrganizationID: "ccacs", PSAAngle: "x"},
	}
	s, _ := newTestSelector(t, events)

	sel, err := s.Select(friday)
	require.NoError(t, err)
	require.NotNil(t, sel)
	assert.Equal(t, SourceRotation, sel.Source)
}

func TestSelect_SelectionCarriesOrgFields(t *testing.T) {
	s, _ := newTestSelector(t, nil)
	sel, err := s.Select(friday)
	require.NoError(t, err)
	require.NotNil(t, sel)
	assert.Equal(t, "Scout Island Nature Centre", sel.OrgName)
	assert.Equal(t, "Scout Island", sel.OrgShortName)
	assert.Equal(t, "Nature education centre", sel.OrgDescription)
	assert.Equal(t, "scoutisland.ca", sel.OrgWebsite)
}
