package rotation

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/zirnhelt/curated-podcast-generator/internal/logger"
)

// SchemaVersion guards the persisted state layout. A state file written by
// an incompatible version loads as fresh state instead of being
// misinterpreted.
const SchemaVersion = 1

const dateLayout = "2006-01-02"

// State is the rotation engine's only durable mutable state: the last
// selected roster index per weekday, and the last air date per organization.
type State struct {
	SchemaVersion int               `json:"schemaVersion"`
	Rotation      map[string]int    `json:"rotationIndex"`
	LastAired     map[string]string `json:"lastAired"`
}

func NewState() *State {
	return &State{
		SchemaVersion: SchemaVersion,
		Rotation:      make(map[string]int),
		LastAired:     make(map[string]string),
	}
}

// LastAiredDate returns the parsed last air date for an org, if recorded.
// A malformed entry counts as never aired.
func (s *State) LastAiredDate(orgID string) (time.Time, bool) {
	raw, ok := s.LastAired[orgID]
	if !ok {
		return time.Time{}, false
	}
	t, err := time.Parse(dateLayout, raw)
	if err != nil {
		logger.Warn("ignoring malformed lastAired entry", "org", orgID, "value", raw)
		return time.Time{}, false
	}
	return t, true
}

// StateStore reads and writes rotation state as a single JSON file.
type StateStore struct {
	path string
}

func NewStateStore(path string) *StateStore {
	return &StateStore{path: path}
}

// Load returns the persisted state, or fresh empty state when the file is
// absent, unreadable, malformed, or carries a different schema version.
// Stale rotation state only costs a slightly unfair rotation, so every
// failure mode self-heals.
func (ss *StateStore) Load() *State {
	data, err := os.ReadFile(ss.path)
	if err != nil {
		if !os.IsNotExist(err) {
			logger.Warn("rotation state unreadable, starting fresh", "path", ss.path, "error", err)
		}
		return NewState()
	}

	var st State
	if err := json.Unmarshal(data, &st); err != nil {
		logger.Warn("rotation state malformed, starting fresh", "path", ss.path, "error", err)
		return NewState()
	}
	if st.SchemaVersion != SchemaVersion {
		logger.Warn("rotation state schema mismatch, starting fresh",
			"path", ss.path, "have", st.SchemaVersion, "want", SchemaVersion)
		return NewState()
	}

	if st.Rotation == nil {
		st.Rotation = make(map[string]int)
	}
	if st.LastAired == nil {
		st.LastAired = make(map[string]string)
	}
	return &st
}

// Save writes state atomically: temp file in the same directory, then rename.
func (ss *StateStore) Save(st *State) error {
	if err := os.MkdirAll(filepath.Dir(ss.path), 0755); err != nil {
		return fmt.Errorf("create state dir: %w", err)
	}

	st.SchemaVersion = SchemaVersion
	data, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal rotation state: %w", err)
	}

	tmp := ss.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("write rotation state: %w", err)
	}
	if err := os.Rename(tmp, ss.path); err != nil {
		return fmt.Errorf("finalize rotation state: %w", err)
	}
	return nil
}
