package metrics

import (
	"sync"
	"time"
)

type Metrics struct {
	mu sync.RWMutex

	// Counters
	CandidatesFetched  int64
	DuplicatesDropped  int64
	EvolvingStories    int64
	FreshKept          int64
	EventSelections    int64
	RotationSelections int64
	ResolveAttempts    int64
	ResolveFailures    int64

	// Timings
	LastRunDuration time.Duration

	// Status
	LastRunTime   time.Time
	LastErrorTime time.Time
	LastError     string
	IsHealthy     bool
}

var Global = &Metrics{IsHealthy: true}

func (m *Metrics) AddCandidatesFetched(n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CandidatesFetched += int64(n)
}

func (m *Metrics) RecordDedup(kept, evolving, dropped int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.FreshKept += int64(kept - evolving)
	m.EvolvingStories += int64(evolving)
	m.DuplicatesDropped += int64(dropped)
}

func (m *Metrics) IncrementEventSelections() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.EventSelections++
}

func (m *Metrics) IncrementRotationSelections() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.RotationSelections++
}

func (m *Metrics) IncrementResolveAttempts() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ResolveAttempts++
}

func (m *Metrics) IncrementResolveFailures() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ResolveFailures++
}

func (m *Metrics) SetLastRun(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.LastRunTime = time.Now()
	m.LastRunDuration = d
	m.IsHealthy = true
}

func (m *Metrics) SetError(err string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.LastError = err
	m.LastErrorTime = time.Now()
	m.IsHealthy = false
}

func (m *Metrics) GetStats() map[string]interface{} {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return map[string]interface{}{
		"candidates_fetched":   m.CandidatesFetched,
		"duplicates_dropped":   m.DuplicatesDropped,
		"evolving_stories":     m.EvolvingStories,
		"fresh_kept":           m.FreshKept,
		"event_selections":     m.EventSelections,
		"rotation_selections":  m.RotationSelections,
		"resolve_attempts":     m.ResolveAttempts,
		"resolve_failures":     m.ResolveFailures,
		"last_run_duration_ms": m.LastRunDuration.Milliseconds(),
		"last_run_time":        m.LastRunTime.Format(time.RFC3339),
		"last_error_time":      m.LastErrorTime.Format(time.RFC3339),
		"last_error":           m.LastError,
		"is_healthy":           m.IsHealthy,
	}
}
