package ratelimit

import (
	"sync"

	"github.com/zirnhelt/curated-podcast-generator/internal/logger"
)

// Budget caps the number of outbound lookups a single run may spend, so a
// huge candidate batch can't turn one batch job into a crawl.
type Budget struct {
	mu   sync.Mutex
	name string
	used int
	max  int // 0 = unlimited
}

func NewBudget(name string, max int) *Budget {
	return &Budget{name: name, max: max}
}

// Allow consumes one unit of budget. Returns false once the cap is reached.
func (b *Budget) Allow() bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.max > 0 && b.used >= b.max {
		logger.Warn("budget exhausted", "budget", b.name, "max", b.max)
		return false
	}
	b.used++
	return true
}

// Used reports how much budget the run has consumed so far.
func (b *Budget) Used() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.used
}
