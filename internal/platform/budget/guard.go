package budget

import (
	"sync"
	"time"
)

// Guard enforces a rolling-window ceiling on upstream API calls. Every
// network call acquires one slot; slots free up as their timestamps age
// out of the window. One Guard instance is shared by every call site in
// the process.
type Guard struct {
	mu sync.Mutex

	limit  int
	window time.Duration

	calls []time.Time
	now   func() time.Time
}

func NewGuard(limit int, window time.Duration) *Guard {
	if limit < 1 {
		limit = 1
	}
	if window <= 0 {
		window = 24 * time.Hour
	}

	return &Guard{
		limit:  limit,
		window: window,
		calls:  make([]time.Time, 0, limit),
		now:    time.Now,
	}
}

// TryAcquire consumes one call slot if the window has room. The prune,
// check and append happen under one lock so concurrent callers can never
// overshoot the limit.
func (g *Guard) TryAcquire() bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.prune(g.now())
	if len(g.calls) >= g.limit {
		return false
	}

	g.calls = append(g.calls, g.now())
	return true
}

// Remaining reports how many slots are free right now. The value is
// advisory: another caller may take a slot between Remaining and
// TryAcquire.
func (g *Guard) Remaining() int {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.prune(g.now())
	return g.limit - len(g.calls)
}

func (g *Guard) Limit() int {
	return g.limit
}

func (g *Guard) Window() time.Duration {
	return g.window
}

// prune drops timestamps that have aged out of the window. Calls are
// appended in order, so the slice stays sorted and a prefix cut suffices.
func (g *Guard) prune(now time.Time) {
	cutoff := now.Add(-g.window)
	kept := 0
	for kept < len(g.calls) && !g.calls[kept].After(cutoff) {
		kept++
	}
	if kept > 0 {
		g.calls = append(g.calls[:0], g.calls[kept:]...)
	}
}
