package briefing

import (
	"sync"
	"time"

	"github.com/minsukang/dailybrief/pkg/utils"
)

// RunGate enforces at most one briefing run per KST calendar day.
// The state is in-memory only; a process restart clears it.
type RunGate struct {
	mu      sync.Mutex
	lastRun time.Time
	now     func() time.Time
}

// GateOption configures a RunGate.
type GateOption func(*RunGate)

// WithGateClock overrides the gate's clock (used in tests).
func WithGateClock(now func() time.Time) GateOption {
	return func(g *RunGate) { g.now = now }
}

// NewRunGate creates a gate with no prior run recorded.
func NewRunGate(opts ...GateOption) *RunGate {
	g := &RunGate{now: utils.NowKST}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// TryAcquire claims today's run slot. It returns false when a run has
// already happened today and force is not set. On success the slot is
// marked claimed immediately, before the caller does any work, so a
// concurrent trigger cannot double-run. The returned date is today's
// KST calendar date either way.
func (g *RunGate) TryAcquire(force bool) (bool, string) {
	g.mu.Lock()
	defer g.mu.Unlock()

	now := g.now()
	date := utils.DateKST(now)
	if !force && !g.lastRun.IsZero() && utils.SameDayKST(g.lastRun, now) {
		return false, date
	}
	g.lastRun = now
	return true, date
}

// LastRun returns the time of the most recent acquired run, zero if none.
func (g *RunGate) LastRun() time.Time {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.lastRun
}
