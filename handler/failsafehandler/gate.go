package failsafehandler

import (
	"sync"
	"time"
)

// GateState reports whether the wrapped handler is currently eligible
// to receive calls.
type GateState int

const (
	// Admitted means the handler receives calls normally
	Admitted GateState = iota
	// Suspended means the handler is bypassed until the suspension expires
	Suspended
)

// String returns the string representation of the state
func (s GateState) String() string {
	switch s {
	case Admitted:
		return "admitted"
	case Suspended:
		return "suspended"
	default:
		return "unknown"
	}
}

// healthGate tracks recent timeouts for one wrapped handler and decides
// whether it is admitted. A run of threshold consecutive timeouts trips
// a suspension lasting suspendFor; expiry is lazy, checked on every
// observe and admitted call, so no background timer is needed. A single
// success or failure resets the timeout run, which keeps a handler that
// was merely slow once from being evicted.
type healthGate struct {
	mu                  sync.Mutex
	threshold           int
	suspendFor          time.Duration
	consecutiveTimeouts int
	suspendedUntil      time.Time
	state               GateState
}

func newHealthGate(threshold int, suspendFor time.Duration) *healthGate {
	return &healthGate{
		threshold:  threshold,
		suspendFor: suspendFor,
		state:      Admitted,
	}
}

// observe feeds one dispatch outcome into the gate. Returns true when
// this observation tripped a new suspension.
func (g *healthGate) observe(outcome Outcome, now time.Time) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.expireLocked(now)

	if outcome.Status != StatusTimeout {
		g.consecutiveTimeouts = 0
		return false
	}

	g.consecutiveTimeouts++
	if g.consecutiveTimeouts < g.threshold {
		return false
	}

	g.state = Suspended
	g.suspendedUntil = now.Add(g.suspendFor)
	// the next admission window starts with a clean run
	g.consecutiveTimeouts = 0
	return true
}

// admitted reports whether the handler may be called at time now.
func (g *healthGate) admitted(now time.Time) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.expireLocked(now)
	return g.state == Admitted
}

// reset reinstates the handler immediately and clears timeout history.
func (g *healthGate) reset() {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.state = Admitted
	g.suspendedUntil = time.Time{}
	g.consecutiveTimeouts = 0
}

// expireLocked applies lazy suspension expiry. Callers hold g.mu.
func (g *healthGate) expireLocked(now time.Time) {
	if g.state == Suspended && !g.suspendedUntil.After(now) {
		g.state = Admitted
		g.suspendedUntil = time.Time{}
	}
}
