package handler

import (
	"sync/atomic"
)

// Stats tracks delivery counters for a handler. All methods are safe
// for concurrent use.
type Stats struct {
	// Successes counts entries delivered by the primary target
	Successes uint64
	// Failures counts primary deliveries that returned an error or panicked
	Failures uint64
	// Timeouts counts primary deliveries that exceeded the call deadline
	Timeouts uint64
	// Suspensions counts transitions of the primary into the suspended state
	Suspensions uint64
	// FallbackInvocations counts best-effort fallback deliveries
	FallbackInvocations uint64
	// Dropped counts entries lost after the fallback path also failed
	Dropped uint64
}

// NewStats creates a new Stats instance
func NewStats() *Stats {
	return &Stats{}
}

// IncrementSuccess atomically increments the success counter
func (s *Stats) IncrementSuccess() {
	atomic.AddUint64(&s.Successes, 1)
}

// IncrementFailure atomically increments the failure counter
func (s *Stats) IncrementFailure() {
	atomic.AddUint64(&s.Failures, 1)
}

// IncrementTimeout atomically increments the timeout counter
func (s *Stats) IncrementTimeout() {
	atomic.AddUint64(&s.Timeouts, 1)
}

// IncrementSuspension atomically increments the suspension counter
func (s *Stats) IncrementSuspension() {
	atomic.AddUint64(&s.Suspensions, 1)
}

// IncrementFallback atomically increments the fallback counter
func (s *Stats) IncrementFallback() {
	atomic.AddUint64(&s.FallbackInvocations, 1)
}

// IncrementDropped atomically increments the dropped counter
func (s *Stats) IncrementDropped() {
	atomic.AddUint64(&s.Dropped, 1)
}

// Reset resets all counters to zero
func (s *Stats) Reset() {
	atomic.StoreUint64(&s.Successes, 0)
	atomic.StoreUint64(&s.Failures, 0)
	atomic.StoreUint64(&s.Timeouts, 0)
	atomic.StoreUint64(&s.Suspensions, 0)
	atomic.StoreUint64(&s.FallbackInvocations, 0)
	atomic.StoreUint64(&s.Dropped, 0)
}

// Snapshot is a point-in-time copy of the counters
type Snapshot struct {
	Successes           uint64
	Failures            uint64
	Timeouts            uint64
	Suspensions         uint64
	FallbackInvocations uint64
	Dropped             uint64
}

// GetSnapshot returns a snapshot of current statistics
func (s *Stats) GetSnapshot() Snapshot {
	return Snapshot{
		Successes:           atomic.LoadUint64(&s.Successes),
		Failures:            atomic.LoadUint64(&s.Failures),
		Timeouts:            atomic.LoadUint64(&s.Timeouts),
		Suspensions:         atomic.LoadUint64(&s.Suspensions),
		FallbackInvocations: atomic.LoadUint64(&s.FallbackInvocations),
		Dropped:             atomic.LoadUint64(&s.Dropped),
	}
}
