package failsafehandler

import (
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/philipp01105/failsafe-logging/core"
	"github.com/philipp01105/failsafe-logging/handler"
)

// FailsafeHandler wraps a primary handler so that its failures cannot
// reach the application. Every entry is dispatched to the primary on a
// bounded worker pool under a per-call deadline; on error, timeout, or
// while the primary is suspended, the entry goes to the fallback
// handler instead. Handle always returns nil.
type FailsafeHandler struct {
	primary  handler.Handler
	fallback handler.Handler

	dispatcher *dispatcher
	gate       *healthGate
	clock      core.Clock

	deadline     time.Duration
	drainTimeout time.Duration

	stats *handler.Stats
	diag  *zap.Logger

	closeOnce sync.Once
	closeErr  error
}

// Config holds configuration for the failsafe handler
type Config struct {
	// Primary is the wrapped handler (required)
	Primary handler.Handler
	// Fallback receives entries the primary did not deliver. Without a
	// fallback such entries are dropped.
	Fallback handler.Handler
	// MaxConcurrency is the size of the dispatch slot pool (default: 4)
	MaxConcurrency int
	// CallDeadline is the per-call timeout before the dispatch is
	// treated as timed out (default: 1s)
	CallDeadline time.Duration
	// SlotWaitDeadline bounds the wait for a free slot (default: 0,
	// meaning wait indefinitely)
	SlotWaitDeadline time.Duration
	// SuspendThreshold is the number of consecutive timeouts that
	// suspends the primary (default: 3)
	SuspendThreshold int
	// SuspendDuration is how long a suspension lasts (default: 30s)
	SuspendDuration time.Duration
	// DrainTimeout is the grace period Close waits for in-flight
	// dispatches (default: 5s)
	DrainTimeout time.Duration
	// Clock is the time source for suspension logic (default: system
	// clock). A core.CoarseClock keeps the per-call read cheap on hot
	// logging paths.
	Clock core.Clock
	// Diagnostics receives last-resort internal reports such as
	// suspensions and dropped records (default: no-op logger)
	Diagnostics *zap.Logger
}

// New creates a new failsafe handler around cfg.Primary.
func New(cfg Config) (*FailsafeHandler, error) {
	if cfg.Primary == nil {
		return nil, errors.New("failsafehandler: Primary is required")
	}
	if cfg.MaxConcurrency <= 0 {
		cfg.MaxConcurrency = 4
	}
	if cfg.CallDeadline == 0 {
		cfg.CallDeadline = time.Second
	}
	if cfg.SuspendThreshold <= 0 {
		cfg.SuspendThreshold = 3
	}
	if cfg.SuspendDuration <= 0 {
		cfg.SuspendDuration = 30 * time.Second
	}
	if cfg.DrainTimeout <= 0 {
		cfg.DrainTimeout = 5 * time.Second
	}
	if cfg.Clock == nil {
		cfg.Clock = core.SystemClock()
	}
	if cfg.Diagnostics == nil {
		cfg.Diagnostics = zap.NewNop()
	}

	return &FailsafeHandler{
		primary:      cfg.Primary,
		fallback:     cfg.Fallback,
		dispatcher:   newDispatcher(cfg.MaxConcurrency, cfg.SlotWaitDeadline),
		gate:         newHealthGate(cfg.SuspendThreshold, cfg.SuspendDuration),
		clock:        cfg.Clock,
		deadline:     cfg.CallDeadline,
		drainTimeout: cfg.DrainTimeout,
		stats:        handler.NewStats(),
		diag:         cfg.Diagnostics,
	}, nil
}

// Handle delivers an entry through the failsafe path. It never returns
// a non-nil error: a primary failure or timeout routes the entry to the
// fallback, and a fallback failure drops the entry after counting it.
func (h *FailsafeHandler) Handle(entry *core.Entry) error {
	now := h.clock.Now()

	if !h.gate.admitted(now) {
		h.emitFallback(entry, "primary suspended", nil)
		return nil
	}

	outcome := h.dispatcher.submit(h.primary, entry, h.deadline)

	if h.gate.observe(outcome, now) {
		h.stats.IncrementSuspension()
		h.diag.Warn("primary handler suspended after consecutive timeouts",
			zap.Duration("suspend_duration", h.gate.suspendFor))
	}

	switch outcome.Status {
	case StatusSuccess:
		h.stats.IncrementSuccess()
	case StatusFailure:
		h.stats.IncrementFailure()
		h.emitFallback(entry, "primary failed", outcome.Err)
	case StatusTimeout:
		h.stats.IncrementTimeout()
		h.emitFallback(entry, "primary timed out", nil)
	}
	return nil
}

// emitFallback attempts a best-effort fallback delivery. Errors and
// panics from the fallback are absorbed; the entry is then dropped.
func (h *FailsafeHandler) emitFallback(entry *core.Entry, reason string, cause error) {
	if h.fallback == nil {
		h.stats.IncrementDropped()
		h.diag.Warn("record dropped, no fallback configured",
			zap.String("reason", reason), zap.Error(cause))
		return
	}

	h.stats.IncrementFallback()
	if err := safeHandle(h.fallback, entry); err != nil {
		h.stats.IncrementDropped()
		h.diag.Error("fallback handler failed, record dropped",
			zap.String("reason", reason), zap.NamedError("cause", cause), zap.Error(err))
	}
}

// Reset clears the timeout history and reinstates a suspended primary
// immediately.
func (h *FailsafeHandler) Reset() {
	h.gate.reset()
}

// Stats returns a snapshot of the delivery counters.
func (h *FailsafeHandler) Stats() handler.Snapshot {
	return h.stats.GetSnapshot()
}

// CanRecycleEntry returns false: a timed-out dispatch may still hold
// the entry on a worker after Handle returns.
func (h *FailsafeHandler) CanRecycleEntry() bool {
	return false
}

// Close drains in-flight dispatches up to the drain timeout, abandons
// whatever is still stuck, then closes the primary and fallback.
func (h *FailsafeHandler) Close() error {
	h.closeOnce.Do(func() {
		if !h.dispatcher.drain(h.drainTimeout) {
			h.diag.Warn("drain timeout elapsed, abandoning in-flight dispatches")
		}

		h.closeErr = h.primary.Close()
		if h.fallback != nil {
			if err := h.fallback.Close(); err != nil {
				h.closeErr = err
			}
		}
	})
	return h.closeErr
}
