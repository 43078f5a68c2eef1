package failsafehandler

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/philipp01105/failsafe-logging/core"
	"github.com/philipp01105/failsafe-logging/handler"
)

// fakeClock is a manually advanced core.Clock.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// countingTarget counts Handle calls and delegates to fn.
type countingTarget struct {
	calls int64
	fn    func(*core.Entry) error
}

func (t *countingTarget) Handle(entry *core.Entry) error {
	atomic.AddInt64(&t.calls, 1)
	if t.fn != nil {
		return t.fn(entry)
	}
	return nil
}

func (t *countingTarget) Close() error { return nil }

func (t *countingTarget) Calls() int64 { return atomic.LoadInt64(&t.calls) }

func TestFailsafeHandler_RequiresPrimary(t *testing.T) {
	_, err := New(Config{})
	assert.Error(t, err)
}

func TestFailsafeHandler_PrimarySuccessSkipsFallback(t *testing.T) {
	primary := &countingTarget{}
	fallback := &countingTarget{}

	h, err := New(Config{Primary: primary, Fallback: fallback})
	require.NoError(t, err)
	defer h.Close()

	require.NoError(t, h.Handle(&core.Entry{Message: "ok"}))

	assert.EqualValues(t, 1, primary.Calls())
	assert.EqualValues(t, 0, fallback.Calls(), "fallback must not run when primary succeeds")
	assert.EqualValues(t, 1, h.Stats().Successes)
}

func TestFailsafeHandler_NeverReturnsError(t *testing.T) {
	release := make(chan struct{})
	defer close(release)

	primaries := map[string]handler.Handler{
		"success": okTarget(),
		"error":   errTarget(errors.New("broken pipe")),
		"panic":   handler.NewFuncHandler(func(*core.Entry) error { panic("boom") }),
		"hang":    hangTarget(release),
	}
	fallbacks := map[string]handler.Handler{
		"nil":     nil,
		"success": okTarget(),
		"error":   errTarget(errors.New("also broken")),
		"panic":   handler.NewFuncHandler(func(*core.Entry) error { panic("boom too") }),
	}

	for pname, primary := range primaries {
		for fname, fallback := range fallbacks {
			h, err := New(Config{
				Primary:      primary,
				Fallback:     fallback,
				CallDeadline: 10 * time.Millisecond,
				DrainTimeout: 10 * time.Millisecond,
			})
			require.NoError(t, err)

			assert.NotPanics(t, func() {
				err := h.Handle(&core.Entry{Message: "record"})
				assert.NoError(t, err, "primary=%s fallback=%s", pname, fname)
			}, "primary=%s fallback=%s", pname, fname)

			h.Close()
		}
	}
}

func TestFailsafeHandler_FailureRoutesToFallback(t *testing.T) {
	primary := &countingTarget{fn: func(*core.Entry) error {
		return errors.New("sink unreachable")
	}}
	fallback := &countingTarget{}

	h, err := New(Config{Primary: primary, Fallback: fallback, SuspendThreshold: 3})
	require.NoError(t, err)
	defer h.Close()

	// failures reset the timeout run, so the gate never suspends no
	// matter how many there are
	for i := 0; i < 10; i++ {
		require.NoError(t, h.Handle(&core.Entry{}))
	}

	assert.EqualValues(t, 10, primary.Calls(), "primary stays admitted through failures")
	assert.EqualValues(t, 10, fallback.Calls())

	snap := h.Stats()
	assert.EqualValues(t, 10, snap.Failures)
	assert.EqualValues(t, 0, snap.Timeouts)
	assert.EqualValues(t, 0, snap.Suspensions)
	assert.EqualValues(t, 10, snap.FallbackInvocations)
}

func TestFailsafeHandler_SuspensionAfterConsecutiveTimeouts(t *testing.T) {
	clock := newFakeClock()
	release := make(chan struct{})

	primary := &countingTarget{fn: func(*core.Entry) error {
		<-release
		return nil
	}}
	fallback := &countingTarget{}

	h, err := New(Config{
		Primary:          primary,
		Fallback:         fallback,
		MaxConcurrency:   8,
		CallDeadline:     15 * time.Millisecond,
		SuspendThreshold: 3,
		SuspendDuration:  30 * time.Second,
		DrainTimeout:     time.Second,
		Clock:            clock,
	})
	require.NoError(t, err)

	// three hanging calls: each times out, the third trips suspension
	for i := 0; i < 3; i++ {
		require.NoError(t, h.Handle(&core.Entry{}))
	}
	snap := h.Stats()
	assert.EqualValues(t, 3, snap.Timeouts)
	assert.EqualValues(t, 1, snap.Suspensions)
	assert.EqualValues(t, 3, fallback.Calls())

	// fourth call arrives within the suspension window: the primary is
	// skipped entirely and only the fallback runs
	clock.Advance(10 * time.Second)
	start := time.Now()
	require.NoError(t, h.Handle(&core.Entry{}))
	assert.Less(t, time.Since(start), 10*time.Millisecond, "suspended path must not wait on the deadline")
	assert.EqualValues(t, 3, primary.Calls(), "primary must not be called while suspended")
	assert.EqualValues(t, 4, fallback.Calls())

	// after the suspension expires the primary is retried automatically
	clock.Advance(30 * time.Second)
	close(release)
	require.NoError(t, h.Handle(&core.Entry{}))
	assert.EqualValues(t, 4, primary.Calls())

	h.Close()
}

func TestFailsafeHandler_ResetReinstatesPrimary(t *testing.T) {
	clock := newFakeClock()
	release := make(chan struct{})

	primary := &countingTarget{fn: func(*core.Entry) error {
		<-release
		return nil
	}}

	h, err := New(Config{
		Primary:          primary,
		CallDeadline:     10 * time.Millisecond,
		SuspendThreshold: 1,
		SuspendDuration:  time.Hour,
		DrainTimeout:     time.Second,
		Clock:            clock,
	})
	require.NoError(t, err)

	require.NoError(t, h.Handle(&core.Entry{}))
	require.NoError(t, h.Handle(&core.Entry{}))
	assert.EqualValues(t, 1, primary.Calls(), "second call must skip the suspended primary")

	h.Reset()
	close(release)
	require.NoError(t, h.Handle(&core.Entry{}))
	assert.EqualValues(t, 2, primary.Calls())

	h.Close()
}

func TestFailsafeHandler_SlotExhaustionRoutesToFallback(t *testing.T) {
	release := make(chan struct{})

	primary := &countingTarget{fn: func(*core.Entry) error {
		<-release
		return nil
	}}
	fallback := &countingTarget{}

	h, err := New(Config{
		Primary:          primary,
		Fallback:         fallback,
		MaxConcurrency:   2,
		CallDeadline:     5 * time.Millisecond,
		SlotWaitDeadline: 20 * time.Millisecond,
		DrainTimeout:     time.Second,
	})
	require.NoError(t, err)

	// occupy both slots with stuck calls
	require.NoError(t, h.Handle(&core.Entry{}))
	require.NoError(t, h.Handle(&core.Entry{}))

	// the pool is exhausted: slot acquisition times out and the entry
	// goes to the fallback as a failure
	require.NoError(t, h.Handle(&core.Entry{}))

	snap := h.Stats()
	assert.EqualValues(t, 2, snap.Timeouts)
	assert.EqualValues(t, 1, snap.Failures)
	assert.EqualValues(t, 3, fallback.Calls())

	close(release)
	h.Close()
}

func TestFailsafeHandler_DroppedWhenFallbackFails(t *testing.T) {
	primary := errTarget(errors.New("primary down"))
	fallback := errTarget(errors.New("fallback down too"))

	h, err := New(Config{Primary: primary, Fallback: fallback})
	require.NoError(t, err)
	defer h.Close()

	require.NoError(t, h.Handle(&core.Entry{}))

	snap := h.Stats()
	assert.EqualValues(t, 1, snap.FallbackInvocations)
	assert.EqualValues(t, 1, snap.Dropped)
}

func TestFailsafeHandler_DroppedWithoutFallback(t *testing.T) {
	h, err := New(Config{Primary: errTarget(errors.New("down"))})
	require.NoError(t, err)
	defer h.Close()

	require.NoError(t, h.Handle(&core.Entry{}))

	snap := h.Stats()
	assert.EqualValues(t, 0, snap.FallbackInvocations)
	assert.EqualValues(t, 1, snap.Dropped)
}

func TestFailsafeHandler_CannotRecycleEntries(t *testing.T) {
	h, err := New(Config{Primary: okTarget()})
	require.NoError(t, err)
	defer h.Close()

	assert.False(t, h.CanRecycleEntry())
}

func TestFailsafeHandler_ConcurrentHandle(t *testing.T) {
	primary := &countingTarget{}
	h, err := New(Config{Primary: primary, MaxConcurrency: 4})
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, h.Handle(&core.Entry{Message: "concurrent"}))
		}()
	}
	wg.Wait()

	assert.EqualValues(t, 50, primary.Calls())
	assert.EqualValues(t, 50, h.Stats().Successes)
	assert.NoError(t, h.Close())
}

func BenchmarkFailsafeHandler(b *testing.B) {
	h, err := New(Config{Primary: okTarget(), MaxConcurrency: 8})
	if err != nil {
		b.Fatal(err)
	}
	defer h.Close()

	entry := &core.Entry{Level: core.InfoLevel, Message: "bench"}

	b.ReportAllocs()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			_ = h.Handle(entry)
		}
	})
}
