package failsafehandler

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/philipp01105/failsafe-logging/core"
	"github.com/philipp01105/failsafe-logging/handler"
)

func okTarget() handler.Handler {
	return handler.NewFuncHandler(func(*core.Entry) error { return nil })
}

func errTarget(err error) handler.Handler {
	return handler.NewFuncHandler(func(*core.Entry) error { return err })
}

// hangTarget blocks every Handle call until release is closed.
func hangTarget(release <-chan struct{}) handler.Handler {
	return handler.NewFuncHandler(func(*core.Entry) error {
		<-release
		return nil
	})
}

func TestDispatcher_Success(t *testing.T) {
	d := newDispatcher(2, 0)
	out := d.submit(okTarget(), &core.Entry{}, time.Second)
	assert.Equal(t, StatusSuccess, out.Status)
	assert.NoError(t, out.Err)
}

func TestDispatcher_Failure(t *testing.T) {
	sinkErr := errors.New("connection refused")
	d := newDispatcher(2, 0)
	out := d.submit(errTarget(sinkErr), &core.Entry{}, time.Second)
	assert.Equal(t, StatusFailure, out.Status)
	assert.ErrorIs(t, out.Err, sinkErr)
}

func TestDispatcher_PanicBecomesFailure(t *testing.T) {
	d := newDispatcher(2, 0)
	target := handler.NewFuncHandler(func(*core.Entry) error {
		panic("downstream client bug")
	})
	out := d.submit(target, &core.Entry{}, time.Second)
	assert.Equal(t, StatusFailure, out.Status)
	assert.ErrorIs(t, out.Err, ErrHandlerPanic)
}

func TestDispatcher_Timeout(t *testing.T) {
	release := make(chan struct{})
	defer close(release)

	d := newDispatcher(2, 0)
	start := time.Now()
	out := d.submit(hangTarget(release), &core.Entry{}, 30*time.Millisecond)

	assert.Equal(t, StatusTimeout, out.Status)
	assert.Less(t, time.Since(start), 500*time.Millisecond, "submit must return at the deadline")
}

func TestDispatcher_ZeroDeadlineIsImmediateTimeout(t *testing.T) {
	release := make(chan struct{})
	defer close(release)

	d := newDispatcher(1, 0)
	out := d.submit(hangTarget(release), &core.Entry{}, 0)
	assert.Equal(t, StatusTimeout, out.Status)
}

func TestDispatcher_TimeoutHoldsSlotUntilCallReturns(t *testing.T) {
	release := make(chan struct{})

	d := newDispatcher(1, 10*time.Millisecond)

	out := d.submit(hangTarget(release), &core.Entry{}, 10*time.Millisecond)
	require.Equal(t, StatusTimeout, out.Status)

	// the single slot is still held by the stuck call
	out = d.submit(okTarget(), &core.Entry{}, time.Second)
	assert.Equal(t, StatusFailure, out.Status)
	assert.ErrorIs(t, out.Err, ErrSlotWait)

	// once the stuck call returns, the slot frees up
	close(release)
	require.True(t, d.drain(time.Second))
	out = d.submit(okTarget(), &core.Entry{}, time.Second)
	assert.Equal(t, StatusSuccess, out.Status)
}

func TestDispatcher_PoolExhaustion(t *testing.T) {
	const slots = 3
	release := make(chan struct{})

	d := newDispatcher(slots, 25*time.Millisecond)

	var wg sync.WaitGroup
	for i := 0; i < slots; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			d.submit(hangTarget(release), &core.Entry{}, 5*time.Millisecond)
		}()
	}
	wg.Wait()

	// all slots occupied by stuck calls: the extra submit waits for
	// the slot-wait deadline, then resolves to a failure
	start := time.Now()
	out := d.submit(okTarget(), &core.Entry{}, time.Second)
	elapsed := time.Since(start)

	assert.Equal(t, StatusFailure, out.Status)
	assert.ErrorIs(t, out.Err, ErrSlotWait)
	assert.GreaterOrEqual(t, elapsed, 25*time.Millisecond)

	close(release)
	assert.True(t, d.drain(time.Second))
}

func TestDispatcher_DrainTimeout(t *testing.T) {
	release := make(chan struct{})
	defer close(release)

	d := newDispatcher(1, 0)
	d.submit(hangTarget(release), &core.Entry{}, time.Millisecond)

	assert.False(t, d.drain(20*time.Millisecond), "stuck call must trip the drain grace period")
}
