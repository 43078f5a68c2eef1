package failsafehandler

import (
	"fmt"
	"sync"
	"time"

	"github.com/philipp01105/failsafe-logging/core"
	"github.com/philipp01105/failsafe-logging/handler"
)

// dispatcher runs handler calls on a bounded pool of slots. A slot is
// acquired before the call starts and released only when the call
// returns, even if the caller stopped waiting for it. A stuck
// downstream call therefore keeps its slot occupied, which is the
// signal the health gate consumes.
type dispatcher struct {
	slots    chan struct{} // one token per free slot
	slotWait time.Duration // 0 means wait forever
	inflight sync.WaitGroup
}

func newDispatcher(maxConcurrency int, slotWait time.Duration) *dispatcher {
	d := &dispatcher{
		slots:    make(chan struct{}, maxConcurrency),
		slotWait: slotWait,
	}
	for i := 0; i < maxConcurrency; i++ {
		d.slots <- struct{}{}
	}
	return d
}

// acquire obtains a dispatch slot, waiting up to the slot-wait
// deadline. Returns false when the deadline elapsed first.
func (d *dispatcher) acquire() bool {
	if d.slotWait <= 0 {
		<-d.slots
		return true
	}

	select {
	case <-d.slots:
		return true
	default:
	}

	timer := time.NewTimer(d.slotWait)
	defer timer.Stop()
	select {
	case <-d.slots:
		return true
	case <-timer.C:
		return false
	}
}

// submit runs target.Handle(entry) on a worker goroutine and waits up
// to deadline for it to finish. A deadline of zero means no waiting:
// the outcome is a timeout unless the call already completed.
func (d *dispatcher) submit(target handler.Handler, entry *core.Entry, deadline time.Duration) Outcome {
	if !d.acquire() {
		return Outcome{Status: StatusFailure, Err: ErrSlotWait}
	}

	done := make(chan error, 1)
	d.inflight.Add(1)
	go func() {
		defer d.inflight.Done()
		done <- safeHandle(target, entry)
		d.slots <- struct{}{} // slot is held until the call actually returns
	}()

	if deadline <= 0 {
		select {
		case err := <-done:
			return classify(err)
		default:
			return Outcome{Status: StatusTimeout}
		}
	}

	timer := time.NewTimer(deadline)
	defer timer.Stop()
	select {
	case err := <-done:
		return classify(err)
	case <-timer.C:
		return Outcome{Status: StatusTimeout}
	}
}

// drain waits for all in-flight calls to return, up to timeout.
// Returns false when the grace period elapsed and calls were abandoned.
func (d *dispatcher) drain(timeout time.Duration) bool {
	settled := make(chan struct{})
	go func() {
		d.inflight.Wait()
		close(settled)
	}()

	timer := time.NewTimer(timeout)
	defer timer.Stop()
	select {
	case <-settled:
		return true
	case <-timer.C:
		return false
	}
}

func classify(err error) Outcome {
	if err != nil {
		return Outcome{Status: StatusFailure, Err: err}
	}
	return Outcome{Status: StatusSuccess}
}

// safeHandle invokes the handler, converting a panic into an error.
func safeHandle(target handler.Handler, entry *core.Entry) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrHandlerPanic, r)
		}
	}()
	return target.Handle(entry)
}
