package core

import (
	"sync/atomic"
	"time"
	"unsafe"
)

// Clock abstracts the time source used by timeout and suspension logic,
// allowing deterministic tests.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time {
	return time.Now()
}

// SystemClock returns the Clock backed by time.Now.
func SystemClock() Clock {
	return systemClock{}
}

// CoarseClock is a Clock that caches time.Now() in the background and
// serves reads from the cache. Resolution is bounded by the refresh
// interval; use it where a cheap Now matters more than precision, such
// as stamping entries on a hot logging path.
type CoarseClock struct {
	now  unsafe.Pointer // *time.Time
	done chan struct{}
}

// NewCoarseClock starts a CoarseClock refreshing every interval.
// The caller must Stop it to release the background goroutine.
func NewCoarseClock(interval time.Duration) *CoarseClock {
	if interval <= 0 {
		interval = 500 * time.Microsecond
	}
	c := &CoarseClock{done: make(chan struct{})}
	t := time.Now()
	atomic.StorePointer(&c.now, unsafe.Pointer(&t))
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				t := time.Now()
				atomic.StorePointer(&c.now, unsafe.Pointer(&t))
			case <-c.done:
				return
			}
		}
	}()
	return c
}

// Now returns the most recently cached time.
func (c *CoarseClock) Now() time.Time {
	return *(*time.Time)(atomic.LoadPointer(&c.now))
}

// Stop terminates the refresh goroutine. Now keeps returning the last
// cached value after Stop.
func (c *CoarseClock) Stop() {
	select {
	case <-c.done:
	default:
		close(c.done)
	}
}
