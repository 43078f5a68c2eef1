package handler

import (
	"github.com/philipp01105/failsafe-logging/core"
)

// Handler defines the interface for log handlers. Handle must be safe
// to call concurrently.
type Handler interface {
	// Handle delivers a log entry to the handler's destination
	Handle(entry *core.Entry) error

	// Close closes the handler and releases resources
	Close() error
}

// Recycler is an optional interface handlers implement to report
// whether the caller may return the entry to the pool once Handle
// returns. Handlers that keep a reference past the Handle call (for
// example by passing it to a background worker) must report false.
type Recycler interface {
	CanRecycleEntry() bool
}
