package failsafehandler

import (
	"errors"
)

var (
	// ErrSlotWait is returned inside a failure outcome when no dispatch
	// slot became free within the configured slot-wait deadline.
	ErrSlotWait = errors.New("failsafehandler: slot wait deadline exceeded")

	// ErrHandlerPanic wraps a panic recovered from a wrapped handler.
	ErrHandlerPanic = errors.New("failsafehandler: handler panicked")
)

// Status classifies the result of one dispatch attempt
type Status int

const (
	// StatusSuccess means the handler delivered the entry within the deadline
	StatusSuccess Status = iota
	// StatusFailure means the handler returned an error or panicked
	StatusFailure
	// StatusTimeout means the handler did not complete within the deadline
	StatusTimeout
)

// String returns the string representation of the status
func (s Status) String() string {
	switch s {
	case StatusSuccess:
		return "success"
	case StatusFailure:
		return "failure"
	case StatusTimeout:
		return "timeout"
	default:
		return "unknown"
	}
}

// Outcome is the tri-state result of one dispatch attempt. Err carries
// the cause for StatusFailure and is nil otherwise.
type Outcome struct {
	Status Status
	Err    error
}
