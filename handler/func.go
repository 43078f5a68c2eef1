package handler

import (
	"github.com/philipp01105/failsafe-logging/core"
)

// FuncHandler wraps a plain function as a Handler. It is the simplest
// way to turn an existing callback, client method, or test probe into
// a log sink.
type FuncHandler struct {
	fn func(entry *core.Entry) error
}

// NewFuncHandler creates a handler that calls fn for every entry.
// The function must be safe for concurrent calls.
func NewFuncHandler(fn func(entry *core.Entry) error) *FuncHandler {
	return &FuncHandler{fn: fn}
}

// Handle invokes the wrapped function
func (h *FuncHandler) Handle(entry *core.Entry) error {
	return h.fn(entry)
}

// CanRecycleEntry returns true; the wrapped function must not retain the entry
func (h *FuncHandler) CanRecycleEntry() bool {
	return true
}

// Close is a no-op
func (h *FuncHandler) Close() error {
	return nil
}
