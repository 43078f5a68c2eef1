package handler

import (
	"io"
	"os"
	"sync"

	"github.com/philipp01105/failsafe-logging/core"
	"github.com/philipp01105/failsafe-logging/formatter"
)

// ConsoleHandler writes log entries synchronously to an io.Writer.
// Because it performs only local I/O it cannot hang on a remote
// dependency, which makes it the usual terminal fallback behind a
// failsafe wrapper.
type ConsoleHandler struct {
	writer    io.Writer
	formatter formatter.Formatter
	mu        sync.Mutex
}

// ConsoleConfig holds configuration for the console handler
type ConsoleConfig struct {
	// Writer to write to (default: os.Stdout)
	Writer io.Writer
	// Formatter to use (default: TextFormatter)
	Formatter formatter.Formatter
}

// NewConsoleHandler creates a new console handler
func NewConsoleHandler(cfg ConsoleConfig) *ConsoleHandler {
	if cfg.Writer == nil {
		cfg.Writer = os.Stdout
	}
	if cfg.Formatter == nil {
		cfg.Formatter = formatter.NewTextFormatter(formatter.Config{})
	}
	return &ConsoleHandler{
		writer:    cfg.Writer,
		formatter: cfg.Formatter,
	}
}

// Handle formats and writes an entry
func (h *ConsoleHandler) Handle(entry *core.Entry) error {
	data, err := h.formatter.Format(entry)
	if err != nil {
		return err
	}

	h.mu.Lock()
	_, writeErr := h.writer.Write(data)
	h.mu.Unlock()
	return writeErr
}

// CanRecycleEntry returns true; writes complete before Handle returns
func (h *ConsoleHandler) CanRecycleEntry() bool {
	return true
}

// Close is a no-op; the writer is owned by the caller
func (h *ConsoleHandler) Close() error {
	return nil
}
