// Package formatter serializes log entries into outbound payloads.
//
// JSONFormatter produces a single JSON object per entry and is the
// default wire format for the queue and notification publishing
// handlers. TextFormatter produces a human-readable line and is the
// default for console output.
package formatter
