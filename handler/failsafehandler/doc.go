// Package failsafehandler provides a resilience wrapper for log
// handlers. It guards the application against a failing or slow
// downstream sink: the wrapped handler runs on a bounded worker pool
// under a per-call deadline, errors and panics are redirected to a
// fallback handler, and a primary that times out repeatedly is
// suspended for a while and reinstated automatically.
//
// FailsafeHandler.Handle never returns an error and never panics. A
// logging pipeline must not be able to crash or hang the application
// it instruments, so every failure is absorbed: classified into an
// outcome, counted in Stats, and at worst reported on the diagnostics
// logger while the record is dropped.
//
// A timed-out call is not cancelled; downstream clients are not
// assumed to support cancellation, so the worker and its slot stay
// occupied until the call returns on its own. Repeated timeouts can
// therefore exhaust the pool. That pressure is intentional signal: it
// is what trips the suspension gate.
package failsafehandler
