// Package core defines the shared types used across the failsafe
// logging handlers.
//
// It provides the Level type for severity classification, the Entry type
// that represents a single log record as it travels through the dispatch
// layer, and the Field type for structured key-value pairs.
//
// Entry objects are pooled via sync.Pool. Callers get an Entry with
// GetEntry and must return it with PutEntry once every handler is done
// with it. Handlers that hand the entry to a background worker (such as
// the failsafe dispatcher) report CanRecycleEntry() == false, in which
// case the entry must not be recycled by the caller.
//
// The Clock interface abstracts the time source so that suspension and
// expiry logic can be tested deterministically. SystemClock is the
// production implementation; CoarseClock trades precision for a cheaper
// read on hot logging paths.
package core
