// Package handler defines the Handler interface that every log sink
// implements, plus a small set of building-block handlers.
//
// Built-in handlers:
//
//   - FuncHandler wraps a plain function as a handler; the simplest way
//     to adapt an existing callback or client call into a sink.
//   - ConsoleHandler writes formatted entries synchronously to an
//     io.Writer (default: stdout). It is intended as a last-resort
//     fallback that cannot hang on a remote dependency.
//   - MultiHandler fans a single entry out to multiple child handlers,
//     which allows several fallback sinks to be composed into one.
//
// The resilience wrapper lives in the failsafehandler subpackage;
// remote sinks live in the amqphandler and redishandler subpackages.
//
// Handlers track their delivery counters via the Stats type, which can
// be queried at runtime for monitoring.
package handler
