// Package amqphandler provides a handler that publishes log entries
// to an AMQP exchange, one message per entry.
//
// The handler is transport-thin: connection and channel setup,
// credentials, and exchange/queue topology are owned by the caller,
// who injects an open channel. Publishing a record is a single
// blocking broker round trip, so in production this handler is meant
// to be wrapped in a failsafehandler.FailsafeHandler rather than
// registered directly.
package amqphandler
