// Package redishandler provides a handler that publishes log entries
// to a Redis pub/sub channel, one message per entry, fanning a record
// out to whatever subscribers are listening.
//
// Client construction, addressing, and authentication are owned by the
// caller, who injects a connected client. Like the AMQP handler, this
// sink blocks on a network round trip per record and is meant to run
// behind a failsafehandler.FailsafeHandler.
package redishandler
