// Package network provides the connection substrate shared by the peers of a
// lobby: every message travels on its own TCP connection.
//
// # Core Components
//
// Transport: Owns the listening socket of a peer, runs its accept loop and
// opens the outbound connections.
//
// # Communication Patterns
//
// Send: Fire-and-forget. The message is written on a new connection from a
// background goroutine and the caller never learns whether it arrived.
//
// Request: Writes one message on a new connection and blocks until exactly
// one reply is read back, the reply timeout expires or the context is
// cancelled.
//
// Serve: Accepts connections until the Transport is closed. Each connection
// is handled concurrently: one message is read, dispatched to the
// message.Handler, the optional reply is written and the connection closed.
//
// # Resource Bounds
//
// The number of outbound connections and of inbound handlers alive at the
// same time are bounded by weighted semaphores. Closing the Transport cancels
// every pending send and request and waits for the handlers to return.
package network
