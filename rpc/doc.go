// Package rpc provides a remote procedure call system whose messages travel
// as scatter-gather segment lists. Requests and responses are serialized with
// lib/serial, so large payload fields are written to the socket in place and
// decoded as views into the received buffer.
//
// The package is organized into several subpackages:
//
//   - common: the protocol (method ids, request and response messages),
//     configuration structures and logging.
//
//   - transport: network abstractions with pluggable implementations (TCP,
//     Unix sockets, HTTP). Frames are written with vectored writes.
//
//   - server: the method registry, the echo, sum and info services and the
//     Prometheus metrics.
//
//   - client: the typed client for the services of the server.
package rpc
