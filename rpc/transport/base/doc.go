// Package base provides the protocol independent part of the stream
// transports (tcp, unix). Protocol specific code is injected through the
// IClientConnector and IServerConnector interfaces.
//
// Every frame starts with a 20 byte big endian header:
//
//	method    uint64
//	requestID uint64
//	length    uint32
//
// followed by length payload bytes. Header and payload segments are written
// with a single vectored write (net.Buffers), so a serialized message leaves
// the process without being gathered into one buffer.
//
// Key Components:
//
//   - clientTransport: manages several connections per endpoint with
//     round-robin selection, correlates responses by request id and retries
//     failed requests with exponential backoff.
//
//   - serverTransport: accepts connections and handles up to WorkersPerConn
//     requests per connection concurrently. Request payloads are read into
//     pooled buffers which are returned once the response has been written,
//     so responses may reference request memory.
//
// All exported methods are safe for concurrent use.
package base
