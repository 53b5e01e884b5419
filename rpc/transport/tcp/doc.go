// Package tcp implements the TCP socket transport of the RPC system. It
// provides the tcp specific connectors for the base package, which carries
// the framing, connection pooling and request correlation.
//
// Key Components:
//
//   - clientConnector: dials tcp endpoints and applies SocketConf and TCPConf
//     to every established connection
//
//   - serverConnector: creates the tcp listener and applies the same options
//     to accepted connections
//
// Request frames are written with one vectored write per frame, so the
// segments of a serialized message reach the socket without being copied
// into a contiguous buffer first.
package tcp
