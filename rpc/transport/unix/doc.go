// Package unix implements the RPC transport over Unix domain sockets for
// processes on the same machine. It extends the base transport with unix
// specific connectors and inherits connection pooling, request correlation
// and retries from it.
//
// The server removes a stale socket file before it listens. Only the kernel
// buffer sizes of SocketConf apply to unix connections.
package unix
