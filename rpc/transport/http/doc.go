// Package http implements an HTTP based transport for the RPC system. Every
// request is a POST to /{method} whose body is the concatenated segment
// stream of the request message. The response body carries the response
// segments and the X-Zcrpc-Method header names the response method.
//
// Key Components:
//
//   - httpClientTransport: implements IRPCClientTransport with round-robin
//     selection across endpoints and a fixed number of retries. The request
//     body is read straight from the segment vector.
//
//   - httpServerTransport: implements IRPCServerTransport on a net/http server
//     and writes response segments with a vectored write. With log level
//     "debug" every request is logged by a middleware.
//
// The client transport is safe for concurrent use.
package http
