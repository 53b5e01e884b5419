// Package common provides the data structures shared by the RPC client, server
// and transports.
//
// The package focuses on:
//   - The protocol: method ids and the request/response messages, all built on
//     lib/serial so payloads travel without being copied
//   - Configuration structures for client and server components
//   - Custom logging implementation integrated with the dragonboat logger
//
// Key Components:
//
//   - Header: embedded in every message. Carries the client chosen sequence
//     number and the outcome of a request.
//
//   - EchoRequest/EchoResponse: the echo service. The response forwards the
//     request's payload segments by reference, so an echo never copies the
//     payload on the server.
//
//   - SumRequest/SumResponse, InfoRequest/InfoResponse: small typed services
//     exercising array views, fixed views and scalars.
//
//   - ErrorResponse: sent with MethodError when a request could not be decoded
//     or its response would not fit the configured segment limit.
//
//   - ServerConfig/ClientConfig: configuration with pretty printers.
//
//   - Logger: a dragonboat logger.ILogger with consistent formatting across the
//     application.
package common
