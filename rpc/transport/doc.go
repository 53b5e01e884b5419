// Package transport defines the interfaces for carrying scatter-gather frames
// between RPC clients and servers. It provides a common contract that all
// transport implementations must fulfill, enabling protocol-agnostic
// communication.
//
// The package focuses on:
//   - Defining clear interfaces for client and server transport layers
//   - Routing requests by method id
//   - Enabling multiple transport implementations (HTTP, TCP, Unix sockets)
//
// Key Components:
//
//   - IRPCClientTransport: Interface for client-side transport implementations that
//     handles connection management and request sending. Requests are handed over
//     as an iovec.Vector and written with a single vectored write.
//
//   - IRPCServerTransport: Interface for server-side transport implementations that
//     receives requests and routes them to the registered handler.
//
//   - ServerHandleFunc: Function type for request handling callbacks. Requests are
//     presented as an iovec.Source so the handler can deserialize them in place.
package transport
