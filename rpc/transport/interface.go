package transport

import (
	"github.com/ValentinKolb/zcrpc/lib/iovec"
	"github.com/ValentinKolb/zcrpc/rpc/common"
)

// --------------------------------------------------------------------------
// Server Transport
// --------------------------------------------------------------------------

// ServerHandleFunc handles one request frame. req holds the request payload
// and is only valid until the response has been written, which allows the
// response vector to reference request memory. The returned method id is sent
// back with the response.
type ServerHandleFunc func(method uint64, req *iovec.Source) (respMethod uint64, resp *iovec.Vector)

// IRPCServerTransport is the interface for the RPC transport layer
type IRPCServerTransport interface {
	// RegisterHandler registers the handler called for every request
	RegisterHandler(handler ServerHandleFunc)
	// Listen starts the transport and blocks until it is closed or fails
	Listen(config common.ServerConfig) error
	// Close stops listening and makes Listen return
	Close() error
}

// --------------------------------------------------------------------------
// Client Transport
// --------------------------------------------------------------------------

// IRPCClientTransport is the interface for the RPC client transport
type IRPCClientTransport interface {
	// Connect initializes the transport with the given configuration
	Connect(config common.ClientConfig) error
	// Send writes the segments of req as one frame and waits for the response
	// frame. The request segments are written in place, never concatenated.
	Send(method uint64, req *iovec.Vector) (respMethod uint64, resp []byte, err error)
	// Close closes the transport connection
	Close() error
}
