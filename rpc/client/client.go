package client

import (
	"errors"
	"fmt"
	"github.com/ValentinKolb/zcrpc/lib/iovec"
	"github.com/ValentinKolb/zcrpc/lib/serial"
	"github.com/ValentinKolb/zcrpc/rpc/common"
	"github.com/ValentinKolb/zcrpc/rpc/transport"
	"github.com/lni/dragonboat/v4/logger"
	"sync/atomic"
)

var (
	Logger = logger.GetLogger("client")
)

// ErrUnexpectedMethod is returned when the server answers with a method that
// does not belong to the request
var ErrUnexpectedMethod = errors.New("unexpected response method")

// RPCClient calls the services of an RPC server
type RPCClient struct {
	config    common.ClientConfig
	transport transport.IRPCClientTransport
	seq       atomic.Uint64
}

// NewRPCClient connects transport and returns a client using it
func NewRPCClient(config common.ClientConfig, transport transport.IRPCClientTransport) (*RPCClient, error) {
	if err := transport.Connect(config); err != nil {
		return nil, err
	}
	return &RPCClient{
		config:    config,
		transport: transport,
	}, nil
}

// --------------------------------------------------------------------------
// Services
// --------------------------------------------------------------------------

// Echo sends note and payload to the server and returns its answer. The
// payload segments are written to the connection as they are.
func (c *RPCClient) Echo(note string, payload ...[]byte) (*common.EchoResponse, error) {
	return invoke[common.EchoResponse](c, common.MethodEcho, common.NewEchoRequest(note, payload...))
}

// Sum lets the server add up values
func (c *RPCClient) Sum(values []uint64) (*common.SumResponse, error) {
	return invoke[common.SumResponse](c, common.MethodSum, common.NewSumRequest(values))
}

// Info asks the server to describe itself
func (c *RPCClient) Info() (*common.InfoResponse, error) {
	return invoke[common.InfoResponse](c, common.MethodInfo, &common.InfoRequest{})
}

// Close closes the underlying transport
func (c *RPCClient) Close() error {
	return c.transport.Close()
}

// --------------------------------------------------------------------------
// Helper
// --------------------------------------------------------------------------

// invoke sends req and decodes the response into a Resp. An ErrorResponse
// from the server becomes an error carrying the server's message.
func invoke[Resp any, P interface {
	*Resp
	common.Headed
}](c *RPCClient, method common.MethodID, req common.Headed) (*Resp, error) {
	seq := c.seq.Add(1)
	req.Head().Seq = seq

	iov, err := serial.Encode(req)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize %s request: %w", method, err)
	}

	respMethod, data, err := c.transport.Send(uint64(method), iov)
	if err != nil {
		return nil, err
	}
	Logger.Debugf("%s: sent %d bytes in %d segments, received %d bytes", method, iov.Sum(), iov.Len(), len(data))

	src := iovec.NewSource(data)
	switch common.MethodID(respMethod) {
	case method:
	case common.MethodError:
		d := serial.NewDeserializer(src)
		errResp := serial.Deserialize[common.ErrorResponse](d)
		if errResp == nil || d.Failed() {
			return nil, fmt.Errorf("%s failed with an undecodable error response: %w", method, d.Err())
		}
		if err := errResp.Failure(); err != nil {
			return nil, fmt.Errorf("%s failed: %w", method, err)
		}
		return nil, fmt.Errorf("%s failed without a reason", method)
	default:
		return nil, fmt.Errorf("%w: %s, expected %s", ErrUnexpectedMethod, common.MethodID(respMethod), method)
	}

	d := serial.NewDeserializer(src)
	resp := serial.Deserialize[Resp, P](d)
	if resp == nil || d.Failed() {
		return nil, fmt.Errorf("failed to deserialize %s response: %w", method, d.Err())
	}

	if got := P(resp).Head().Seq; got != seq {
		Logger.Warningf("%s: response sequence %d does not match request %d", method, got, seq)
	}
	if err := P(resp).Head().Failure(); err != nil {
		return nil, fmt.Errorf("%s failed: %w", method, err)
	}
	return resp, nil
}
