package base

import (
	"bytes"
	"github.com/ValentinKolb/zcrpc/lib/iovec"
	"github.com/ValentinKolb/zcrpc/rpc/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"net"
	"sync"
	"testing"
	"time"
)

func TestFrameRoundTrip(t *testing.T) {
	client, server := net.Pipe()
	defer client.Close()
	defer server.Close()

	payload := iovec.NewVector(3)
	payload.PushBack([]byte("hello "))
	payload.PushBack([]byte("scatter "))
	payload.PushBack([]byte("gather"))

	go func() {
		assert.NoError(t, writeFrame(client, 3, 42, payload))
	}()

	method, requestID, data, err := readFrame(server, make([]byte, 4), 0)
	require.NoError(t, err)
	assert.Equal(t, uint64(3), method)
	assert.Equal(t, uint64(42), requestID)
	assert.Equal(t, "hello scatter gather", string(data))
}

func TestFrameEmptyPayload(t *testing.T) {
	client, server := net.Pipe()
	defer client.Close()
	defer server.Close()

	go func() {
		assert.NoError(t, writeFrame(client, 1, 2, nil))
	}()

	method, requestID, data, err := readFrame(server, nil, 0)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), method)
	assert.Equal(t, uint64(2), requestID)
	assert.Empty(t, data)
}

func TestFrameReusesBuffer(t *testing.T) {
	client, server := net.Pipe()
	defer client.Close()
	defer server.Close()

	payload := iovec.NewVector(1)
	payload.PushBack([]byte("abc"))
	go func() {
		assert.NoError(t, writeFrame(client, 0, 0, payload))
	}()

	buf := make([]byte, 16)
	_, _, data, err := readFrame(server, buf, 16)
	require.NoError(t, err)
	assert.Same(t, &buf[0], &data[0])
}

func TestFrameRejectsOversizedPayload(t *testing.T) {
	client, server := net.Pipe()
	defer client.Close()
	defer server.Close()

	payload := iovec.NewVector(1)
	payload.PushBack(make([]byte, 100))
	go func() {
		// the payload is never read, closing the pipe unblocks the write
		_ = writeFrame(client, 1, 1, payload)
	}()

	_, _, data, err := readFrame(server, nil, 99)
	require.ErrorIs(t, err, ErrFrameTooLarge)
	assert.Nil(t, data)
}

func TestFrameAtLimit(t *testing.T) {
	client, server := net.Pipe()
	defer client.Close()
	defer server.Close()

	payload := iovec.NewVector(1)
	payload.PushBack(bytes.Repeat([]byte{7}, 100))
	go func() {
		assert.NoError(t, writeFrame(client, 1, 1, payload))
	}()

	_, _, data, err := readFrame(server, nil, 100)
	require.NoError(t, err)
	assert.Len(t, data, 100)
}

// pipeConnector hands out in-memory connections to one server transport
type pipeConnector struct {
	ln *pipeListener
}

func (c *pipeConnector) GetName() string { return "pipe" }

func (c *pipeConnector) Listen(common.ServerConfig) (net.Listener, error) { return c.ln, nil }

func (c *pipeConnector) Connect(string) (net.Conn, error) {
	client, server := net.Pipe()
	select {
	case c.ln.conns <- server:
		return client, nil
	case <-c.ln.done:
		return nil, net.ErrClosed
	}
}

func (c *pipeConnector) UpgradeConnection(net.Conn, common.ClientConfig) error { return nil }

type pipeListener struct {
	conns chan net.Conn
	done  chan struct{}
	once  sync.Once
}

func newPipeListener() *pipeListener {
	return &pipeListener{conns: make(chan net.Conn), done: make(chan struct{})}
}

func (l *pipeListener) Accept() (net.Conn, error) {
	select {
	case conn := <-l.conns:
		return conn, nil
	case <-l.done:
		return nil, net.ErrClosed
	}
}

func (l *pipeListener) Close() error {
	l.once.Do(func() { close(l.done) })
	return nil
}

func (l *pipeListener) Addr() net.Addr { return &net.UnixAddr{Name: "pipe", Net: "pipe"} }

func TestClientServer(t *testing.T) {
	connector := &pipeConnector{ln: newPipeListener()}

	srv := NewBaseServerTransport(connector)
	srv.RegisterHandler(func(method uint64, req *iovec.Source) (uint64, *iovec.Vector) {
		// answer with the request reversed segment wise: suffix first
		data, ok := req.ExtractFrontContiguous(req.Len())
		if !ok {
			return 0, nil
		}
		resp := iovec.NewVector(2)
		resp.PushBack(data[len(data)/2:])
		resp.PushBack(data[:len(data)/2])
		return method + 100, resp
	})

	done := make(chan error, 1)
	go func() {
		done <- srv.Listen(common.ServerConfig{
			Transport: common.ServerTransportConfig{WorkersPerConn: 2, BufferSize: 8},
		})
	}()

	cli := NewBaseClientTransport(connector)
	require.NoError(t, cli.Connect(common.ClientConfig{
		TimeoutSecond: 5,
		Transport: common.ClientTransportConfig{
			Endpoints:              []string{"pipe"},
			ConnectionsPerEndpoint: 2,
		},
	}))

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			req := iovec.NewVector(2)
			req.PushBack(bytes.Repeat([]byte{'a'}, i+1))
			req.PushBack(bytes.Repeat([]byte{'b'}, i+1))

			method, resp, err := cli.Send(uint64(i), req)
			if !assert.NoError(t, err) {
				return
			}
			assert.Equal(t, uint64(i+100), method)
			want := append(bytes.Repeat([]byte{'b'}, i+1), bytes.Repeat([]byte{'a'}, i+1)...)
			assert.Equal(t, want, resp)
		}(i)
	}
	wg.Wait()

	require.NoError(t, cli.Close())
	require.NoError(t, srv.Close())
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Listen did not return after Close")
	}
}

func TestSendWithoutConnection(t *testing.T) {
	cli := NewBaseClientTransport(&pipeConnector{ln: newPipeListener()})
	_, _, err := cli.Send(1, iovec.NewVector(0))
	assert.ErrorIs(t, err, ErrNoConnection)
}
