package base

import (
	"errors"
	"fmt"
	"github.com/ValentinKolb/zcrpc/lib/iovec"
	"github.com/ValentinKolb/zcrpc/rpc/common"
	"github.com/ValentinKolb/zcrpc/rpc/transport"
	"io"
	"net"
	"sync"
	"sync/atomic"
	"time"
)

const (
	// DefaultBufferSize is used when the config does not set a request buffer size
	DefaultBufferSize = 64 * 1024
)

// -----------------------------------------------------------
// Interface Definitions for dependency injection
// -----------------------------------------------------------

// IServerConnector defines the interface for transport-specific server operations
type IServerConnector interface {
	// Listen creates a listener and returns it
	Listen(config common.ServerConfig) (net.Listener, error)

	// GetName returns the name of the transport type (e.g., "unix", "tcp")
	GetName() string
}

// IServerConnUpgrader can be implemented by an IServerConnector to apply
// protocol-specific settings to accepted connections
type IServerConnUpgrader interface {
	UpgradeConnection(conn net.Conn, config common.ServerConfig) error
}

// -----------------------------------------------------------
// Helper Types
// -----------------------------------------------------------

// serverTransport implements the core server transport functionality
type serverTransport struct {
	connector  IServerConnector
	handler    transport.ServerHandleFunc
	config     common.ServerConfig
	listener   net.Listener
	listenerMu sync.Mutex
	closed     atomic.Bool
	bufferPool *sync.Pool
}

// -----------------------------------------------------------
// Transport Factory Method (used for tcp, unix, etc.)
// -----------------------------------------------------------

// NewBaseServerTransport creates a new base server transport with per-connection worker pool
func NewBaseServerTransport(connector IServerConnector) transport.IRPCServerTransport {
	return &serverTransport{
		connector: connector,
	}
}

// --------------------------------------------------------------------------
// Interface Methods (docu see transport.IRPCServerTransport)
// --------------------------------------------------------------------------

func (t *serverTransport) RegisterHandler(handler transport.ServerHandleFunc) {
	t.handler = handler
}

func (t *serverTransport) Listen(config common.ServerConfig) error {
	t.configure(config)

	listener, err := t.connector.Listen(config)
	if err != nil {
		return fmt.Errorf("failed to create listener: %w", err)
	}

	t.listenerMu.Lock()
	t.listener = listener
	t.listenerMu.Unlock()

	Logger.Infof("Starting %s server on %s with %d workers per connection",
		t.connector.GetName(), config.Transport.Endpoint, t.config.Transport.WorkersPerConn)

	for {
		conn, err := listener.Accept()
		if err != nil {
			if t.closed.Load() || errors.Is(err, net.ErrClosed) {
				return nil
			}
			Logger.Errorf("Accept error: %v", err)
			continue
		}

		if upgrader, ok := t.connector.(IServerConnUpgrader); ok {
			if err := upgrader.UpgradeConnection(conn, t.config); err != nil {
				Logger.Errorf("Failed to upgrade connection from %s: %v", conn.RemoteAddr(), err)
				_ = conn.Close()
				continue
			}
		}

		go t.handleConnection(conn)
	}
}

func (t *serverTransport) Close() error {
	t.closed.Store(true)

	t.listenerMu.Lock()
	defer t.listenerMu.Unlock()
	if t.listener == nil {
		return nil
	}
	return t.listener.Close()
}

// --------------------------------------------------------------------------
// Helper Methods
// --------------------------------------------------------------------------

// configure stores config and fills in defaults
func (t *serverTransport) configure(config common.ServerConfig) {
	// minimum one worker per connection
	config.Transport.WorkersPerConn = max(config.Transport.WorkersPerConn, 1)
	if config.Transport.BufferSize <= 0 {
		config.Transport.BufferSize = DefaultBufferSize
	}
	if config.Transport.MaxFrameSize <= 0 {
		config.Transport.MaxFrameSize = common.DefaultMaxFrameSize
	}

	t.config = config
	bufferSize := config.Transport.BufferSize
	t.bufferPool = &sync.Pool{
		New: func() interface{} {
			return make([]byte, bufferSize)
		},
	}
}

// handleConnection handles incoming requests for one connection
func (t *serverTransport) handleConnection(conn net.Conn) {
	defer conn.Close()

	timeout := time.Duration(t.config.TimeoutSecond) * time.Second

	// The buffered channel acts as a counting semaphore
	workerSemaphore := make(chan struct{}, t.config.Transport.WorkersPerConn)

	// Wait for all workers before closing the connection
	var wg sync.WaitGroup

	// Protects writes to the connection
	var connMutex sync.Mutex

	handleResponse := func(method, requestID uint64, data []byte) {
		defer func() {
			<-workerSemaphore
			wg.Done()
		}()

		start := time.Now()
		respMethod, resp := t.handler(method, iovec.NewSource(data))
		Logger.Debugf("Processed request for method %d with requestID %d took %s", method, requestID, time.Since(start))

		connMutex.Lock()
		defer connMutex.Unlock()

		if timeout > 0 {
			if err := conn.SetWriteDeadline(time.Now().Add(timeout)); err != nil {
				Logger.Errorf("Failed to set write deadline: %v", err)
				return
			}
		}

		if err := writeFrame(conn, respMethod, requestID, resp); err != nil {
			Logger.Errorf("Failed to write response: %v", err)
		}
	}

	handleRequest := func() error {
		if timeout > 0 {
			if err := conn.SetReadDeadline(time.Now().Add(timeout)); err != nil {
				return fmt.Errorf("failed to set read deadline: %w", err)
			}
		}

		buf := t.bufferPool.Get().([]byte)

		method, requestID, data, err := readFrame(conn, buf, t.config.Transport.MaxFrameSize)
		if err != nil {
			t.bufferPool.Put(buf)
			return err
		}

		// Blocks if WorkersPerConn requests are in flight
		workerSemaphore <- struct{}{}
		wg.Add(1)

		go func() {
			// the response may reference the request buffer, so it is
			// returned to the pool only after the response was written
			defer t.bufferPool.Put(buf)
			handleResponse(method, requestID, data)
		}()

		return nil
	}

	for {
		err := handleRequest()

		if err == io.EOF || errors.Is(err, net.ErrClosed) {
			Logger.Debugf("Connection closed by client")
			break
		}

		if err != nil {
			Logger.Errorf("Error handling request: %v", err)
			break
		}
	}

	wg.Wait()
}
