package common

import (
	"fmt"
	"strconv"
	"strings"
)

// --------------------------------------------------------------------------
// Socket options (shared by server and client)
// --------------------------------------------------------------------------

// SocketConf holds kernel buffer sizes for stream sockets (tcp, unix)
type SocketConf struct {
	WriteBufferSize int
	ReadBufferSize  int
}

// TCPConf holds options only tcp connections understand
type TCPConf struct {
	TCPNoDelay      bool
	TCPKeepAliveSec int
	// TCPLingerSec < 0 keeps the system default
	TCPLingerSec int
}

// --------------------------------------------------------------------------
// RPC server configuration struct
// --------------------------------------------------------------------------

// DefaultMaxFrameSize is the request size limit used when the config sets none
const DefaultMaxFrameSize = 64 * 1024 * 1024

// ServerTransportConfig configures the listening side of a transport
type ServerTransportConfig struct {
	// Endpoint is a host:port for tcp and http or a socket path for unix
	Endpoint string
	// WorkersPerConn limits concurrently handled requests per connection
	WorkersPerConn int
	// BufferSize is the size of pooled request buffers; larger requests get a
	// temporary buffer
	BufferSize int
	// MaxFrameSize caps the payload of a single request in bytes. Larger
	// requests are refused without being read. 0 selects DefaultMaxFrameSize.
	MaxFrameSize int
	SocketConf
	TCPConf
}

// ServerConfig holds all configuration parameters for the RPC server
type ServerConfig struct {
	Transport ServerTransportConfig

	// TimeoutSecond bounds reading a request and writing its response, 0
	// disables the timeout
	TimeoutSecond int64

	// MaxSegments caps the segment count of a response; larger responses are
	// replaced by an error response. 0 means unlimited.
	MaxSegments int

	// MetricsEndpoint is the address of the Prometheus metrics listener, empty
	// disables it
	MetricsEndpoint string

	LogLevel string
}

// String returns a formatted string representation of the configuration
func (c *ServerConfig) String() string {
	var sb strings.Builder

	addSection := func(title string) {
		sb.WriteString("\n")
		sb.WriteString(fmt.Sprintf("%s\n", strings.ToUpper(title)))
	}

	addField := func(name, value string) {
		sb.WriteString(fmt.Sprintf("  %-22s: %s\n", name, value))
	}

	addSection("RPC Server")
	addField("Endpoint", c.Transport.Endpoint)
	addField("Timeout", fmt.Sprintf("%d sec", c.TimeoutSecond))
	addField("Workers Per Conn", strconv.Itoa(c.Transport.WorkersPerConn))
	addField("Request Buffer", fmt.Sprintf("%d KB", c.Transport.BufferSize/1024))
	maxFrame := c.Transport.MaxFrameSize
	if maxFrame <= 0 {
		maxFrame = DefaultMaxFrameSize
	}
	addField("Max Frame Size", fmt.Sprintf("%d KB", maxFrame/1024))
	addField("Max Segments", limitString(c.MaxSegments))

	addSection("Sockets")
	addField("Write Buffer", fmt.Sprintf("%d KB", c.Transport.WriteBufferSize/1024))
	addField("Read Buffer", fmt.Sprintf("%d KB", c.Transport.ReadBufferSize/1024))
	addField("TCP NoDelay", strconv.FormatBool(c.Transport.TCPNoDelay))
	addField("TCP KeepAlive", fmt.Sprintf("%d sec", c.Transport.TCPKeepAliveSec))

	addSection("Observability")
	addField("Log Level", c.LogLevel)
	if c.MetricsEndpoint == "" {
		addField("Metrics", "disabled")
	} else {
		addField("Metrics", c.MetricsEndpoint)
	}

	return sb.String()
}

// --------------------------------------------------------------------------
// RPC client configuration struct
// --------------------------------------------------------------------------

// ClientTransportConfig configures the connecting side of a transport
type ClientTransportConfig struct {
	Endpoints              []string
	RetryCount             int
	ConnectionsPerEndpoint int
	SocketConf
	TCPConf
}

// ClientConfig holds all configuration parameters for RPC clients
type ClientConfig struct {
	TimeoutSecond int
	Transport     ClientTransportConfig
}

// String returns a formatted string representation of the client configuration
func (c *ClientConfig) String() string {
	var sb strings.Builder

	addSection := func(title string) {
		sb.WriteString("\n")
		sb.WriteString(fmt.Sprintf("%s\n", strings.ToUpper(title)))
	}

	addField := func(name, value string) {
		sb.WriteString(fmt.Sprintf("  %-22s: %s\n", name, value))
	}

	addSection("Client Configuration")
	addField("Timeout", fmt.Sprintf("%d sec", c.TimeoutSecond))
	addField("Retry Count", strconv.Itoa(c.Transport.RetryCount))
	addField("Connections Per Endpoint", strconv.Itoa(max(1, c.Transport.ConnectionsPerEndpoint)))

	addSection("Endpoints")
	for i, endpoint := range c.Transport.Endpoints {
		addField(strconv.Itoa(i), endpoint)
	}

	return sb.String()
}

func limitString(n int) string {
	if n <= 0 {
		return "unlimited"
	}
	return strconv.Itoa(n)
}
