package server

import (
	"errors"
	"fmt"
	"github.com/ValentinKolb/zcrpc/lib/iovec"
	"github.com/ValentinKolb/zcrpc/lib/serial"
	"github.com/ValentinKolb/zcrpc/lib/stats"
	"github.com/ValentinKolb/zcrpc/rpc/common"
	"github.com/ValentinKolb/zcrpc/rpc/transport"
	"github.com/lni/dragonboat/v4/logger"
	"github.com/puzpuzpuz/xsync/v3"
	gometrics "github.com/rcrowley/go-metrics"
	"net/http"
	"os/signal"
	"runtime"
	"sync"
	"syscall"
	"time"
)

var Logger = logger.GetLogger("rpc")

// ErrUnknownMethod is reported to clients calling a method without handler
var ErrUnknownMethod = errors.New("unknown method")

// methodHandler decodes a request, runs the service and returns the
// response together with the method id it is sent with
type methodHandler func(req *iovec.Source) (common.MethodID, common.Headed)

// RPCServer dispatches request frames to typed handlers
type RPCServer struct {
	config    common.ServerConfig
	transport transport.IRPCServerTransport
	handlers  *xsync.MapOf[uint64, methodHandler]
	metrics   *serverMetrics
	// respSizes tracks response sizes for the shutdown summary
	respSizes gometrics.Histogram
	started   time.Time

	metricsServer *http.Server
	closeOnce     sync.Once
}

// NewRPCServer creates a new RPC server with the echo, sum and info services
// registered. Further services can be added with Handle before Serve is
// called.
//
// Usage:
//
//	s := server.NewRPCServer(
//		*config,
//		tcp.NewTCPServerTransport(),
//	)
//
//	if err := s.Serve(); err != nil {
//		panic(err)
//	}
func NewRPCServer(config common.ServerConfig, transport transport.IRPCServerTransport) *RPCServer {
	// https://github.com/golang/go/issues/17393
	if runtime.GOOS == "darwin" {
		signal.Ignore(syscall.Signal(0xd))
	}

	s := &RPCServer{
		config:    config,
		transport: transport,
		handlers:  xsync.NewMapOf[uint64, methodHandler](),
		metrics:   newServerMetrics(),
		respSizes: stats.NewSizeHistogram(),
		started:   time.Now(),
	}

	Handle(s, common.MethodEcho, s.echo)
	Handle(s, common.MethodSum, s.sum)
	Handle(s, common.MethodInfo, s.info)

	return s
}

// Handle registers fn as the service for method. Requests are decoded into a
// fresh Req; the response gets the sequence number of the request. An error
// returned by fn is sent to the client as an ErrorResponse.
func Handle[Req any, P interface {
	*Req
	common.Headed
}](s *RPCServer, method common.MethodID, fn func(req P) (common.Headed, error)) {
	s.handlers.Store(uint64(method), func(src *iovec.Source) (common.MethodID, common.Headed) {
		d := serial.NewDeserializer(src)
		decoded := serial.Deserialize[Req, P](d)
		if decoded == nil || d.Failed() {
			s.metrics.decodeFailure(method)
			var seq uint64
			if decoded != nil {
				seq = P(decoded).Head().Seq
			}
			return common.MethodError, common.NewErrorResponse(seq, fmt.Errorf("failed to deserialize request: %w", d.Err()))
		}

		req := P(decoded)
		if s.config.LogLevel == "debug" {
			Logger.Debugf("%s request:\n%s", method, serial.Describe(req))
		}

		seq := req.Head().Seq
		resp, err := fn(req)
		if err != nil {
			s.metrics.handlerError(method)
			return common.MethodError, common.NewErrorResponse(seq, err)
		}
		resp.Head().Seq = seq
		return method, resp
	})
}

// Serve starts the metrics listener (if configured) and the transport. It
// blocks until the transport is closed.
func (s *RPCServer) Serve() error {
	if err := common.InitLoggers(s.config.LogLevel); err != nil {
		return err
	}

	Logger.Infof("Created RPC Server")
	Logger.Infof(s.config.String())

	s.transport.RegisterHandler(s.dispatch)

	if s.config.MetricsEndpoint != "" {
		s.startMetricsServer()
	}

	return s.transport.Listen(s.config)
}

// Close stops the transport and the metrics listener
func (s *RPCServer) Close() error {
	var err error
	s.closeOnce.Do(func() {
		err = s.transport.Close()
		if s.metricsServer != nil {
			if mErr := s.metricsServer.Close(); mErr != nil && err == nil {
				err = mErr
			}
		}

		if sizes := s.respSizes.Snapshot(); sizes.Count() > 0 {
			ps := sizes.Percentiles([]float64{0.5, 0.99})
			Logger.Infof("Served %d responses (mean %.0fB, median %.0fB, p99 %.0fB)",
				sizes.Count(), sizes.Mean(), ps[0], ps[1])
		}
	})
	return err
}

// --------------------------------------------------------------------------
// Dispatch
// --------------------------------------------------------------------------

// dispatch implements transport.ServerHandleFunc
func (s *RPCServer) dispatch(method uint64, req *iovec.Source) (uint64, *iovec.Vector) {
	start := time.Now()
	id := common.MethodID(method)
	s.metrics.request(id, req.Len())

	var respMethod common.MethodID
	var resp common.Headed
	if h, ok := s.handlers.Load(method); ok {
		respMethod, resp = h(req)
	} else {
		s.metrics.handlerError(id)
		respMethod, resp = common.MethodError, common.NewErrorResponse(0, fmt.Errorf("%w: %s", ErrUnknownMethod, id))
	}

	vec, err := serial.EncodeWithLimit(resp, s.config.MaxSegments)
	if err != nil {
		s.metrics.vectorFull(id)
		Logger.Warningf("Response for %s does not fit: %v", id, err)
		respMethod = common.MethodError
		vec, err = serial.Encode(common.NewErrorResponse(resp.Head().Seq,
			fmt.Errorf("response needs more than %d segments: %w", s.config.MaxSegments, err)))
		if err != nil {
			Logger.Errorf("Failed to encode error response: %v", err)
			return uint64(common.MethodError), nil
		}
	}

	s.respSizes.Update(int64(vec.Sum()))
	s.metrics.response(id, vec, start)
	return uint64(respMethod), vec
}
