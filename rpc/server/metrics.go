package server

import (
	"errors"
	"fmt"
	"github.com/ValentinKolb/zcrpc/lib/iovec"
	"github.com/ValentinKolb/zcrpc/rpc/common"
	"github.com/VictoriaMetrics/metrics"
	"io"
	"net/http"
	"time"
)

// serverMetrics holds the Prometheus metrics of one server. Metrics carry the
// method name as label.
type serverMetrics struct {
	set *metrics.Set
}

func newServerMetrics() *serverMetrics {
	return &serverMetrics{set: metrics.NewSet()}
}

func (m *serverMetrics) request(method common.MethodID, size int) {
	m.set.GetOrCreateCounter(fmt.Sprintf(`zcrpc_requests_total{method=%q}`, method)).Inc()
	m.set.GetOrCreateSummary(fmt.Sprintf(`zcrpc_request_bytes{method=%q}`, method)).Update(float64(size))
}

func (m *serverMetrics) response(method common.MethodID, vec *iovec.Vector, start time.Time) {
	m.set.GetOrCreateHistogram(fmt.Sprintf(`zcrpc_request_duration_seconds{method=%q}`, method)).UpdateDuration(start)
	m.set.GetOrCreateSummary(fmt.Sprintf(`zcrpc_response_bytes{method=%q}`, method)).Update(float64(vec.Sum()))
	m.set.GetOrCreateHistogram(fmt.Sprintf(`zcrpc_response_segments{method=%q}`, method)).Update(float64(vec.Len()))
}

func (m *serverMetrics) decodeFailure(method common.MethodID) {
	m.set.GetOrCreateCounter(fmt.Sprintf(`zcrpc_decode_failures_total{method=%q}`, method)).Inc()
}

func (m *serverMetrics) handlerError(method common.MethodID) {
	m.set.GetOrCreateCounter(fmt.Sprintf(`zcrpc_handler_errors_total{method=%q}`, method)).Inc()
}

func (m *serverMetrics) vectorFull(method common.MethodID) {
	m.set.GetOrCreateCounter(fmt.Sprintf(`zcrpc_vector_full_total{method=%q}`, method)).Inc()
}

// WritePrometheus writes the server and process metrics in Prometheus text
// format
func (s *RPCServer) WritePrometheus(w io.Writer) {
	s.metrics.set.WritePrometheus(w)
	metrics.WriteProcessMetrics(w)
}

// startMetricsServer serves WritePrometheus on /metrics
func (s *RPCServer) startMetricsServer() {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /metrics", func(w http.ResponseWriter, _ *http.Request) {
		s.WritePrometheus(w)
	})

	s.metricsServer = &http.Server{
		Addr:    s.config.MetricsEndpoint,
		Handler: mux,
	}

	go func() {
		Logger.Infof("Serving metrics on %s/metrics", s.config.MetricsEndpoint)
		if err := s.metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			Logger.Errorf("Metrics server failed: %v", err)
		}
	}()
}
