// Package server implements the RPC server. It decodes request frames into
// typed messages, runs the registered service and serializes the response
// into a segment vector that the transport writes without gathering it.
//
// Key Components:
//
//   - RPCServer: owns the method registry (an xsync map from method id to
//     handler) and the transport. NewRPCServer registers the echo, sum and
//     info services.
//
//   - Handle: registers a typed service. The request is decoded in place from
//     the request buffer, so views of the request alias transport memory that
//     stays valid until the response has been written. The echo service uses
//     this to forward the request payload without a copy.
//
//   - Metrics: request counts, durations, payload sizes, decode failures and
//     vector overflows per method, collected with VictoriaMetrics/metrics and
//     served as Prometheus text on /metrics when a metrics endpoint is set.
//
// A request that cannot be decoded, a service error, an unknown method and a
// response exceeding MaxSegments all produce an ErrorResponse sent with
// common.MethodError.
//
// Usage Example:
//
//	config := common.ServerConfig{
//	  Transport:     common.ServerTransportConfig{Endpoint: "0.0.0.0:8080"},
//	  TimeoutSecond: 5,
//	  MaxSegments:   64,
//	  LogLevel:      "info",
//	}
//
//	s := server.NewRPCServer(config, tcp.NewTCPServerTransport())
//	if err := s.Serve(); err != nil {
//	  log.Fatalf("Server error: %v", err)
//	}
package server
