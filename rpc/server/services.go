package server

import (
	"errors"
	"github.com/ValentinKolb/zcrpc/lib/serial"
	"github.com/ValentinKolb/zcrpc/rpc/common"
	"math"
	"math/bits"
	"time"
)

// ErrSumOverflow is returned by the sum service when the result does not fit
// into an uint64
var ErrSumOverflow = errors.New("sum overflows uint64")

// echo answers with the request's note and payload. The payload segments are
// forwarded by reference.
func (s *RPCServer) echo(req *common.EchoRequest) (common.Headed, error) {
	return common.NewEchoResponse(req), nil
}

// sum adds up the request values and reports their bounds
func (s *RPCServer) sum(req *common.SumRequest) (common.Headed, error) {
	resp := &common.SumResponse{}
	if uint64(req.Values.Count()) > math.MaxUint32 {
		return nil, errors.New("too many values")
	}

	bounds := common.Bounds{Min: math.MaxUint64}
	for _, v := range req.Values.All() {
		var carry uint64
		resp.Sum, carry = bits.Add64(resp.Sum, v, 0)
		if carry != 0 {
			return nil, ErrSumOverflow
		}
		bounds.Min = min(bounds.Min, v)
		bounds.Max = max(bounds.Max, v)
		resp.Count++
	}

	if resp.Count > 0 {
		resp.Bounds = serial.NewFixedView(&bounds)
	}
	return resp, nil
}

// info describes the running server
func (s *RPCServer) info(_ *common.InfoRequest) (common.Headed, error) {
	return &common.InfoResponse{
		Version:     serial.NewStringView(common.Version),
		UptimeMs:    uint64(time.Since(s.started).Milliseconds()),
		MaxSegments: uint32(max(s.config.MaxSegments, 0)),
	}, nil
}
