package server

import (
	"bytes"
	"errors"
	"github.com/ValentinKolb/zcrpc/lib/iovec"
	"github.com/ValentinKolb/zcrpc/lib/serial"
	"github.com/ValentinKolb/zcrpc/rpc/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"math"
	"strings"
	"testing"
)

func newTestServer(maxSegments int) *RPCServer {
	return NewRPCServer(common.ServerConfig{MaxSegments: maxSegments, LogLevel: "info"}, nil)
}

// call encodes req, dispatches it as one contiguous buffer and returns the
// response method and the response as one buffer
func call(t *testing.T, s *RPCServer, method common.MethodID, req serial.Message) (common.MethodID, []byte) {
	t.Helper()
	iov, err := serial.Encode(req)
	require.NoError(t, err)

	respMethod, resp := s.dispatch(uint64(method), iovec.NewSource(iov.Bytes()))
	require.NotNil(t, resp)
	return common.MethodID(respMethod), resp.Bytes()
}

func decode[T any, P interface {
	*T
	serial.Message
}](t *testing.T, data []byte) *T {
	t.Helper()
	d := serial.NewDeserializer(iovec.NewSource(data))
	out := serial.Deserialize[T, P](d)
	require.NotNil(t, out)
	require.NoError(t, d.Err())
	return out
}

func requireError(t *testing.T, method common.MethodID, data []byte, contains string) *common.ErrorResponse {
	t.Helper()
	require.Equal(t, common.MethodError, method)
	resp := decode[common.ErrorResponse](t, data)
	require.Equal(t, common.StatusError, resp.Status)
	require.Contains(t, resp.Failure().Error(), contains)
	return resp
}

func TestEcho(t *testing.T) {
	s := newTestServer(0)

	req := common.NewEchoRequest("note", []byte("hello "), []byte("world"))
	req.Seq = 7

	method, data := call(t, s, common.MethodEcho, req)
	require.Equal(t, common.MethodEcho, method)

	resp := decode[common.EchoResponse](t, data)
	assert.Equal(t, uint64(7), resp.Seq)
	assert.Equal(t, common.StatusOK, resp.Status)
	assert.Equal(t, "note", resp.Note.String())
	assert.Equal(t, "hello world", string(resp.Payload.Bytes()))
}

func TestEchoForwardsRequestMemory(t *testing.T) {
	s := newTestServer(0)

	iov, err := serial.Encode(common.NewEchoRequest("", []byte("payload")))
	require.NoError(t, err)
	buf := iov.Bytes()

	_, resp := s.dispatch(uint64(common.MethodEcho), iovec.NewSource(buf))

	// the response references the request buffer, it sees later writes
	idx := bytes.Index(buf, []byte("payload"))
	require.GreaterOrEqual(t, idx, 0)
	buf[idx] = 'P'

	assert.Contains(t, string(resp.Bytes()), "Payload")
}

func TestSum(t *testing.T) {
	s := newTestServer(0)

	req := common.NewSumRequest([]uint64{3, 1, 2})
	req.Seq = 1
	method, data := call(t, s, common.MethodSum, req)
	require.Equal(t, common.MethodSum, method)

	resp := decode[common.SumResponse](t, data)
	assert.Equal(t, uint64(1), resp.Seq)
	assert.Equal(t, uint64(6), resp.Sum)
	assert.Equal(t, uint32(3), resp.Count)
	require.NotNil(t, resp.Bounds.Get())
	assert.Equal(t, common.Bounds{Min: 1, Max: 3}, *resp.Bounds.Get())
}

func TestSumEmpty(t *testing.T) {
	s := newTestServer(0)

	method, data := call(t, s, common.MethodSum, common.NewSumRequest(nil))
	require.Equal(t, common.MethodSum, method)

	resp := decode[common.SumResponse](t, data)
	assert.Equal(t, uint64(0), resp.Sum)
	assert.Equal(t, uint32(0), resp.Count)
	assert.Nil(t, resp.Bounds.Get())
}

func TestSumOverflow(t *testing.T) {
	s := newTestServer(0)

	req := common.NewSumRequest([]uint64{math.MaxUint64, 1})
	req.Seq = 3
	method, data := call(t, s, common.MethodSum, req)

	resp := requireError(t, method, data, ErrSumOverflow.Error())
	assert.Equal(t, uint64(3), resp.Seq)
}

func TestInfo(t *testing.T) {
	s := newTestServer(16)

	method, data := call(t, s, common.MethodInfo, &common.InfoRequest{})
	require.Equal(t, common.MethodInfo, method)

	resp := decode[common.InfoResponse](t, data)
	assert.Equal(t, common.Version, resp.Version.String())
	assert.Equal(t, uint32(16), resp.MaxSegments)
}

func TestUnknownMethod(t *testing.T) {
	s := newTestServer(0)

	method, data := call(t, s, common.MethodID(99), &common.InfoRequest{})
	requireError(t, method, data, ErrUnknownMethod.Error())
}

func TestUndecodableRequest(t *testing.T) {
	s := newTestServer(0)

	respMethod, resp := s.dispatch(uint64(common.MethodSum), iovec.NewSource([]byte{1, 2, 3}))
	requireError(t, common.MethodID(respMethod), resp.Bytes(), "failed to deserialize request")
}

func TestResponseExceedsMaxSegments(t *testing.T) {
	s := newTestServer(2)

	req := common.NewEchoRequest("note", []byte("a"), []byte("b"), []byte("c"))
	req.Seq = 11
	method, data := call(t, s, common.MethodEcho, req)

	resp := requireError(t, method, data, "segments")
	assert.Equal(t, uint64(11), resp.Seq)
}

func TestHandleCustomService(t *testing.T) {
	s := newTestServer(0)
	errBusy := errors.New("busy")

	const methodBusy common.MethodID = 42
	Handle(s, methodBusy, func(req *common.InfoRequest) (common.Headed, error) {
		return nil, errBusy
	})

	req := &common.InfoRequest{}
	req.Seq = 5
	method, data := call(t, s, methodBusy, req)

	resp := requireError(t, method, data, "busy")
	assert.Equal(t, uint64(5), resp.Seq)
}

func TestMetrics(t *testing.T) {
	s := newTestServer(0)

	call(t, s, common.MethodEcho, common.NewEchoRequest("x"))
	call(t, s, common.MethodEcho, common.NewEchoRequest("y"))
	s.dispatch(uint64(common.MethodSum), iovec.NewSource(nil))

	var sb strings.Builder
	s.WritePrometheus(&sb)
	out := sb.String()

	assert.Contains(t, out, `zcrpc_requests_total{method="echo"} 2`)
	assert.Contains(t, out, `zcrpc_decode_failures_total{method="sum"} 1`)
	assert.Contains(t, out, `zcrpc_request_duration_seconds_bucket{method="echo"`)
}

func TestResponseSizes(t *testing.T) {
	s := newTestServer(0)

	_, small := call(t, s, common.MethodEcho, common.NewEchoRequest("x"))
	_, large := call(t, s, common.MethodEcho, common.NewEchoRequest("y", make([]byte, 4096)))

	sizes := s.respSizes.Snapshot()
	assert.Equal(t, int64(2), sizes.Count())
	assert.Equal(t, int64(len(small)), sizes.Min())
	assert.Equal(t, int64(len(large)), sizes.Max())
}
