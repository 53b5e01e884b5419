package common

import (
	"errors"
	"github.com/ValentinKolb/zcrpc/lib/iovec"
	"github.com/ValentinKolb/zcrpc/lib/serial"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"testing"
)

func decode[T any, P interface {
	*T
	serial.Message
}](t *testing.T, m serial.Message) *T {
	t.Helper()
	iov, err := serial.Encode(m)
	require.NoError(t, err)

	d := serial.NewDeserializer(iovec.NewSource(iov.Bytes()))
	out := serial.Deserialize[T, P](d)
	require.NotNil(t, out)
	require.NoError(t, d.Err())
	return out
}

func TestMethodIDNames(t *testing.T) {
	for _, m := range []MethodID{MethodError, MethodEcho, MethodSum, MethodInfo} {
		parsed, err := ParseMethodID(m.String())
		require.NoError(t, err)
		assert.Equal(t, m, parsed)
	}

	_, err := ParseMethodID("nope")
	assert.Error(t, err)
	assert.Equal(t, "method(42)", MethodID(42).String())
}

func TestEchoRequestRoundTrip(t *testing.T) {
	req := NewEchoRequest("note", []byte("hello "), []byte("world"))
	req.Seq = 9

	got := decode[EchoRequest](t, req)
	assert.Equal(t, uint64(9), got.Seq)
	assert.Equal(t, "note", got.Note.String())
	assert.Equal(t, "hello world", string(got.Payload.Bytes()))
	assert.NoError(t, got.Failure())
}

func TestEchoResponseForwardsPayload(t *testing.T) {
	payload := []byte("payload")
	req := NewEchoRequest("n", payload)
	resp := NewEchoResponse(req)

	require.Equal(t, 1, resp.Payload.Count())
	assert.Same(t, &payload[0], &resp.Payload.Segments()[0][0])
	assert.Equal(t, len(payload), resp.Payload.SummedSize())
}

func TestSumResponseRoundTrip(t *testing.T) {
	b := Bounds{Min: 1, Max: 10}
	resp := &SumResponse{Sum: 55, Count: 10, Bounds: serial.NewFixedView(&b)}

	got := decode[SumResponse](t, resp)
	assert.Equal(t, uint64(55), got.Sum)
	assert.Equal(t, uint32(10), got.Count)
	require.NotNil(t, got.Bounds.Get())
	assert.Equal(t, b, *got.Bounds.Get())
}

func TestErrorResponse(t *testing.T) {
	resp := NewErrorResponse(3, errors.New("boom"))

	got := decode[ErrorResponse](t, resp)
	assert.Equal(t, uint64(3), got.Seq)
	assert.Equal(t, StatusError, got.Status)
	assert.EqualError(t, got.Failure(), "boom")
}

func TestHeaderErrorWithoutMessage(t *testing.T) {
	h := Header{Status: StatusError}
	assert.EqualError(t, h.Failure(), "request failed with status 1")
}

func TestParseLogLevel(t *testing.T) {
	_, err := ParseLogLevel("warn")
	assert.NoError(t, err)
	_, err = ParseLogLevel("loud")
	assert.Error(t, err)
}

func TestConfigStrings(t *testing.T) {
	s := &ServerConfig{Transport: ServerTransportConfig{Endpoint: "localhost:1"}, LogLevel: "info"}
	assert.Contains(t, s.String(), "localhost:1")
	assert.Contains(t, s.String(), "unlimited")

	c := &ClientConfig{Transport: ClientTransportConfig{Endpoints: []string{"a:1", "b:2"}}}
	assert.Contains(t, c.String(), "b:2")
}
