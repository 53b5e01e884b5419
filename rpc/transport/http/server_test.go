package http

import (
	"bytes"
	"github.com/ValentinKolb/zcrpc/lib/iovec"
	"github.com/ValentinKolb/zcrpc/rpc/common"
	"github.com/stretchr/testify/assert"
	"net/http"
	"net/http/httptest"
	"testing"
)

// newTestTransport returns a transport answering every request with its body
func newTestTransport(maxFrameSize int) *httpServerTransport {
	t := &httpServerTransport{
		config: common.ServerConfig{
			Transport: common.ServerTransportConfig{MaxFrameSize: maxFrameSize},
		},
	}
	t.RegisterHandler(func(method uint64, req *iovec.Source) (uint64, *iovec.Vector) {
		segs, _ := req.ExtractFront(req.Len())
		resp := iovec.NewVector(len(segs))
		for _, seg := range segs {
			resp.PushBack(seg)
		}
		return method, resp
	})
	return t
}

func TestHandleRequest(t *testing.T) {
	srv := newTestTransport(16)

	rec := httptest.NewRecorder()
	srv.routes().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/7", bytes.NewReader([]byte("ping"))))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "7", rec.Header().Get(MethodHeader))
	assert.Equal(t, "ping", rec.Body.String())
}

func TestHandleRequestRejectsOversizedBody(t *testing.T) {
	srv := newTestTransport(16)

	rec := httptest.NewRecorder()
	srv.routes().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/1", bytes.NewReader(make([]byte, 17))))

	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
	assert.Empty(t, rec.Header().Get(MethodHeader))
}

func TestHandleRequestRejectsOversizedStream(t *testing.T) {
	srv := newTestTransport(16)

	// without a declared length the limit applies while reading
	req := httptest.NewRequest(http.MethodPost, "/1", bytes.NewReader(make([]byte, 64)))
	req.ContentLength = -1

	rec := httptest.NewRecorder()
	srv.routes().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
}

func TestHandleRequestInvalidMethod(t *testing.T) {
	srv := newTestTransport(16)

	rec := httptest.NewRecorder()
	srv.routes().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/echo", nil))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
