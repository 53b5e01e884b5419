package http

import (
	"fmt"
	"github.com/ValentinKolb/zcrpc/lib/iovec"
	"github.com/ValentinKolb/zcrpc/rpc/common"
	"github.com/ValentinKolb/zcrpc/rpc/transport"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"sync/atomic"
	"time"
)

// MethodHeader carries the method id of a response
const MethodHeader = "X-Zcrpc-Method"

func NewHttpClientTransport() transport.IRPCClientTransport {
	return &httpClientTransport{}
}

type httpClientTransport struct {
	serverURLs []*url.URL
	client     *http.Client
	counter    uint32
	retryCount int
}

// --------------------------------------------------------------------------
// Interface Methods (docu see transport.IRPCClientTransport)
// --------------------------------------------------------------------------

func (t *httpClientTransport) Connect(config common.ClientConfig) error {
	if len(config.Transport.Endpoints) == 0 {
		return fmt.Errorf("no endpoints provided")
	}

	parsedURLs := make([]*url.URL, len(config.Transport.Endpoints))
	for i, server := range config.Transport.Endpoints {
		parsedURL, err := url.Parse(server)
		if err != nil {
			return err
		}
		parsedURLs[i] = parsedURL
	}

	timeout := time.Duration(config.TimeoutSecond) * time.Second
	t.client = &http.Client{
		Timeout: timeout,
		Transport: &http.Transport{
			MaxIdleConns:        100,
			MaxIdleConnsPerHost: max(config.Transport.ConnectionsPerEndpoint, 10),
			IdleConnTimeout:     timeout,
		},
	}
	t.serverURLs = parsedURLs
	t.counter = 0
	t.retryCount = max(config.Transport.RetryCount, 1)

	return nil
}

func (t *httpClientTransport) Send(method uint64, req *iovec.Vector) (uint64, []byte, error) {
	if t.client == nil {
		return 0, nil, fmt.Errorf("http transport not initialized")
	}

	// Select the next server via round-robin
	idx := atomic.AddUint32(&t.counter, 1) % uint32(len(t.serverURLs))
	requestURL := fmt.Sprintf("%s/%d", t.serverURLs[idx].String(), method)

	var lastErr error
	for i := 0; i < t.retryCount; i++ {
		respMethod, data, err := t.post(requestURL, req)
		if err == nil {
			return respMethod, data, nil
		}
		lastErr = err
		Logger.Debugf("Request attempt %d/%d failed: %v", i+1, t.retryCount, err)
	}

	return 0, nil, fmt.Errorf("failed to send request after %d attempts: %w", t.retryCount, lastErr)
}

func (t *httpClientTransport) Close() error {
	if t.client != nil {
		t.client.CloseIdleConnections()
	}

	t.client = nil
	t.serverURLs = nil

	return nil
}

// --------------------------------------------------------------------------
// Helper Methods
// --------------------------------------------------------------------------

// post sends the segments of req as the request body
func (t *httpClientTransport) post(requestURL string, req *iovec.Vector) (uint64, []byte, error) {
	// net.Buffers is consumed while reading, every attempt needs a fresh copy
	var body io.Reader = http.NoBody
	var length int64
	if req != nil {
		buffers := req.Buffers()
		body = &buffers
		length = int64(req.Sum())
	}

	httpRequest, err := http.NewRequest(http.MethodPost, requestURL, body)
	if err != nil {
		return 0, nil, err
	}
	httpRequest.ContentLength = length
	httpRequest.Header.Set("Content-Type", "application/octet-stream")

	httpResponse, err := t.client.Do(httpRequest)
	if err != nil {
		return 0, nil, err
	}
	defer func() {
		if err := httpResponse.Body.Close(); err != nil {
			Logger.Errorf("Failed to close response body: %v", err)
		}
	}()

	if httpResponse.StatusCode != http.StatusOK {
		return 0, nil, fmt.Errorf("http error: %s", httpResponse.Status)
	}

	respMethod, err := strconv.ParseUint(httpResponse.Header.Get(MethodHeader), 10, 64)
	if err != nil {
		return 0, nil, fmt.Errorf("invalid %s header: %w", MethodHeader, err)
	}

	data, err := io.ReadAll(httpResponse.Body)
	if err != nil {
		return 0, nil, err
	}
	return respMethod, data, nil
}
