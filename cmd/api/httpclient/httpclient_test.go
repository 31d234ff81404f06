package httpclient

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"blog-catalog/cmd/api/trace"
)

func fastConfig(retries int) Config {
	return Config{Timeout: 2 * time.Second, MaxRetries: retries, BaseDelay: time.Millisecond, MaxDelay: 2 * time.Millisecond}
}

func TestNewRequestRejectsQueryInPath(t *testing.T) {
	c := NewBaseClient("http://example.com/api", fastConfig(0))
	_, err := c.NewRequest(context.Background(), http.MethodGet, "/v1/x?y=1", nil, nil)
	require.Error(t, err)

	req, err := c.NewRequest(context.Background(), http.MethodGet, "/v1/x", url.Values{"page": {"2"}}, nil)
	require.NoError(t, err)
	assert.Equal(t, "http://example.com/api/v1/x?page=2", req.URL.String())
}

func TestDoRetriesServerErrorsAndRewindsBody(t *testing.T) {
	var calls atomic.Int32
	var lastBody atomic.Value
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		lastBody.Store(string(b))
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := NewBaseClient(srv.URL, fastConfig(3))
	req, err := c.NewRequest(context.Background(), http.MethodPost, "/query", nil, strings.NewReader(`{"a":1}`))
	require.NoError(t, err)

	resp, err := c.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, int32(3), calls.Load())
	assert.Equal(t, `{"a":1}`, lastBody.Load())
}

func TestDoGivesUpAfterMaxRetries(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	c := NewBaseClient(srv.URL, fastConfig(2))
	req, err := c.NewRequest(context.Background(), http.MethodGet, "/", nil, nil)
	require.NoError(t, err)

	resp, err := c.Do(req)
	if err == nil {
		defer resp.Body.Close()
		assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
	}
	assert.Equal(t, int32(3), calls.Load())
}

func TestDoDoesNotRetryClientErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	c := NewBaseClient(srv.URL, fastConfig(3))
	req, err := c.NewRequest(context.Background(), http.MethodGet, "/", nil, nil)
	require.NoError(t, err)

	resp, err := c.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, int32(1), calls.Load())
}

func TestRoundTripperPropagatesTraceHeaders(t *testing.T) {
	var gotRequestID, gotSpan string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotRequestID = r.Header.Get("X-Request-Id")
		gotSpan = r.Header.Get("X-Span-Id")
	}))
	defer srv.Close()

	ctx := trace.WithRequestAndSpan(context.Background(), "req-42", 0)
	c := NewBaseClient(srv.URL, fastConfig(0))
	req, err := c.NewRequest(ctx, http.MethodGet, "/", nil, nil)
	require.NoError(t, err)

	resp, err := c.Do(req)
	require.NoError(t, err)
	resp.Body.Close()

	assert.Equal(t, "req-42", gotRequestID)
	assert.Equal(t, "1", gotSpan)
}

func TestDefaultShouldRetry(t *testing.T) {
	assert.True(t, DefaultShouldRetry(nil, io.EOF))
	assert.True(t, DefaultShouldRetry(nil, nil))
	assert.True(t, DefaultShouldRetry(&http.Response{StatusCode: http.StatusTooManyRequests}, nil))
	assert.False(t, DefaultShouldRetry(&http.Response{StatusCode: http.StatusBadRequest}, nil))
	assert.False(t, DefaultShouldRetry(&http.Response{StatusCode: http.StatusOK}, nil))
}
