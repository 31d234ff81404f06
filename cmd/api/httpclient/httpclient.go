package httpclient

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/failsafe-go/failsafe-go"
	"github.com/failsafe-go/failsafe-go/retrypolicy"

	"blog-catalog/cmd/api/trace"
	"blog-catalog/cmd/internal/logger"
)

// Config 는 upstream HTTP 호출 공통 설정이다.
// MaxRetries 가 0 이면 재시도 없이 한 번만 호출한다.
type Config struct {
	Timeout    time.Duration
	MaxRetries int
	BaseDelay  time.Duration
	MaxDelay   time.Duration
}

// loggingRoundTripper 는 모든 아웃바운드 호출에 X-Request-Id / X-Span-Id 를 붙이고 결과를 로깅한다.
type loggingRoundTripper struct {
	inner http.RoundTripper
}

func (l *loggingRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	start := time.Now()

	requestID, spanID := trace.NextSpanID(req.Context())
	req.Header.Set("X-Request-Id", requestID)
	req.Header.Set("X-Span-Id", spanID)

	var bodySnippet string
	if req.Body != nil {
		if bodyBytes, err := io.ReadAll(req.Body); err == nil {
			const maxBodyLog = 1024
			bodySnippet = string(bodyBytes[:min(len(bodyBytes), maxBodyLog)])
			req.Body = io.NopCloser(bytes.NewBuffer(bodyBytes))
		}
	}

	resp, err := l.inner.RoundTrip(req)
	fields := logger.Fields{
		"method":     req.Method,
		"url":        req.URL.String(),
		"duration":   time.Since(start).String(),
		"request_id": requestID,
		"span_id":    spanID,
	}
	if bodySnippet != "" {
		fields["body"] = bodySnippet
	}
	if err != nil {
		fields["error"] = err.Error()
		logger.ErrorWithFields("httpclient request failed", fields)
		return nil, err
	}
	fields["status"] = resp.StatusCode
	logger.DebugWithFields("httpclient request success", fields)
	return resp, nil
}

// BaseClient 는 http.Client, baseURL, 재시도 executor 를 묶어 URL/요청 생성을 돕는다.
type BaseClient struct {
	HTTPClient *http.Client
	BaseURL    string
	executor   failsafe.Executor[*http.Response]
}

// NewBaseClient 는 logging transport 와 cfg 의 재시도 정책으로 클라이언트를 만든다.
func NewBaseClient(baseURL string, cfg Config) *BaseClient {
	return NewBaseClientWithClient(New(cfg), baseURL, cfg)
}

// NewBaseClientWithClient 는 이미 생성된 http.Client 를 사용한다. nil 이면 기본 클라이언트를 쓴다.
func NewBaseClientWithClient(httpClient *http.Client, baseURL string, cfg Config) *BaseClient {
	if httpClient == nil {
		httpClient = New(cfg)
	}
	return &BaseClient{
		HTTPClient: httpClient,
		BaseURL:    baseURL,
		executor:   NewRetryExecutor(cfg),
	}
}

// NewRequest 는 baseURL 과 상대 경로, 쿼리, 바디로 요청을 만든다.
// relPath 에 쿼리(?)가 포함되면 path.Join 이 손상시키므로 에러를 반환한다.
func (c *BaseClient) NewRequest(ctx context.Context, method, relPath string, query url.Values, body io.Reader) (*http.Request, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if strings.Contains(relPath, "?") {
		return nil, fmt.Errorf("httpclient: relPath must not contain query string (use query parameter instead): %s", relPath)
	}
	base, err := url.Parse(c.BaseURL)
	if err != nil {
		return nil, err
	}
	if relPath != "" {
		base.Path = path.Join(base.Path, relPath)
	}
	if query != nil {
		base.RawQuery = query.Encode()
	}
	return http.NewRequestWithContext(ctx, method, base.String(), body)
}

// Do 는 재시도 정책을 거쳐 req 를 실행한다. 시도 사이에는 GetBody 로 바디를 되감고,
// 버려지는 시도의 응답은 닫는다.
func (c *BaseClient) Do(req *http.Request) (*http.Response, error) {
	if c.executor == nil {
		return c.HTTPClient.Do(req)
	}

	var previous *http.Response
	attempt := 0
	resp, err := c.executor.WithContext(req.Context()).Get(func() (*http.Response, error) {
		if previous != nil {
			previous.Body.Close()
			previous = nil
		}
		r := req
		if attempt > 0 && req.GetBody != nil {
			body, err := req.GetBody()
			if err != nil {
				return nil, err
			}
			r = req.Clone(req.Context())
			r.Body = body
		}
		attempt++

		res, err := c.HTTPClient.Do(r)
		previous = res
		return res, err
	})
	if err != nil {
		// 재시도 한도 초과 시 마지막 응답은 호출자에게 전달되지 않으므로 여기서 닫는다.
		if previous != nil {
			previous.Body.Close()
		}
		return nil, err
	}
	return resp, nil
}

// DefaultShouldRetry 는 네트워크 에러, 5xx 게이트웨이 계열 실패, 429 를 재시도한다.
func DefaultShouldRetry(resp *http.Response, err error) bool {
	if err != nil {
		return true
	}
	if resp == nil {
		return true
	}
	switch resp.StatusCode {
	case http.StatusInternalServerError,
		http.StatusBadGateway,
		http.StatusServiceUnavailable,
		http.StatusGatewayTimeout,
		http.StatusTooManyRequests:
		return true
	default:
		return false
	}
}

// NewRetryExecutor 는 10% jitter 를 둔 지수 backoff 재시도 executor 를 만든다.
//
//nolint:bodyclose // *http.Response is a type parameter here
func NewRetryExecutor(cfg Config) failsafe.Executor[*http.Response] {
	cfg = normalize(cfg)
	policy := retrypolicy.NewBuilder[*http.Response]().
		WithBackoff(cfg.BaseDelay, cfg.MaxDelay).
		WithMaxRetries(cfg.MaxRetries).
		WithJitterFactor(0.1).
		HandleIf(DefaultShouldRetry).
		Build()
	return failsafe.With(policy)
}

func normalize(cfg Config) Config {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = 0
	}
	if cfg.BaseDelay <= 0 {
		cfg.BaseDelay = 100 * time.Millisecond
	}
	if cfg.MaxDelay <= 0 {
		cfg.MaxDelay = 5 * time.Second
	}
	if cfg.MaxDelay < cfg.BaseDelay {
		cfg.MaxDelay = cfg.BaseDelay
	}
	return cfg
}

// New 는 주어진 설정으로 logging transport 를 쓰는 http.Client 를 만든다. Timeout 기본값은 10초.
func New(cfg Config) *http.Client {
	cfg = normalize(cfg)
	return &http.Client{
		Timeout:   cfg.Timeout,
		Transport: &loggingRoundTripper{inner: http.DefaultTransport},
	}
}
