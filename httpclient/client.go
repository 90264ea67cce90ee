package httpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/kbukum/guardkit/errors"
	"github.com/kbukum/guardkit/logger"
	"github.com/kbukum/guardkit/resilience"
)

// Config configures a Client.
type Config struct {
	// BaseURL is prepended to relative request paths.
	BaseURL string `yaml:"base_url" mapstructure:"base_url"`
	// Timeout bounds each request attempt. Default: 30s.
	Timeout time.Duration `yaml:"timeout" mapstructure:"timeout"`
	// Headers are applied to every request.
	Headers map[string]string `yaml:"headers" mapstructure:"headers"`

	// Retry, when set, retries failed requests.
	Retry *resilience.RetryConfig `yaml:"retry" mapstructure:"retry"`
	// CircuitBreaker, when set, gates requests through a breaker.
	CircuitBreaker *resilience.CircuitBreakerConfig `yaml:"breaker" mapstructure:"breaker"`
	// RateLimiter, when set, paces outgoing requests.
	RateLimiter *resilience.RateLimiterConfig `yaml:"limiter" mapstructure:"limiter"`
	// MaxConcurrent, when positive, caps in-flight requests.
	MaxConcurrent int `yaml:"max_concurrent" mapstructure:"max_concurrent" validate:"omitempty,min=1"`

	// Logger receives request failure events.
	Logger *logger.Logger `yaml:"-" mapstructure:"-"`
	// Transport overrides the HTTP transport. Default: http.DefaultTransport.
	Transport http.RoundTripper `yaml:"-" mapstructure:"-"`
}

// Request describes one HTTP call.
type Request struct {
	Method  string
	Path    string
	Query   map[string]string
	Headers map[string]string
	// Body is an io.Reader, []byte, or string used as-is; any other
	// non-nil value is JSON-encoded.
	Body any
}

// Response is a fully-read HTTP response.
type Response struct {
	StatusCode int
	Headers    map[string]string
	Body       []byte
}

// JSON unmarshals the response body into v.
func (r *Response) JSON(v any) error {
	if err := json.Unmarshal(r.Body, v); err != nil {
		return errors.Validation("failed to decode response body").WithCause(err)
	}
	return nil
}

// Client executes HTTP requests with resilience applied.
type Client struct {
	httpClient *http.Client
	config     Config
	exec       *resilience.Executor
	log        *logger.Logger
}

// New creates a client. Resilience patterns are assembled from the
// config; unset patterns are skipped.
func New(cfg Config) (*Client, error) {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.Logger == nil {
		cfg.Logger = logger.Nop()
	}
	transport := cfg.Transport
	if transport == nil {
		transport = http.DefaultTransport
	}

	opts := []resilience.ExecutorOption{
		resilience.WithOperationTimeout(cfg.Timeout),
	}
	if cfg.Retry != nil {
		retryCfg := *cfg.Retry
		// 4xx classifications are not worth repeating.
		if retryCfg.ShouldRetry == nil {
			retryCfg.ShouldRetry = func(err error, _ int) bool {
				return errors.IsRetryable(err)
			}
		}
		opts = append(opts, resilience.WithRetry(retryCfg))
	}
	if cfg.CircuitBreaker != nil {
		opts = append(opts, resilience.WithCircuitBreaker(resilience.NewCircuitBreaker(*cfg.CircuitBreaker)))
	}
	if cfg.RateLimiter != nil {
		rl, err := resilience.NewRateLimiter(*cfg.RateLimiter)
		if err != nil {
			return nil, err
		}
		opts = append(opts, resilience.WithRateLimiter(rl))
	}
	if cfg.MaxConcurrent > 0 {
		opts = append(opts, resilience.WithBulkhead(resilience.NewBulkhead(resilience.BulkheadConfig{
			Name:          "httpclient",
			MaxConcurrent: cfg.MaxConcurrent,
		})))
	}

	return &Client{
		httpClient: &http.Client{Transport: transport},
		config:     cfg,
		exec:       resilience.NewExecutor(opts...),
		log:        cfg.Logger.WithComponent("httpclient"),
	}, nil
}

// Do executes a request through the client's resilience stack. Non-2xx
// responses return both the response and a classified error.
func (c *Client) Do(ctx context.Context, req Request) (*Response, error) {
	// The attempt may outlive Execute when it loses the timeout race, so
	// the captured response is mutex-guarded.
	var mu sync.Mutex
	var resp *Response
	err := c.exec.Execute(ctx, func(attemptCtx context.Context) error {
		r, execErr := c.executeRequest(attemptCtx, req)
		if r != nil {
			mu.Lock()
			resp = r
			mu.Unlock()
		}
		return execErr
	})
	if err != nil {
		c.log.Warn("request failed", logger.Fields(
			logger.FieldOperation, req.Method+" "+req.Path,
			logger.FieldError, err.Error(),
		))
	}
	mu.Lock()
	defer mu.Unlock()
	return resp, err
}

// Get is a convenience wrapper for GET requests.
func (c *Client) Get(ctx context.Context, path string) (*Response, error) {
	return c.Do(ctx, Request{Method: http.MethodGet, Path: path})
}

// Post is a convenience wrapper for POST requests with a JSON body.
func (c *Client) Post(ctx context.Context, path string, body any) (*Response, error) {
	return c.Do(ctx, Request{Method: http.MethodPost, Path: path, Body: body})
}

// Unwrap returns the underlying *http.Client.
func (c *Client) Unwrap() *http.Client {
	return c.httpClient
}

// executeRequest sends one attempt and classifies the outcome.
func (c *Client) executeRequest(ctx context.Context, req Request) (*Response, error) {
	httpReq, err := c.buildRequest(ctx, req)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		if ctx.Err() != nil {
			return nil, errors.Cancelled(fmt.Sprintf("%s %s interrupted", req.Method, req.Path)).
				WithCause(err)
		}
		return nil, errors.Network(fmt.Sprintf("%s %s failed", req.Method, req.Path)).
			WithCause(err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Network("failed to read response body").WithCause(err)
	}

	result := &Response{
		StatusCode: resp.StatusCode,
		Headers:    flattenHeaders(resp.Header),
		Body:       body,
	}

	if resp.StatusCode >= 400 {
		return result, errors.FromHTTPResponse(resp.StatusCode, body)
	}
	return result, nil
}

// buildRequest constructs an *http.Request from config and request.
func (c *Client) buildRequest(ctx context.Context, req Request) (*http.Request, error) {
	url := req.Path
	if c.config.BaseURL != "" && !strings.HasPrefix(req.Path, "http://") && !strings.HasPrefix(req.Path, "https://") {
		url = strings.TrimRight(c.config.BaseURL, "/") + "/" + strings.TrimLeft(req.Path, "/")
	}

	body, contentType, err := encodeBody(req.Body)
	if err != nil {
		return nil, errors.Validation("failed to encode request body").WithCause(err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, url, body)
	if err != nil {
		return nil, errors.Validation(fmt.Sprintf("invalid request %s %s", req.Method, url)).
			WithCause(err)
	}

	if len(req.Query) > 0 {
		q := httpReq.URL.Query()
		for k, v := range req.Query {
			q.Set(k, v)
		}
		httpReq.URL.RawQuery = q.Encode()
	}

	for k, v := range c.config.Headers {
		httpReq.Header.Set(k, v)
	}
	for k, v := range req.Headers {
		httpReq.Header.Set(k, v)
	}
	if body != nil && contentType != "" && httpReq.Header.Get("Content-Type") == "" {
		httpReq.Header.Set("Content-Type", contentType)
	}

	return httpReq, nil
}

// encodeBody converts a body value into an io.Reader and content type.
func encodeBody(body any) (io.Reader, string, error) {
	switch v := body.(type) {
	case nil:
		return nil, "", nil
	case io.Reader:
		return v, "", nil
	case []byte:
		return bytes.NewReader(v), "", nil
	case string:
		return strings.NewReader(v), "text/plain", nil
	default:
		data, err := json.Marshal(v)
		if err != nil {
			return nil, "", err
		}
		return bytes.NewReader(data), "application/json", nil
	}
}

// flattenHeaders converts multi-value headers to single-value.
func flattenHeaders(h http.Header) map[string]string {
	result := make(map[string]string, len(h))
	for k, v := range h {
		if len(v) > 0 {
			result[k] = v[0]
		}
	}
	return result
}
