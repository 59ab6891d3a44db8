package antrean

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/ambiyansyah-risyal/antrean/internal/backoff"
	"github.com/ambiyansyah-risyal/antrean/internal/singleflight"
)

// Client is a resilient HTTP client for the appointment backend. It layers
// request tracing, bearer-token injection, middleware, optional retries,
// rate limiting, de-duplication and metrics around the standard net/http
// Client, and guarantees callers only ever observe normalized *Error
// failures. It is safe for concurrent use.
type Client struct {
	httpClient      *http.Client
	baseURL         string
	maxRetries      int
	backoff         backoff.Calculator
	retryCondition  RetryCondition
	middleware      []Middleware
	tokens          TokenStore
	requestIDGen    func() string
	limiter         *rate.Limiter
	dedup           *singleflight.Group
	metrics         *MetricsCollector
	debug           *DebugConfig
	logger          Logger
	validationError error
}

// dedupLinger is how long a completed coalesced call remains joinable.
const dedupLinger = 100 * time.Millisecond

// New constructs a Client using the provided functional options. A best
// effort validation is performed; call IsValid / ValidationError for errors.
func New(options ...Option) *Client {
	client := &Client{
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		maxRetries: 0,
		backoff: backoff.ExponentialJitter{
			Initial:    100 * time.Millisecond,
			Max:        10 * time.Second,
			Multiplier: 2.0,
			Jitter:     0.1,
		},
		retryCondition: DefaultRetryCondition,
		requestIDGen:   uuid.NewString,
	}

	for _, option := range options {
		option(client)
	}

	if err := client.ValidateConfiguration(); err != nil {
		client.validationError = err
	}

	return client
}

// IsValid reports whether configuration validation passed at construction.
func (c *Client) IsValid() bool {
	return c.validationError == nil
}

// ValidationError returns the configuration validation error, if any.
func (c *Client) ValidationError() error {
	return c.validationError
}

// BaseURL returns the configured API base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Get performs an HTTP GET against the given path.
func (c *Client) Get(ctx context.Context, path string) (*http.Response, error) {
	req, err := c.NewRequest(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}
	return c.Do(req)
}

// Post performs an HTTP POST with the given content type.
func (c *Client) Post(ctx context.Context, path, contentType string, body io.Reader) (*http.Response, error) {
	req, err := c.NewRequest(ctx, http.MethodPost, path, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", contentType)
	return c.Do(req)
}

// NewRequest builds a request for a path resolved against the base URL.
// Absolute URLs are passed through untouched.
func (c *Client) NewRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.resolve(path), body)
	if err != nil {
		return nil, Normalize(err)
	}
	return req, nil
}

func (c *Client) resolve(path string) string {
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") || c.baseURL == "" {
		return path
	}
	return strings.TrimRight(c.baseURL, "/") + "/" + strings.TrimLeft(path, "/")
}

// Do executes a prepared *http.Request applying all transport features.
// Any failure, including non-2xx responses, is returned as a normalized
// *Error; a raw transport error never escapes to the caller.
func (c *Client) Do(req *http.Request) (*http.Response, error) {
	if c.validationError != nil {
		return nil, Normalize(c.validationError)
	}

	start := time.Now()
	endpoint := endpointFromRequest(req)

	requestID := req.Header.Get("X-Request-ID")
	if requestID == "" {
		requestID = c.requestIDGen()
		req.Header.Set("X-Request-ID", requestID)
	}

	if token, ok := c.token(); ok {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	c.logDebug(c.debugFlag(func(d *DebugConfig) bool { return d.LogRequests }),
		"API request", "method", req.Method, "url", req.URL.String(), "requestId", requestID)

	if c.metrics != nil {
		c.metrics.RecordRequestStart(req.Method, endpoint)
		defer c.metrics.RecordRequestEnd(req.Method, endpoint)
	}

	if c.limiter != nil && !c.limiter.Allow() {
		if c.metrics != nil {
			c.metrics.RecordError("RateLimit", req.Method, endpoint)
		}
		return nil, &Error{
			Kind:      KindNetwork,
			Message:   "rate limit exceeded",
			Timestamp: time.Now(),
			Cause:     ErrRateLimited,
		}
	}

	var resp *http.Response
	var err error
	if c.dedup != nil && dedupEligible(req) {
		resp, err = c.doCoalesced(req, requestID, start, endpoint)
	} else {
		resp, err = c.send(req, requestID, start)
	}

	if c.metrics != nil {
		statusCode := 0
		if resp != nil {
			statusCode = resp.StatusCode
		}
		c.metrics.RecordRequest(req.Method, endpoint, statusCode, time.Since(start))
	}

	return resp, err
}

// doCoalesced merges concurrent identical requests into one upstream call.
// The owner's response body is buffered so every caller gets its own reader.
func (c *Client) doCoalesced(req *http.Request, requestID string, start time.Time, endpoint string) (*http.Response, error) {
	key := dedupKey(req)

	v, err, shared := c.dedup.Do(key, func() (any, error) {
		resp, err := c.send(req, requestID, start)
		if err != nil {
			return nil, err
		}
		body, readErr := io.ReadAll(resp.Body)
		resp.Body.Close()
		if readErr != nil {
			return nil, &Error{
				Kind:      KindNetwork,
				Message:   "reading response body failed",
				Timestamp: time.Now(),
				Cause:     readErr,
			}
		}
		return &bufferedResponse{
			statusCode: resp.StatusCode,
			header:     resp.Header.Clone(),
			body:       body,
		}, nil
	})

	if shared {
		if c.metrics != nil {
			c.metrics.RecordDedupHit(req.Method, endpoint)
		}
		c.logDebug(c.debugFlag(func(d *DebugConfig) bool { return d.LogRequests }),
			"Deduplication hit", "requestId", requestID, "dedupKey", key)
	}

	if err != nil {
		return nil, err
	}
	return v.(*bufferedResponse).response(req), nil
}

type bufferedResponse struct {
	statusCode int
	header     http.Header
	body       []byte
}

func (b *bufferedResponse) response(req *http.Request) *http.Response {
	return &http.Response{
		Status:        fmt.Sprintf("%d %s", b.statusCode, http.StatusText(b.statusCode)),
		StatusCode:    b.statusCode,
		Header:        b.header.Clone(),
		Body:          io.NopCloser(bytes.NewReader(b.body)),
		ContentLength: int64(len(b.body)),
		Request:       req,
	}
}

// send runs the middleware chain with transport-level retries, then converts
// any failure outcome into a normalized error.
func (c *Client) send(req *http.Request, requestID string, start time.Time) (*http.Response, error) {
	endpoint := endpointFromRequest(req)

	var resp *http.Response
	var err error
	for attempt := 0; ; attempt++ {
		if attempt > 0 {
			if req.GetBody != nil {
				if body, bodyErr := req.GetBody(); bodyErr == nil {
					req.Body = body
				}
			}
			delay := c.backoff.Delay(attempt - 1)
			c.logDebug(c.debugFlag(func(d *DebugConfig) bool { return d.LogRetries }),
				"Retry attempt", "requestId", requestID, "attempt", attempt, "maxRetries", c.maxRetries, "backoff", delay)
			if c.metrics != nil {
				c.metrics.RecordRetry(req.Method, endpoint, attempt)
			}
			time.Sleep(delay)
		}

		resp, err = c.executeMiddleware(req)

		if attempt < c.maxRetries && c.retryCondition(resp, err) {
			if resp != nil {
				io.Copy(io.Discard, resp.Body)
				resp.Body.Close()
			}
			continue
		}
		break
	}

	if err != nil {
		c.logError("API request failed",
			"method", req.Method, "url", req.URL.String(), "requestId", requestID, "error", err.Error())
		if c.metrics != nil {
			c.metrics.RecordError("Network", req.Method, endpoint)
		}
		return nil, &Error{
			Kind:      KindNetwork,
			Message:   "network request failed",
			Timestamp: time.Now(),
			Cause:     err,
		}
	}

	if resp.StatusCode >= 400 {
		return nil, c.failureFromResponse(resp, requestID)
	}

	c.logDebug(c.debugFlag(func(d *DebugConfig) bool { return d.LogResponses }),
		"API response", "method", req.Method, "url", req.URL.String(), "status", resp.StatusCode, "requestId", requestID)

	return resp, nil
}

// failureFromResponse drains an error response, logs it with the raw body,
// and normalizes the wire error shape.
func (c *Client) failureFromResponse(resp *http.Response, requestID string) *Error {
	const maxErrorBody = 64 << 10

	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()

	req := resp.Request
	method, url := "", ""
	if req != nil {
		method = req.Method
		url = req.URL.String()
	}
	c.logError("API error",
		"method", method, "url", url, "status", resp.StatusCode, "requestId", requestID, "responseBody", string(body))

	apiErr := decodeAPIError(body, resp.StatusCode)

	if c.metrics != nil {
		c.metrics.RecordError(string(KindForStatus(resp.StatusCode)), method, endpointFromRequest(req))
	}

	return Normalize(apiErr)
}

func (c *Client) executeMiddleware(req *http.Request) (*http.Response, error) {
	if len(c.middleware) == 0 {
		return c.httpClient.Do(req)
	}

	current := RoundTripper(RoundTripperFunc(c.httpClient.Do))

	for i := len(c.middleware) - 1; i >= 0; i-- {
		middleware := c.middleware[i]
		next := current
		current = RoundTripperFunc(func(r *http.Request) (*http.Response, error) {
			return middleware(r, next)
		})
	}

	return current.RoundTrip(req)
}

func (c *Client) token() (string, bool) {
	if c.tokens == nil {
		return "", false
	}
	return c.tokens.Token()
}

func (c *Client) debugFlag(pick func(*DebugConfig) bool) bool {
	return c.debug != nil && c.debug.Enabled && pick(c.debug)
}

// logDebug and logError are best effort: a panicking Logger implementation
// must never break the request path.
func (c *Client) logDebug(enabled bool, msg string, keysAndValues ...any) {
	if !enabled || c.logger == nil {
		return
	}
	defer func() { _ = recover() }()
	c.logger.Debug(msg, keysAndValues...)
}

func (c *Client) logError(msg string, keysAndValues ...any) {
	if c.logger == nil {
		return
	}
	defer func() { _ = recover() }()
	c.logger.Error(msg, keysAndValues...)
}

func dedupEligible(req *http.Request) bool {
	switch req.Method {
	case http.MethodGet, http.MethodHead, http.MethodOptions:
		return true
	default:
		return false
	}
}

func dedupKey(req *http.Request) string {
	return req.Method + " " + req.URL.String()
}

// endpointFromRequest extracts a host+path endpoint label for metrics.
func endpointFromRequest(req *http.Request) string {
	if req == nil || req.URL == nil {
		return "unknown"
	}

	var builder strings.Builder
	builder.WriteString(req.URL.Host)

	if req.URL.Path != "" && req.URL.Path != "/" {
		builder.WriteString(req.URL.Path)
	} else {
		builder.WriteByte('/')
	}

	return builder.String()
}
