package antrean

import (
	"fmt"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/time/rate"

	"github.com/ambiyansyah-risyal/antrean/internal/backoff"
	"github.com/ambiyansyah-risyal/antrean/internal/singleflight"
)

// WithBaseURL sets the API base URL relative paths resolve against.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		c.baseURL = baseURL
	}
}

// WithTimeout sets the request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if c.httpClient != nil {
			c.httpClient.Timeout = d
		}
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		c.httpClient = client
	}
}

// WithMaxRetries enables transport-level retries. Off by default: the
// resource store owns retry policy for reads, so transport retries are an
// explicit opt-in.
func WithMaxRetries(n int) Option {
	return func(c *Client) {
		c.maxRetries = n
	}
}

// WithBackoff sets the delay calculator for transport-level retries.
func WithBackoff(calc backoff.Calculator) Option {
	return func(c *Client) {
		c.backoff = calc
	}
}

// WithRetryCondition sets a custom transport-level retry condition.
func WithRetryCondition(fn RetryCondition) Option {
	return func(c *Client) {
		c.retryCondition = fn
	}
}

// WithMiddleware appends middleware to the chain, preserving order.
func WithMiddleware(middleware ...Middleware) Option {
	return func(c *Client) {
		c.middleware = append(c.middleware, middleware...)
	}
}

// WithTokenStore sets the source of the bearer token attached to requests.
func WithTokenStore(tokens TokenStore) Option {
	return func(c *Client) {
		c.tokens = tokens
	}
}

// WithRequestIDGenerator sets a custom function for generating request IDs.
func WithRequestIDGenerator(gen func() string) Option {
	return func(c *Client) {
		c.requestIDGen = gen
	}
}

// WithRateLimit enables client-side rate limiting.
func WithRateLimit(limit rate.Limit, burst int) Option {
	return func(c *Client) {
		c.limiter = rate.NewLimiter(limit, burst)
	}
}

// WithDeduplication coalesces concurrent identical idempotent requests into
// a single upstream call.
func WithDeduplication() Option {
	return func(c *Client) {
		c.dedup = singleflight.New(dedupLinger)
	}
}

// WithMetrics enables Prometheus metrics on the default registerer.
func WithMetrics() Option {
	return func(c *Client) {
		c.metrics = NewMetricsCollector()
	}
}

// WithMetricsCollector sets a custom metrics collector.
func WithMetricsCollector(collector *MetricsCollector) Option {
	return func(c *Client) {
		c.metrics = collector
	}
}

// WithDebug enables debug logging with the default configuration.
func WithDebug() Option {
	return func(c *Client) {
		c.debug = DefaultDebugConfig()
	}
}

// WithDebugConfig sets a custom debug configuration.
func WithDebugConfig(config *DebugConfig) Option {
	return func(c *Client) {
		c.debug = config
	}
}

// WithLogger sets the logger for debug and error records.
func WithLogger(logger Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithSimpleLogger enables debug logging with a console logger.
func WithSimpleLogger() Option {
	return func(c *Client) {
		if c.debug == nil {
			c.debug = DefaultDebugConfig()
		}
		c.debug.Enabled = true
		c.logger = NewSimpleLogger()
	}
}

// ValidateConfiguration validates the client configuration and returns an
// error describing every problem found.
func (c *Client) ValidateConfiguration() error {
	var problems []string

	if c.httpClient == nil {
		problems = append(problems, "HTTP client cannot be nil")
	} else if c.httpClient.Timeout < 0 {
		problems = append(problems, "timeout must not be negative")
	}

	if c.baseURL != "" {
		parsed, err := url.Parse(c.baseURL)
		if err != nil || !parsed.IsAbs() || parsed.Host == "" {
			problems = append(problems, fmt.Sprintf("baseURL %q must be an absolute URL", c.baseURL))
		}
	}

	if c.maxRetries < 0 {
		problems = append(problems, "maxRetries must be non-negative")
	}
	if c.maxRetries > 0 && c.backoff == nil {
		problems = append(problems, "backoff calculator must be set when retries are enabled")
	}
	if c.maxRetries > 100 {
		problems = append(problems, "maxRetries > 100 may cause excessive resource usage")
	}

	if c.retryCondition == nil {
		problems = append(problems, "retryCondition cannot be nil")
	}

	for i, middleware := range c.middleware {
		if middleware == nil {
			problems = append(problems, fmt.Sprintf("middleware[%d] cannot be nil", i))
		}
	}

	if c.requestIDGen == nil {
		problems = append(problems, "request ID generator cannot be nil")
	}

	if c.debug != nil && c.debug.Enabled && c.logger == nil {
		problems = append(problems, "logger must be set when debug is enabled")
	}

	if len(problems) > 0 {
		return &Error{
			Kind:      KindValidation,
			Message:   "configuration validation failed",
			Timestamp: time.Now(),
			Cause:     fmt.Errorf("validation errors: %v", problems),
		}
	}

	return nil
}
