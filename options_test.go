package antrean

import (
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/ambiyansyah-risyal/antrean/internal/backoff"
)

func TestValidateConfigurationDefaults(t *testing.T) {
	client := New()
	if err := client.ValidationError(); err != nil {
		t.Fatalf("Default configuration must be valid, got %v", err)
	}
}

func TestValidateConfigurationProblems(t *testing.T) {
	tests := []struct {
		name    string
		options []Option
	}{
		{"relative base URL", []Option{WithBaseURL("/api")}},
		{"garbage base URL", []Option{WithBaseURL("::bad::")}},
		{"negative retries", []Option{WithMaxRetries(-1)}},
		{"excessive retries", []Option{WithMaxRetries(101)}},
		{"nil http client", []Option{WithHTTPClient(nil)}},
		{"nil retry condition", []Option{WithRetryCondition(nil)}},
		{"nil middleware", []Option{WithMiddleware(nil)}},
		{"nil request id generator", []Option{WithRequestIDGenerator(nil)}},
		{"debug without logger", []Option{WithDebug()}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := New(tt.options...)
			err := client.ValidationError()
			if err == nil {
				t.Fatal("Expected a validation error")
			}
			var norm *Error
			if !errors.As(err, &norm) {
				t.Fatalf("Expected *Error, got %T", err)
			}
			if norm.Kind != KindValidation {
				t.Errorf("Expected kind %s, got %s", KindValidation, norm.Kind)
			}
		})
	}
}

func TestOptionsApply(t *testing.T) {
	calc := backoff.Fixed{Interval: time.Second}
	httpClient := &http.Client{Timeout: 5 * time.Second}
	logger := NewSimpleLogger()

	client := New(
		WithBaseURL("https://api.example.com"),
		WithHTTPClient(httpClient),
		WithMaxRetries(4),
		WithBackoff(calc),
		WithTokenStore(staticTokens{token: "t"}),
		WithRateLimit(10, 5),
		WithDeduplication(),
		WithDebug(),
		WithLogger(logger),
	)

	if !client.IsValid() {
		t.Fatalf("Expected valid client, got %v", client.ValidationError())
	}
	if client.BaseURL() != "https://api.example.com" {
		t.Errorf("Unexpected base URL: %s", client.BaseURL())
	}
	if client.httpClient != httpClient {
		t.Error("Custom HTTP client not applied")
	}
	if client.maxRetries != 4 {
		t.Errorf("Expected maxRetries=4, got %d", client.maxRetries)
	}
	if client.backoff != calc {
		t.Error("Backoff calculator not applied")
	}
	if client.limiter == nil {
		t.Error("Rate limiter not applied")
	}
	if client.dedup == nil {
		t.Error("Deduplication not applied")
	}
	if client.debug == nil || !client.debug.Enabled {
		t.Error("Debug configuration not applied")
	}
	if client.logger != logger {
		t.Error("Logger not applied")
	}
}

func TestWithTimeout(t *testing.T) {
	client := New(WithTimeout(3 * time.Second))
	if client.httpClient.Timeout != 3*time.Second {
		t.Errorf("Expected timeout=3s, got %v", client.httpClient.Timeout)
	}
}

func TestWithSimpleLogger(t *testing.T) {
	client := New(WithSimpleLogger())
	if !client.IsValid() {
		t.Fatalf("Expected valid client, got %v", client.ValidationError())
	}
	if client.logger == nil || client.debug == nil || !client.debug.Enabled {
		t.Error("WithSimpleLogger must enable debug logging with a logger")
	}
}

func TestDefaultRetryCondition(t *testing.T) {
	if !DefaultRetryCondition(nil, errors.New("dial failed")) {
		t.Error("Expected transport errors to be retryable")
	}
	if !DefaultRetryCondition(&http.Response{StatusCode: 500}, nil) {
		t.Error("Expected 5xx to be retryable")
	}
	if DefaultRetryCondition(&http.Response{StatusCode: 404}, nil) {
		t.Error("Expected 404 to be terminal")
	}
	if DefaultRetryCondition(&http.Response{StatusCode: 200}, nil) {
		t.Error("Expected 2xx to be terminal")
	}
}
