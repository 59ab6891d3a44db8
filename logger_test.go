package antrean

import (
	"bytes"
	"log"
	"strings"
	"testing"
)

func TestSimpleLoggerFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := &SimpleLogger{logger: log.New(&buf, "", 0)}

	logger.Debug("API request", "method", "GET", "url", "/appointments")
	logger.Error("API error", "status", 500)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("Expected 2 records, got %d: %q", len(lines), buf.String())
	}
	if lines[0] != "DEBUG: API request method=GET url=/appointments" {
		t.Errorf("Unexpected debug record: %q", lines[0])
	}
	if lines[1] != "ERROR: API error status=500" {
		t.Errorf("Unexpected error record: %q", lines[1])
	}
}

func TestSimpleLoggerOddKeyValues(t *testing.T) {
	var buf bytes.Buffer
	logger := &SimpleLogger{logger: log.New(&buf, "", 0)}

	logger.Info("odd", "dangling")

	if got := strings.TrimSpace(buf.String()); got != "INFO: odd dangling" {
		t.Errorf("Unexpected record for odd key/values: %q", got)
	}
}

func TestDefaultDebugConfig(t *testing.T) {
	config := DefaultDebugConfig()
	if !config.Enabled || !config.LogRequests || !config.LogResponses || !config.LogRetries || !config.LogResources {
		t.Errorf("Expected all event classes enabled, got %+v", config)
	}
}
