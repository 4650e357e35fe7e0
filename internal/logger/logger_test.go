package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func captureLogger() (*Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	zlog := zerolog.New(&buf).With().Timestamp().Logger()
	return &Logger{zlog: zlog}, &buf
}

func TestNew_ReturnsUsableLogger(t *testing.T) {
	for _, env := range []string{"development", "production", "test"} {
		logger := New(env)
		if logger == nil {
			t.Fatalf("New(%q) returned nil", env)
		}
		if logger.GetZerolog() == nil {
			t.Errorf("New(%q): expected zerolog instance", env)
		}
	}
}

func TestInfo_IncludesFields(t *testing.T) {
	logger, buf := captureLogger()

	logger.Info("refresh completed", map[string]interface{}{
		"key":      "apartment|budapest05",
		"listings": 42,
	})

	output := buf.String()
	if !strings.Contains(output, "refresh completed") {
		t.Error("Expected output to contain the message")
	}
	if !strings.Contains(output, "apartment|budapest05") {
		t.Error("Expected output to contain field value")
	}
}

func TestError_IncludesError(t *testing.T) {
	logger, buf := captureLogger()

	logger.Error("ledger append failed", errors.New("connection refused"), nil)

	var entry map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("Failed to parse log output: %v", err)
	}
	if entry["error"] != "connection refused" {
		t.Errorf("Expected error field, got %v", entry["error"])
	}
}

func TestWithRequestID_TagsChildLogger(t *testing.T) {
	logger, buf := captureLogger()

	logger.WithRequestID("req-123").Info("decision made", nil)

	if !strings.Contains(buf.String(), "req-123") {
		t.Error("Expected child logger output to carry the request id")
	}
}

func TestWithComponent_TagsChildLogger(t *testing.T) {
	logger, buf := captureLogger()

	logger.WithComponent("cache").Warn("refresh fetch failed", nil)

	var entry map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("Failed to parse log output: %v", err)
	}
	if entry["component"] != "cache" {
		t.Errorf("Expected component field, got %v", entry["component"])
	}
}

func TestWith_AddsContextFields(t *testing.T) {
	logger, buf := captureLogger()

	child := logger.With(map[string]interface{}{"location": "budapest08"})
	child.Debug("segmenting listings", nil)

	if !strings.Contains(buf.String(), "budapest08") {
		t.Error("Expected context field in child logger output")
	}
}
