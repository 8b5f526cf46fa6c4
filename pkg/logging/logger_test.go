package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"testing"
)

func decodeEntry(t *testing.T, buf *bytes.Buffer) map[string]interface{} {
	t.Helper()
	var entry map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("Failed to parse log JSON %q: %v", buf.String(), err)
	}
	return entry
}

func TestNewLogger(t *testing.T) {
	t.Setenv(LevelEnv, "debug")
	logger := NewLogger()
	if logger == nil || logger.Logger == nil {
		t.Fatal("NewLogger() returned nil")
	}
	if !logger.Enabled(context.Background(), slog.LevelDebug) {
		t.Error("NewLogger() should honor the level from the environment")
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		name     string
		value    string
		expected slog.Level
	}{
		{"debug level", "DEBUG", slog.LevelDebug},
		{"info level", "INFO", slog.LevelInfo},
		{"warn level", "WARN", slog.LevelWarn},
		{"warning level", "WARNING", slog.LevelWarn},
		{"error level", "ERROR", slog.LevelError},
		{"lowercase debug", "debug", slog.LevelDebug},
		{"padded", " error ", slog.LevelError},
		{"invalid level", "INVALID", slog.LevelInfo},
		{"empty value", "", slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if level := ParseLevel(tt.value); level != tt.expected {
				t.Errorf("ParseLevel(%q) = %v, want %v", tt.value, level, tt.expected)
			}
		})
	}
}

func TestCorrelationID(t *testing.T) {
	t.Run("generate correlation ID", func(t *testing.T) {
		id1 := GenerateCorrelationID()
		id2 := GenerateCorrelationID()
		if id1 == "" || id2 == "" {
			t.Error("GenerateCorrelationID() returned empty string")
		}
		if id1 == id2 {
			t.Error("GenerateCorrelationID() returned duplicate IDs")
		}
	})

	t.Run("context with correlation ID", func(t *testing.T) {
		ctx := WithCorrelationID(context.Background(), "run-1")
		if got := GetCorrelationID(ctx); got != "run-1" {
			t.Errorf("GetCorrelationID() = %q, want %q", got, "run-1")
		}
	})

	t.Run("context without correlation ID", func(t *testing.T) {
		if id := GetCorrelationID(context.Background()); id != "" {
			t.Errorf("GetCorrelationID() = %q, want empty string", id)
		}
	})

	t.Run("auto-generate correlation ID", func(t *testing.T) {
		ctx := WithCorrelationID(context.Background(), "")
		if GetCorrelationID(ctx) == "" {
			t.Error("WithCorrelationID() with empty string should auto-generate ID")
		}
	})
}

func TestSanitizeAttributes(t *testing.T) {
	tests := []struct {
		name     string
		attr     slog.Attr
		expected string
	}{
		{"influx token", slog.String("influx_token", "abc"), "[REDACTED]"},
		{"password field", slog.String("PASSWORD", "secret123"), "[REDACTED]"},
		{"authorization", slog.String("authorization_header", "Bearer x"), "[REDACTED]"},
		{"ship id", slog.String("ship_id", "spaceship-3"), "spaceship-3"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := sanitizeAttributes(nil, tt.attr)
			if result.Value.String() != tt.expected {
				t.Errorf("sanitizeAttributes() = %q, want %q", result.Value.String(), tt.expected)
			}
		})
	}
}

func TestLoggerMethods(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerWithWriter(&buf, "DEBUG")
	ctx := WithCorrelationID(context.Background(), "test-id-123")

	t.Run("info logging", func(t *testing.T) {
		buf.Reset()
		logger.Info(ctx, "tick complete", "tick", 3)
		entry := decodeEntry(t, &buf)
		if entry["msg"] != "tick complete" || entry["level"] != "INFO" {
			t.Errorf("unexpected entry %v", entry)
		}
		if entry["correlation_id"] != "test-id-123" {
			t.Errorf("Expected correlation_id 'test-id-123', got %v", entry["correlation_id"])
		}
	})

	t.Run("error logging", func(t *testing.T) {
		buf.Reset()
		logger.Error(ctx, "ship tick failed", errors.New("boom"), "ship_id", "s1")
		entry := decodeEntry(t, &buf)
		if entry["level"] != "ERROR" || entry["error"] != "boom" {
			t.Errorf("unexpected entry %v", entry)
		}
	})

	t.Run("warn and debug logging", func(t *testing.T) {
		buf.Reset()
		logger.Warn(ctx, "negative spend")
		if entry := decodeEntry(t, &buf); entry["level"] != "WARN" {
			t.Errorf("Expected level 'WARN', got %v", entry["level"])
		}
		buf.Reset()
		logger.Debug(ctx, "detail")
		if entry := decodeEntry(t, &buf); entry["level"] != "DEBUG" {
			t.Errorf("Expected level 'DEBUG', got %v", entry["level"])
		}
	})

	t.Run("with attributes", func(t *testing.T) {
		buf.Reset()
		logger.With("component", "registry").Info(context.Background(), "hello")
		if entry := decodeEntry(t, &buf); entry["component"] != "registry" {
			t.Errorf("Expected component attribute, got %v", entry)
		}
	})
}

func TestDiscard(t *testing.T) {
	Discard().Error(context.Background(), "dropped", errors.New("x"))
}

func TestWrapError(t *testing.T) {
	if WrapError(nil, "context") != nil {
		t.Error("WrapError(nil) should return nil")
	}

	originalErr := errors.New("original error")
	wrapped := WrapError(originalErr, "ship %s tick %d", "s1", 42)
	if wrapped.Error() != "ship s1 tick 42: original error" {
		t.Errorf("WrapError() = %q", wrapped.Error())
	}
	if !errors.Is(wrapped, originalErr) {
		t.Error("WrapError() should preserve original error")
	}
}

func TestLogWithoutCorrelationID(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerWithWriter(&buf, "INFO")
	logger.Info(context.Background(), "test message")
	if strings.Contains(buf.String(), "correlation_id") {
		t.Error("Log should not contain correlation_id when none is set in context")
	}
}
