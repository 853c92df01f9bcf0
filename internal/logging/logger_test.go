package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
)

func TestNew_JSONFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := WithComponent(New(Config{Level: slog.LevelInfo, Format: "json", Output: &buf}), "ingestor")

	logger.Debug("hidden")
	logger.Info("contact published", "topic", "contact.call")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("expected 1 log line, got %d: %q", len(lines), buf.String())
	}

	var entry map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &entry); err != nil {
		t.Fatalf("log line is not JSON: %v", err)
	}
	if entry["component"] != "ingestor" {
		t.Errorf("component = %v, want ingestor", entry["component"])
	}
	if entry["service"] != "contact-relay" {
		t.Errorf("service = %v, want contact-relay", entry["service"])
	}
	if entry["topic"] != "contact.call" {
		t.Errorf("topic = %v, want contact.call", entry["topic"])
	}
}

func TestNew_TextFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Level: slog.LevelDebug, Format: "text", Output: &buf})

	logger.Debug("visible")

	if !strings.Contains(buf.String(), "msg=visible") {
		t.Errorf("expected text output, got %q", buf.String())
	}
}

func TestDefaultConfig(t *testing.T) {
	t.Setenv("AWS_LAMBDA_FUNCTION_NAME", "")
	t.Setenv("DEBUG", "")
	t.Setenv("LOG_LEVEL", "")

	cfg := DefaultConfig()
	if cfg.Format != "text" {
		t.Errorf("Format = %s, want text outside Lambda", cfg.Format)
	}
	if cfg.Level != slog.LevelInfo {
		t.Errorf("Level = %v, want info", cfg.Level)
	}

	t.Setenv("AWS_LAMBDA_FUNCTION_NAME", "contact-relay")
	t.Setenv("DEBUG", "1")

	cfg = DefaultConfig()
	if cfg.Format != "json" {
		t.Errorf("Format = %s, want json inside Lambda", cfg.Format)
	}
	if cfg.Level != slog.LevelDebug {
		t.Errorf("Level = %v, want debug", cfg.Level)
	}
}

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"WARN":    slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"info":    slog.LevelInfo,
		"loud":    slog.LevelInfo,
	}
	for in, want := range tests {
		if got := ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}
