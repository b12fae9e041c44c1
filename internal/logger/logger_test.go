package logger

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
)

// TestParseLevel verifies level parsing for all valid and some invalid inputs
func TestParseLevel(t *testing.T) {
	valid := map[string]slog.Level{
		"debug": slog.LevelDebug,
		"info":  slog.LevelInfo,
		"warn":  slog.LevelWarn,
		"ERROR": slog.LevelError,
	}

	for input, want := range valid {
		got, err := ParseLevel(input)
		if err != nil {
			t.Errorf("ParseLevel(%q) returned error: %v", input, err)
		}
		if got != want {
			t.Errorf("ParseLevel(%q) = %v, want %v", input, got, want)
		}
	}

	for _, input := range []string{"", "trace", "verbose"} {
		if _, err := ParseLevel(input); err == nil {
			t.Errorf("ParseLevel(%q) expected error, got nil", input)
		}
	}
}

// TestNewLoggerWritesJSON verifies the logger emits JSON records at the configured level
func TestNewLoggerWritesJSON(t *testing.T) {
	var buf bytes.Buffer

	log, err := NewLogger("warn", &buf)
	if err != nil {
		t.Fatalf("NewLogger failed: %v", err)
	}

	log.Info("should be filtered")
	log.Warn("should appear", "key", "value")

	out := buf.String()
	if strings.Contains(out, "should be filtered") {
		t.Error("Expected info record to be filtered at warn level")
	}
	if !strings.Contains(out, "should appear") {
		t.Fatal("Expected warn record to be written")
	}

	var record map[string]interface{}
	if err := json.Unmarshal([]byte(strings.TrimSpace(out)), &record); err != nil {
		t.Fatalf("Expected valid JSON log record, got %q: %v", out, err)
	}
	if record["key"] != "value" {
		t.Errorf("Expected attribute key=value, got %v", record["key"])
	}
}

// TestNewLoggerInvalidLevel verifies invalid levels are rejected
func TestNewLoggerInvalidLevel(t *testing.T) {
	if _, err := NewLogger("loud", nil); err == nil {
		t.Error("Expected error for invalid level, got nil")
	}
}
