package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"github.com/roxaskeyheart/rgbnet-core/internal/infrastructure/config"
)

func TestNew_Formats(t *testing.T) {
	for _, format := range []string{"json", "text", ""} {
		t.Run(format, func(t *testing.T) {
			logger := New(config.LoggingConfig{Level: "info", Format: format, Output: "stderr"}, "1.0.0")
			if logger == nil {
				t.Fatal("expected non-nil logger")
			}
		})
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected slog.Level
	}{
		{"debug level", "debug", slog.LevelDebug},
		{"info level", "info", slog.LevelInfo},
		{"warn level", "warn", slog.LevelWarn},
		{"warning level", "warning", slog.LevelWarn},
		{"error level", "error", slog.LevelError},
		{"unknown defaults to info", "unknown", slog.LevelInfo},
		{"empty defaults to info", "", slog.LevelInfo},
		{"case insensitive", " DEBUG ", slog.LevelDebug},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if result := parseLevel(tt.input); result != tt.expected {
				t.Errorf("parseLevel(%q) = %v, want %v", tt.input, result, tt.expected)
			}
		})
	}
}

func TestNewWithWriter_DefaultFields(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithWriter(&buf, config.LoggingConfig{Level: "info", Format: "json"}, "test")

	logger.Component("host").Info("device added", "device", "Wooting Two")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("failed to parse JSON output: %v", err)
	}

	want := map[string]string{
		"msg":       "device added",
		"service":   ServiceName,
		"version":   "test",
		"component": "host",
		"device":    "Wooting Two",
	}
	for k, v := range want {
		if entry[k] != v {
			t.Errorf("%s = %v, want %q", k, entry[k], v)
		}
	}
}

func TestNewWithWriter_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithWriter(&buf, config.LoggingConfig{Level: "warn", Format: "text"}, "test")

	logger.Debug("frame")
	logger.Info("started")
	logger.Warn("teardown failed")

	out := buf.String()
	if strings.Contains(out, "frame") || strings.Contains(out, "started") {
		t.Errorf("below-level entries logged: %q", out)
	}
	if !strings.Contains(out, "teardown failed") {
		t.Errorf("warn entry missing: %q", out)
	}
}

func TestLogger_With(t *testing.T) {
	logger := Default()
	child := logger.With("component", "mqtt")

	if child == nil {
		t.Fatal("expected non-nil child logger")
	}
	if child == logger {
		t.Error("expected child logger to be different from parent")
	}
}

func TestSetLevel_SharedWithChildren(t *testing.T) {
	var buf bytes.Buffer
	root := NewWithWriter(&buf, config.LoggingConfig{Level: "info", Format: "text"}, "test")
	child := root.Component("sink")

	child.Debug("batch submitted")
	if buf.Len() != 0 {
		t.Fatalf("debug logged at info level: %q", buf.String())
	}

	if err := root.SetLevel("DEBUG"); err != nil {
		t.Fatalf("SetLevel() error = %v", err)
	}
	child.Debug("batch submitted")
	if !strings.Contains(buf.String(), "batch submitted") {
		t.Error("child did not follow the new level")
	}
	if child.Level() != "debug" {
		t.Errorf("Level() = %q, want debug", child.Level())
	}

	if err := root.SetLevel("verbose"); err == nil {
		t.Error("SetLevel(verbose) should fail")
	}
	if root.Level() != "debug" {
		t.Errorf("failed SetLevel changed the level to %q", root.Level())
	}
}
