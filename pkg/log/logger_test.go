package log

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"testing"
)

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"nonsense", slog.LevelInfo},
	}
	for _, tt := range tests {
		if got := ParseLogLevel(tt.in); got != tt.want {
			t.Errorf("ParseLogLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestInitLogWritesToWriter(t *testing.T) {
	var buf bytes.Buffer
	InitLog("debug", FormatJSON, &buf)
	t.Cleanup(func() { InitLog("warn", FormatText, nil) })

	Debug("dispatching", "name", "flow/get")
	if !strings.Contains(buf.String(), `"name":"flow/get"`) {
		t.Fatalf("expected structured attribute in output, got %q", buf.String())
	}
}

func TestErrorfWraps(t *testing.T) {
	var buf bytes.Buffer
	InitLog("error", FormatText, &buf)
	t.Cleanup(func() { InitLog("warn", FormatText, nil) })

	base := errors.New("boom")
	err := Errorf("dispatch failed: %w", base)
	if !errors.Is(err, base) {
		t.Fatalf("expected wrapped error, got %v", err)
	}
	if !strings.Contains(buf.String(), "dispatch failed: boom") {
		t.Fatalf("expected error to be logged, got %q", buf.String())
	}
}
