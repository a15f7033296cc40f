package logging

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

func TestLogLevelString(t *testing.T) {
	tests := []struct {
		level LogLevel
		want  string
	}{
		{LevelDebug, "DEBUG"},
		{LevelInfo, "INFO"},
		{LevelWarn, "WARN"},
		{LevelError, "ERROR"},
		{LogLevel(42), "UNKNOWN"},
	}

	for _, tt := range tests {
		if got := tt.level.String(); got != tt.want {
			t.Errorf("LogLevel(%d).String() = %q, want %q", tt.level, got, tt.want)
		}
	}
}

func TestSlogLevelMapping(t *testing.T) {
	if LevelDebug.SlogLevel() != slog.LevelDebug {
		t.Error("LevelDebug should map to slog.LevelDebug")
	}
	if LevelError.SlogLevel() != slog.LevelError {
		t.Error("LevelError should map to slog.LevelError")
	}
	if LogLevel(99).SlogLevel() != slog.LevelInfo {
		t.Error("unknown levels should map to slog.LevelInfo")
	}
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	Init(LevelWarn, &buf)

	Debug("Test", "debug message")
	Info("Test", "info message")
	Warn("Test", "warn message")

	out := buf.String()
	if strings.Contains(out, "debug message") || strings.Contains(out, "info message") {
		t.Errorf("messages below Warn should be filtered, got: %s", out)
	}
	if !strings.Contains(out, "warn message") {
		t.Errorf("warn message should be logged, got: %s", out)
	}
}

func TestSubsystemAndErrorAttributes(t *testing.T) {
	var buf bytes.Buffer
	Init(LevelDebug, &buf)

	Error("Workload", errTest{}, "push failed for %s", "/etc/grafana/grafana.ini")

	out := buf.String()
	if !strings.Contains(out, "subsystem=Workload") {
		t.Errorf("expected subsystem attribute, got: %s", out)
	}
	if !strings.Contains(out, "boom") {
		t.Errorf("expected error attribute, got: %s", out)
	}
	if !strings.Contains(out, "/etc/grafana/grafana.ini") {
		t.Errorf("expected formatted message, got: %s", out)
	}
}

type errTest struct{}

func (errTest) Error() string { return "boom" }
