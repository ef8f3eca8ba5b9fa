package logging

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  slog.Level
	}{
		{"info", "info", slog.LevelInfo},
		{"debug", "debug", slog.LevelDebug},
		{"trace", "trace", LevelTrace},
		{"warn", "warn", slog.LevelWarn},
		{"error", "error", slog.LevelError},
		{"uppercase DEBUG", "DEBUG", slog.LevelDebug},
		{"mixed case Trace", "Trace", LevelTrace},
		{"unknown defaults to info", "unknown", slog.LevelInfo},
		{"empty defaults to info", "", slog.LevelInfo},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ParseLevel(tt.input); got != tt.want {
				t.Errorf("ParseLevel(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger("info", &buf)
	logger.Debug("hidden")
	logger.Info("shown", "generation", 3)
	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("debug message logged at info level: %q", out)
	}
	if !strings.Contains(out, "shown") || !strings.Contains(out, "generation=3") {
		t.Errorf("info message missing: %q", out)
	}
}

func TestTraceLabel(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger("trace", &buf)
	logger.Log(context.Background(), LevelTrace, "tick")
	if !strings.Contains(buf.String(), "level=TRACE") {
		t.Errorf("trace level not labelled: %q", buf.String())
	}
}

func TestNewFileLogger(t *testing.T) {
	logger, closeFn, err := NewFileLogger("info", "")
	if err != nil || logger == nil || closeFn == nil {
		t.Fatalf("discard logger: %v", err)
	}
	logger.Info("nowhere")
	if err := closeFn(); err != nil {
		t.Fatal(err)
	}

	path := filepath.Join(t.TempDir(), "logs", "lifegrid.log")
	logger, closeFn, err = NewFileLogger("debug", path)
	if err != nil {
		t.Fatal(err)
	}
	logger.Debug("written")
	if err := closeFn(); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "written") {
		t.Errorf("log file = %q", data)
	}
}
