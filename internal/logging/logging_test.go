package logging

import (
	"bytes"
	"log"
	"os"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		want   LogLevel
		wantOK bool
	}{
		{name: "debug", input: "debug", want: LevelDebug, wantOK: true},
		{name: "info", input: "info", want: LevelInfo, wantOK: true},
		{name: "warn", input: "warn", want: LevelWarn, wantOK: true},
		{name: "Warning alias", input: "warning", want: LevelWarn, wantOK: true},
		{name: "error", input: "error", want: LevelError, wantOK: true},
		{name: "Case insensitive", input: "DEBUG", want: LevelDebug, wantOK: true},
		{name: "Surrounding space", input: "  error ", want: LevelError, wantOK: true},
		{name: "Unknown falls back to info", input: "verbose", want: LevelInfo, wantOK: false},
		{name: "Empty falls back to info", input: "", want: LevelInfo, wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseLevel(tt.input)
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("ParseLevel(%q) = (%v, %v), want (%v, %v)", tt.input, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestLevelFromEnv(t *testing.T) {
	t.Run("DEBUG wins over LOG_LEVEL", func(t *testing.T) {
		t.Setenv("DEBUG", "true")
		t.Setenv("LOG_LEVEL", "error")
		if got := levelFromEnv(); got != LevelDebug {
			t.Errorf("levelFromEnv() = %v, want debug", got)
		}
	})

	t.Run("LOG_LEVEL used when DEBUG unset", func(t *testing.T) {
		t.Setenv("DEBUG", "")
		t.Setenv("LOG_LEVEL", "warn")
		if got := levelFromEnv(); got != LevelWarn {
			t.Errorf("levelFromEnv() = %v, want warn", got)
		}
	})
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	log.SetOutput(&buf)
	defer log.SetOutput(os.Stderr)

	original := GetLevel()
	defer SetLevel(original)

	SetLevel(LevelWarn)

	Debug("debug message")
	Info("info message")
	Warn("warn message")
	Error("error message")

	out := buf.String()
	if strings.Contains(out, "debug message") || strings.Contains(out, "info message") {
		t.Errorf("messages below warn should be filtered, got: %s", out)
	}
	if !strings.Contains(out, "[WARN] warn message") {
		t.Errorf("expected warn message, got: %s", out)
	}
	if !strings.Contains(out, "[ERROR] error message") {
		t.Errorf("expected error message, got: %s", out)
	}
}

func TestIsDebugEnabled(t *testing.T) {
	original := GetLevel()
	defer SetLevel(original)

	SetLevel(LevelDebug)
	if !IsDebugEnabled() {
		t.Error("IsDebugEnabled() = false at debug level")
	}
	SetLevel(LevelInfo)
	if IsDebugEnabled() {
		t.Error("IsDebugEnabled() = true at info level")
	}
}

func TestLogLevelString(t *testing.T) {
	tests := []struct {
		level LogLevel
		want  string
	}{
		{LevelDebug, "debug"},
		{LevelInfo, "info"},
		{LevelWarn, "warn"},
		{LevelError, "error"},
		{LogLevel(42), "unknown(42)"},
	}

	for _, tt := range tests {
		if got := tt.level.String(); got != tt.want {
			t.Errorf("LogLevel(%d).String() = %q, want %q", int(tt.level), got, tt.want)
		}
	}
}
