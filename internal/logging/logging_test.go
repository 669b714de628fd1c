package logging

import (
	"testing"

	"go.uber.org/zap/zapcore"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected LogLevel
	}{
		{name: "debug", input: "debug", expected: LevelDebug},
		{name: "info", input: "info", expected: LevelInfo},
		{name: "warn", input: "warn", expected: LevelWarn},
		{name: "warning alias", input: "warning", expected: LevelWarn},
		{name: "error", input: "error", expected: LevelError},
		{name: "case insensitive", input: "DEBUG", expected: LevelDebug},
		{name: "surrounding spaces", input: "  error ", expected: LevelError},
		{name: "unknown defaults to info", input: "verbose", expected: LevelInfo},
		{name: "empty defaults to info", input: "", expected: LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ParseLevel(tt.input); got != tt.expected {
				t.Errorf("ParseLevel(%q) = %v, want %v", tt.input, got, tt.expected)
			}
		})
	}
}

func TestLogLevelConstants(t *testing.T) {
	if LevelDebug >= LevelInfo {
		t.Error("LevelDebug should be less than LevelInfo")
	}
	if LevelInfo >= LevelWarn {
		t.Error("LevelInfo should be less than LevelWarn")
	}
	if LevelWarn >= LevelError {
		t.Error("LevelWarn should be less than LevelError")
	}
}

func TestLogLevelString(t *testing.T) {
	tests := []struct {
		level    LogLevel
		expected string
	}{
		{LevelDebug, "debug"},
		{LevelInfo, "info"},
		{LevelWarn, "warn"},
		{LevelError, "error"},
		{LogLevel(42), "unknown(42)"},
	}

	for _, tt := range tests {
		if got := tt.level.String(); got != tt.expected {
			t.Errorf("LogLevel(%d).String() = %q, want %q", tt.level, got, tt.expected)
		}
	}
}

func TestZapLevelMapping(t *testing.T) {
	tests := []struct {
		level    LogLevel
		expected zapcore.Level
	}{
		{LevelDebug, zapcore.DebugLevel},
		{LevelInfo, zapcore.InfoLevel},
		{LevelWarn, zapcore.WarnLevel},
		{LevelError, zapcore.ErrorLevel},
	}

	for _, tt := range tests {
		if got := tt.level.zapLevel(); got != tt.expected {
			t.Errorf("%v.zapLevel() = %v, want %v", tt.level, got, tt.expected)
		}
	}
}

func TestLoggingFunctionsDoNotPanic(t *testing.T) {
	Debug("debug %s", "message")
	Info("info %d", 1)
	Warn("warn %v", true)
	Error("error %s", "message")

	if Logger() == nil {
		t.Fatal("Logger() returned nil")
	}
}

func TestNewLoggerFormats(t *testing.T) {
	for _, format := range []string{"json", "console", ""} {
		l := newLogger(LevelInfo, format)
		if l == nil {
			t.Fatalf("newLogger(%q) returned nil", format)
		}
		if !l.Core().Enabled(zapcore.InfoLevel) {
			t.Errorf("newLogger(%q): info should be enabled", format)
		}
		if l.Core().Enabled(zapcore.DebugLevel) {
			t.Errorf("newLogger(%q): debug should be disabled at info level", format)
		}
	}
}
