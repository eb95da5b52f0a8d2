package logger

import (
	"context"
	"errors"
	"log/slog"
	"testing"
)

func TestScope(t *testing.T) {
	attr := Scope("query")
	if attr.Key != "scope" {
		t.Errorf("Scope() key = %q, want %q", attr.Key, "scope")
	}
	if attr.Value.String() != "query" {
		t.Errorf("Scope() value = %q, want %q", attr.Value.String(), "query")
	}
}

func TestError(t *testing.T) {
	err := errors.New("store unavailable")
	attr := Error(err)
	if attr.Key != "error" {
		t.Errorf("Error() key = %q, want %q", attr.Key, "error")
	}
	if attr.Value.Any() != err {
		t.Errorf("Error() value = %v, want %v", attr.Value.Any(), err)
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"", slog.LevelInfo},
		{"info", slog.LevelInfo},
		{"DEBUG", slog.LevelDebug},
		{" warn ", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"Error", slog.LevelError},
		{"verbose", slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := ParseLevel(tt.in); got != tt.want {
				t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestNewLogger_FromEnv(t *testing.T) {
	t.Setenv("LOG_LEVEL", "error")

	log := NewLogger()
	if log == nil {
		t.Fatal("NewLogger() returned nil")
	}
	if !log.Enabled(context.Background(), slog.LevelError) {
		t.Error("NewLogger() should have error level enabled when LOG_LEVEL=error")
	}
	if log.Enabled(context.Background(), slog.LevelWarn) {
		t.Error("NewLogger() should NOT have warn level enabled when LOG_LEVEL=error")
	}
}
