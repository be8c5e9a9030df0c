package log

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"
)

func useDefault(t *testing.T, l Logger) {
	t.Helper()

	original := Default()
	t.Cleanup(func() { SetDefault(original) })

	SetDefault(l)
}

func TestPackage_UsesDefault(t *testing.T) {
	var buf bytes.Buffer

	useDefault(t, Make(&buf, WithLevel(LevelTrace), WithPretty(false), WithTimeLayout("")))

	ctx := t.Context()

	tests := []struct {
		name  string
		fn    func()
		level string
	}{
		{"TraceContext", func() { TraceContext(ctx, "m", slog.String("key", "value")) }, "TRACE"},
		{"DebugContext", func() { DebugContext(ctx, "m", slog.String("key", "value")) }, "DEBUG"},
		{"InfoContext", func() { InfoContext(ctx, "m", slog.String("key", "value")) }, "INFO"},
		{"WarnContext", func() { WarnContext(ctx, "m", slog.String("key", "value")) }, "WARN"},
		{"ErrorContext", func() { ErrorContext(ctx, "m", slog.String("key", "value")) }, "ERROR"},
		{"Debug", func() { Debug("m", slog.String("key", "value")) }, "DEBUG"},
		{"Info", func() { Info("m", slog.String("key", "value")) }, "INFO"},
		{"Warn", func() { Warn("m", slog.String("key", "value")) }, "WARN"},
		{"Error", func() { Error("m", slog.String("key", "value")) }, "ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf.Reset()
			tt.fn()

			var rec map[string]any
			if err := json.Unmarshal(buf.Bytes(), &rec); err != nil {
				t.Fatalf("decode %q: %v", buf.String(), err)
			}

			if rec["level"] != tt.level || rec["msg"] != "m" || rec["key"] != "value" {
				t.Errorf("record = %v", rec)
			}
		})
	}
}

func TestConfig(t *testing.T) {
	var buf bytes.Buffer

	useDefault(t, Make(&buf, WithPretty(false), WithTimeLayout("")))

	Config(WithLevel(LevelWarn), WithFormat(FormatText))

	Info("dropped")
	Warn("kept")

	if got, want := buf.String(), "level=WARN msg=kept\n"; got != want {
		t.Errorf("output = %q, want %q", got, want)
	}

	if Default().Level() != LevelWarn {
		t.Errorf("Default().Level() = %v, want %v", Default().Level(), LevelWarn)
	}
}

func TestSetDefault_Zero(t *testing.T) {
	useDefault(t, Logger{})

	Error("discarded")

	if Default().Logger != nil {
		t.Error("zero default was replaced")
	}
}
