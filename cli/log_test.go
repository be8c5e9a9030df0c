package cli

import (
	"testing"

	"github.com/ardnew/calc/log"
)

func keepDefaultLogger(t *testing.T) {
	t.Helper()

	saved := log.Default()
	t.Cleanup(func() { log.SetDefault(saved) })
}

func TestLogConfig_Scan(t *testing.T) {
	tests := []struct {
		name   string
		args   []string
		level  string
		format string
		pretty bool
		caller bool
	}{
		{"separate value", []string{"--log-level", "warn"}, "warn", "", true, false},
		{"inline value", []string{"eval", "--log-level=error"}, "error", "", true, false},
		{"format", []string{"--log-format", "text", "-e", "1"}, "", "text", true, false},
		{"negated pretty", []string{"--no-log-pretty"}, "", "", false, false},
		{"assigned caller", []string{"--log-caller=true"}, "", "", true, true},
		{"negated assigned", []string{"--no-log-caller=false"}, "", "", true, true},
		{"invalid bool", []string{"--log-pretty=maybe"}, "", "", true, false},
		{"value is a flag", []string{"--log-level", "--log-caller"}, "", "", true, true},
		{"negated value flag", []string{"--no-log-level", "debug"}, "", "", true, false},
		{"single dash", []string{"-log-caller"}, "", "", true, false},
		{"after terminator", []string{"--", "--log-level=debug"}, "", "", true, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			keepDefaultLogger(t)

			c := logConfig{Pretty: true}
			c.scan(tt.args)

			if string(c.Level) != tt.level || string(c.Format) != tt.format ||
				c.Pretty != tt.pretty || c.Caller != tt.caller {
				t.Errorf("scan(%v) = level %q format %q pretty %v caller %v",
					tt.args, c.Level, c.Format, c.Pretty, c.Caller)
			}
		})
	}
}

func TestLogConfig_ScanConfiguresDefault(t *testing.T) {
	keepDefaultLogger(t)

	log.SetDefault(log.Make(nil))

	c := logConfig{}
	c.scan([]string{"--log-level=trace", "--log-format", "text"})

	if got := log.Default().Level(); got != log.LevelTrace {
		t.Errorf("default level = %v, want %v", got, log.LevelTrace)
	}

	if got := log.Default().Format(); got != log.FormatText {
		t.Errorf("default format = %v, want %v", got, log.FormatText)
	}
}

func TestLogConfig_Start(t *testing.T) {
	keepDefaultLogger(t)

	c := logConfig{Level: "error", Format: "json", TimeLayout: "none", Caller: true}
	c.start(t.Context())

	if l := log.Default(); l.Level() != log.LevelError || l.Format() != log.FormatJSON {
		t.Errorf("default logger = %v %v", l.Level(), l.Format())
	}
}
