package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alecthomas/kong"
	"github.com/goccy/go-yaml"

	"github.com/ardnew/calc/lang"
)

// initCLI is a command line with one flag of each kind written by init.
type initCLI struct {
	LogLevel string   `default:"info"`
	Depth    int      `default:"3"`
	Pretty   bool     `negatable:""`
	Empty    string
	Source   []string `short:"s"`

	Init Init `cmd:""`
}

// parseInit parses args against initCLI with the config file at path.
func parseInit(t *testing.T, path string, args ...string) (*initCLI, *kong.Context) {
	t.Helper()

	var cli initCLI

	parser, err := kong.New(&cli, kong.Vars{ConfigIdentifier: path})
	if err != nil {
		t.Fatal(err)
	}

	ktx, err := parser.Parse(append([]string{"init"}, args...))
	if err != nil {
		t.Fatal(err)
	}

	return &cli, ktx
}

func TestInit_Run(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		existing bool
		file     string
		wantErr  error
	}{
		{name: "calc", file: "config"},
		{name: "yaml", args: []string{"--format=yaml"}, file: "config.yaml"},
		{name: "exists", existing: true, file: "config", wantErr: ErrFileExists},
		{name: "force", args: []string{"--force"}, existing: true, file: "config"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			path := filepath.Join(dir, "config")

			if tt.existing {
				if err := os.WriteFile(path, []byte("old"), 0o600); err != nil {
					t.Fatal(err)
				}
			}

			cli, ktx := parseInit(t, path, tt.args...)

			err := cli.Init.Run(WithContext(t.Context(), ktx))
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) || !errors.Is(err, ErrWriteConfig) {
					t.Fatalf("Run() error = %v, want %v", err, tt.wantErr)
				}

				return
			}

			if err != nil {
				t.Fatalf("Run() error = %v", err)
			}

			data, err := os.ReadFile(filepath.Join(dir, tt.file))
			if err != nil {
				t.Fatal(err)
			}

			if strings.Contains(string(data), "old") {
				t.Error("existing file was not replaced")
			}
		})
	}
}

func TestInit_WriteCalc(t *testing.T) {
	_, ktx := parseInit(t, "", "--depth=5", "--pretty", "-s", "x.calc")

	var sb strings.Builder

	if err := (&Init{Format: "calc"}).write(&sb, flagValues(ktx)); err != nil {
		t.Fatalf("write: %v", err)
	}

	want := "def(#log_level, \"info\");\ndef(#depth, 5);\ndef(#pretty, true)\n"
	if got := sb.String(); got != want {
		t.Errorf("write = %q, want %q", got, want)
	}

	// The written configuration is a valid program defining each flag.
	env := lang.NewEnvironment()
	if _, err := env.Eval(t.Context(), sb.String()); err != nil {
		t.Fatalf("eval written config: %v", err)
	}

	for _, name := range []string{"log_level", "depth", "pretty"} {
		if _, ok := env.Global().Get(name); !ok {
			t.Errorf("config does not define %s", name)
		}
	}
}

func TestInit_WriteYAML(t *testing.T) {
	_, ktx := parseInit(t, "", "--no-pretty")

	var sb strings.Builder

	if err := (&Init{Format: "yaml"}).write(&sb, flagValues(ktx)); err != nil {
		t.Fatalf("write: %v", err)
	}

	var doc map[string]any
	if err := yaml.Unmarshal([]byte(sb.String()), &doc); err != nil {
		t.Fatalf("unmarshal %q: %v", sb.String(), err)
	}

	want := map[string]string{"log-level": "info", "depth": "3", "pretty": "false"}

	if len(doc) != len(want) {
		t.Errorf("doc = %v, want keys %v", doc, want)
	}

	for key, value := range want {
		if got := fmt.Sprint(doc[key]); got != value {
			t.Errorf("doc[%q] = %q, want %q", key, got, value)
		}
	}
}

func TestFlagValues_Skipped(t *testing.T) {
	_, ktx := parseInit(t, "", "-s", "a.calc")

	for _, s := range flagValues(ktx) {
		switch s.name {
		case "help", "source", "empty":
			t.Errorf("flag %q was not skipped", s.name)
		}
	}
}
