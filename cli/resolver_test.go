package cli

import (
	"strings"
	"testing"

	"github.com/alecthomas/kong"
)

func flag(name string) *kong.Flag {
	return &kong.Flag{Value: &kong.Value{Name: name}}
}

func TestResolve_Calc(t *testing.T) {
	src := `
		def(#log_level, "debug");
		def(#log_pretty, false);
		def(#depth, 2 * 8);
		def(#ratio, 0.5);
		def(#source, ["a.calc", "b.calc"]);
		def(#helper, 1)
	`

	r, err := resolve(t.Context())(strings.NewReader(src))
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}

	tests := []struct {
		flag string
		want any
	}{
		{"log-level", "debug"},
		{"log-pretty", false},
		{"depth", "16"},
		{"ratio", "0.5"},
		{"source", "a.calc,b.calc"},
		{"helper", "1"},
		{"true", nil},
		{"missing", nil},
	}

	for _, tt := range tests {
		t.Run(tt.flag, func(t *testing.T) {
			got, err := r.Resolve(nil, nil, flag(tt.flag))
			if err != nil {
				t.Fatalf("Resolve: %v", err)
			}

			if got != tt.want {
				t.Errorf("Resolve(%s) = %#v, want %#v", tt.flag, got, tt.want)
			}
		})
	}
}

func TestResolve_CalcInvalidIgnored(t *testing.T) {
	r, err := resolve(t.Context())(strings.NewReader("def(#log_level"))
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}

	if got, _ := r.Resolve(nil, nil, flag("log-level")); got != nil {
		t.Errorf("expected no values from a broken file, got %v", got)
	}
}

func TestResolveYAML(t *testing.T) {
	src := "log:\n  level: warn\n  caller: true\nsource:\n  - x.calc\ndepth: 3\n"

	r, err := resolveYAML(strings.NewReader(src))
	if err != nil {
		t.Fatalf("resolveYAML: %v", err)
	}

	tests := []struct {
		flag string
		want any
	}{
		{"log-level", "warn"},
		{"log-caller", true},
		{"source", "x.calc"},
		{"depth", "3"},
	}

	for _, tt := range tests {
		got, _ := r.Resolve(nil, nil, flag(tt.flag))
		if got != tt.want {
			t.Errorf("Resolve(%s) = %#v, want %#v", tt.flag, got, tt.want)
		}
	}

	empty, err := resolveYAML(strings.NewReader(""))
	if err != nil {
		t.Fatalf("empty document: %v", err)
	}

	if got, _ := empty.Resolve(nil, nil, flag("log-level")); got != nil {
		t.Errorf("empty document resolved %v", got)
	}
}
