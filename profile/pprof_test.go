//go:build pprof

package profile

import (
	"os"
	"path/filepath"
	"slices"
	"testing"
)

func TestModes(t *testing.T) {
	modes := Modes()

	if !slices.IsSorted(modes) {
		t.Errorf("Modes() = %v, not sorted", modes)
	}

	for _, want := range []string{"cpu", "mem", "trace"} {
		if !slices.Contains(modes, want) {
			t.Errorf("Modes() = %v, missing %q", modes, want)
		}
	}
}

func TestConfig_Start(t *testing.T) {
	dir := t.TempDir()

	Config{Mode: "mem", Dir: dir, Quiet: true}.Start().Stop()

	if _, err := os.Stat(filepath.Join(dir, "mem.pprof")); err != nil {
		t.Errorf("profile not written: %v", err)
	}
}
