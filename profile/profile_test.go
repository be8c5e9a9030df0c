package profile

import "testing"

func TestSupported(t *testing.T) {
	if Supported("") {
		t.Error(`Supported("") = true`)
	}

	if Supported("bogus") {
		t.Error(`Supported("bogus") = true`)
	}

	for _, mode := range Modes() {
		if !Supported(mode) {
			t.Errorf("Supported(%q) = false", mode)
		}
	}
}

func TestConfig_StartDisabled(t *testing.T) {
	for _, c := range []Config{{}, {Mode: "bogus", Dir: t.TempDir()}} {
		s := c.Start()
		if _, ok := s.(nop); !ok {
			t.Errorf("Start(%+v) = %T, want nop", c, s)
		}

		s.Stop()
	}
}
