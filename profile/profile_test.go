package profile

import (
	"testing"
)

func TestNew(t *testing.T) {
	t.Parallel()

	p := New(WithMode("cpu"), WithPath("/tmp/x"), WithQuiet(true))

	if p != (Profiler{Mode: "cpu", Path: "/tmp/x", Quiet: true}) {
		t.Errorf("got %+v", p)
	}
}

func TestProfiler_Start_Disabled(t *testing.T) {
	t.Parallel()

	for _, mode := range []string{"", "bogus"} {
		s := Profiler{Mode: mode}.Start()
		if _, ok := s.(ignore); !ok {
			t.Errorf("mode %q: got %T, want no-op", mode, s)
		}

		s.Stop()
	}
}

func TestModes(t *testing.T) {
	t.Parallel()

	modes := Modes()

	if Enabled != (len(modes) > 0) {
		t.Errorf("Enabled = %t with %d modes", Enabled, len(modes))
	}
}
