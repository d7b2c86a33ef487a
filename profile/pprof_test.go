//go:build pprof

package profile

import (
	"os"
	"path/filepath"
	"slices"
	"testing"
)

func TestModes_Sorted(t *testing.T) {
	t.Parallel()

	if m := Modes(); !slices.IsSorted(m) || !slices.Contains(m, "cpu") {
		t.Errorf("got %q", m)
	}
}

// pkg/profile allows one session per process, so this test is not parallel.
func TestProfiler_Start_CPU(t *testing.T) {
	dir := t.TempDir()

	Profiler{Mode: "cpu", Path: dir, Quiet: true}.Start().Stop()

	if _, err := os.Stat(filepath.Join(dir, "cpu.pprof")); err != nil {
		t.Errorf("profile not written: %v", err)
	}
}
