package pix

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

func TestSetThreads(t *testing.T) {
	t.Cleanup(func() { SetThreads(0) })

	SetThreads(6)
	if got := Threads(); got != 6 {
		t.Errorf("Threads() = %d, want 6", got)
	}

	SetThreads(0)
	if got := Threads(); got != runtime.NumCPU() {
		t.Errorf("Threads() = %d, want NumCPU %d", got, runtime.NumCPU())
	}

	// Negative values behave like unset.
	SetThreads(-3)
	if got := Threads(); got != runtime.NumCPU() {
		t.Errorf("Threads() after negative set = %d, want NumCPU %d", got, runtime.NumCPU())
	}
}

func TestLoadSettings(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pix.yaml")
	if err := os.WriteFile(path, []byte("threads: 4\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	s, err := LoadSettings(path)
	if err != nil {
		t.Fatalf("LoadSettings: %v", err)
	}
	if s.Threads != 4 {
		t.Errorf("Threads = %d, want 4", s.Threads)
	}

	t.Cleanup(func() { SetThreads(0) })
	s.Apply()
	if got := Threads(); got != 4 {
		t.Errorf("Threads() after Apply = %d, want 4", got)
	}
}

func TestLoadSettingsErrors(t *testing.T) {
	if _, err := LoadSettings(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("LoadSettings of a missing file should fail")
	}

	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("threads: [not a number\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadSettings(path); err == nil {
		t.Error("LoadSettings of malformed YAML should fail")
	}
}
