package preflight_test

import (
	"path/filepath"
	"testing"

	"trackscan/internal/preflight"
)

func TestCheckDirectoryAccess(t *testing.T) {
	dir := t.TempDir()
	if result := preflight.CheckDirectoryAccess("Scan directory", dir); !result.Passed {
		t.Fatalf("expected pass for temp dir: %+v", result)
	}
	if result := preflight.CheckDirectoryAccess("Scan directory", filepath.Join(dir, "absent")); result.Passed {
		t.Fatalf("expected failure for missing dir: %+v", result)
	}
}

func TestCheckFreeSpace(t *testing.T) {
	dir := t.TempDir()
	if result := preflight.CheckFreeSpace(dir, 1); !result.Passed {
		t.Fatalf("expected at least one free byte: %+v", result)
	}
	// No filesystem has the full uint64 range available.
	if result := preflight.CheckFreeSpace(dir, ^uint64(0)); result.Passed {
		t.Fatalf("expected failure for absurd requirement: %+v", result)
	}
}

func TestFreeBytesMissingPath(t *testing.T) {
	if _, err := preflight.FreeBytes(filepath.Join(t.TempDir(), "absent")); err == nil {
		t.Fatal("expected error for missing path")
	}
}
