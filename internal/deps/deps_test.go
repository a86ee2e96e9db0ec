package deps_test

import (
	"os"
	"path/filepath"
	"testing"

	"trackscan/internal/deps"
)

func TestCheckBinariesAbsolutePath(t *testing.T) {
	dir := t.TempDir()
	binary := filepath.Join(dir, "ffprobe")
	if err := os.WriteFile(binary, []byte("#!/bin/sh\n"), 0o755); err != nil {
		t.Fatalf("write binary: %v", err)
	}

	results := deps.CheckBinaries([]deps.Requirement{
		{Name: "ffprobe", Command: binary},
		{Name: "ffmpeg", Command: filepath.Join(dir, "ffmpeg")},
	})
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if !results[0].Available {
		t.Fatalf("executable file should be available: %+v", results[0])
	}
	if results[1].Available {
		t.Fatalf("missing file should be unavailable: %+v", results[1])
	}
}

func TestCheckBinariesRejectsNonExecutable(t *testing.T) {
	dir := t.TempDir()
	binary := filepath.Join(dir, "ffprobe")
	if err := os.WriteFile(binary, []byte("data"), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}

	results := deps.CheckBinaries([]deps.Requirement{{Name: "ffprobe", Command: binary}})
	if results[0].Available {
		t.Fatalf("non-executable file should be unavailable: %+v", results[0])
	}
}

func TestCheckBinariesUnconfigured(t *testing.T) {
	results := deps.CheckBinaries([]deps.Requirement{{Name: "ffprobe"}})
	if results[0].Available || results[0].Detail == "" {
		t.Fatalf("unconfigured command should carry a detail: %+v", results[0])
	}
}
