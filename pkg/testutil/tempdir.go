// Package testutil provides shared helpers for tests. Temporary directories
// are grouped under a single per-process run directory so leftover state from
// a failed run is easy to find and remove.
package testutil

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"
)

var (
	runDirOnce sync.Once
	runDir     string
)

// GetTestRunDir returns the directory that groups all temporary directories
// created by this process. The directory is created on first use.
func GetTestRunDir() string {
	runDirOnce.Do(func() {
		base := filepath.Join(os.TempDir(), "bpelmig", "test-runs")
		runDir = filepath.Join(base, fmt.Sprintf("run-%d-%d", os.Getpid(), time.Now().UnixNano()))
		if err := os.MkdirAll(runDir, 0o755); err != nil {
			// Fall back to the system temp dir rather than failing the suite.
			runDir = os.TempDir()
		}
	})
	return runDir
}

// TempDir creates a temporary directory under the test run directory using
// the given pattern and removes it when the test completes.
func TempDir(t *testing.T, pattern string) string {
	t.Helper()

	dir, err := os.MkdirTemp(GetTestRunDir(), pattern)
	if err != nil {
		t.Fatalf("failed to create temp directory: %v", err)
	}
	t.Cleanup(func() {
		os.RemoveAll(dir)
	})
	return dir
}

// WriteFile writes content to path, creating parent directories as needed.
// It fails the test on error.
func WriteFile(t *testing.T, path, content string) {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("failed to create directory for %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
}
