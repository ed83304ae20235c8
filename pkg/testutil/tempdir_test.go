//go:build !integration

package testutil_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/bpelmig/bpelmig/pkg/testutil"
)

func TestGetTestRunDir(t *testing.T) {
	dir := testutil.GetTestRunDir()

	if _, err := os.Stat(dir); os.IsNotExist(err) {
		t.Errorf("test run directory does not exist: %s", dir)
	}

	if !strings.Contains(dir, "test-runs") {
		t.Errorf("test run directory should contain 'test-runs', got: %s", dir)
	}

	// Calling it again returns the same directory
	if dir2 := testutil.GetTestRunDir(); dir != dir2 {
		t.Errorf("GetTestRunDir should return same directory, got %s and %s", dir, dir2)
	}
}

func TestTempDir(t *testing.T) {
	tempDir := testutil.TempDir(t, "fixture-*")

	if _, err := os.Stat(tempDir); os.IsNotExist(err) {
		t.Errorf("temp directory does not exist: %s", tempDir)
	}

	if !strings.HasPrefix(tempDir, testutil.GetTestRunDir()) {
		t.Errorf("temp directory should be under test run directory, got: %s", tempDir)
	}

	if !strings.Contains(filepath.Base(tempDir), "fixture-") {
		t.Errorf("temp directory should contain pattern, got: %s", tempDir)
	}

	testFile := filepath.Join(tempDir, "test.txt")
	if err := os.WriteFile(testFile, []byte("test"), 0o644); err != nil {
		t.Errorf("failed to write to temp directory: %v", err)
	}
}

func TestWriteFile(t *testing.T) {
	tempDir := testutil.TempDir(t, "write-*")
	path := filepath.Join(tempDir, "bpel", "OrderProcess.bpel")

	testutil.WriteFile(t, path, "<process/>")

	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read written file: %v", err)
	}
	if string(content) != "<process/>" {
		t.Errorf("unexpected content: %s", content)
	}
}
