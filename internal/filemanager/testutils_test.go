package filemanager

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"workspacebridge/internal/logging"
)

// createTempDirStructure creates a directory tree from a map. Keys ending in
// "/" are directories; every other key is a file holding its value.
func createTempDirStructure(t *testing.T, structure map[string]string) string {
	t.Helper()

	tempDir := t.TempDir()

	for path, content := range structure {
		fullPath := filepath.Join(tempDir, path)

		if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
			t.Fatalf("Failed to create parent dirs for %s: %v", path, err)
		}

		if strings.HasSuffix(path, "/") {
			if err := os.MkdirAll(fullPath, 0755); err != nil {
				t.Fatalf("Failed to create directory %s: %v", path, err)
			}
		} else {
			if err := os.WriteFile(fullPath, []byte(content), 0644); err != nil {
				t.Fatalf("Failed to create file %s: %v", path, err)
			}
		}
	}

	return tempDir
}

// newTestManager returns a FileManager for dir.
func newTestManager(t *testing.T, dir string) *FileManager {
	t.Helper()
	logger, _ := logging.NewTestLogger()
	fm, err := New(dir, logger)
	if err != nil {
		t.Fatalf("failed to open file manager on %s: %v", dir, err)
	}
	return fm
}

// createTestSymlink creates a symbolic link with platform-aware error handling
func createTestSymlink(t *testing.T, target, link string) {
	t.Helper()
	if err := os.Symlink(target, link); err != nil {
		if runtime.GOOS == "windows" {
			t.Skipf("symlink creation failed on Windows: %v", err)
		}
		t.Fatalf("failed to create symlink: %v", err)
	}
}
