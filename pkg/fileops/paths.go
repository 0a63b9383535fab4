package fileops

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// ExpandPath expands a leading "~/" (or a bare "~") to the user's home directory.
// Any other path is returned unchanged, including when the home directory
// cannot be determined.
//
// Usage example:
//
//	expanded := fileops.ExpandPath("~/src/lib")
//	// Returns something like "/home/user/src/lib"
func ExpandPath(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	if path == "~" {
		return home
	}
	return filepath.Join(home, path[2:])
}

// ResolvePath returns the absolute, cleaned form of raw. Relative paths are
// joined onto base (which should itself be absolute); "~/" is expanded first.
// An empty base falls back to the process working directory.
//
// Usage example:
//
//	p, err := fileops.ResolvePath("/repo/app", "../lib")
//	// p == "/repo/lib"
func ResolvePath(base, raw string) (string, error) {
	if strings.TrimSpace(raw) == "" {
		return "", fmt.Errorf("path cannot be empty")
	}

	expanded := ExpandPath(raw)
	if filepath.IsAbs(expanded) {
		return filepath.Clean(expanded), nil
	}

	if base == "" {
		abs, err := filepath.Abs(expanded)
		if err != nil {
			return "", fmt.Errorf("cannot resolve absolute path: %w", err)
		}
		return abs, nil
	}

	return filepath.Clean(filepath.Join(base, expanded)), nil
}

// CheckSizeLimit rejects regular files larger than maxSize bytes.
// A maxSize of zero or less means unlimited.
func CheckSizeLimit(info fs.FileInfo, maxSize int64) error {
	if maxSize <= 0 || info == nil {
		return nil
	}
	if info.Size() > maxSize {
		return fmt.Errorf("file size %d bytes exceeds limit %d bytes", info.Size(), maxSize)
	}
	return nil
}
