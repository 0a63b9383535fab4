// Package filemanager provides read-only filesystem access relative to a
// single project directory.
//
// Caller-supplied names are joined onto the project path, so "docs/a.md"
// reads <project>/docs/a.md. Symlinks are followed and "../sibling" names
// resolve next to the project, exactly as a shell in the project directory
// would see them.
package filemanager

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"workspacebridge/internal/logging"
	"workspacebridge/pkg/fileops"
)

// FileManager reads files and lists directories of one project.
type FileManager struct {
	path   string
	logger *logging.AppLogger
}

// New returns a FileManager for projectPath, which must be an existing
// directory.
func New(projectPath string, logger *logging.AppLogger) (*FileManager, error) {
	info, err := os.Stat(projectPath)
	if err != nil {
		return nil, fmt.Errorf("cannot open project directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("cannot open project directory: %s is not a directory", projectPath)
	}
	if logger == nil {
		logger = logging.GetDefault()
	}
	return &FileManager{path: projectPath, logger: logger}, nil
}

// Path returns the project directory.
func (fm *FileManager) Path() string {
	return fm.path
}

// ListDirectory returns the entries of dir sorted by name. An empty dir lists
// the project root.
func (fm *FileManager) ListDirectory(dir string) ([]FileItem, error) {
	full := fm.resolve(dir)

	entries, err := os.ReadDir(full)
	if err != nil {
		return nil, err
	}

	items := make([]FileItem, 0, len(entries))
	for _, entry := range entries {
		items = append(items, NewFileItem(entry))
	}
	sortItems(items)

	fm.logger.Debug("Listed directory", "dir", full, "entries", len(items))
	return items, nil
}

// ReadTextFile returns the full content of file. Files larger than maxBytes
// are refused unless maxBytes is zero or less.
func (fm *FileManager) ReadTextFile(file string, maxBytes int64) (string, error) {
	full := fm.resolve(file)

	f, err := os.Open(full)
	if err != nil {
		return "", err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return "", err
	}
	if info.IsDir() {
		return "", fmt.Errorf("%s is a directory", file)
	}
	if err := fileops.CheckSizeLimit(info, maxBytes); err != nil {
		return "", fmt.Errorf("%s: %w", file, err)
	}

	data, err := io.ReadAll(f)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", file, err)
	}

	fm.logger.Debug("Read file", "file", full, "bytes", len(data))
	return string(data), nil
}

// Stat returns the file info of p relative to the project.
func (fm *FileManager) Stat(p string) (os.FileInfo, error) {
	return os.Stat(fm.resolve(p))
}

// PathExists reports whether p exists relative to the project.
func (fm *FileManager) PathExists(p string) bool {
	_, err := fm.Stat(p)
	return err == nil
}

// IsDirectory reports whether p is a directory.
func (fm *FileManager) IsDirectory(p string) bool {
	info, err := fm.Stat(p)
	return err == nil && info.IsDir()
}

// IsRegularFile reports whether p is a regular file.
func (fm *FileManager) IsRegularFile(p string) bool {
	info, err := fm.Stat(p)
	return err == nil && info.Mode().IsRegular()
}

func (fm *FileManager) resolve(p string) string {
	return filepath.Join(fm.path, strings.TrimSpace(p))
}
