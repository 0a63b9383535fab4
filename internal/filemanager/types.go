package filemanager

import (
	"io/fs"
	"sort"
)

// Item kinds reported by ListDirectory.
const (
	TypeFile      = "file"
	TypeDirectory = "directory"
)

// FileItem is one directory entry. Anything that is not a directory
// (regular files, symlinks, devices) is reported as a file.
type FileItem struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

func NewFileItem(entry fs.DirEntry) FileItem {
	kind := TypeFile
	if entry.IsDir() {
		kind = TypeDirectory
	}
	return FileItem{Name: entry.Name(), Type: kind}
}

func sortItems(items []FileItem) {
	sort.Slice(items, func(a, b int) bool { return items[a].Name < items[b].Name })
}
