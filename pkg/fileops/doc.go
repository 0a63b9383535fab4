// Package fileops provides the small set of path helpers shared by the
// registry, the link-file loader and the filesystem tools.
//
// # Path resolution
//
// Project paths are always stored absolute. ResolvePath turns user input into
// that form: "~/" is expanded with ExpandPath, relative paths are joined onto
// an explicit base directory (the current project directory for link-file
// entries and runtime additions), and the result is cleaned.
//
//	p, err := fileops.ResolvePath("/repo/app", "../lib") // "/repo/lib"
//
// # Size limits
//
// CheckSizeLimit works on an fs.FileInfo so it can be combined with os.Root
// lookups without a second path-based stat.
package fileops
