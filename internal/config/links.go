package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"workspacebridge/internal/logging"
	"workspacebridge/internal/registry"
)

// LinkFileName is looked up in the current project directory only.
const LinkFileName = ".workspace-bridge.json"

// LinkStatus classifies the outcome of reading the link file.
type LinkStatus int

const (
	LinkFileAbsent LinkStatus = iota
	LinkFileMalformed
	LinkFileValid
)

func (s LinkStatus) String() string {
	switch s {
	case LinkFileAbsent:
		return "absent"
	case LinkFileMalformed:
		return "malformed"
	case LinkFileValid:
		return "valid"
	default:
		return fmt.Sprintf("LinkStatus(%d)", int(s))
	}
}

// LinkEntry is one usable entry of the link file. Path is still raw here;
// it is resolved against the link file's directory when registered.
type LinkEntry struct {
	Name string `json:"name"`
	Path string `json:"path"`
}

// LinkResult is the outcome of LoadLinks. Err is set only for
// LinkFileMalformed, Entries only for LinkFileValid.
type LinkResult struct {
	Status  LinkStatus
	Path    string
	Entries []LinkEntry
	Err     error
}

type linkFile struct {
	Projects json.RawMessage `json:"projects"`
}

// LoadLinks reads <dir>/.workspace-bridge.json. It never returns an error:
// a missing file and an unparsable file are both reported through Status.
// Entries missing a name or a path are dropped without comment.
func LoadLinks(dir string) LinkResult {
	path := filepath.Join(dir, LinkFileName)

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return LinkResult{Status: LinkFileAbsent, Path: path}
		}
		return LinkResult{Status: LinkFileMalformed, Path: path, Err: fmt.Errorf("failed to read link file: %w", err)}
	}

	var doc linkFile
	if err := json.Unmarshal(data, &doc); err != nil {
		return LinkResult{Status: LinkFileMalformed, Path: path, Err: fmt.Errorf("failed to parse link file: %w", err)}
	}

	var raw []json.RawMessage
	if len(doc.Projects) > 0 && string(doc.Projects) != "null" {
		if err := json.Unmarshal(doc.Projects, &raw); err != nil {
			return LinkResult{Status: LinkFileMalformed, Path: path, Err: fmt.Errorf("link file \"projects\" must be an array: %w", err)}
		}
	}

	entries := make([]LinkEntry, 0, len(raw))
	for _, item := range raw {
		var entry LinkEntry
		if err := json.Unmarshal(item, &entry); err != nil {
			continue
		}
		if entry.Name == "" || entry.Path == "" {
			continue
		}
		entries = append(entries, entry)
	}

	return LinkResult{Status: LinkFileValid, Path: path, Entries: entries}
}

// LoadWorkspace builds the registry for a server started in dir. The current
// project is registered under the final path segment of dir, followed by
// every linked project in file order (a later entry replaces an earlier one
// of the same name, including the current project). It cannot fail: a bad
// link file is logged and ignored.
func LoadWorkspace(dir string, logger *logging.AppLogger) (*registry.Registry, string) {
	reg := registry.New(dir, logger)

	current := filepath.Base(dir)
	if err := reg.Set(current, dir); err != nil {
		logger.Warn("Could not register current project", "dir", dir, "error", err)
	}

	links := LoadLinks(dir)
	switch links.Status {
	case LinkFileAbsent:
		logger.Debug("No link file found", "path", links.Path)
	case LinkFileMalformed:
		logger.Warn("Ignoring malformed link file", "path", links.Path, "error", links.Err)
	case LinkFileValid:
		for _, entry := range links.Entries {
			if err := reg.Set(entry.Name, entry.Path); err != nil {
				logger.Debug("Skipping link entry", "name", entry.Name, "error", err)
			}
		}
		logger.Info("Loaded linked projects", "path", links.Path, "count", len(links.Entries))
	}

	return reg, current
}
