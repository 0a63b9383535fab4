// Package registry holds the process-wide mapping from project name to
// absolute directory path.
//
// A Registry is created once at startup (see config.LoadWorkspace) and handed
// to every tool. Names are unique; inserting an existing name replaces its
// path in place. Paths are always stored absolute: relative input is resolved
// against the registry's base directory at insertion time.
package registry

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"

	"workspacebridge/internal/logging"
	"workspacebridge/pkg/fileops"
)

// Errors for registry operations.
var (
	ErrProjectNotFound = errors.New("project not found")
	ErrNotADirectory   = errors.New("not a directory")
)

// ProjectNotFoundError is returned when a name is not registered. Its message
// lists every registered name so a caller can correct itself.
type ProjectNotFoundError struct {
	Name      string
	Available []string
}

func (e *ProjectNotFoundError) Error() string {
	if len(e.Available) == 0 {
		return fmt.Sprintf("Unknown project: %s. No projects are registered.", e.Name)
	}
	return fmt.Sprintf("Unknown project: %s. Available projects: %s", e.Name, strings.Join(e.Available, ", "))
}

// Is lets errors.Is match ErrProjectNotFound.
func (e *ProjectNotFoundError) Is(target error) bool {
	return target == ErrProjectNotFound
}

// Project is a named reference to a directory.
type Project struct {
	Name string `json:"name"`
	Path string `json:"path"`
}

// Registry maps project names to absolute paths.
type Registry struct {
	mu     sync.RWMutex
	base   string
	order  []string
	paths  map[string]string
	logger *logging.AppLogger
}

// New creates an empty registry. Relative paths passed to Insert or Set are
// resolved against base.
func New(base string, logger *logging.AppLogger) *Registry {
	return &Registry{
		base:   base,
		paths:  make(map[string]string),
		logger: logger,
	}
}

// Resolve returns the absolute root path registered under name.
func (r *Registry) Resolve(name string) (string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	path, ok := r.paths[name]
	if !ok {
		return "", r.notFound(name)
	}
	return path, nil
}

// Insert verifies that rawPath is an existing directory and registers it
// under name. An existing entry with the same name is replaced.
func (r *Registry) Insert(name, rawPath string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("project name cannot be empty")
	}

	abs, err := fileops.ResolvePath(r.base, rawPath)
	if err != nil {
		return err
	}

	info, err := os.Stat(abs)
	if err != nil {
		return fmt.Errorf("cannot access %s: %w", abs, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%w: %s", ErrNotADirectory, abs)
	}

	r.store(name, abs)
	return nil
}

// Set registers name without touching the filesystem. The link-file loader
// uses it: linked paths are only checked when a tool first uses them.
func (r *Registry) Set(name, rawPath string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("project name cannot be empty")
	}

	abs, err := fileops.ResolvePath(r.base, rawPath)
	if err != nil {
		return err
	}

	r.store(name, abs)
	return nil
}

func (r *Registry) store(name, abs string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if prev, exists := r.paths[name]; exists {
		// TODO: surface shadowed projects to the caller once the tool output has a place for warnings.
		if r.logger != nil {
			r.logger.Debug("Replacing registered project", "name", name, "previous", prev, "path", abs)
		}
	} else {
		r.order = append(r.order, name)
	}
	r.paths[name] = abs
}

// Remove deletes the entry for name. The registry is left untouched when
// name is not registered.
func (r *Registry) Remove(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.paths[name]; !ok {
		return r.notFound(name)
	}

	delete(r.paths, name)
	for i, n := range r.order {
		if n == name {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}

// List returns a snapshot of every project in insertion order.
func (r *Registry) List() []Project {
	r.mu.RLock()
	defer r.mu.RUnlock()

	projects := make([]Project, 0, len(r.order))
	for _, name := range r.order {
		projects = append(projects, Project{Name: name, Path: r.paths[name]})
	}
	return projects
}

// Names returns the registered names in insertion order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return append([]string(nil), r.order...)
}

// Len reports how many projects are registered.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.order)
}

// notFound must be called with r.mu held.
func (r *Registry) notFound(name string) error {
	return &ProjectNotFoundError{
		Name:      name,
		Available: append([]string(nil), r.order...),
	}
}
