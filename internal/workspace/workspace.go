// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package workspace manages per-request temporary directories for the
// conversion pipeline. Each workspace is uniquely named and exclusively
// owned by one request; names never derive from request input.
package workspace

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// Workspace is a private temporary directory staging converter input and
// output for a single request.
type Workspace struct {
	dir      string
	released bool
}

// Manager allocates workspaces under a base directory.
type Manager struct {
	baseDir string
}

// NewManager returns a Manager rooted at baseDir. An empty baseDir uses the
// system temp directory.
func NewManager(baseDir string) *Manager {
	if baseDir == "" {
		baseDir = os.TempDir()
	}
	return &Manager{baseDir: baseDir}
}

// Acquire creates a fresh, uniquely named workspace directory. Uniqueness
// comes from a random UUID, so concurrent acquisitions cannot collide even
// within the same instant.
func (m *Manager) Acquire() (*Workspace, error) {
	if err := os.MkdirAll(m.baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating workspace base %s: %w", m.baseDir, err)
	}
	dir := filepath.Join(m.baseDir, "convert-"+uuid.NewString())
	if err := os.Mkdir(dir, 0o700); err != nil {
		return nil, fmt.Errorf("creating workspace: %w", err)
	}
	return &Workspace{dir: dir}, nil
}

// Dir returns the workspace directory path.
func (w *Workspace) Dir() string {
	return w.dir
}

// Join returns the path of name inside the workspace. name must be a bare
// file name; anything else would escape the workspace.
func (w *Workspace) Join(name string) string {
	return filepath.Join(w.dir, filepath.Base(name))
}

// Release removes the workspace and everything in it. Files that were never
// created are not an error, and releasing twice is a no-op. Callers pair
// every Acquire with a deferred Release so no exit path can leak the
// directory.
func (w *Workspace) Release() error {
	if w.released {
		return nil
	}
	w.released = true
	if err := os.RemoveAll(w.dir); err != nil {
		return fmt.Errorf("removing workspace %s: %w", w.dir, err)
	}
	return nil
}
