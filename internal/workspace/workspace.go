// Package workspace adapts the teacher's DatabaseManager (lib/manage.go)
// from "one directory per named database" into "one directory of named
// index files," since the unit of persistence in this system is a single
// file, not a directory tree.
package workspace

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/segmentio/ksuid"

	"github.com/rickcollette/blockidx/internal/errs"
	"github.com/rickcollette/blockidx/internal/store"
)

const indexExt = ".idx"

// Manager tracks a directory of named index files and which one, if any, is
// currently active. It persists nothing of its own: List derives its
// answer from a directory listing, so it cannot drift from the index files
// it names.
type Manager struct {
	dir     string
	current string
}

// New creates a Manager rooted at dir. dir is created if it does not exist.
func New(dir string) (*Manager, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, errs.IoErrorf("create workspace dir %s: %w", dir, err)
	}
	return &Manager{dir: dir}, nil
}

// Dir returns the workspace's root directory.
func (m *Manager) Dir() string {
	return m.dir
}

func (m *Manager) pathFor(name string) string {
	return filepath.Join(m.dir, name+indexExt)
}

// Create makes a new, empty index file named name (without extension) in the
// workspace and returns its path. If name is empty, a collision-resistant
// name is generated with ksuid, for callers (such as the CLI's scratch-file
// mode) that don't care what the file is called.
func (m *Manager) Create(name string, overwrite bool) (string, error) {
	if name == "" {
		name = "idx-" + ksuid.New().String()
	}
	path := m.pathFor(name)
	if _, err := store.Create(path, overwrite); err != nil {
		return "", err
	}
	return path, nil
}

// Drop removes the named index file.
func (m *Manager) Drop(name string) error {
	path := m.pathFor(name)
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return errs.IoErrorf("index %q does not exist in workspace", name)
		}
		return errs.IoErrorf("stat %s: %w", path, err)
	}
	if err := os.Remove(path); err != nil {
		return errs.IoErrorf("remove %s: %w", path, err)
	}
	if m.current == name {
		m.current = ""
	}
	return nil
}

// List returns the names (without extension) of every index file in the
// workspace, sorted for stable output.
func (m *Manager) List() ([]string, error) {
	entries, err := os.ReadDir(m.dir)
	if err != nil {
		return nil, errs.IoErrorf("read workspace dir %s: %w", m.dir, err)
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if ext := filepath.Ext(e.Name()); ext == indexExt {
			names = append(names, strings.TrimSuffix(e.Name(), indexExt))
		}
	}
	sort.Strings(names)
	return names, nil
}

// Use marks name as the current index file and returns its path. It does
// not open the file; the caller does that via package btree.
func (m *Manager) Use(name string) (string, error) {
	path := m.pathFor(name)
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return "", errs.IoErrorf("index %q does not exist in workspace", name)
		}
		return "", errs.IoErrorf("stat %s: %w", path, err)
	}
	m.current = name
	return path, nil
}

// Current returns the name most recently passed to Use, or "" if none.
func (m *Manager) Current() string {
	return m.current
}
