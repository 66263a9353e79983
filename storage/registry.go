package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
)

// payloadColumn is the TEXT column carrying the secondary index on every
// database's implicit table (column 1 of the fixed schema).
const payloadColumn = 1

// Registry owns the named Table instances of one process. Every database
// is one Table persisted as <dataDir>/<name>.dat.
type Registry struct {
	mu      sync.RWMutex
	dataDir string
	tables  map[string]*Table
}

// OpenRegistry creates a registry rooted at dataDir, creating the
// directory if needed.
func OpenRegistry(dataDir string) (*Registry, error) {
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	return &Registry{
		dataDir: dataDir,
		tables:  make(map[string]*Table),
	}, nil
}

// Create registers a new database: a fixed-schema table, preloaded from
// its file when one survives from an earlier run, with the secondary
// index built on the payload column.
func (r *Registry) Create(name string) (*Table, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.tables[name]; exists {
		return nil, &DatabaseExistsError{Name: name}
	}
	t, err := NewTable(DefaultSchema())
	if err != nil {
		return nil, err
	}
	if err := t.Load(r.path(name)); err != nil {
		return nil, fmt.Errorf("load database %q: %w", name, err)
	}
	if err := t.CreateIndex(payloadColumn); err != nil {
		return nil, err
	}
	r.tables[name] = t
	return t, nil
}

// Use returns the registered table for name.
func (r *Registry) Use(name string) (*Table, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.tables[name]
	if !ok {
		return nil, &DatabaseNotFoundError{Name: name}
	}
	return t, nil
}

// Drop detaches the in-memory table. The on-disk file is preserved, so a
// later Create under the same name reloads the old rows.
func (r *Registry) Drop(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.tables[name]; !ok {
		return &DatabaseNotFoundError{Name: name}
	}
	delete(r.tables, name)
	return nil
}

// List returns the registered database names in sorted order.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.tables))
	for name := range r.tables {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// FlushAll saves every registered table. Called once at shutdown; a
// failing save does not stop the others.
func (r *Registry) FlushAll() error {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var errs []error
	for name, t := range r.tables {
		if err := t.Save(r.path(name)); err != nil {
			errs = append(errs, fmt.Errorf("save database %q: %w", name, err))
		}
	}
	return errors.Join(errs...)
}

func (r *Registry) path(name string) string {
	return filepath.Join(r.dataDir, databaseFileName(name))
}

// databaseFileName converts a database name to a filesystem-safe
// filename by percent-encoding bytes outside [a-zA-Z0-9_-].
// For example, "my db" becomes "my%20db.dat".
func databaseFileName(name string) string {
	var b strings.Builder
	for _, c := range []byte(name) {
		if isFilenameSafe(c) {
			b.WriteByte(c)
		} else {
			fmt.Fprintf(&b, "%%%02X", c)
		}
	}
	b.WriteString(".dat")
	return b.String()
}

func isFilenameSafe(c byte) bool {
	return (c >= 'a' && c <= 'z') ||
		(c >= 'A' && c <= 'Z') ||
		(c >= '0' && c <= '9') ||
		c == '_' || c == '-'
}
