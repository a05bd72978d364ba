// Package datasource locates and reads the beads SQLite database.
//
// bu never writes to the database; all mutations go through br and the
// collection is reloaded wholesale afterwards.
package datasource

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// DefaultDBName is the database file inside a .beads directory.
const DefaultDBName = "beads.db"

// ErrDatabaseNotFound is returned when the database file does not exist.
var ErrDatabaseNotFound = errors.New("database not found")

// NotFoundError carries the path that was looked up.
type NotFoundError struct {
	Path string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("Database not found at %s", e.Path)
}

func (e *NotFoundError) Unwrap() error { return ErrDatabaseNotFound }

// DefaultDBPath returns $BEADS_DIR/beads.db when BEADS_DIR is set, else
// .beads/beads.db relative to the working directory.
func DefaultDBPath() string {
	if dir := os.Getenv("BEADS_DIR"); dir != "" {
		return filepath.Join(dir, DefaultDBName)
	}
	return filepath.Join(".beads", DefaultDBName)
}

// ResolveDBPath picks the database path (explicit flag first) and checks
// that it exists.
func ResolveDBPath(flag string) (string, error) {
	path := flag
	if path == "" {
		path = DefaultDBPath()
	}

	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", &NotFoundError{Path: path}
		}
		return "", fmt.Errorf("checking database %s: %w", path, err)
	}
	if info.IsDir() {
		// A .beads directory was passed instead of the file.
		return ResolveDBPath(filepath.Join(path, DefaultDBName))
	}
	return path, nil
}

// WorkspaceDir returns the directory br should run in for the database at
// dbPath: the parent of its .beads directory, or the database's own
// directory otherwise.
func WorkspaceDir(dbPath string) string {
	abs, err := filepath.Abs(dbPath)
	if err != nil {
		return ""
	}
	dir := filepath.Dir(abs)
	if filepath.Base(dir) == ".beads" {
		return filepath.Dir(dir)
	}
	return dir
}
