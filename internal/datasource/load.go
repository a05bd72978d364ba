package datasource

import (
	"context"
	"fmt"
	"time"

	"github.com/vanderheijden86/beads-tui/pkg/debug"
	"github.com/vanderheijden86/beads-tui/pkg/model"
)

// Store loads the issue collection from a database path. Each load opens a
// fresh read-only connection so that a replaced or checkpointed database is
// always seen in full.
type Store struct {
	path string
}

// NewStore returns a Store for the database at path.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Path returns the database path.
func (s *Store) Path() string {
	return s.path
}

// LoadAll reads the complete, display-sorted issue collection.
func (s *Store) LoadAll(ctx context.Context) ([]model.Issue, error) {
	start := time.Now()

	reader, err := OpenSQLite(s.path)
	if err != nil {
		return nil, err
	}
	defer reader.Close()

	issues, err := reader.LoadAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading issues from %s: %w", s.path, err)
	}

	debug.LogTiming("store.LoadAll", time.Since(start))
	return issues, nil
}
