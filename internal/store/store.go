// Package store persists identification runs so analyses can be listed
// and revisited later. CLI code uses only the Store interface; the
// implementation is SQLite or in-memory.
package store

import (
	"errors"

	"causeway/internal/identify"
)

// DefaultDBPath is the default relative path for the SQLite DB.
// Resolve against cwd; Open() creates the parent dir (e.g. .causeway).
const DefaultDBPath = ".causeway/causeway.db"

// ErrNotFound is returned when no analysis exists for the given id.
var ErrNotFound = errors.New("store: analysis not found")

// Record is one stored identification run.
type Record struct {
	ID         int64
	CreatedAt  string // RFC3339 UTC
	Source     string // graph spec path, or "inline"
	Treatments []string
	Outcomes   []string
	Identified bool
	Summary    identify.Summary
}

// Store is the persistence facade for analysis history.
type Store interface {
	// SaveAnalysis appends a record and returns its id. CreatedAt is
	// stamped by the store.
	SaveAnalysis(rec *Record) (int64, error)
	// GetAnalysis returns the record by id.
	GetAnalysis(id int64) (*Record, error)
	// ListAnalyses returns the most recent records, newest first.
	// limit <= 0 returns everything.
	ListAnalyses(limit int) ([]*Record, error)
	// Close releases the underlying resources.
	Close() error
}
