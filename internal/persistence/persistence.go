// Package persistence loads and saves the record cache and the search
// configuration between collection runs.
package persistence

import (
	"context"
	"strings"

	"github.com/agentstation/halloffame/internal/persistence/sqlite"
	"github.com/agentstation/halloffame/pkg/errors"
	"github.com/agentstation/halloffame/pkg/projects"
)

// Store persists the records of a collection run.
type Store interface {
	// Load returns the cached records. A missing cache is empty, not an error.
	Load(ctx context.Context) ([]*projects.Record, error)
	// Save replaces the cached records.
	Save(ctx context.Context, records []*projects.Record) error
	Close() error
}

// Kind selects a Store implementation.
type Kind string

// Store kinds.
const (
	KindFile   Kind = "yaml"
	KindSQLite Kind = "sqlite"
)

// ParseKind parses a store kind name.
func ParseKind(s string) (Kind, error) {
	switch k := Kind(strings.ToLower(strings.TrimSpace(s))); k {
	case "", KindFile, "file", "json":
		return KindFile, nil
	case KindSQLite:
		return KindSQLite, nil
	default:
		return "", errors.NewValidationError("store", s, "must be one of yaml, sqlite")
	}
}

// Open opens the store of the given kind at path.
func Open(kind Kind, path string) (Store, error) {
	switch kind {
	case KindFile, "":
		return NewFileStore(path), nil
	case KindSQLite:
		return sqlite.New(path)
	default:
		return nil, errors.NewValidationError("store", string(kind), "unsupported store kind")
	}
}
