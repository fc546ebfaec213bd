// Package gallery keeps named, saved workspace documents.
//
// Two Store implementations are provided: MemoryStore for tests and
// short-lived sessions, and SQLiteStore (pure-Go modernc.org/sqlite) for a
// gallery that survives restarts. Both store the JSON encoding of the
// document, so loading an entry saved by an older version migrates it.
package gallery

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/katalvlaran/matinspect/depgraph"
	"github.com/katalvlaran/matinspect/document"
)

var (
	// ErrNotFound indicates no entry with the requested name.
	ErrNotFound = errors.New("gallery: entry not found")

	// ErrEmptyName indicates a blank entry name.
	ErrEmptyName = errors.New("gallery: empty name")
)

// Entry summarises one saved document.
type Entry struct {
	Name       string
	Timestamp  time.Time
	Dimensions depgraph.Dims
	Formula    string
}

// Store is a named collection of documents. Implementations are safe for
// concurrent use.
type Store interface {
	// Save stores d under name, replacing any previous entry.
	Save(ctx context.Context, name string, d *document.Document) error
	// Load returns the document saved under name, migrated to the current version.
	Load(ctx context.Context, name string) (*document.Document, error)
	// List returns every entry sorted by name.
	List(ctx context.Context) ([]Entry, error)
	// Delete removes the entry saved under name.
	Delete(ctx context.Context, name string) error
}

// encode validates d and returns its summary and payload.
func encode(name string, d *document.Document) (Entry, []byte, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Entry{}, nil, ErrEmptyName
	}
	payload, err := document.EncodeJSON(d)
	if err != nil {
		return Entry{}, nil, fmt.Errorf("gallery: save %q: %w", name, err)
	}

	return Entry{
		Name:       name,
		Timestamp:  d.Timestamp,
		Dimensions: *d.Dimensions,
		Formula:    d.Formula,
	}, payload, nil
}

func notFound(name string) error {
	return fmt.Errorf("%w: %q", ErrNotFound, name)
}
