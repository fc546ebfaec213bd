package gallery

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite" // pure go sqlite driver

	"github.com/katalvlaran/matinspect/depgraph"
	"github.com/katalvlaran/matinspect/document"
)

// DefaultPath is the database file used when none is given.
const DefaultPath = "matinspect.db"

const schema = `CREATE TABLE IF NOT EXISTS gallery (
	name TEXT PRIMARY KEY,
	saved_at TEXT NOT NULL,
	n_rows INTEGER NOT NULL,
	n_cols INTEGER NOT NULL,
	formula TEXT NOT NULL,
	payload BLOB NOT NULL
)`

// SQLiteStore is a Store backed by one SQLite table. Each entry keeps its
// summary in columns, so List never decodes payloads.
type SQLiteStore struct {
	db   *sql.DB
	path string
}

var _ Store = (*SQLiteStore)(nil)

// NewSQLiteStore opens (creating if needed) the gallery database at path.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	if path == "" {
		path = DefaultPath
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil && !errors.Is(err, os.ErrExist) {
		return nil, fmt.Errorf("gallery: create dirs: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("gallery: open sqlite: %w", err)
	}
	if _, err = db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("gallery: create table: %w", err)
	}

	return &SQLiteStore{db: db, path: path}, nil
}

// Save implements Store.
func (s *SQLiteStore) Save(ctx context.Context, name string, d *document.Document) error {
	e, payload, err := encode(name, d)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO gallery(name,saved_at,n_rows,n_cols,formula,payload) VALUES(?,?,?,?,?,?)
		ON CONFLICT(name) DO UPDATE SET saved_at=excluded.saved_at, n_rows=excluded.n_rows,
		n_cols=excluded.n_cols, formula=excluded.formula, payload=excluded.payload`,
		e.Name, e.Timestamp.UTC().Format(time.RFC3339Nano), e.Dimensions.Rows, e.Dimensions.Cols, e.Formula, payload)
	if err != nil {
		return fmt.Errorf("gallery: upsert %q: %w", e.Name, err)
	}

	return nil
}

// Load implements Store.
func (s *SQLiteStore) Load(ctx context.Context, name string) (*document.Document, error) {
	name = strings.TrimSpace(name)
	var payload []byte
	err := s.db.QueryRowContext(ctx, `SELECT payload FROM gallery WHERE name = ?`, name).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound(name)
	}
	if err != nil {
		return nil, fmt.Errorf("gallery: select %q: %w", name, err)
	}

	return document.DecodeJSON(payload)
}

// List implements Store.
func (s *SQLiteStore) List(ctx context.Context) ([]Entry, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT name, saved_at, n_rows, n_cols, formula FROM gallery ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("gallery: list: %w", err)
	}
	defer func() { _ = rows.Close() }()

	out := make([]Entry, 0)
	for rows.Next() {
		var (
			e     Entry
			saved string
			d     depgraph.Dims
		)
		if err = rows.Scan(&e.Name, &saved, &d.Rows, &d.Cols, &e.Formula); err != nil {
			return nil, fmt.Errorf("gallery: scan: %w", err)
		}
		if e.Timestamp, err = time.Parse(time.RFC3339Nano, saved); err != nil {
			return nil, fmt.Errorf("gallery: entry %q timestamp: %w", e.Name, err)
		}
		e.Dimensions = d
		out = append(out, e)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("gallery: list: %w", err)
	}

	return out, nil
}

// Delete implements Store.
func (s *SQLiteStore) Delete(ctx context.Context, name string) error {
	name = strings.TrimSpace(name)
	res, err := s.db.ExecContext(ctx, `DELETE FROM gallery WHERE name = ?`, name)
	if err != nil {
		return fmt.Errorf("gallery: delete %q: %w", name, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("gallery: delete %q: %w", name, err)
	}
	if n == 0 {
		return notFound(name)
	}

	return nil
}

// Path returns the database file path.
func (s *SQLiteStore) Path() string { return s.path }

// Close closes the database.
func (s *SQLiteStore) Close() error { return s.db.Close() }
