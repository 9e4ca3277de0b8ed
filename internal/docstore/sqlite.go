package docstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	poserrors "github.com/abgdnv/butcherpos/internal/errors"
	_ "modernc.org/sqlite" // pure go sqlite driver
)

var _ Store = (*SQLiteStore)(nil)

// SQLiteStore keeps each document as one row of the documents table.
type SQLiteStore struct {
	db   *sql.DB
	path string
}

// NewSQLiteStore opens (or creates) the database at path and ensures the documents table exists.
func NewSQLiteStore(ctx context.Context, path string) (*SQLiteStore, error) {
	if path == "" {
		path = "pos.db"
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return nil, fmt.Errorf("%w: create dirs: %w", poserrors.ErrStoreIO, err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("%w: open sqlite: %w", poserrors.ErrStoreIO, err)
	}
	// sqlite serialises writers anyway; one connection avoids SQLITE_BUSY between them.
	db.SetMaxOpenConns(1)
	if _, err := db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS documents (
		name TEXT PRIMARY KEY,
		payload BLOB NOT NULL,
		updated_at TEXT NOT NULL
	)`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%w: create documents table: %w", poserrors.ErrStoreIO, err)
	}
	return &SQLiteStore{db: db, path: path}, nil
}

func (s *SQLiteStore) Load(ctx context.Context, doc Document) ([]byte, error) {
	var payload []byte
	err := s.db.QueryRowContext(ctx, `SELECT payload FROM documents WHERE name = ?`, doc.String()).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, poserrors.ErrDocumentNotFound
	}
	if err != nil {
		return nil, ioError("select", doc, err)
	}
	return payload, nil
}

func (s *SQLiteStore) Save(ctx context.Context, doc Document, data []byte) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO documents(name, payload, updated_at) VALUES(?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET payload = excluded.payload, updated_at = excluded.updated_at`,
		doc.String(), data, time.Now().UTC().Format(time.RFC3339Nano))
	if err != nil {
		return ioError("upsert", doc, err)
	}
	return nil
}

func (s *SQLiteStore) Close() error { return s.db.Close() }

// Path returns the configured database path.
func (s *SQLiteStore) Path() string { return s.path }
