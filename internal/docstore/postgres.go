package docstore

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"time"

	poserrors "github.com/abgdnv/butcherpos/internal/errors"
	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

var _ Store = (*PostgresStore)(nil)

// PostgresStore keeps each document as one JSONB row of the documents table.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore applies the schema migrations and connects a pool to url.
func NewPostgresStore(ctx context.Context, url string, connectTimeout time.Duration) (*PostgresStore, error) {
	if err := Migrate(url); err != nil {
		return nil, err
	}
	pool, err := newDbPool(ctx, url, connectTimeout)
	if err != nil {
		return nil, err
	}
	return NewPostgresStoreWithPool(pool), nil
}

// NewPostgresStoreWithPool wraps an existing pool whose database is already migrated.
func NewPostgresStoreWithPool(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// Migrate brings the documents schema at databaseURL up to date.
func Migrate(databaseURL string) error {
	src, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("%w: open migrations: %w", poserrors.ErrStoreIO, err)
	}
	m, err := migrate.NewWithSourceInstance("iofs", src, databaseURL)
	if err != nil {
		return fmt.Errorf("%w: create migrate instance: %w", poserrors.ErrStoreIO, err)
	}
	defer func() { _, _ = m.Close() }()
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("%w: apply migrations: %w", poserrors.ErrStoreIO, err)
	}
	return nil
}

// newDbPool creates a new database connection pool and pings it so startup fails early.
func newDbPool(ctx context.Context, url string, connectTimeout time.Duration) (*pgxpool.Pool, error) {
	poolCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	pool, err := pgxpool.New(poolCtx, url)
	if err != nil {
		return nil, fmt.Errorf("%w: create database connection pool: %w", poserrors.ErrStoreIO, err)
	}
	if err := pool.Ping(poolCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("%w: ping database: %w", poserrors.ErrStoreIO, err)
	}
	return pool, nil
}

func (s *PostgresStore) Load(ctx context.Context, doc Document) ([]byte, error) {
	var payload []byte
	err := s.pool.QueryRow(ctx, `SELECT payload FROM documents WHERE name = $1`, doc.String()).Scan(&payload)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, poserrors.ErrDocumentNotFound
	}
	if err != nil {
		return nil, ioError("select", doc, err)
	}
	return payload, nil
}

func (s *PostgresStore) Save(ctx context.Context, doc Document, data []byte) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO documents (name, payload, updated_at) VALUES ($1, $2, now())
		ON CONFLICT (name) DO UPDATE SET payload = EXCLUDED.payload, updated_at = EXCLUDED.updated_at`,
		doc.String(), data)
	if err != nil {
		return ioError("upsert", doc, err)
	}
	return nil
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}
