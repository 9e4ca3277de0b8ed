package docstore

import (
	"context"
	"fmt"

	"github.com/abgdnv/butcherpos/internal/config"
)

// Open selects a Store implementation from cfg.Driver.
func Open(ctx context.Context, cfg config.StoreConfig) (Store, error) {
	switch cfg.Driver {
	case config.StoreDriverFile, "":
		return NewFileStore(cfg.File.Dir)
	case config.StoreDriverSQLite:
		return NewSQLiteStore(ctx, cfg.SQLite.Path)
	case config.StoreDriverPostgres:
		return NewPostgresStore(ctx, cfg.Postgres.URL, cfg.Postgres.Timeout)
	case config.StoreDriverS3:
		return NewS3Store(ctx, cfg.S3)
	case config.StoreDriverMemory:
		return NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.Driver)
	}
}
