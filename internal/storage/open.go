package storage

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Open picks a Store implementation by driver name. pool may be nil unless
// driver is "postgres".
func Open(ctx context.Context, driver, path string, pool *pgxpool.Pool) (Store, error) {
	switch driver {
	case "memory":
		return NewMemStore(), nil
	case "file", "":
		return OpenFileStore(path)
	case "postgres":
		if pool == nil {
			return nil, fmt.Errorf("postgres storage needs a connection pool")
		}
		return NewPGStore(ctx, pool)
	default:
		return nil, fmt.Errorf("unknown storage driver %q", driver)
	}
}
