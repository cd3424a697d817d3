// Package store provides the durable keyed job store. Two backends share
// one contract: SQLite for local single-binary deployments, Postgres when a
// DATABASE_URL is configured (hosted deployments).
package store

import (
	"context"

	"github.com/jobradar/jobradar/internal/config"
	"github.com/jobradar/jobradar/internal/model"
)

// Open selects and opens the configured backend.
func Open(ctx context.Context, cfg config.DatabaseConfig) (model.JobStore, error) {
	if cfg.URL != "" {
		return NewPostgresStore(ctx, cfg.URL)
	}
	return NewSQLiteStore(cfg.SQLitePath)
}
