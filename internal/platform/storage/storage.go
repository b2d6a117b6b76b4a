// Package storage opens the configured ledger backend.
package storage

import (
	"context"
	"fmt"
	"log/slog"

	portsrepo "github.com/SscSPs/ledger_posting_engine/internal/core/ports/repositories"
	"github.com/SscSPs/ledger_posting_engine/internal/platform/config"
	"github.com/SscSPs/ledger_posting_engine/internal/repositories/database/boltdb"
	"github.com/SscSPs/ledger_posting_engine/internal/repositories/database/pgsql"
	"github.com/SscSPs/ledger_posting_engine/pkg/database"
)

// Backend is an open ledger store with its repositories.
type Backend struct {
	Repos portsrepo.RepositoryProvider
	// Ping reports whether the store is reachable.
	Ping  func(ctx context.Context) error
	close func() error
}

// Close releases the underlying connections or file.
func (b *Backend) Close() error {
	if b.close == nil {
		return nil
	}
	return b.close()
}

// Open connects to the backend selected by cfg.StorageDriver. For Postgres it applies pending
// migrations first when migrate is true.
func Open(ctx context.Context, cfg *config.Config, migrate bool) (*Backend, error) {
	switch cfg.StorageDriver {
	case config.StorageDriverBolt:
		store, err := boltdb.Open(cfg.BoltPath)
		if err != nil {
			return nil, fmt.Errorf("failed to open bolt store %s: %w", cfg.BoltPath, err)
		}
		slog.Info("Opened embedded ledger store", slog.String("path", cfg.BoltPath))
		return &Backend{
			Repos: store.Provider(),
			Ping:  func(context.Context) error { return nil },
			close: store.Close,
		}, nil

	case config.StorageDriverPostgres:
		if migrate {
			slog.Info("Running database migrations...", slog.String("source", cfg.MigrationsPath))
			if err := database.MigrateUp(cfg.DatabaseURL, cfg.MigrationsPath); err != nil {
				return nil, err
			}
		}
		pool, err := database.NewPgxPool(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		return &Backend{
			Repos: pgsql.NewRepositoryProvider(pool),
			Ping:  pool.Ping,
			close: func() error {
				database.ClosePgxPool(pool)
				return nil
			},
		}, nil
	}
	return nil, fmt.Errorf("unknown storage driver %q", cfg.StorageDriver)
}
