// Package storage opens the configured EntryStore backend.
package storage

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/phrazzld/oneline-api/internal/config"
	"github.com/phrazzld/oneline-api/internal/platform/filestore"
	"github.com/phrazzld/oneline-api/internal/platform/memory"
	"github.com/phrazzld/oneline-api/internal/platform/postgres"
	"github.com/phrazzld/oneline-api/internal/platform/redis"
	"github.com/phrazzld/oneline-api/internal/platform/sqlite"
	"github.com/phrazzld/oneline-api/internal/store"
)

// Open returns the store selected by cfg.Store.Backend, connected and ready.
// The caller owns the returned store and must Close it.
func Open(ctx context.Context, cfg config.Config, logger *slog.Logger) (store.EntryStore, error) {
	if logger == nil {
		logger = slog.Default()
	}

	switch cfg.Store.Backend {
	case config.BackendMemory:
		return memory.NewEntryStore(logger), nil

	case config.BackendFile:
		s, err := filestore.Open(cfg.Store.FilePath, logger)
		if err != nil {
			return nil, err
		}
		return s, nil

	case config.BackendSQLite:
		s, err := sqlite.Open(ctx, cfg.Store.SQLitePath, logger)
		if err != nil {
			return nil, err
		}
		return s, nil

	case config.BackendPostgres:
		s, err := postgres.Open(ctx, cfg.Database.URL, postgres.Options{
			MaxOpenConns: cfg.Database.MaxOpenConns,
			AutoMigrate:  cfg.Database.AutoMigrate,
		}, logger)
		if err != nil {
			return nil, err
		}
		return s, nil

	case config.BackendRedis:
		s := redis.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB,
			redis.WithPrefix(cfg.Redis.KeyPrefix),
			redis.WithLogger(logger))
		if err := s.Ping(ctx); err != nil {
			_ = s.Close()
			return nil, err
		}
		return s, nil

	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.Store.Backend)
	}
}
