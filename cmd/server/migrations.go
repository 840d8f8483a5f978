package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/phrazzld/oneline-api/internal/config"
	"github.com/phrazzld/oneline-api/internal/platform/postgres"
)

// runMigrations executes a goose command against the configured database.
// Only the postgres backend has migrations; the other backends create their
// layout on open.
func runMigrations(ctx context.Context, cfg *config.Config, command string, logger *slog.Logger) error {
	if cfg.Store.Backend != config.BackendPostgres {
		return fmt.Errorf("migrations require the postgres backend, configured backend is %q", cfg.Store.Backend)
	}

	db, err := sql.Open("pgx", cfg.Database.URL)
	if err != nil {
		return fmt.Errorf("failed to open database connection: %w", err)
	}
	defer func() {
		if cerr := db.Close(); cerr != nil {
			logger.Error("failed to close database connection", "error", cerr)
		}
	}()

	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}

	logger.Info("running migrations", slog.String("command", command))
	if err := postgres.Migrate(ctx, db, command, logger); err != nil {
		return fmt.Errorf("migration %s failed: %w", command, err)
	}
	logger.Info("migrations finished", slog.String("command", command))
	return nil
}
