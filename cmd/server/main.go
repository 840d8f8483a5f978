// Package main implements the entry point for the oneline journal API server,
// which accepts one sentence per day from the configured owner.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/phrazzld/oneline-api/internal/config"
	"github.com/phrazzld/oneline-api/internal/platform/logger"
	"github.com/spf13/cobra"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCommand().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

// newRootCommand builds the server command. It is separate from main so
// tests can run it with their own arguments.
func newRootCommand() *cobra.Command {
	var (
		configFile string
		migrate    string
	)

	cmd := &cobra.Command{
		Use:           "oneline-server",
		Short:         "Serve the one-line-a-day journal API",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(config.Options{ConfigFile: configFile})
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}

			log, err := logger.Setup(logger.LoggerConfig{Level: cfg.Server.LogLevel})
			if err != nil {
				return fmt.Errorf("failed to set up logger: %w", err)
			}

			if migrate != "" {
				return runMigrations(cmd.Context(), cfg, migrate, log)
			}

			app, err := newApplication(cmd.Context(), cfg, log)
			if err != nil {
				log.Error("failed to initialize application", "error", err)
				return err
			}
			return app.startHTTPServer(cmd.Context(), app.setupRouter())
		},
	}

	cmd.Flags().StringVar(&configFile, "config", "", "path to a config file (default: oneline.yaml in . or $HOME/.oneline)")
	cmd.Flags().StringVar(&migrate, "migrate", "",
		"run a database migration command (up, down, reset, status, version) and exit")

	return cmd
}
