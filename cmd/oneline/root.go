package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/phrazzld/oneline-api/internal/clock"
	"github.com/phrazzld/oneline-api/internal/config"
	"github.com/phrazzld/oneline-api/internal/platform/logger"
	"github.com/phrazzld/oneline-api/internal/platform/storage"
	"github.com/phrazzld/oneline-api/internal/service"
	"github.com/phrazzld/oneline-api/internal/store"
	"github.com/spf13/cobra"
)

// environment holds what commands need from the outside world. Tests swap
// in a fixed clock and a shared store.
type environment struct {
	clock     clock.Clock
	openStore func(ctx context.Context, cfg config.Config, logger *slog.Logger) (store.EntryStore, error)
}

func defaultEnvironment() environment {
	return environment{clock: clock.System{}, openStore: storage.Open}
}

const memoryBackendWarning = "Warning: the memory backend forgets entries when this command exits. " +
	"Set store.backend to file, sqlite, postgres or redis to keep them."

// globalFlags are shared by every subcommand.
type globalFlags struct {
	configFile string
	owner      string
}

// session is an opened store plus the journal service over it, scoped to a
// single command invocation.
type session struct {
	cfg     *config.Config
	owner   string
	store   store.EntryStore
	journal service.JournalService
	logger  *slog.Logger
}

func (s *session) close() {
	if err := s.store.Close(); err != nil {
		s.logger.Error("failed to close entry store", "error", err)
	}
}

func newRootCommand(env environment) *cobra.Command {
	flags := &globalFlags{}

	root := &cobra.Command{
		Use:           "oneline",
		Short:         "Write one sentence a day",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&flags.configFile, "config", "",
		"path to a config file (default: oneline.yaml in . or $HOME/.oneline)")
	root.PersistentFlags().StringVar(&flags.owner, "owner", "",
		"journal owner (default: journal.owner_id from config)")

	root.AddCommand(
		newWriteCommand(env, flags),
		newTodayCommand(env, flags),
		newHistoryCommand(env, flags),
		newExportCommand(env, flags),
		newImportCommand(env, flags),
	)

	// Print errors ourselves so rejections read as messages, not usage faults.
	root.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return fmt.Errorf("%w\nRun '%s --help' for usage", err, cmd.CommandPath())
	})

	return root
}

// openSession loads configuration and opens the configured store.
// Logs go to stderr so stdout stays parseable.
func openSession(cmd *cobra.Command, env environment, flags *globalFlags) (*session, error) {
	cfg, err := config.Load(config.Options{
		ConfigFile:     flags.configFile,
		DefaultBackend: config.BackendFile,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	log, err := logger.Setup(logger.LoggerConfig{
		Level:  cfg.Server.LogLevel,
		Output: cmd.ErrOrStderr(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to set up logger: %w", err)
	}

	if cfg.Store.Backend == config.BackendMemory {
		fmt.Fprintln(cmd.ErrOrStderr(), memoryBackendWarning)
	}

	owner := cfg.Journal.OwnerID
	if flags.owner != "" {
		owner = flags.owner
	}

	entryStore, err := env.openStore(cmd.Context(), *cfg, log)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s store: %w", cfg.Store.Backend, err)
	}

	journal, err := service.NewJournalService(entryStore, log,
		service.WithClock(env.clock),
		service.WithLocation(cfg.Journal.Location()))
	if err != nil {
		_ = entryStore.Close()
		return nil, err
	}

	return &session{cfg: cfg, owner: owner, store: entryStore, journal: journal, logger: log}, nil
}
