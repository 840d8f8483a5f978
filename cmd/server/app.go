package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/phrazzld/oneline-api/internal/config"
	"github.com/phrazzld/oneline-api/internal/events"
	"github.com/phrazzld/oneline-api/internal/platform/metrics"
	"github.com/phrazzld/oneline-api/internal/platform/storage"
	"github.com/phrazzld/oneline-api/internal/service"
	"github.com/phrazzld/oneline-api/internal/store"
)

// application holds all the shared application dependencies to simplify management
// and ensure proper cleanup on shutdown.
type application struct {
	config *config.Config
	logger *slog.Logger

	store   store.EntryStore
	metrics *metrics.Metrics
	emitter *events.InMemoryEventEmitter
	audit   *events.Dispatcher
	journal service.JournalService
}

// newApplication opens the configured store and wires the journal service,
// its event subscribers and metrics. Extra service options are applied after
// the configured ones.
func newApplication(
	ctx context.Context,
	cfg *config.Config,
	logger *slog.Logger,
	opts ...service.Option,
) (*application, error) {
	if cfg == nil {
		return nil, errors.New("config cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	raw, err := storage.Open(ctx, *cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s store: %w", cfg.Store.Backend, err)
	}

	m := metrics.New()
	entryStore := m.InstrumentStore(cfg.Store.Backend, raw)

	// Metrics are recorded inline; audit lines are written by the dispatcher.
	audit := events.NewDispatcher(events.NewAuditLogger(logger), events.DefaultDispatcherConfig(), logger)
	audit.Start()

	emitter := events.NewInMemoryEventEmitter(logger)
	emitter.RegisterHandler(m)
	emitter.RegisterHandler(audit)

	serviceOpts := append([]service.Option{
		service.WithLocation(cfg.Journal.Location()),
		service.WithEventEmitter(emitter),
	}, opts...)

	journal, err := service.NewJournalService(entryStore, logger, serviceOpts...)
	if err != nil {
		audit.Stop()
		_ = entryStore.Close()
		return nil, fmt.Errorf("failed to create journal service: %w", err)
	}

	app := &application{
		config:  cfg,
		logger:  logger,
		store:   entryStore,
		metrics: m,
		emitter: emitter,
		audit:   audit,
		journal: journal,
	}

	if cfg.Journal.SeedDemoEntries {
		n, err := service.SeedDemoEntries(ctx, entryStore, cfg.Journal.OwnerID, journal.Today())
		if err != nil {
			app.cleanup()
			return nil, fmt.Errorf("failed to seed demo entries: %w", err)
		}
		logger.Info("demo entries seeded", slog.Int("count", n))
	}

	logger.Info("application initialized",
		slog.String("backend", cfg.Store.Backend),
		slog.String("owner_id", cfg.Journal.OwnerID),
		slog.String("timezone", cfg.Journal.Timezone))

	return app, nil
}

// cleanup flushes pending audit events and releases the store.
// Safe to call more than once.
func (app *application) cleanup() {
	if app.audit != nil {
		app.audit.Stop()
	}
	if app.store == nil {
		return
	}
	if err := app.store.Close(); err != nil {
		app.logger.Error("failed to close entry store", "error", err)
	}
	app.store = nil
}
