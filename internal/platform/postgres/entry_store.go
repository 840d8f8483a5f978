package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/phrazzld/oneline-api/internal/domain"
	"github.com/phrazzld/oneline-api/internal/platform/logger"
	"github.com/phrazzld/oneline-api/internal/store"

	_ "github.com/jackc/pgx/v5/stdlib" // registers the "pgx" database/sql driver
)

const backendName = "postgres"

// PostgresEntryStore implements the store.EntryStore interface
// using a PostgreSQL database as the storage backend.
type PostgresEntryStore struct {
	db     store.DBTX
	owned  *sql.DB
	logger *slog.Logger
}

// Ensure PostgresEntryStore implements store.EntryStore interface
var _ store.EntryStore = (*PostgresEntryStore)(nil)

// NewPostgresEntryStore creates a store on a connection or transaction managed
// by the caller. Close does not close db.
// If logger is nil, a default logger will be used.
func NewPostgresEntryStore(db store.DBTX, logger *slog.Logger) *PostgresEntryStore {
	if db == nil {
		// ALLOW-PANIC: constructor misuse
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresEntryStore{
		db:     db,
		logger: logger.With(slog.String("component", "postgres_entry_store")),
	}
}

// Options configures Open.
type Options struct {
	MaxOpenConns int
	// AutoMigrate applies pending migrations before the store is returned.
	AutoMigrate bool
}

// Open connects to the database at url, verifies the connection, and returns
// a store that owns the connection pool.
func Open(ctx context.Context, url string, opts Options, logger *slog.Logger) (*PostgresEntryStore, error) {
	if logger == nil {
		logger = slog.Default()
	}

	db, err := sql.Open("pgx", url)
	if err != nil {
		return nil, store.NewStoreError(backendName, "open", "open database connection", err)
	}

	maxOpen := opts.MaxOpenConns
	if maxOpen <= 0 {
		maxOpen = 10
	}
	db.SetMaxOpenConns(maxOpen)
	db.SetMaxIdleConns(maxOpen / 2)
	db.SetConnMaxLifetime(5 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, store.NewStoreError(backendName, "open", "ping database", err)
	}

	if opts.AutoMigrate {
		if err := Migrate(ctx, db, "up", logger); err != nil {
			_ = db.Close()
			return nil, store.NewStoreError(backendName, "open", "apply migrations", err)
		}
	}

	logger.Info("database connection established",
		slog.Int("max_open_conns", maxOpen),
		slog.Bool("auto_migrate", opts.AutoMigrate))

	s := NewPostgresEntryStore(db, logger)
	s.owned = db
	return s, nil
}

// Append implements store.EntryStore.Append.
// The owner/date unique constraint decides races between concurrent writers;
// the loser receives store.ErrEntryExists.
func (s *PostgresEntryStore) Append(ctx context.Context, entry domain.JournalEntry) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := entry.Validate(); err != nil {
		log.Warn("entry validation failed during append",
			slog.String("error", err.Error()),
			slog.String("entry_id", entry.ID))
		return err
	}

	query := `
		INSERT INTO journal_entries (id, owner_id, entry_date, sentence, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := s.db.ExecContext(
		ctx,
		query,
		entry.ID,
		entry.OwnerID,
		entry.Date,
		entry.Sentence,
		entry.CreatedAt,
	)
	if err != nil {
		mapped := MapError(err)
		if errors.Is(mapped, store.ErrEntryExists) {
			log.Debug("entry already exists for owner and date",
				slog.String("owner_id", entry.OwnerID),
				slog.String("date", entry.Date.String()))
			return store.ErrEntryExists
		}
		if errors.Is(mapped, store.ErrEntryIDExists) {
			log.Debug("entry id already in use", slog.String("entry_id", entry.ID))
			return store.ErrEntryIDExists
		}
		if errors.Is(mapped, store.ErrInvalidEntity) {
			log.Warn("entry rejected by database constraint",
				slog.String("error", err.Error()),
				slog.String("entry_id", entry.ID))
			return mapped
		}

		log.Error("failed to insert entry",
			slog.String("error", err.Error()),
			slog.String("entry_id", entry.ID))
		return store.NewStoreError(backendName, "append", "insert entry", mapped)
	}

	log.Debug("entry appended",
		slog.String("entry_id", entry.ID),
		slog.String("owner_id", entry.OwnerID),
		slog.String("date", entry.Date.String()))
	return nil
}

// FindByDate implements store.EntryStore.FindByDate.
func (s *PostgresEntryStore) FindByDate(
	ctx context.Context,
	ownerID string,
	date domain.Date,
) (domain.JournalEntry, bool, error) {
	query := `
		SELECT id, owner_id, entry_date, sentence, created_at
		FROM journal_entries
		WHERE owner_id = $1 AND entry_date = $2
	`
	var entry domain.JournalEntry
	err := s.db.QueryRowContext(ctx, query, ownerID, date).Scan(
		&entry.ID,
		&entry.OwnerID,
		&entry.Date,
		&entry.Sentence,
		&entry.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.JournalEntry{}, false, nil
	}
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to get entry by date",
			slog.String("error", err.Error()),
			slog.String("owner_id", ownerID),
			slog.String("date", date.String()))
		return domain.JournalEntry{}, false, store.NewStoreError(backendName, "find_by_date", "query entry", err)
	}
	return entry, true, nil
}

// ListAll implements store.EntryStore.ListAll.
func (s *PostgresEntryStore) ListAll(ctx context.Context, ownerID string) ([]domain.JournalEntry, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, owner_id, entry_date, sentence, created_at
		FROM journal_entries
		WHERE owner_id = $1
		ORDER BY entry_date DESC, seq ASC
	`
	rows, err := s.db.QueryContext(ctx, query, ownerID)
	if err != nil {
		log.Error("failed to query entries",
			slog.String("error", err.Error()),
			slog.String("owner_id", ownerID))
		return nil, store.NewStoreError(backendName, "list_all", "query entries", err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			log.Error("failed to close rows", slog.String("error", err.Error()))
		}
	}()

	entries := []domain.JournalEntry{}
	for rows.Next() {
		var entry domain.JournalEntry
		if err := rows.Scan(
			&entry.ID,
			&entry.OwnerID,
			&entry.Date,
			&entry.Sentence,
			&entry.CreatedAt,
		); err != nil {
			log.Warn("skipping unreadable entry row", slog.String("error", err.Error()))
			continue
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, store.NewStoreError(backendName, "list_all", "iterate rows", err)
	}

	return entries, nil
}

// Close closes the connection pool if the store opened it.
func (s *PostgresEntryStore) Close() error {
	if s.owned == nil {
		return nil
	}
	if err := s.owned.Close(); err != nil {
		return fmt.Errorf("close postgres store: %w", err)
	}
	return nil
}
