// Package sqlite provides an EntryStore backed by a local SQLite database
// using the pure Go modernc.org/sqlite driver.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/phrazzld/oneline-api/internal/domain"
	"github.com/phrazzld/oneline-api/internal/platform/logger"
	"github.com/phrazzld/oneline-api/internal/store"

	driver "modernc.org/sqlite" // pure go sqlite driver
	sqlite3 "modernc.org/sqlite/lib"
)

const backendName = "sqlite"

var schema = []string{
	`CREATE TABLE IF NOT EXISTS journal_entries (
		seq        INTEGER PRIMARY KEY AUTOINCREMENT,
		id         TEXT NOT NULL UNIQUE,
		owner_id   TEXT NOT NULL,
		entry_date TEXT NOT NULL,
		sentence   TEXT NOT NULL CHECK (length(sentence) BETWEEN 1 AND 500),
		created_at TEXT NOT NULL,
		UNIQUE (owner_id, entry_date)
	)`,
	`CREATE INDEX IF NOT EXISTS journal_entries_owner_date_idx
		ON journal_entries (owner_id, entry_date DESC)`,
}

// EntryStore implements store.EntryStore on SQLite. The (owner_id,
// entry_date) unique constraint makes Append an atomic insert-if-absent.
type EntryStore struct {
	db     *sql.DB
	logger *slog.Logger
}

// Ensure EntryStore implements store.EntryStore interface
var _ store.EntryStore = (*EntryStore)(nil)

// Open opens (creating if needed) the database at path and ensures the schema.
func Open(ctx context.Context, path string, logger *slog.Logger) (*EntryStore, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if path == "" {
		path = "oneline.db"
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil && !errors.Is(err, fs.ErrExist) {
		return nil, store.NewStoreError(backendName, "open", "create directory", err)
	}

	db, err := sql.Open("sqlite", "file:"+path+"?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)")
	if err != nil {
		return nil, store.NewStoreError(backendName, "open", "open database", err)
	}
	// SQLite allows one writer; a single connection serializes access.
	db.SetMaxOpenConns(1)

	err = store.RunInTransaction(ctx, db, func(ctx context.Context, tx *sql.Tx) error {
		for _, stmt := range schema {
			if _, err := tx.ExecContext(ctx, stmt); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		_ = db.Close()
		return nil, store.NewStoreError(backendName, "open", "create schema", err)
	}

	return &EntryStore{
		db:     db,
		logger: logger.With(slog.String("component", "sqlite_entry_store")),
	}, nil
}

// Append implements store.EntryStore.Append.
func (s *EntryStore) Append(ctx context.Context, entry domain.JournalEntry) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := entry.Validate(); err != nil {
		log.Warn("entry validation failed during append",
			slog.String("error", err.Error()),
			slog.String("entry_id", entry.ID))
		return err
	}

	query := `
		INSERT INTO journal_entries (id, owner_id, entry_date, sentence, created_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (owner_id, entry_date) DO NOTHING
	`
	result, err := s.db.ExecContext(
		ctx,
		query,
		entry.ID,
		entry.OwnerID,
		entry.Date,
		entry.Sentence,
		entry.CreatedAt.UTC().Format(time.RFC3339Nano),
	)
	if isUniqueViolation(err) {
		// ON CONFLICT absorbs the owner/date constraint, leaving only the id.
		log.Debug("entry id already in use", slog.String("entry_id", entry.ID))
		return store.ErrEntryIDExists
	}
	if err != nil {
		log.Error("failed to append entry",
			slog.String("error", err.Error()),
			slog.String("entry_id", entry.ID))
		return store.NewStoreError(backendName, "append", "insert entry", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return store.NewStoreError(backendName, "append", "rows affected", err)
	}
	if rows == 0 {
		log.Debug("entry already exists for owner and date",
			slog.String("owner_id", entry.OwnerID),
			slog.String("date", entry.Date.String()))
		return store.ErrEntryExists
	}

	log.Debug("entry appended",
		slog.String("entry_id", entry.ID),
		slog.String("owner_id", entry.OwnerID),
		slog.String("date", entry.Date.String()))
	return nil
}

// FindByDate implements store.EntryStore.FindByDate.
func (s *EntryStore) FindByDate(
	ctx context.Context,
	ownerID string,
	date domain.Date,
) (domain.JournalEntry, bool, error) {
	query := `
		SELECT id, owner_id, entry_date, sentence, created_at
		FROM journal_entries
		WHERE owner_id = ? AND entry_date = ?
	`
	entry, err := scanEntry(s.db.QueryRowContext(ctx, query, ownerID, date))
	if errors.Is(err, sql.ErrNoRows) {
		return domain.JournalEntry{}, false, nil
	}
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to find entry by date",
			slog.String("error", err.Error()),
			slog.String("owner_id", ownerID),
			slog.String("date", date.String()))
		return domain.JournalEntry{}, false, store.NewStoreError(backendName, "find_by_date", "query entry", err)
	}
	return entry, true, nil
}

// ListAll implements store.EntryStore.ListAll.
// Rows that fail to decode are skipped and logged.
func (s *EntryStore) ListAll(ctx context.Context, ownerID string) ([]domain.JournalEntry, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, owner_id, entry_date, sentence, created_at
		FROM journal_entries
		WHERE owner_id = ?
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
		entry, err := scanEntry(rows)
		if err != nil {
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

// Close implements store.EntryStore.Close.
func (s *EntryStore) Close() error {
	return s.db.Close()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEntry(row rowScanner) (domain.JournalEntry, error) {
	var (
		entry     domain.JournalEntry
		createdAt string
	)
	if err := row.Scan(&entry.ID, &entry.OwnerID, &entry.Date, &entry.Sentence, &createdAt); err != nil {
		return domain.JournalEntry{}, err
	}
	t, err := time.Parse(time.RFC3339Nano, createdAt)
	if err != nil {
		return domain.JournalEntry{}, fmt.Errorf("%w: created_at %q", domain.ErrInvalidFormat, createdAt)
	}
	entry.CreatedAt = t
	return entry, nil
}

// isUniqueViolation reports whether err is a UNIQUE or PRIMARY KEY
// constraint failure raised by the driver.
func isUniqueViolation(err error) bool {
	var sqliteErr *driver.Error
	if !errors.As(err, &sqliteErr) {
		return false
	}
	code := sqliteErr.Code()
	return code == sqlite3.SQLITE_CONSTRAINT_UNIQUE || code == sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY
}
