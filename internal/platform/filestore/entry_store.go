// Package filestore provides an EntryStore persisted as a single JSON
// document on local disk, keyed by owner id:
//
//	{"mockUser": [{"id": "...", "date": "2024-01-01", "sentence": "...", "ownerId": "mockUser"}]}
//
// The document is loaded once at open and rewritten atomically after every
// successful append. A document or record that cannot be parsed is treated
// as absent rather than failing the read path.
package filestore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/phrazzld/oneline-api/internal/domain"
	"github.com/phrazzld/oneline-api/internal/platform/logger"
	"github.com/phrazzld/oneline-api/internal/store"
)

const backendName = "file"

// EntryStore is a JSON-file backed store.EntryStore.
type EntryStore struct {
	mu     sync.RWMutex
	path   string
	owners map[string][]domain.JournalEntry
	ids    map[string]struct{}
	logger *slog.Logger
}

// Ensure EntryStore implements store.EntryStore interface
var _ store.EntryStore = (*EntryStore)(nil)

// Open loads the document at path, creating parent directories as needed.
// A missing file yields an empty store. An unreadable document is moved aside
// to path+".corrupt" and the store starts empty.
func Open(path string, logger *slog.Logger) (*EntryStore, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if path == "" {
		path = "oneline-entries.json"
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil && !errors.Is(err, fs.ErrExist) {
		return nil, store.NewStoreError(backendName, "open", "create directory", err)
	}

	s := &EntryStore{
		path:   path,
		owners: make(map[string][]domain.JournalEntry),
		ids:    make(map[string]struct{}),
		logger: logger.With(slog.String("component", "file_entry_store"), slog.String("path", path)),
	}
	if err := s.load(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *EntryStore) load() error {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return store.NewStoreError(backendName, "open", "read document", err)
	}
	if len(data) == 0 {
		return nil
	}

	var raw map[string][]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		s.logger.Warn("entry document is corrupt, starting with no entries",
			slog.String("error", err.Error()))
		if renameErr := os.Rename(s.path, s.path+".corrupt"); renameErr != nil {
			s.logger.Error("failed to move corrupt entry document aside",
				slog.String("error", renameErr.Error()))
		}
		return nil
	}

	owners := make([]string, 0, len(raw))
	for owner := range raw {
		owners = append(owners, owner)
	}
	sort.Strings(owners)

	for _, owner := range owners {
		records := raw[owner]
		seen := make(map[domain.Date]bool, len(records))
		for i, rec := range records {
			var entry domain.JournalEntry
			if err := json.Unmarshal(rec, &entry); err != nil {
				s.logger.Warn("skipping unreadable entry record",
					slog.String("owner_id", owner),
					slog.Int("index", i),
					slog.String("error", err.Error()))
				continue
			}
			if entry.OwnerID == "" {
				entry.OwnerID = owner
			}
			_, idTaken := s.ids[entry.ID]
			if err := entry.Validate(); err != nil || entry.OwnerID != owner || seen[entry.Date] || idTaken {
				s.logger.Warn("skipping invalid entry record",
					slog.String("owner_id", owner),
					slog.Int("index", i))
				continue
			}
			seen[entry.Date] = true
			s.ids[entry.ID] = struct{}{}
			s.owners[owner] = append(s.owners[owner], entry)
		}
	}
	return nil
}

// persist writes the document via a temp file and rename so readers never
// observe a half-written file. Callers hold s.mu.
func (s *EntryStore) persist() error {
	doc := make(map[string][]domain.JournalEntry, len(s.owners))
	for owner, entries := range s.owners {
		sorted := append([]domain.JournalEntry(nil), entries...)
		store.SortNewestFirst(sorted)
		doc[owner] = sorted
	}

	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode document: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		return fmt.Errorf("replace document: %w", err)
	}
	return nil
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

	s.mu.Lock()
	defer s.mu.Unlock()

	existing := s.owners[entry.OwnerID]
	for _, e := range existing {
		if e.Date == entry.Date {
			return store.ErrEntryExists
		}
	}
	if _, taken := s.ids[entry.ID]; taken {
		log.Debug("entry id already in use", slog.String("entry_id", entry.ID))
		return store.ErrEntryIDExists
	}

	s.owners[entry.OwnerID] = append(existing, entry)
	start := time.Now()
	if err := s.persist(); err != nil {
		s.owners[entry.OwnerID] = existing
		if len(existing) == 0 {
			delete(s.owners, entry.OwnerID)
		}
		log.Error("failed to persist entry document",
			slog.String("error", err.Error()),
			slog.String("entry_id", entry.ID))
		return store.NewStoreError(backendName, "append", "persist document", err)
	}
	s.ids[entry.ID] = struct{}{}

	log.Debug("entry appended",
		slog.String("entry_id", entry.ID),
		slog.String("owner_id", entry.OwnerID),
		slog.String("date", entry.Date.String()),
		slog.Duration("persist_duration", time.Since(start)))
	return nil
}

// FindByDate implements store.EntryStore.FindByDate.
func (s *EntryStore) FindByDate(
	ctx context.Context,
	ownerID string,
	date domain.Date,
) (domain.JournalEntry, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, e := range s.owners[ownerID] {
		if e.Date == date {
			return e, true, nil
		}
	}
	return domain.JournalEntry{}, false, nil
}

// ListAll implements store.EntryStore.ListAll.
func (s *EntryStore) ListAll(ctx context.Context, ownerID string) ([]domain.JournalEntry, error) {
	s.mu.RLock()
	out := append(make([]domain.JournalEntry, 0, len(s.owners[ownerID])), s.owners[ownerID]...)
	s.mu.RUnlock()

	store.SortNewestFirst(out)
	return out, nil
}

// Close implements store.EntryStore.Close. Every append is already on disk.
func (s *EntryStore) Close() error {
	return nil
}
