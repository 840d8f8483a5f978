// Package memory provides a process-local EntryStore. Its contents reset when
// the process restarts.
package memory

import (
	"context"
	"log/slog"
	"sync"

	"github.com/phrazzld/oneline-api/internal/domain"
	"github.com/phrazzld/oneline-api/internal/platform/logger"
	"github.com/phrazzld/oneline-api/internal/store"
)

type entryKey struct {
	owner string
	date  domain.Date
}

// EntryStore keeps entries in insertion order behind a single mutex, which
// also makes Append's check-and-insert atomic.
type EntryStore struct {
	mu      sync.RWMutex
	entries []domain.JournalEntry
	index   map[entryKey]int
	ids     map[string]struct{}
	logger  *slog.Logger
}

// Ensure EntryStore implements store.EntryStore interface
var _ store.EntryStore = (*EntryStore)(nil)

// NewEntryStore creates an empty in-memory store.
// If logger is nil, a default logger will be used.
func NewEntryStore(logger *slog.Logger) *EntryStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &EntryStore{
		index:  make(map[entryKey]int),
		ids:    make(map[string]struct{}),
		logger: logger.With(slog.String("component", "memory_entry_store")),
	}
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

	key := entryKey{owner: entry.OwnerID, date: entry.Date}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.index[key]; exists {
		log.Debug("entry already exists for owner and date",
			slog.String("owner_id", entry.OwnerID),
			slog.String("date", entry.Date.String()))
		return store.ErrEntryExists
	}
	if _, exists := s.ids[entry.ID]; exists {
		log.Debug("entry id already in use", slog.String("entry_id", entry.ID))
		return store.ErrEntryIDExists
	}

	s.index[key] = len(s.entries)
	s.ids[entry.ID] = struct{}{}
	s.entries = append(s.entries, entry)

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
	s.mu.RLock()
	defer s.mu.RUnlock()

	i, ok := s.index[entryKey{owner: ownerID, date: date}]
	if !ok {
		return domain.JournalEntry{}, false, nil
	}
	return s.entries[i], true, nil
}

// ListAll implements store.EntryStore.ListAll.
func (s *EntryStore) ListAll(ctx context.Context, ownerID string) ([]domain.JournalEntry, error) {
	s.mu.RLock()
	out := make([]domain.JournalEntry, 0, len(s.entries))
	for _, e := range s.entries {
		if e.OwnerID == ownerID {
			out = append(out, e)
		}
	}
	s.mu.RUnlock()

	store.SortNewestFirst(out)
	return out, nil
}

// Len returns the number of stored entries across all owners.
func (s *EntryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// Close implements store.EntryStore.Close. Entries are discarded.
func (s *EntryStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = nil
	s.index = make(map[entryKey]int)
	s.ids = make(map[string]struct{})
	return nil
}
