// Package redis provides an EntryStore backed by Redis. Each owner's entries
// live in one hash keyed by date. A second hash maps every entry id to its
// owner and date. Append claims both in one Lua script, so the insert is
// atomic per owner and day and ids stay unique across owners.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/phrazzld/oneline-api/internal/domain"
	"github.com/phrazzld/oneline-api/internal/platform/logger"
	"github.com/phrazzld/oneline-api/internal/store"
	backend "github.com/redis/go-redis/v9"
)

const (
	backendName   = "redis"
	defaultPrefix = "oneline:"
)

// Results of appendScript.
const (
	appendCreated  = 0
	appendDateUsed = 1
	appendIDUsed   = 2
)

// appendScript writes ARGV[3] under field ARGV[1] of KEYS[1] and records
// ARGV[2] as taken in KEYS[2], unless either is already present.
var appendScript = backend.NewScript(`
if redis.call("HEXISTS", KEYS[1], ARGV[1]) == 1 then
	return 1
end
if redis.call("HSETNX", KEYS[2], ARGV[2], ARGV[4]) == 0 then
	return 2
end
redis.call("HSET", KEYS[1], ARGV[1], ARGV[3])
return 0
`)

// EntryStore implements store.EntryStore using Redis.
type EntryStore struct {
	client *backend.Client
	prefix string
	logger *slog.Logger
}

// Ensure EntryStore implements store.EntryStore interface
var _ store.EntryStore = (*EntryStore)(nil)

type Option func(*EntryStore)

// WithPrefix sets the key prefix for entry hashes.
func WithPrefix(prefix string) Option {
	return func(s *EntryStore) {
		s.prefix = prefix
	}
}

// WithLogger sets the store's logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *EntryStore) {
		if l != nil {
			s.logger = l
		}
	}
}

// New creates a new Redis store with options.
func New(address, password string, db int, opts ...Option) *EntryStore {
	rdb := backend.NewClient(&backend.Options{
		Addr:     address,
		Password: password,
		DB:       db,
	})
	return NewFromClient(rdb, opts...)
}

// NewFromClient creates a new Redis store from an existing client.
func NewFromClient(client *backend.Client, opts ...Option) *EntryStore {
	s := &EntryStore{
		client: client,
		prefix: defaultPrefix,
		logger: slog.Default(),
	}

	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.With(slog.String("component", "redis_entry_store"))

	return s
}

// Ping verifies that the server is reachable.
func (s *EntryStore) Ping(ctx context.Context) error {
	if err := s.client.Ping(ctx).Err(); err != nil {
		return store.NewStoreError(backendName, "ping", "ping server", err)
	}
	return nil
}

func (s *EntryStore) key(ownerID string) string {
	return s.prefix + "entries:" + ownerID
}

func (s *EntryStore) idsKey() string {
	return s.prefix + "ids"
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

	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("failed to marshal entry: %w", err)
	}

	result, err := appendScript.Run(
		ctx,
		s.client,
		[]string{s.key(entry.OwnerID), s.idsKey()},
		entry.Date.String(),
		entry.ID,
		data,
		entry.OwnerID+"/"+entry.Date.String(),
	).Int()
	if err != nil {
		log.Error("failed to write entry",
			slog.String("error", err.Error()),
			slog.String("entry_id", entry.ID))
		return store.NewStoreError(backendName, "append", "append script", err)
	}

	switch result {
	case appendCreated:
		return nil
	case appendDateUsed:
		log.Debug("entry already exists for owner and date",
			slog.String("owner_id", entry.OwnerID),
			slog.String("date", entry.Date.String()))
		return store.ErrEntryExists
	case appendIDUsed:
		log.Debug("entry id already in use", slog.String("entry_id", entry.ID))
		return store.ErrEntryIDExists
	default:
		return store.NewStoreError(backendName, "append", "append script",
			fmt.Errorf("unexpected result %d", result))
	}
}

// FindByDate implements store.EntryStore.FindByDate.
func (s *EntryStore) FindByDate(
	ctx context.Context,
	ownerID string,
	date domain.Date,
) (domain.JournalEntry, bool, error) {
	val, err := s.client.HGet(ctx, s.key(ownerID), date.String()).Result()
	if errors.Is(err, backend.Nil) {
		return domain.JournalEntry{}, false, nil
	}
	if err != nil {
		return domain.JournalEntry{}, false, store.NewStoreError(backendName, "find_by_date", "hget", err)
	}

	entry, err := decodeEntry(ownerID, date.String(), val)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Warn("stored entry is unreadable",
			slog.String("error", err.Error()),
			slog.String("owner_id", ownerID),
			slog.String("date", date.String()))
		return domain.JournalEntry{}, false, store.NewStoreError(backendName, "find_by_date", "decode entry", err)
	}
	return entry, true, nil
}

// ListAll implements store.EntryStore.ListAll.
// Values that fail to decode are skipped and logged.
func (s *EntryStore) ListAll(ctx context.Context, ownerID string) ([]domain.JournalEntry, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	values, err := s.client.HGetAll(ctx, s.key(ownerID)).Result()
	if err != nil {
		return nil, store.NewStoreError(backendName, "list_all", "hgetall", err)
	}

	entries := make([]domain.JournalEntry, 0, len(values))
	for field, val := range values {
		entry, err := decodeEntry(ownerID, field, val)
		if err != nil {
			log.Warn("skipping unreadable entry",
				slog.String("error", err.Error()),
				slog.String("owner_id", ownerID),
				slog.String("field", field))
			continue
		}
		entries = append(entries, entry)
	}

	store.SortNewestFirst(entries)
	return entries, nil
}

// Close closes the redis client.
func (s *EntryStore) Close() error {
	return s.client.Close()
}

// decodeEntry parses a hash value and checks it belongs under owner and field.
func decodeEntry(ownerID, field, val string) (domain.JournalEntry, error) {
	var entry domain.JournalEntry
	if err := json.Unmarshal([]byte(val), &entry); err != nil {
		return domain.JournalEntry{}, fmt.Errorf("%w: %v", domain.ErrInvalidFormat, err)
	}
	if err := entry.Validate(); err != nil {
		return domain.JournalEntry{}, err
	}
	if entry.OwnerID != ownerID || entry.Date.String() != field {
		return domain.JournalEntry{}, fmt.Errorf("%w: entry %s stored under %s/%s",
			domain.ErrInvalidFormat, entry.ID, ownerID, field)
	}
	return entry, nil
}
