// Package storetest provides a conformance suite that every store.EntryStore
// implementation runs in its own tests.
package storetest

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/oneline-api/internal/domain"
	"github.com/phrazzld/oneline-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Factory returns a new, empty store. The suite closes it.
type Factory func(t *testing.T) store.EntryStore

// Entry builds a valid entry for owner on date (YYYY-MM-DD).
func Entry(owner, date, sentence string) domain.JournalEntry {
	return domain.JournalEntry{
		ID:        uuid.NewString(),
		Date:      domain.MustParseDate(date),
		Sentence:  sentence,
		OwnerID:   owner,
		CreatedAt: time.Date(2024, time.January, 1, 12, 0, 0, 0, time.UTC),
	}
}

// Run executes the conformance suite against stores built by newStore.
func Run(t *testing.T, newStore Factory) {
	t.Helper()

	open := func(t *testing.T) store.EntryStore {
		s := newStore(t)
		t.Cleanup(func() { _ = s.Close() })
		return s
	}

	t.Run("append_then_find", func(t *testing.T) {
		s := open(t)
		ctx := context.Background()
		entry := Entry("mockUser", "2024-01-01", "Hello world")

		require.NoError(t, s.Append(ctx, entry))

		got, found, err := s.FindByDate(ctx, "mockUser", entry.Date)
		require.NoError(t, err)
		require.True(t, found)
		AssertSameEntry(t, entry, got)
	})

	t.Run("find_missing_is_not_an_error", func(t *testing.T) {
		s := open(t)

		_, found, err := s.FindByDate(context.Background(), "mockUser", domain.MustParseDate("2024-01-01"))
		require.NoError(t, err)
		assert.False(t, found)
	})

	t.Run("duplicate_owner_day_rejected", func(t *testing.T) {
		s := open(t)
		ctx := context.Background()

		require.NoError(t, s.Append(ctx, Entry("mockUser", "2024-01-01", "first")))
		err := s.Append(ctx, Entry("mockUser", "2024-01-01", "second"))
		require.Error(t, err)
		assert.ErrorIs(t, err, store.ErrEntryExists)
		assert.False(t, store.IsStorageFailure(err), "duplicate must not look like a storage failure")

		entries, err := s.ListAll(ctx, "mockUser")
		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.Equal(t, "first", entries[0].Sentence)
	})

	t.Run("duplicate_id_rejected", func(t *testing.T) {
		s := open(t)
		ctx := context.Background()

		first := Entry("mockUser", "2024-01-01", "first")
		require.NoError(t, s.Append(ctx, first))

		sameOwner := Entry("mockUser", "2024-01-02", "same id, next day")
		sameOwner.ID = first.ID
		err := s.Append(ctx, sameOwner)
		require.Error(t, err)
		assert.ErrorIs(t, err, store.ErrEntryIDExists)
		assert.NotErrorIs(t, err, store.ErrEntryExists)
		assert.False(t, store.IsStorageFailure(err), "id collision must not look like a storage failure")

		otherOwner := Entry("alice", "2024-01-01", "same id, other owner")
		otherOwner.ID = first.ID
		assert.ErrorIs(t, s.Append(ctx, otherOwner), store.ErrEntryIDExists)

		entries, err := s.ListAll(ctx, "mockUser")
		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.Equal(t, "first", entries[0].Sentence)

		alice, err := s.ListAll(ctx, "alice")
		require.NoError(t, err)
		assert.Empty(t, alice)

		_, found, err := s.FindByDate(ctx, "mockUser", domain.MustParseDate("2024-01-02"))
		require.NoError(t, err)
		assert.False(t, found)
	})

	t.Run("import_skips_reused_ids", func(t *testing.T) {
		s := open(t)
		ctx := context.Background()

		a := Entry("mockUser", "2024-01-01", "kept")
		b := Entry("mockUser", "2024-01-02", "reuses the id")
		b.ID = a.ID

		result, err := store.Import(ctx, s, store.Snapshot{"mockUser": {b, a}})
		require.NoError(t, err)
		assert.Equal(t, store.ImportResult{Imported: 1, Skipped: 1}, result)

		entries, err := s.ListAll(ctx, "mockUser")
		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.Equal(t, "kept", entries[0].Sentence)
	})

	t.Run("owners_are_independent", func(t *testing.T) {
		s := open(t)
		ctx := context.Background()

		require.NoError(t, s.Append(ctx, Entry("alice", "2024-01-01", "alice writes")))
		require.NoError(t, s.Append(ctx, Entry("bob", "2024-01-01", "bob writes")))

		alice, err := s.ListAll(ctx, "alice")
		require.NoError(t, err)
		require.Len(t, alice, 1)
		assert.Equal(t, "alice writes", alice[0].Sentence)

		_, found, err := s.FindByDate(ctx, "carol", domain.MustParseDate("2024-01-01"))
		require.NoError(t, err)
		assert.False(t, found)
	})

	t.Run("list_all_newest_first", func(t *testing.T) {
		s := open(t)
		ctx := context.Background()

		for _, date := range []string{"2024-01-03", "2023-12-31", "2024-02-01", "2024-01-01", "2024-01-15"} {
			require.NoError(t, s.Append(ctx, Entry("mockUser", date, "on "+date)))
		}

		entries, err := s.ListAll(ctx, "mockUser")
		require.NoError(t, err)
		require.Len(t, entries, 5)

		want := []string{"2024-02-01", "2024-01-15", "2024-01-03", "2024-01-01", "2023-12-31"}
		for i, entry := range entries {
			assert.Equal(t, want[i], entry.Date.String(), "position %d", i)
		}
	})

	t.Run("list_all_empty", func(t *testing.T) {
		s := open(t)

		entries, err := s.ListAll(context.Background(), "nobody")
		require.NoError(t, err)
		assert.NotNil(t, entries)
		assert.Empty(t, entries)
	})

	t.Run("returns_copies", func(t *testing.T) {
		s := open(t)
		ctx := context.Background()
		require.NoError(t, s.Append(ctx, Entry("mockUser", "2024-01-01", "original")))

		entries, err := s.ListAll(ctx, "mockUser")
		require.NoError(t, err)
		entries[0].Sentence = "mutated"

		got, found, err := s.FindByDate(ctx, "mockUser", domain.MustParseDate("2024-01-01"))
		require.NoError(t, err)
		require.True(t, found)
		assert.Equal(t, "original", got.Sentence)
	})

	t.Run("invalid_entry_rejected", func(t *testing.T) {
		s := open(t)
		ctx := context.Background()

		bad := Entry("mockUser", "2024-01-01", "")
		err := s.Append(ctx, bad)
		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrValidation)

		entries, err := s.ListAll(ctx, "mockUser")
		require.NoError(t, err)
		assert.Empty(t, entries)
	})

	t.Run("concurrent_append_same_day", func(t *testing.T) {
		s := open(t)
		ctx := context.Background()

		const writers = 8
		var wg sync.WaitGroup
		errs := make([]error, writers)
		for i := 0; i < writers; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				errs[i] = s.Append(ctx, Entry("mockUser", "2024-01-01", fmt.Sprintf("writer %d", i)))
			}(i)
		}
		wg.Wait()

		succeeded := 0
		for _, err := range errs {
			if err == nil {
				succeeded++
				continue
			}
			assert.True(t, errors.Is(err, store.ErrEntryExists), "unexpected error: %v", err)
		}
		assert.Equal(t, 1, succeeded)

		entries, err := s.ListAll(ctx, "mockUser")
		require.NoError(t, err)
		assert.Len(t, entries, 1)
	})

	t.Run("snapshot_round_trip", func(t *testing.T) {
		src := open(t)
		dst := open(t)
		ctx := context.Background()

		for _, e := range []domain.JournalEntry{
			Entry("mockUser", "2024-01-01", "one"),
			Entry("mockUser", "2024-01-03", "three"),
			Entry("mockUser", "2024-01-02", "two"),
		} {
			require.NoError(t, src.Append(ctx, e))
		}

		snap, err := store.Export(ctx, src, []string{"mockUser"})
		require.NoError(t, err)

		result, err := store.Import(ctx, dst, snap)
		require.NoError(t, err)
		assert.Equal(t, 3, result.Imported)

		want, err := src.ListAll(ctx, "mockUser")
		require.NoError(t, err)
		got, err := dst.ListAll(ctx, "mockUser")
		require.NoError(t, err)
		AssertSameEntries(t, want, got)
	})
}

// AssertSameEntry compares the persisted identity of two entries. CreatedAt is
// compared at second precision since SQL backends truncate it.
func AssertSameEntry(t *testing.T, want, got domain.JournalEntry) {
	t.Helper()

	assert.Equal(t, want.ID, got.ID, "id")
	assert.Equal(t, want.Date, got.Date, "date")
	assert.Equal(t, want.Sentence, got.Sentence, "sentence")
	assert.Equal(t, want.OwnerID, got.OwnerID, "owner id")
	assert.WithinDuration(t, want.CreatedAt, got.CreatedAt, time.Second, "created at")
}

// AssertSameEntries compares two ordered entry sequences with AssertSameEntry.
func AssertSameEntries(t *testing.T, want, got []domain.JournalEntry) {
	t.Helper()

	require.Len(t, got, len(want))
	for i := range want {
		AssertSameEntry(t, want[i], got[i])
	}
}
