package sqlite_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/phrazzld/oneline-api/internal/platform/sqlite"
	"github.com/phrazzld/oneline-api/internal/store"
	"github.com/phrazzld/oneline-api/internal/store/storetest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEntryStoreConformance(t *testing.T) {
	t.Parallel()

	storetest.Run(t, func(t *testing.T) store.EntryStore {
		s, err := sqlite.Open(context.Background(), filepath.Join(t.TempDir(), "oneline.db"), nil)
		require.NoError(t, err)
		return s
	})
}

func TestEntryStore_Reopen(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "oneline.db")

	s, err := sqlite.Open(ctx, path, nil)
	require.NoError(t, err)
	entry := storetest.Entry("mockUser", "2024-01-01", "Hello world")
	require.NoError(t, s.Append(ctx, entry))
	require.NoError(t, s.Close())

	reopened, err := sqlite.Open(ctx, path, nil)
	require.NoError(t, err)
	defer func() { _ = reopened.Close() }()

	got, found, err := reopened.FindByDate(ctx, "mockUser", entry.Date)
	require.NoError(t, err)
	require.True(t, found)
	storetest.AssertSameEntry(t, entry, got)
}

func TestEntryStore_ClosedDatabaseIsStorageFailure(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s, err := sqlite.Open(ctx, filepath.Join(t.TempDir(), "oneline.db"), nil)
	require.NoError(t, err)
	require.NoError(t, s.Close())

	err = s.Append(ctx, storetest.Entry("mockUser", "2024-01-01", "after close"))
	require.Error(t, err)
	assert.True(t, store.IsStorageFailure(err))

	_, err = s.ListAll(ctx, "mockUser")
	assert.True(t, store.IsStorageFailure(err))
}
