package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/oneline-api/internal/domain"
	"github.com/phrazzld/oneline-api/internal/store"
)

// demoEntries are written relative to today: one day ago, two days ago.
var demoEntries = []struct {
	daysAgo  int
	sentence string
}{
	{1, "Embraced the quiet moments today."},
	{2, "The journey of a thousand miles begins with a single step."},
}

// SeedDemoEntries writes the demo history for ownerID so a fresh journal has
// something to show. Days that already hold an entry are left alone.
// It returns the number of entries written.
func SeedDemoEntries(ctx context.Context, entryStore store.EntryStore, ownerID string, today domain.Date) (int, error) {
	written := 0
	for _, demo := range demoEntries {
		date := today.AddDays(-demo.daysAgo)
		entry := domain.JournalEntry{
			ID:        uuid.NewString(),
			Date:      date,
			Sentence:  demo.sentence,
			OwnerID:   ownerID,
			CreatedAt: date.Time(time.UTC),
		}

		err := entryStore.Append(ctx, entry)
		switch {
		case err == nil:
			written++
		case errors.Is(err, store.ErrEntryExists):
		default:
			return written, fmt.Errorf("seed demo entry for %s: %w", date, err)
		}
	}
	return written, nil
}
