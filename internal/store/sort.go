package store

import (
	"sort"

	"github.com/phrazzld/oneline-api/internal/domain"
)

// SortNewestFirst orders entries by descending date in place. The sort is
// stable, so entries sharing a date keep their relative (insertion) order.
func SortNewestFirst(entries []domain.JournalEntry) {
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Date.After(entries[j].Date)
	})
}
