package store

import (
	"context"

	"github.com/phrazzld/oneline-api/internal/domain"
)

// EntryStore defines the interface for journal entry persistence.
// The store exclusively owns its entries; every method returns copies.
type EntryStore interface {
	// Append stores a new entry. It is an atomic insert-if-absent keyed by
	// (OwnerID, Date): when an entry for that pair already exists it returns
	// ErrEntryExists and leaves the store unchanged. Ids are unique across
	// the whole store; reusing one returns ErrEntryIDExists.
	// Returns validation errors from the domain entry if data is invalid, and
	// an error matching ErrStorageFailure if the medium fails.
	Append(ctx context.Context, entry domain.JournalEntry) error

	// FindByDate retrieves the owner's entry for date.
	// The boolean is false when no entry exists; that is not an error.
	FindByDate(ctx context.Context, ownerID string, date domain.Date) (domain.JournalEntry, bool, error)

	// ListAll returns every entry of the owner, most recent date first, ties
	// broken by insertion order. Returns an empty slice if there are none.
	ListAll(ctx context.Context, ownerID string) ([]domain.JournalEntry, error)

	// Close releases the underlying medium. The store must not be used afterwards.
	Close() error
}
