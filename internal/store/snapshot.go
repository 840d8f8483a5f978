package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sort"

	"github.com/phrazzld/oneline-api/internal/domain"
)

// Snapshot is the serialisable representation of stored entries: one
// sequence of records per owner id, newest first. It is the same layout the
// file store persists.
type Snapshot map[string][]domain.JournalEntry

// ImportResult reports what Import did with each record.
type ImportResult struct {
	Imported int
	// Skipped counts records that already had an entry for their owner and
	// date, or whose id is already in use.
	Skipped int
	// Invalid counts records that failed domain validation.
	Invalid int
}

// Export reads every entry of the given owners from s.
func Export(ctx context.Context, s EntryStore, owners []string) (Snapshot, error) {
	snap := make(Snapshot, len(owners))
	for _, owner := range owners {
		entries, err := s.ListAll(ctx, owner)
		if err != nil {
			return nil, fmt.Errorf("export entries for %s: %w", owner, err)
		}
		snap[owner] = entries
	}
	return snap, nil
}

// Import appends every record in snap to s, keeping ids and dates. Records
// are appended oldest first. Existing (owner, date) pairs and ids already in
// use are left alone.
func Import(ctx context.Context, s EntryStore, snap Snapshot) (ImportResult, error) {
	var result ImportResult

	owners := make([]string, 0, len(snap))
	for owner := range snap {
		owners = append(owners, owner)
	}
	sort.Strings(owners)

	for _, owner := range owners {
		entries := append([]domain.JournalEntry(nil), snap[owner]...)
		sort.SliceStable(entries, func(i, j int) bool {
			return entries[i].Date.Before(entries[j].Date)
		})

		for _, entry := range entries {
			if entry.OwnerID == "" {
				entry.OwnerID = owner
			}
			err := s.Append(ctx, entry)
			switch {
			case err == nil:
				result.Imported++
			case errors.Is(err, ErrEntryExists), errors.Is(err, ErrEntryIDExists):
				result.Skipped++
			case errors.Is(err, domain.ErrValidation),
				errors.Is(err, domain.ErrEmptyEntryID),
				errors.Is(err, domain.ErrEmptyOwnerID),
				errors.Is(err, domain.ErrEmptyEntryDate):
				result.Invalid++
			default:
				return result, fmt.Errorf("import entry %s: %w", entry.ID, err)
			}
		}
	}

	return result, nil
}

// Encode writes snap as indented JSON.
func (snap Snapshot) Encode(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(snap)
}

// DecodeSnapshot reads a snapshot written by Encode.
func DecodeSnapshot(r io.Reader) (Snapshot, error) {
	var snap Snapshot
	if err := json.NewDecoder(r).Decode(&snap); err != nil {
		return nil, fmt.Errorf("%w: snapshot: %v", domain.ErrInvalidFormat, err)
	}
	if snap == nil {
		snap = Snapshot{}
	}
	return snap, nil
}
