package api

import (
	"time"

	"github.com/phrazzld/oneline-api/internal/domain"
)

// SubmitEntryRequest is the body of POST /api/entries.
// Sentence is a pointer so a missing field is told apart from an empty one:
// missing is a malformed request, empty is a validation failure.
type SubmitEntryRequest struct {
	Sentence *string `json:"sentence" validate:"required"`
}

// EntryResponse is the wire form of a journal entry.
type EntryResponse struct {
	ID          string    `json:"id"`
	Date        string    `json:"date"`
	DisplayDate string    `json:"display_date"`
	Sentence    string    `json:"sentence"`
	OwnerID     string    `json:"owner_id"`
	CreatedAt   time.Time `json:"created_at"`
}

// SubmitEntryResponse mirrors the form state the client renders after a
// submission. Reason and Errors are set only on rejection.
type SubmitEntryResponse struct {
	Success bool                `json:"success"`
	Message string              `json:"message"`
	Entry   *EntryResponse      `json:"entry,omitempty"`
	Reason  string              `json:"reason,omitempty"`
	Errors  map[string][]string `json:"errors,omitempty"`
}

// TodayResponse is the body of GET /api/entries/today. Entry is null when
// nothing has been written yet today.
type TodayResponse struct {
	Entry       *EntryResponse `json:"entry"`
	Date        string         `json:"date"`
	DisplayDate string         `json:"display_date"`
}

// HistoryResponse is the body of GET /api/entries.
type HistoryResponse struct {
	Entries []EntryResponse `json:"entries"`
	Total   int             `json:"total"`
}

// entryToResponse converts a domain.JournalEntry to an EntryResponse
func entryToResponse(entry domain.JournalEntry) EntryResponse {
	return EntryResponse{
		ID:          entry.ID,
		Date:        entry.Date.String(),
		DisplayDate: entry.Date.Display(),
		Sentence:    entry.Sentence,
		OwnerID:     entry.OwnerID,
		CreatedAt:   entry.CreatedAt,
	}
}

// entriesToResponses converts entries preserving order; never returns nil.
func entriesToResponses(entries []domain.JournalEntry) []EntryResponse {
	out := make([]EntryResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, entryToResponse(e))
	}
	return out
}
