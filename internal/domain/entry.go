package domain

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

// JournalEntry is one owner's recorded sentence for one calendar day.
// Entries are write-once: nothing mutates an entry after it has been stored,
// and stores hand out copies.
type JournalEntry struct {
	ID        string    `json:"id"`
	Date      Date      `json:"date"`
	Sentence  string    `json:"sentence"`
	OwnerID   string    `json:"ownerId"`
	CreatedAt time.Time `json:"createdAt"`
}

// NewJournalEntry validates sentence and creates an entry for ownerID on date
// with a fresh unique ID.
func NewJournalEntry(ownerID string, date Date, sentence string) (JournalEntry, error) {
	validated, err := ValidateSentence(sentence)
	if err != nil {
		return JournalEntry{}, err
	}

	entry := JournalEntry{
		ID:        uuid.NewString(),
		Date:      date,
		Sentence:  validated,
		OwnerID:   ownerID,
		CreatedAt: time.Now().UTC(),
	}

	if err := entry.Validate(); err != nil {
		return JournalEntry{}, err
	}

	return entry, nil
}

// Validate checks if the entry has valid data.
// Returns an error if any field fails validation.
func (e JournalEntry) Validate() error {
	if e.ID == "" {
		return ErrEmptyEntryID
	}

	if strings.TrimSpace(e.OwnerID) == "" {
		return ErrEmptyOwnerID
	}

	if e.Date.IsZero() {
		return ErrEmptyEntryDate
	}

	n := utf8.RuneCountInString(e.Sentence)
	if strings.TrimSpace(e.Sentence) == "" {
		return &ValidationError{Field: SentenceField, Kind: EmptyInput, Message: msgSentenceEmpty}
	}
	if n > MaxSentenceLength {
		return &ValidationError{Field: SentenceField, Kind: TooLong, Message: msgSentenceTooLong}
	}

	return nil
}
