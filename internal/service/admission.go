package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/phrazzld/oneline-api/internal/domain"
	"github.com/phrazzld/oneline-api/internal/platform/logger"
	"github.com/phrazzld/oneline-api/internal/redact"
	"github.com/phrazzld/oneline-api/internal/store"
)

// AdmissionPolicy enforces the one-entry-per-day rule.
//
// Attempts for the same (owner, day) are serialized in-process, and the
// store's Append is itself insert-if-absent, so the rule also holds when
// several processes share a database.
type AdmissionPolicy struct {
	store  store.EntryStore
	locks  *keyedMutex
	logger *slog.Logger
}

// NewAdmissionPolicy creates a policy writing to entryStore.
// If logger is nil, a default logger will be used.
func NewAdmissionPolicy(entryStore store.EntryStore, logger *slog.Logger) (*AdmissionPolicy, error) {
	if entryStore == nil {
		return nil, errors.New("entry store cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &AdmissionPolicy{
		store:  entryStore,
		locks:  newKeyedMutex(),
		logger: logger.With(slog.String("component", "admission_policy")),
	}, nil
}

// TryAdmit records proposedSentence as ownerID's entry for today.
//
// The duplicate check runs before validation, so a second submission on the
// same day is reported as ErrDuplicateForDay whatever its content. Validation
// errors are returned unchanged; storage failures are wrapped in
// *JournalServiceError. The store is untouched on every failure path.
func (p *AdmissionPolicy) TryAdmit(
	ctx context.Context,
	ownerID string,
	proposedSentence string,
	today domain.Date,
) (domain.JournalEntry, error) {
	log := logger.FromContextOrDefault(ctx, p.logger).With(
		slog.String("owner_id", ownerID),
		slog.String("date", today.String()),
	)

	unlock := p.locks.Lock(ownerID + "|" + today.String())
	defer unlock()

	_, found, err := p.store.FindByDate(ctx, ownerID, today)
	if err != nil {
		log.Error("failed to check for existing entry", slog.String("error", redact.Error(err)))
		return domain.JournalEntry{}, NewJournalServiceError("try_admit", "failed to check for existing entry", err)
	}
	if found {
		log.Debug("entry already exists for today")
		return domain.JournalEntry{}, ErrDuplicateForDay
	}

	entry, err := domain.NewJournalEntry(ownerID, today, proposedSentence)
	if err != nil {
		log.Debug("proposed sentence rejected",
			slog.String("error", err.Error()),
			slog.String("sentence", redact.Sentence(proposedSentence)))
		if errors.Is(err, domain.ErrValidation) {
			return domain.JournalEntry{}, err
		}
		return domain.JournalEntry{}, NewJournalServiceError("try_admit", "invalid entry", err)
	}

	if err := p.store.Append(ctx, entry); err != nil {
		if errors.Is(err, store.ErrEntryExists) {
			log.Info("concurrent admission won the race for today")
			return domain.JournalEntry{}, ErrDuplicateForDay
		}
		log.Error("failed to append entry",
			slog.String("error", redact.Error(err)),
			slog.String("entry_id", entry.ID))
		return domain.JournalEntry{}, NewJournalServiceError("try_admit", "failed to save entry", err)
	}

	log.Info("entry admitted", slog.String("entry_id", entry.ID))
	return entry, nil
}
