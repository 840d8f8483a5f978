package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/phrazzld/oneline-api/internal/clock"
	"github.com/phrazzld/oneline-api/internal/domain"
	"github.com/phrazzld/oneline-api/internal/events"
	"github.com/phrazzld/oneline-api/internal/platform/logger"
	"github.com/phrazzld/oneline-api/internal/redact"
	"github.com/phrazzld/oneline-api/internal/store"
)

// JournalService provides journal operations for an owner.
type JournalService interface {
	// SubmitEntry admits sentence as ownerID's entry for the current day.
	SubmitEntry(ctx context.Context, ownerID, sentence string) (domain.JournalEntry, error)

	// GetToday returns ownerID's entry for the current day, if any, together
	// with the day it was looked up for.
	GetToday(ctx context.Context, ownerID string) (TodayEntry, error)

	// GetHistory returns every entry of ownerID, newest first.
	GetHistory(ctx context.Context, ownerID string) ([]domain.JournalEntry, error)

	// Today returns the current calendar day in the service's location.
	Today() domain.Date
}

// TodayEntry is the result of GetToday. Date is the day the lookup used, so
// it always agrees with Entry even when the call straddles midnight.
type TodayEntry struct {
	Date  domain.Date
	Entry domain.JournalEntry
	Found bool
}

// journalServiceImpl implements the JournalService interface
type journalServiceImpl struct {
	store    store.EntryStore
	policy   *AdmissionPolicy
	clock    clock.Clock
	location *time.Location
	emitter  events.EventEmitter
	logger   *slog.Logger
}

// Option configures the journal service.
type Option func(*journalServiceImpl)

// WithClock sets the time source. The default is clock.System.
func WithClock(c clock.Clock) Option {
	return func(s *journalServiceImpl) {
		s.clock = c
	}
}

// WithLocation sets the location "today" is computed in. The default is time.Local.
func WithLocation(loc *time.Location) Option {
	return func(s *journalServiceImpl) {
		if loc != nil {
			s.location = loc
		}
	}
}

// WithEventEmitter sets where admission events are published.
func WithEventEmitter(e events.EventEmitter) Option {
	return func(s *journalServiceImpl) {
		s.emitter = e
	}
}

// NewJournalService creates a new JournalService on entryStore.
// If logger is nil, a default logger will be used.
func NewJournalService(
	entryStore store.EntryStore,
	logger *slog.Logger,
	opts ...Option,
) (JournalService, error) {
	if logger == nil {
		logger = slog.Default()
	}
	policy, err := NewAdmissionPolicy(entryStore, logger)
	if err != nil {
		return nil, err
	}

	s := &journalServiceImpl{
		store:    entryStore,
		policy:   policy,
		clock:    clock.System{},
		location: time.Local,
		logger:   logger.With(slog.String("component", "journal_service")),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Today implements JournalService.Today.
func (s *journalServiceImpl) Today() domain.Date {
	return clock.Today(s.clock, s.location)
}

// SubmitEntry implements JournalService.SubmitEntry.
// "Today" is evaluated per call, so a session that crosses midnight writes
// into the new day.
func (s *journalServiceImpl) SubmitEntry(
	ctx context.Context,
	ownerID string,
	sentence string,
) (domain.JournalEntry, error) {
	today := s.Today()

	entry, err := s.policy.TryAdmit(ctx, ownerID, sentence, today)
	s.publish(ctx, ownerID, today, entry, err)
	return entry, err
}

// GetToday implements JournalService.GetToday.
func (s *journalServiceImpl) GetToday(
	ctx context.Context,
	ownerID string,
) (TodayEntry, error) {
	today := s.Today()

	entry, found, err := s.store.FindByDate(ctx, ownerID, today)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to get today's entry",
			slog.String("error", redact.Error(err)),
			slog.String("owner_id", ownerID),
			slog.String("date", today.String()))
		return TodayEntry{Date: today}, NewJournalServiceError("get_today", "failed to get today's entry", err)
	}
	return TodayEntry{Date: today, Entry: entry, Found: found}, nil
}

// GetHistory implements JournalService.GetHistory.
func (s *journalServiceImpl) GetHistory(
	ctx context.Context,
	ownerID string,
) ([]domain.JournalEntry, error) {
	entries, err := s.store.ListAll(ctx, ownerID)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to list entries",
			slog.String("error", redact.Error(err)),
			slog.String("owner_id", ownerID))
		return nil, NewJournalServiceError("get_history", "failed to list entries", err)
	}
	if entries == nil {
		entries = []domain.JournalEntry{}
	}

	// Stores already order by date; re-sorting keeps the guarantee independent
	// of the backend.
	store.SortNewestFirst(entries)
	return entries, nil
}

// publish emits the admission outcome. Handler failures are logged only.
func (s *journalServiceImpl) publish(
	ctx context.Context,
	ownerID string,
	today domain.Date,
	entry domain.JournalEntry,
	admitErr error,
) {
	if s.emitter == nil {
		return
	}

	payload := events.AdmissionPayload{
		OwnerID: ownerID,
		Date:    today.String(),
		EntryID: entry.ID,
		Outcome: OutcomeOf(admitErr),
	}
	var verr *domain.ValidationError
	switch {
	case errors.As(admitErr, &verr):
		payload.Reason = string(verr.Kind)
	case admitErr != nil:
		payload.Reason = redact.Error(admitErr)
	}

	log := logger.FromContextOrDefault(ctx, s.logger)
	event, err := events.NewAdmissionEvent(payload)
	if err != nil {
		log.Error("failed to build admission event", slog.String("error", err.Error()))
		return
	}
	if err := s.emitter.EmitEvent(ctx, event); err != nil {
		log.Warn("admission event handler failed", slog.String("error", err.Error()))
	}
}

// OutcomeOf classifies the result of an admission attempt.
func OutcomeOf(err error) events.Outcome {
	switch {
	case err == nil:
		return events.OutcomeAdmitted
	case errors.Is(err, ErrDuplicateForDay):
		return events.OutcomeDuplicate
	case errors.Is(err, domain.ErrValidation):
		return events.OutcomeValidation
	default:
		return events.OutcomeStorageError
	}
}
