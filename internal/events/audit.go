package events

import (
	"context"
	"log/slog"
)

// AuditLogger writes one structured log line per admission decision.
type AuditLogger struct {
	logger *slog.Logger
}

// NewAuditLogger creates an audit handler. If logger is nil, slog.Default is used.
func NewAuditLogger(logger *slog.Logger) *AuditLogger {
	if logger == nil {
		logger = slog.Default()
	}
	return &AuditLogger{logger: logger.With(slog.String("component", "audit"))}
}

// HandleEvent implements EventHandler.
func (a *AuditLogger) HandleEvent(ctx context.Context, event *Event) error {
	var p AdmissionPayload
	if err := event.UnmarshalPayload(&p); err != nil {
		return err
	}

	level := slog.LevelInfo
	if p.Outcome == OutcomeStorageError {
		level = slog.LevelWarn
	}
	a.logger.LogAttrs(ctx, level, "admission decided",
		slog.String("event_id", event.ID.String()),
		slog.String("event_type", event.Type),
		slog.String("owner_id", p.OwnerID),
		slog.String("date", p.Date),
		slog.String("outcome", string(p.Outcome)),
		slog.String("entry_id", p.EntryID),
		slog.String("reason", p.Reason))
	return nil
}
