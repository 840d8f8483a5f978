package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Event types emitted by the journal service.
const (
	// TypeEntryAdmitted is emitted after an entry was stored.
	TypeEntryAdmitted = "entry.admitted"
	// TypeAdmissionRejected is emitted when a submission was refused or failed.
	TypeAdmissionRejected = "entry.rejected"
)

// Outcome labels an admission decision.
type Outcome string

const (
	OutcomeAdmitted     Outcome = "admitted"
	OutcomeDuplicate    Outcome = "duplicate"
	OutcomeValidation   Outcome = "validation"
	OutcomeStorageError Outcome = "storage_error"
)

// Event is a single occurrence with a JSON payload.
type Event struct {
	ID        uuid.UUID       `json:"id"`
	Type      string          `json:"type"`
	Payload   json.RawMessage `json:"payload"`
	CreatedAt time.Time       `json:"created_at"`
}

// AdmissionPayload describes one admission decision.
type AdmissionPayload struct {
	OwnerID string  `json:"owner_id"`
	Date    string  `json:"date"`
	Outcome Outcome `json:"outcome"`
	EntryID string  `json:"entry_id,omitempty"`
	// Reason holds the validation kind or error text for rejections.
	Reason string `json:"reason,omitempty"`
}

// UnmarshalPayload decodes the event payload into v.
func (e *Event) UnmarshalPayload(v any) error {
	return json.Unmarshal(e.Payload, v)
}

// NewEvent creates an event with a fresh ID, marshalling payload to JSON.
func NewEvent(eventType string, payload any) (*Event, error) {
	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	return &Event{
		ID:        uuid.New(),
		Type:      eventType,
		Payload:   payloadBytes,
		CreatedAt: time.Now().UTC(),
	}, nil
}

// NewAdmissionEvent builds the event for an admission decision. The type
// follows from the outcome.
func NewAdmissionEvent(payload AdmissionPayload) (*Event, error) {
	eventType := TypeAdmissionRejected
	if payload.Outcome == OutcomeAdmitted {
		eventType = TypeEntryAdmitted
	}
	return NewEvent(eventType, payload)
}

// EventHandler processes events.
type EventHandler interface {
	HandleEvent(ctx context.Context, event *Event) error
}

// EventEmitter publishes events to interested handlers.
type EventEmitter interface {
	EmitEvent(ctx context.Context, event *Event) error
}

// HandlerFunc adapts a function to EventHandler.
type HandlerFunc func(ctx context.Context, event *Event) error

// HandleEvent calls f.
func (f HandlerFunc) HandleEvent(ctx context.Context, event *Event) error {
	return f(ctx, event)
}
