package domain

import (
	"errors"
	"fmt"
)

// Common domain errors used across the application.
var (
	// ErrValidation is returned when a domain entity fails validation.
	// Every *ValidationError matches it with errors.Is.
	ErrValidation = errors.New("validation failed")

	// ErrEmptyInput is returned when a sentence is empty after trimming.
	ErrEmptyInput = errors.New("sentence cannot be empty")

	// ErrTooLong is returned when a sentence exceeds MaxSentenceLength.
	ErrTooLong = errors.New("sentence too long")

	// ErrInvalidFormat is returned when data is not in the expected format.
	ErrInvalidFormat = errors.New("invalid format")

	// ErrEmptyEntryID is returned when an entry has no ID.
	ErrEmptyEntryID = errors.New("entry ID cannot be empty")

	// ErrEmptyOwnerID is returned when an entry has no owner.
	ErrEmptyOwnerID = errors.New("entry owner ID cannot be empty")

	// ErrEmptyEntryDate is returned when an entry has a zero date.
	ErrEmptyEntryDate = errors.New("entry date cannot be empty")
)

// ValidationKind classifies a sentence validation failure.
type ValidationKind string

// Sentence validation failure kinds.
const (
	EmptyInput ValidationKind = "empty_input"
	TooLong    ValidationKind = "too_long"
)

// ValidationError describes why a field was rejected. Message is safe to show
// to the person who typed the value.
type ValidationError struct {
	Field   string
	Kind    ValidationKind
	Message string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s: %s", ErrValidation, e.Field, e.Message)
}

// Is lets errors.Is match both ErrValidation and the kind-specific sentinel.
func (e *ValidationError) Is(target error) bool {
	switch target {
	case ErrValidation:
		return true
	case ErrEmptyInput:
		return e.Kind == EmptyInput
	case ErrTooLong:
		return e.Kind == TooLong
	default:
		return false
	}
}

// FieldErrors returns the error in the field -> messages shape used by
// form-style responses.
func (e *ValidationError) FieldErrors() map[string][]string {
	return map[string][]string{e.Field: {e.Message}}
}
