package service

import (
	"errors"
	"fmt"

	"github.com/phrazzld/oneline-api/internal/domain"
)

// Service errors callers check with errors.Is.
//
// Three failure classes stay distinguishable:
//   - domain.ErrValidation: the sentence was empty or too long (HTTP 422)
//   - ErrDuplicateForDay: the owner already has an entry for the day (HTTP 409)
//   - store.ErrStorageFailure: the medium failed (HTTP 500)
var (
	// ErrDuplicateForDay indicates the owner already recorded an entry for
	// the requested day. It is a business rejection, not a system error.
	ErrDuplicateForDay = errors.New("an entry for today already exists")
)

// JournalServiceError wraps unexpected errors from the journal service with context.
type JournalServiceError struct {
	// Operation is the operation that failed (e.g., "try_admit", "get_history")
	Operation string
	// Message is a human-readable description of the error
	Message string
	// Err is the underlying error that caused the failure
	Err error
}

// Error implements the error interface for JournalServiceError.
func (e *JournalServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("journal service %s failed: %s: %v", e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("journal service %s failed: %s", e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *JournalServiceError) Unwrap() error {
	return e.Err
}

// NewJournalServiceError creates a new JournalServiceError.
// Duplicate and validation errors are returned unchanged.
func NewJournalServiceError(operation, message string, err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, ErrDuplicateForDay) || errors.Is(err, domain.ErrValidation) {
		return err
	}

	return &JournalServiceError{
		Operation: operation,
		Message:   message,
		Err:       err,
	}
}
