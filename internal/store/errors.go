package store

import (
	"errors"
	"fmt"
)

// Common store errors used across all store implementations.
var (
	// ErrNotFound is returned when a requested entity does not exist in the store.
	// EntryStore lookups report absence with a boolean instead; this sentinel
	// is kept for helpers that map driver errors.
	ErrNotFound = errors.New("entity not found")

	// ErrDuplicate is returned when an operation would create a duplicate
	// of a unique entity.
	ErrDuplicate = errors.New("entity already exists")

	// ErrInvalidEntity is returned when an entity fails validation before
	// being stored. Check the wrapped error for specific validation details.
	ErrInvalidEntity = errors.New("invalid entity")

	// ErrStorageFailure is returned when the underlying medium (memory, disk,
	// database, cache) fails. Callers may retry; stores never retry on their own.
	ErrStorageFailure = errors.New("storage failure")

	// ErrTransactionFailed is returned when a database transaction fails
	// to commit or when an operation within a transaction fails.
	ErrTransactionFailed = errors.New("transaction failed")

	// ErrEntryExists indicates that an entry for the same owner and date is
	// already stored. Append returns it instead of inserting a second entry.
	ErrEntryExists = fmt.Errorf("%w: journal entry for owner and date", ErrDuplicate)

	// ErrEntryIDExists indicates that an entry with the same id is already
	// stored, under any owner. Append returns it and leaves the store unchanged.
	ErrEntryIDExists = fmt.Errorf("%w: journal entry id", ErrDuplicate)
)

// IsNotFoundError checks if the error is any kind of "not found" error.
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsDuplicateError checks if the error is any kind of "duplicate" error.
// This includes the generic ErrDuplicate, ErrEntryExists and ErrEntryIDExists.
func IsDuplicateError(err error) bool {
	return errors.Is(err, ErrDuplicate)
}

// IsStorageFailure reports whether err came from a failing storage medium.
func IsStorageFailure(err error) bool {
	return errors.Is(err, ErrStorageFailure)
}

// StoreError is a custom error type for store-specific errors with additional context.
type StoreError struct {
	Backend   string // The backend that failed (e.g., "postgres", "redis")
	Operation string // The operation that failed (e.g., "append", "list_all")
	Message   string // Error message
	Err       error  // Original error
}

// Error implements the error interface for StoreError.
func (e *StoreError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf(
			"%s operation on %s store failed: %s: %v",
			e.Operation,
			e.Backend,
			e.Message,
			e.Err,
		)
	}
	return fmt.Sprintf("%s operation on %s store failed: %s", e.Operation, e.Backend, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *StoreError) Unwrap() error {
	return e.Err
}

// Is makes every StoreError match ErrStorageFailure.
func (e *StoreError) Is(target error) bool {
	return target == ErrStorageFailure
}

// NewStoreError creates a new StoreError with the given backend, operation,
// message, and wrapped error.
func NewStoreError(backend, operation, message string, err error) *StoreError {
	return &StoreError{
		Backend:   backend,
		Operation: operation,
		Message:   message,
		Err:       err,
	}
}
