package api

import (
	"errors"
	"net/http"

	"github.com/phrazzld/oneline-api/internal/api/shared"
	"github.com/phrazzld/oneline-api/internal/domain"
	"github.com/phrazzld/oneline-api/internal/service"
)

// User-facing messages.
const (
	MsgEntryAdded       = "Entry added successfully!"
	MsgDuplicateForDay  = "An entry for today already exists."
	MsgValidationFailed = "Validation failed."
	MsgSaveFailed       = "Failed to save entry."
	MsgLoadFailed       = "Failed to load entries."
	MsgInvalidRequest   = "Invalid request format"
	MsgMissingOwner     = "Journal owner not configured"
)

// Rejection reasons reported in submit responses.
const (
	ReasonDuplicate  = "duplicate"
	ReasonValidation = "validation"
)

// FormField is the pseudo field that carries form-level errors.
const FormField = "_form"

// MapErrorToStatusCode maps internal errors to appropriate HTTP status codes
// based on the error type. This prevents leaking internal error types or
// messages to clients.
func MapErrorToStatusCode(err error) int {
	switch {
	case err == nil:
		return http.StatusOK

	// Business rejection: one entry per day
	case errors.Is(err, service.ErrDuplicateForDay):
		return http.StatusConflict

	// Sentence validation
	case errors.Is(err, domain.ErrValidation):
		return http.StatusUnprocessableEntity

	// Bad request errors
	case errors.Is(err, shared.ErrMalformedRequest),
		errors.Is(err, domain.ErrInvalidFormat):
		return http.StatusBadRequest

	// Default: internal server error, including store.ErrStorageFailure
	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a sanitized, user-friendly error message
// based on the error type. This prevents leaking sensitive internal details.
func GetSafeErrorMessage(err error) string {
	var verr *domain.ValidationError

	switch {
	case err == nil:
		return "An unexpected error occurred"
	case errors.Is(err, service.ErrDuplicateForDay):
		return MsgDuplicateForDay
	case errors.As(err, &verr):
		return verr.Message
	case errors.Is(err, shared.ErrMalformedRequest),
		errors.Is(err, domain.ErrInvalidFormat):
		return MsgInvalidRequest
	default:
		return "An unexpected error occurred"
	}
}

// FieldErrors returns the field -> messages map for submit rejections.
// Duplicates are reported against the form as a whole.
func FieldErrors(err error) map[string][]string {
	var verr *domain.ValidationError

	switch {
	case errors.Is(err, service.ErrDuplicateForDay):
		return map[string][]string{FormField: {MsgDuplicateForDay}}
	case errors.As(err, &verr):
		return verr.FieldErrors()
	default:
		return nil
	}
}
