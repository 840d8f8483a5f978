package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"testing"

	"github.com/phrazzld/oneline-api/internal/api/shared"
	"github.com/phrazzld/oneline-api/internal/domain"
	"github.com/phrazzld/oneline-api/internal/service"
	"github.com/phrazzld/oneline-api/internal/store"
	"github.com/stretchr/testify/assert"
)

func TestMapErrorToStatusCode(t *testing.T) {
	_, validation := domain.ValidateSentence("")

	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{"nil", nil, http.StatusOK},
		{"duplicate", service.ErrDuplicateForDay, http.StatusConflict},
		{"wrapped duplicate", fmt.Errorf("submit: %w", service.ErrDuplicateForDay), http.StatusConflict},
		{"validation", validation, http.StatusUnprocessableEntity},
		{"malformed", shared.ErrMalformedRequest, http.StatusBadRequest},
		{"invalid format", domain.ErrInvalidFormat, http.StatusBadRequest},
		{"storage", store.NewStoreError("memory", "append", "x", nil), http.StatusInternalServerError},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, MapErrorToStatusCode(tc.err))
		})
	}
}

func TestGetSafeErrorMessage(t *testing.T) {
	_, tooLong := domain.ValidateSentence(strings.Repeat("a", domain.MaxSentenceLength+1))

	assert.Equal(t, MsgDuplicateForDay, GetSafeErrorMessage(service.ErrDuplicateForDay))
	assert.Equal(t, "Sentence cannot exceed 500 characters.", GetSafeErrorMessage(tooLong))
	assert.Equal(t, MsgInvalidRequest, GetSafeErrorMessage(shared.ErrMalformedRequest))
	assert.Equal(t, "An unexpected error occurred",
		GetSafeErrorMessage(errors.New("pq: password authentication failed for user oneline")))
	assert.Equal(t, "An unexpected error occurred", GetSafeErrorMessage(nil))
}

func TestFieldErrors(t *testing.T) {
	_, empty := domain.ValidateSentence(" ")

	assert.Equal(t, map[string][]string{FormField: {MsgDuplicateForDay}}, FieldErrors(service.ErrDuplicateForDay))
	assert.Equal(t, map[string][]string{"sentence": {"Sentence cannot be empty."}}, FieldErrors(empty))
	assert.Nil(t, FieldErrors(errors.New("other")))
}
