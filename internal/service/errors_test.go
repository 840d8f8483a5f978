package service

import (
	"errors"
	"testing"

	"github.com/phrazzld/oneline-api/internal/domain"
	"github.com/phrazzld/oneline-api/internal/store"
	"github.com/stretchr/testify/assert"
)

func TestNewJournalServiceError(t *testing.T) {
	t.Parallel()

	assert.NoError(t, NewJournalServiceError("op", "msg", nil))
	assert.Same(t, ErrDuplicateForDay, NewJournalServiceError("op", "msg", ErrDuplicateForDay))

	_, verr := domain.ValidateSentence("")
	assert.Equal(t, verr, NewJournalServiceError("op", "msg", verr))

	cause := store.NewStoreError("memory", "append", "boom", errors.New("io"))
	err := NewJournalServiceError("try_admit", "failed to save entry", cause)
	assert.ErrorIs(t, err, store.ErrStorageFailure)
	assert.Equal(t,
		"journal service try_admit failed: failed to save entry: append operation on memory store failed: boom: io",
		err.Error())
}
