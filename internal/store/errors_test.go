package store

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStoreError(t *testing.T) {
	t.Parallel()

	cause := errors.New("disk full")
	err := NewStoreError("file", "append", "write document", cause)

	assert.Equal(t, "append operation on file store failed: write document: disk full", err.Error())
	assert.ErrorIs(t, err, cause)
	assert.True(t, IsStorageFailure(err))
	assert.True(t, IsStorageFailure(fmt.Errorf("wrapped: %w", err)))
	assert.False(t, IsDuplicateError(err))

	bare := NewStoreError("redis", "list_all", "connection refused", nil)
	assert.Equal(t, "list_all operation on redis store failed: connection refused", bare.Error())
}

func TestEntryExistsIsDuplicate(t *testing.T) {
	t.Parallel()

	assert.True(t, IsDuplicateError(ErrEntryExists))
	assert.True(t, IsDuplicateError(fmt.Errorf("append: %w", ErrEntryExists)))
	assert.False(t, IsStorageFailure(ErrEntryExists))
	assert.False(t, IsNotFoundError(ErrEntryExists))

	assert.True(t, IsDuplicateError(ErrEntryIDExists))
	assert.NotErrorIs(t, ErrEntryIDExists, ErrEntryExists)
	assert.NotErrorIs(t, ErrEntryExists, ErrEntryIDExists)
}
