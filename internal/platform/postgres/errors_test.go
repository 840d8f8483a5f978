package postgres_test

import (
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/phrazzld/oneline-api/internal/platform/postgres"
	"github.com/phrazzld/oneline-api/internal/store"
	"github.com/stretchr/testify/assert"
)

func newPgError(code, constraint string) *pgconn.PgError {
	return &pgconn.PgError{
		Code:           code,
		Message:        "error message",
		SchemaName:     "public",
		TableName:      "journal_entries",
		ColumnName:     "sentence",
		ConstraintName: constraint,
	}
}

func TestMapError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		err     error
		wantIs  []error
		wantNot []error
	}{
		{
			name:   "owner date unique violation",
			err:    newPgError("23505", "journal_entries_owner_date_key"),
			wantIs: []error{store.ErrEntryExists, store.ErrDuplicate},
		},
		{
			name:    "id primary key violation",
			err:     newPgError("23505", "journal_entries_pkey"),
			wantIs:  []error{store.ErrEntryIDExists, store.ErrDuplicate},
			wantNot: []error{store.ErrEntryExists},
		},
		{
			name:    "other unique violation",
			err:     newPgError("23505", "some_other_key"),
			wantIs:  []error{store.ErrDuplicate},
			wantNot: []error{store.ErrEntryExists, store.ErrEntryIDExists},
		},
		{
			name:   "check violation",
			err:    newPgError("23514", "journal_entries_sentence_length"),
			wantIs: []error{store.ErrInvalidEntity},
		},
		{
			name:   "not null violation",
			err:    newPgError("23502", ""),
			wantIs: []error{store.ErrInvalidEntity},
		},
		{
			name:   "no rows",
			err:    sql.ErrNoRows,
			wantIs: []error{store.ErrNotFound},
		},
		{
			name:    "wrapped unique violation",
			err:     fmt.Errorf("insert: %w", newPgError("23505", "journal_entries_owner_date_key")),
			wantIs:  []error{store.ErrEntryExists},
			wantNot: []error{store.ErrStorageFailure},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			mapped := postgres.MapError(tc.err)
			for _, target := range tc.wantIs {
				assert.ErrorIs(t, mapped, target)
			}
			for _, target := range tc.wantNot {
				assert.NotErrorIs(t, mapped, target)
			}
		})
	}

	assert.NoError(t, postgres.MapError(nil))

	plain := errors.New("connection reset")
	assert.Same(t, plain, postgres.MapError(plain))
}

func TestViolationPredicates(t *testing.T) {
	t.Parallel()

	assert.True(t, postgres.IsUniqueViolation(newPgError("23505", "")))
	assert.False(t, postgres.IsUniqueViolation(newPgError("23514", "")))
	assert.True(t, postgres.IsCheckConstraintViolation(newPgError("23514", "")))
	assert.True(t, postgres.IsNotNullViolation(fmt.Errorf("wrapped: %w", newPgError("23502", ""))))
	assert.False(t, postgres.IsNotNullViolation(errors.New("plain")))
	assert.False(t, postgres.IsUniqueViolation(nil))
}
