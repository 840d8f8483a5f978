package service

import (
	"context"

	"github.com/phrazzld/oneline-api/internal/domain"
	"github.com/stretchr/testify/mock"
)

// MockEntryStore mocks the store.EntryStore interface
type MockEntryStore struct {
	mock.Mock
}

func (m *MockEntryStore) Append(ctx context.Context, entry domain.JournalEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockEntryStore) FindByDate(
	ctx context.Context,
	ownerID string,
	date domain.Date,
) (domain.JournalEntry, bool, error) {
	args := m.Called(ctx, ownerID, date)
	entry, _ := args.Get(0).(domain.JournalEntry)
	return entry, args.Bool(1), args.Error(2)
}

func (m *MockEntryStore) ListAll(ctx context.Context, ownerID string) ([]domain.JournalEntry, error) {
	args := m.Called(ctx, ownerID)
	entries, _ := args.Get(0).([]domain.JournalEntry)
	return entries, args.Error(1)
}

func (m *MockEntryStore) Close() error {
	return m.Called().Error(0)
}
