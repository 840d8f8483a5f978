package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/phrazzld/oneline-api/internal/api/shared"
	"github.com/phrazzld/oneline-api/internal/clock"
	"github.com/phrazzld/oneline-api/internal/domain"
	"github.com/phrazzld/oneline-api/internal/platform/memory"
	"github.com/phrazzld/oneline-api/internal/service"
	"github.com/phrazzld/oneline-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// MockJournalService is a mock implementation of service.JournalService for testing
type MockJournalService struct {
	SubmitEntryFn func(ctx context.Context, ownerID, sentence string) (domain.JournalEntry, error)
	GetTodayFn    func(ctx context.Context, ownerID string) (service.TodayEntry, error)
	GetHistoryFn  func(ctx context.Context, ownerID string) ([]domain.JournalEntry, error)
	TodayValue    domain.Date
}

// SubmitEntry implements service.JournalService
func (m *MockJournalService) SubmitEntry(ctx context.Context, ownerID, sentence string) (domain.JournalEntry, error) {
	if m.SubmitEntryFn != nil {
		return m.SubmitEntryFn(ctx, ownerID, sentence)
	}
	return domain.JournalEntry{}, nil
}

// GetToday implements service.JournalService
func (m *MockJournalService) GetToday(ctx context.Context, ownerID string) (service.TodayEntry, error) {
	if m.GetTodayFn != nil {
		return m.GetTodayFn(ctx, ownerID)
	}
	return service.TodayEntry{Date: m.TodayValue}, nil
}

// GetHistory implements service.JournalService
func (m *MockJournalService) GetHistory(ctx context.Context, ownerID string) ([]domain.JournalEntry, error) {
	if m.GetHistoryFn != nil {
		return m.GetHistoryFn(ctx, ownerID)
	}
	return nil, nil
}

// Today implements service.JournalService
func (m *MockJournalService) Today() domain.Date {
	return m.TodayValue
}

var (
	fixedDay  = domain.MustParseDate("2024-01-01")
	fixedTime = time.Date(2024, time.January, 1, 12, 0, 0, 0, time.UTC)
)

func fixedEntry(sentence string) domain.JournalEntry {
	return domain.JournalEntry{
		ID:        "11111111-1111-1111-1111-111111111111",
		Date:      fixedDay,
		Sentence:  sentence,
		OwnerID:   "mockUser",
		CreatedAt: fixedTime,
	}
}

func newRequest(method, target, body string, withOwner bool) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if withOwner {
		req = req.WithContext(shared.WithOwnerID(req.Context(), "mockUser"))
	}
	return req
}

func TestEntryHandler_SubmitEntry(t *testing.T) {
	_, tooLong := domain.ValidateSentence(strings.Repeat("a", 501))
	_, empty := domain.ValidateSentence("")

	tests := []struct {
		name           string
		body           string
		withOwner      bool
		submitErr      error
		expectCall     bool
		expectedStatus int
		check          func(t *testing.T, body []byte)
	}{
		{
			name:           "admitted",
			body:           `{"sentence":"Hello world"}`,
			withOwner:      true,
			expectCall:     true,
			expectedStatus: http.StatusCreated,
			check: func(t *testing.T, body []byte) {
				var resp SubmitEntryResponse
				require.NoError(t, json.Unmarshal(body, &resp))
				assert.True(t, resp.Success)
				assert.Equal(t, MsgEntryAdded, resp.Message)
				require.NotNil(t, resp.Entry)
				assert.Equal(t, "Hello world", resp.Entry.Sentence)
				assert.Equal(t, "2024-01-01", resp.Entry.Date)
				assert.Equal(t, "January 1, 2024", resp.Entry.DisplayDate)
				assert.Equal(t, "mockUser", resp.Entry.OwnerID)
				assert.Empty(t, resp.Errors)
			},
		},
		{
			name:           "duplicate for day",
			body:           `{"sentence":"Hello again"}`,
			withOwner:      true,
			submitErr:      service.ErrDuplicateForDay,
			expectCall:     true,
			expectedStatus: http.StatusConflict,
			check: func(t *testing.T, body []byte) {
				var resp SubmitEntryResponse
				require.NoError(t, json.Unmarshal(body, &resp))
				assert.False(t, resp.Success)
				assert.Equal(t, ReasonDuplicate, resp.Reason)
				assert.Equal(t, []string{MsgDuplicateForDay}, resp.Errors[FormField])
				assert.Nil(t, resp.Entry)
			},
		},
		{
			name:           "empty sentence",
			body:           `{"sentence":"   "}`,
			withOwner:      true,
			submitErr:      empty,
			expectCall:     true,
			expectedStatus: http.StatusUnprocessableEntity,
			check: func(t *testing.T, body []byte) {
				var resp SubmitEntryResponse
				require.NoError(t, json.Unmarshal(body, &resp))
				assert.Equal(t, ReasonValidation, resp.Reason)
				assert.Equal(t, MsgValidationFailed, resp.Message)
				assert.Equal(t, []string{"Sentence cannot be empty."}, resp.Errors["sentence"])
			},
		},
		{
			name:           "too long",
			body:           `{"sentence":"` + strings.Repeat("a", 501) + `"}`,
			withOwner:      true,
			submitErr:      tooLong,
			expectCall:     true,
			expectedStatus: http.StatusUnprocessableEntity,
			check: func(t *testing.T, body []byte) {
				var resp SubmitEntryResponse
				require.NoError(t, json.Unmarshal(body, &resp))
				assert.Equal(t, []string{"Sentence cannot exceed 500 characters."}, resp.Errors["sentence"])
			},
		},
		{
			name:           "storage failure",
			body:           `{"sentence":"Hello world"}`,
			withOwner:      true,
			submitErr:      store.NewStoreError("file", "append", "write failed", errors.New("/var/lib/oneline/entries.json: no space left")),
			expectCall:     true,
			expectedStatus: http.StatusInternalServerError,
			check: func(t *testing.T, body []byte) {
				var resp shared.ErrorResponse
				require.NoError(t, json.Unmarshal(body, &resp))
				assert.Equal(t, MsgSaveFailed, resp.Error)
				assert.NotContains(t, string(body), "/var/lib")
			},
		},
		{
			name:           "missing sentence field",
			body:           `{}`,
			withOwner:      true,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "unknown field",
			body:           `{"sentence":"Hello","mood":"great"}`,
			withOwner:      true,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "malformed json",
			body:           `{"sentence":`,
			withOwner:      true,
			expectedStatus: http.StatusBadRequest,
			check: func(t *testing.T, body []byte) {
				var resp shared.ErrorResponse
				require.NoError(t, json.Unmarshal(body, &resp))
				assert.Equal(t, MsgInvalidRequest, resp.Error)
			},
		},
		{
			name:           "missing owner",
			body:           `{"sentence":"Hello world"}`,
			withOwner:      false,
			expectedStatus: http.StatusInternalServerError,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			called := false
			mockService := &MockJournalService{
				SubmitEntryFn: func(ctx context.Context, ownerID, sentence string) (domain.JournalEntry, error) {
					called = true
					assert.Equal(t, "mockUser", ownerID)
					if tc.submitErr != nil {
						return domain.JournalEntry{}, tc.submitErr
					}
					return fixedEntry(sentence), nil
				},
			}
			handler := NewEntryHandler(mockService, nil)

			rec := httptest.NewRecorder()
			handler.SubmitEntry(rec, newRequest(http.MethodPost, "/api/entries", tc.body, tc.withOwner))

			assert.Equal(t, tc.expectedStatus, rec.Code)
			assert.Equal(t, tc.expectCall, called)
			if tc.check != nil {
				tc.check(t, rec.Body.Bytes())
			}
		})
	}
}

func TestEntryHandler_GetToday(t *testing.T) {
	t.Run("no entry yet", func(t *testing.T) {
		handler := NewEntryHandler(&MockJournalService{TodayValue: fixedDay}, nil)

		rec := httptest.NewRecorder()
		handler.GetToday(rec, newRequest(http.MethodGet, "/api/entries/today", "", true))

		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"entry":null,"date":"2024-01-01","display_date":"January 1, 2024"}`, rec.Body.String())
	})

	t.Run("entry exists", func(t *testing.T) {
		handler := NewEntryHandler(&MockJournalService{
			TodayValue: fixedDay,
			GetTodayFn: func(ctx context.Context, ownerID string) (service.TodayEntry, error) {
				return service.TodayEntry{Date: fixedDay, Entry: fixedEntry("Hello world"), Found: true}, nil
			},
		}, nil)

		rec := httptest.NewRecorder()
		handler.GetToday(rec, newRequest(http.MethodGet, "/api/entries/today", "", true))

		require.Equal(t, http.StatusOK, rec.Code)
		var resp TodayResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		require.NotNil(t, resp.Entry)
		assert.Equal(t, "Hello world", resp.Entry.Sentence)
	})

	t.Run("date comes from the lookup", func(t *testing.T) {
		// Today() has already rolled over; the response must still describe
		// the day the entry was looked up for.
		handler := NewEntryHandler(&MockJournalService{
			TodayValue: fixedDay.AddDays(1),
			GetTodayFn: func(ctx context.Context, ownerID string) (service.TodayEntry, error) {
				return service.TodayEntry{Date: fixedDay, Entry: fixedEntry("Late night thought"), Found: true}, nil
			},
		}, nil)

		rec := httptest.NewRecorder()
		handler.GetToday(rec, newRequest(http.MethodGet, "/api/entries/today", "", true))

		require.Equal(t, http.StatusOK, rec.Code)
		var resp TodayResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		require.NotNil(t, resp.Entry)
		assert.Equal(t, "2024-01-01", resp.Date)
		assert.Equal(t, resp.Entry.Date, resp.Date)
	})

	t.Run("storage failure", func(t *testing.T) {
		handler := NewEntryHandler(&MockJournalService{
			GetTodayFn: func(ctx context.Context, ownerID string) (service.TodayEntry, error) {
				return service.TodayEntry{}, store.NewStoreError("redis", "find_by_date", "hget", errors.New("refused"))
			},
		}, nil)

		rec := httptest.NewRecorder()
		handler.GetToday(rec, newRequest(http.MethodGet, "/api/entries/today", "", true))
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
	})
}

func TestEntryHandler_GetHistory(t *testing.T) {
	t.Run("empty history", func(t *testing.T) {
		handler := NewEntryHandler(&MockJournalService{}, nil)

		rec := httptest.NewRecorder()
		handler.GetHistory(rec, newRequest(http.MethodGet, "/api/entries", "", true))

		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"entries":[],"total":0}`, rec.Body.String())
	})

	t.Run("keeps service order", func(t *testing.T) {
		newer := fixedEntry("newer")
		newer.Date = fixedDay.AddDays(1)
		older := fixedEntry("older")

		handler := NewEntryHandler(&MockJournalService{
			GetHistoryFn: func(ctx context.Context, ownerID string) ([]domain.JournalEntry, error) {
				return []domain.JournalEntry{newer, older}, nil
			},
		}, nil)

		rec := httptest.NewRecorder()
		handler.GetHistory(rec, newRequest(http.MethodGet, "/api/entries", "", true))

		var resp HistoryResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, 2, resp.Total)
		assert.Equal(t, "newer", resp.Entries[0].Sentence)
		assert.Equal(t, "2024-01-02", resp.Entries[0].Date)
		assert.Equal(t, "older", resp.Entries[1].Sentence)
	})
}

// TestEntryHandler_Scenario runs the hello-world scenario through a real
// service and in-memory store.
func TestEntryHandler_Scenario(t *testing.T) {
	svc, err := service.NewJournalService(memory.NewEntryStore(nil), nil,
		service.WithClock(clock.AtDate(fixedDay)),
		service.WithLocation(time.UTC))
	require.NoError(t, err)
	handler := NewEntryHandler(svc, nil)

	rec := httptest.NewRecorder()
	handler.SubmitEntry(rec, newRequest(http.MethodPost, "/api/entries", `{"sentence":"Hello world"}`, true))
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = httptest.NewRecorder()
	handler.GetToday(rec, newRequest(http.MethodGet, "/api/entries/today", "", true))
	var today TodayResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &today))
	require.NotNil(t, today.Entry)
	assert.Equal(t, "Hello world", today.Entry.Sentence)

	rec = httptest.NewRecorder()
	handler.SubmitEntry(rec, newRequest(http.MethodPost, "/api/entries", `{"sentence":"Again"}`, true))
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = httptest.NewRecorder()
	handler.GetHistory(rec, newRequest(http.MethodGet, "/api/entries", "", true))
	var history HistoryResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &history))
	require.Equal(t, 1, history.Total)
	assert.Equal(t, "2024-01-01", history.Entries[0].Date)
}
