package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/phrazzld/oneline-api/internal/api/shared"
	"github.com/phrazzld/oneline-api/internal/domain"
	"github.com/phrazzld/oneline-api/internal/platform/logger"
	"github.com/phrazzld/oneline-api/internal/service"
)

// EntryHandler handles journal entry HTTP requests.
type EntryHandler struct {
	journal service.JournalService
	logger  *slog.Logger
}

// NewEntryHandler creates a new EntryHandler.
// If logger is nil, a default logger will be used.
func NewEntryHandler(journal service.JournalService, logger *slog.Logger) *EntryHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &EntryHandler{
		journal: journal,
		logger:  logger.With(slog.String("component", "entry_handler")),
	}
}

// SubmitEntry handles POST /api/entries requests.
func (h *EntryHandler) SubmitEntry(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	ownerID, ok := handleOwnerID(w, r, log)
	if !ok {
		return
	}

	var req SubmitEntryRequest
	if err := decodeAndValidate(w, r, &req); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, MsgInvalidRequest, err)
		return
	}

	entry, err := h.journal.SubmitEntry(r.Context(), ownerID, *req.Sentence)
	if err != nil {
		status := MapErrorToStatusCode(err)
		switch {
		case errors.Is(err, service.ErrDuplicateForDay):
			shared.RespondWithJSON(w, r, status, SubmitEntryResponse{
				Success: false,
				Message: MsgDuplicateForDay,
				Reason:  ReasonDuplicate,
				Errors:  FieldErrors(err),
			})
		case errors.Is(err, domain.ErrValidation):
			shared.RespondWithJSON(w, r, status, SubmitEntryResponse{
				Success: false,
				Message: MsgValidationFailed,
				Reason:  ReasonValidation,
				Errors:  FieldErrors(err),
			})
		default:
			shared.RespondWithErrorAndLog(w, r, status, MsgSaveFailed, err)
		}
		return
	}

	resp := entryToResponse(entry)
	shared.RespondWithJSON(w, r, http.StatusCreated, SubmitEntryResponse{
		Success: true,
		Message: MsgEntryAdded,
		Entry:   &resp,
	})
}

// GetToday handles GET /api/entries/today requests.
func (h *EntryHandler) GetToday(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	ownerID, ok := handleOwnerID(w, r, log)
	if !ok {
		return
	}

	today, err := h.journal.GetToday(r.Context(), ownerID)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), MsgLoadFailed, err)
		return
	}

	resp := TodayResponse{
		Date:        today.Date.String(),
		DisplayDate: today.Date.Display(),
	}
	if today.Found {
		e := entryToResponse(today.Entry)
		resp.Entry = &e
	}
	shared.RespondWithJSON(w, r, http.StatusOK, resp)
}

// GetHistory handles GET /api/entries requests.
func (h *EntryHandler) GetHistory(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	ownerID, ok := handleOwnerID(w, r, log)
	if !ok {
		return
	}

	entries, err := h.journal.GetHistory(r.Context(), ownerID)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), MsgLoadFailed, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, HistoryResponse{
		Entries: entriesToResponses(entries),
		Total:   len(entries),
	})
}
