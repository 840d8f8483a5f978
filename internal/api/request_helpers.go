package api

import (
	"log/slog"
	"net/http"

	"github.com/phrazzld/oneline-api/internal/api/shared"
	"github.com/phrazzld/oneline-api/internal/platform/logger"
)

// getOwnerIDFromContext extracts the journal owner placed in the context by
// the owner middleware.
func getOwnerIDFromContext(r *http.Request) (string, bool) {
	return shared.GetOwnerID(r.Context())
}

// handleOwnerID extracts the owner id or writes a 500 response: a request
// without an owner means the router was wired without the owner middleware.
func handleOwnerID(w http.ResponseWriter, r *http.Request, log *slog.Logger) (string, bool) {
	if log == nil {
		log = logger.FromContextOrDefault(r.Context(), slog.Default())
	}

	ownerID, ok := getOwnerIDFromContext(r)
	if !ok {
		log.Error("owner id missing from request context")
		shared.RespondWithError(w, r, http.StatusInternalServerError, MsgMissingOwner)
		return "", false
	}
	return ownerID, true
}

// decodeAndValidate strictly decodes the body into req and runs struct validation.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, req any) error {
	if err := shared.DecodeJSON(w, r, req); err != nil {
		return err
	}
	if err := shared.ValidateRequest(req); err != nil {
		return &requestError{err: err}
	}
	return nil
}

// requestError marks a struct validation failure as a malformed request.
type requestError struct {
	err error
}

func (e *requestError) Error() string { return e.err.Error() }

func (e *requestError) Unwrap() []error { return []error{shared.ErrMalformedRequest, e.err} }
