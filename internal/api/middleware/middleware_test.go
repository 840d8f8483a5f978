package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/phrazzld/oneline-api/internal/api/shared"
	"github.com/phrazzld/oneline-api/internal/platform/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTraceMiddleware(t *testing.T) {
	logBuf, log := logger.NewTestLogger(t)

	var traceID string
	h := TraceMiddleware(log)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		traceID = shared.GetTraceID(r.Context())
		logger.FromContext(r.Context()).Info("inside handler")
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/entries", nil))

	require.NotEmpty(t, traceID)
	assert.Equal(t, traceID, rec.Header().Get(TraceHeader))
	logger.AssertLogContains(t, logBuf, "inside handler")
	logger.AssertLogField(t, logBuf, "trace_id", traceID)
}

func TestOwnerMiddleware(t *testing.T) {
	var owner string
	h := OwnerMiddleware("mockUser")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		owner, _ = shared.GetOwnerID(r.Context())
	}))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, "mockUser", owner)
}

func TestRequestLogger(t *testing.T) {
	logBuf, log := logger.NewTestLogger(t)

	h := TraceMiddleware(log)(RequestLogger(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/api/entries", nil))

	logger.AssertLogContains(t, logBuf, "request completed")
	logger.AssertLogField(t, logBuf, "status", float64(http.StatusTeapot))
	logger.AssertLogField(t, logBuf, "path", "/api/entries")
}
