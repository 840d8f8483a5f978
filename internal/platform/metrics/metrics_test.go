package metrics_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/phrazzld/oneline-api/internal/events"
	"github.com/phrazzld/oneline-api/internal/platform/memory"
	"github.com/phrazzld/oneline-api/internal/platform/metrics"
	"github.com/phrazzld/oneline-api/internal/store"
	"github.com/phrazzld/oneline-api/internal/store/storetest"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdmissionCounting(t *testing.T) {
	t.Parallel()

	m := metrics.New()
	for _, outcome := range []events.Outcome{
		events.OutcomeAdmitted,
		events.OutcomeAdmitted,
		events.OutcomeDuplicate,
	} {
		event, err := events.NewAdmissionEvent(events.AdmissionPayload{Outcome: outcome})
		require.NoError(t, err)
		require.NoError(t, m.HandleEvent(context.Background(), event))
	}

	assert.Equal(t, 2.0, testutil.ToFloat64(m.Admissions(events.OutcomeAdmitted)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Admissions(events.OutcomeDuplicate)))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.Admissions(events.OutcomeValidation)))
}

func TestInstrumentedStoreConformance(t *testing.T) {
	t.Parallel()

	m := metrics.New()
	storetest.Run(t, func(t *testing.T) store.EntryStore {
		return m.InstrumentStore("memory", memory.NewEntryStore(nil))
	})
}

func TestHandlerExposesCollectors(t *testing.T) {
	t.Parallel()

	m := metrics.New()
	s := m.InstrumentStore("memory", memory.NewEntryStore(nil))
	_, err := s.ListAll(context.Background(), "mockUser")
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	text := string(body)
	assert.True(t, strings.Contains(text, `oneline_admissions_total{outcome="storage_error"} 0`))
	assert.True(t, strings.Contains(text, `oneline_store_operation_duration_seconds_count{backend="memory",op="list_all"} 1`))
	assert.True(t, strings.Contains(text, "go_goroutines"))
}
