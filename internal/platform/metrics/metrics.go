// Package metrics exposes Prometheus collectors for journal admissions and
// store latency.
package metrics

import (
	"context"
	"net/http"
	"time"

	"github.com/phrazzld/oneline-api/internal/domain"
	"github.com/phrazzld/oneline-api/internal/events"
	"github.com/phrazzld/oneline-api/internal/store"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics owns a registry and the application's collectors.
type Metrics struct {
	registry      *prometheus.Registry
	admissions    *prometheus.CounterVec
	storeDuration *prometheus.HistogramVec
}

// New creates a registry with the admission counter, the store latency
// histogram, and the Go runtime and process collectors.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		admissions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "oneline_admissions_total",
				Help: "Journal entry submissions by outcome.",
			},
			[]string{"outcome"},
		),
		storeDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "oneline_store_operation_duration_seconds",
				Help:    "Latency of entry store operations.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"backend", "op"},
		),
	}

	m.registry.MustRegister(
		m.admissions,
		m.storeDuration,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	// Expose every outcome from the first scrape.
	for _, o := range []events.Outcome{
		events.OutcomeAdmitted,
		events.OutcomeDuplicate,
		events.OutcomeValidation,
		events.OutcomeStorageError,
	} {
		m.admissions.WithLabelValues(string(o))
	}

	return m
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Admissions returns the counter for one outcome.
func (m *Metrics) Admissions(outcome events.Outcome) prometheus.Counter {
	return m.admissions.WithLabelValues(string(outcome))
}

// HandleEvent implements events.EventHandler by counting admission outcomes.
func (m *Metrics) HandleEvent(_ context.Context, event *events.Event) error {
	var p events.AdmissionPayload
	if err := event.UnmarshalPayload(&p); err != nil {
		return err
	}
	m.admissions.WithLabelValues(string(p.Outcome)).Inc()
	return nil
}

// InstrumentStore wraps s so every call is timed under backend.
func (m *Metrics) InstrumentStore(backend string, s store.EntryStore) store.EntryStore {
	return &instrumentedStore{next: s, backend: backend, durations: m.storeDuration}
}

type instrumentedStore struct {
	next      store.EntryStore
	backend   string
	durations *prometheus.HistogramVec
}

func (s *instrumentedStore) observe(op string, start time.Time) {
	s.durations.WithLabelValues(s.backend, op).Observe(time.Since(start).Seconds())
}

func (s *instrumentedStore) Append(ctx context.Context, entry domain.JournalEntry) error {
	defer s.observe("append", time.Now())
	return s.next.Append(ctx, entry)
}

func (s *instrumentedStore) FindByDate(
	ctx context.Context,
	ownerID string,
	date domain.Date,
) (domain.JournalEntry, bool, error) {
	defer s.observe("find_by_date", time.Now())
	return s.next.FindByDate(ctx, ownerID, date)
}

func (s *instrumentedStore) ListAll(ctx context.Context, ownerID string) ([]domain.JournalEntry, error) {
	defer s.observe("list_all", time.Now())
	return s.next.ListAll(ctx, ownerID)
}

func (s *instrumentedStore) Close() error {
	return s.next.Close()
}
