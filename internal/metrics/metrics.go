package metrics

import (
	"database/sql"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/frahmantamala/expense-dashboard/internal/rbac"
)

const namespace = "expense_dashboard"

// Metrics holds the Prometheus collectors. A nil *Metrics is a no-op, so
// services can be built without instrumentation in tests.
type Metrics struct {
	registry *prometheus.Registry

	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	AuthzDecisionsTotal *prometheus.CounterVec

	BudgetProgressTotal    *prometheus.CounterVec
	BudgetProgressDuration prometheus.Histogram
	BudgetStatusTotal      *prometheus.CounterVec

	BudgetMutationsTotal *prometheus.CounterVec
}

// New creates and registers all collectors on registry.
func New(registry *prometheus.Registry) *Metrics {
	m := &Metrics{
		registry: registry,

		HTTPRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"method", "route", "status"},
		),
		HTTPRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request duration in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),

		AuthzDecisionsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "authz_decisions_total",
				Help:      "Capability checks by outcome",
			},
			[]string{"capability", "allowed", "reason"},
		),

		BudgetProgressTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "budget_progress_requests_total",
				Help:      "Budget progress aggregations by outcome",
			},
			[]string{"outcome"},
		),
		BudgetProgressDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "budget_progress_duration_seconds",
				Help:      "Time spent fetching and aggregating budget progress",
				Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
			},
		),
		BudgetStatusTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "budget_status_total",
				Help:      "Computed budget statuses",
			},
			[]string{"status"},
		),

		BudgetMutationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "budget_mutations_total",
				Help:      "Budget create/update/delete attempts by outcome",
			},
			[]string{"operation", "outcome"},
		),
	}

	registry.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.AuthzDecisionsTotal,
		m.BudgetProgressTotal,
		m.BudgetProgressDuration,
		m.BudgetStatusTotal,
		m.BudgetMutationsTotal,
	)

	return m
}

// RegisterDB exposes connection pool stats of db.
func (m *Metrics) RegisterDB(db *sql.DB, name string) {
	if m == nil || db == nil {
		return
	}
	m.registry.MustRegister(collectors.NewDBStatsCollector(db, name))
}

func (m *Metrics) ObserveDecision(d rbac.Decision) {
	if m == nil {
		return
	}
	m.AuthzDecisionsTotal.WithLabelValues(string(d.Capability), strconv.FormatBool(d.Allowed), string(d.Reason)).Inc()
}

func (m *Metrics) ObserveProgress(outcome string, elapsed time.Duration, statuses ...string) {
	if m == nil {
		return
	}
	m.BudgetProgressTotal.WithLabelValues(outcome).Inc()
	m.BudgetProgressDuration.Observe(elapsed.Seconds())
	for _, s := range statuses {
		m.BudgetStatusTotal.WithLabelValues(s).Inc()
	}
}

func (m *Metrics) ObserveMutation(operation, outcome string) {
	if m == nil {
		return
	}
	m.BudgetMutationsTotal.WithLabelValues(operation, outcome).Inc()
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

type statusRecorder struct {
	http.ResponseWriter
	statusCode int
}

func (rw *statusRecorder) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// Middleware records request counts and latency keyed by the chi route
// pattern, so ids in the path do not explode label cardinality.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	if m == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rw := &statusRecorder{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(rw, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if p := rctx.RoutePattern(); p != "" {
				route = p
			}
		}

		m.HTTPRequestsTotal.WithLabelValues(r.Method, route, strconv.Itoa(rw.statusCode)).Inc()
		m.HTTPRequestDuration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
	})
}
