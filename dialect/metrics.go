package dialect

import (
	"context"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const metricsNamespace = "carina"

// Metrics holds the Prometheus collectors recorded by MetricsExecutor.
type Metrics struct {
	// StatementsTotal counts statements by operation and status.
	StatementsTotal *prometheus.CounterVec
	// StatementDurationSeconds observes statement latency by operation.
	StatementDurationSeconds *prometheus.HistogramVec
}

// NewMetrics creates the collectors and registers them with reg.
// A nil reg leaves them unregistered.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		StatementsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Subsystem: "executor",
				Name:      "statements_total",
				Help:      "Total number of nGQL statements by operation and status",
			},
			[]string{"operation", "status"},
		),
		StatementDurationSeconds: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: metricsNamespace,
				Subsystem: "executor",
				Name:      "statement_duration_seconds",
				Help:      "nGQL statement latency in seconds",
				Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
			},
			[]string{"operation"},
		),
	}
	if reg != nil {
		for _, c := range []prometheus.Collector{m.StatementsTotal, m.StatementDurationSeconds} {
			if err := reg.Register(c); err != nil {
				return nil, err
			}
		}
	}
	return m, nil
}

// MetricsExecutor wraps an Executor with Prometheus instrumentation.
type MetricsExecutor struct {
	Executor
	metrics *Metrics
}

// NewMetricsExecutor wraps ex so that every statement is counted and timed.
func NewMetricsExecutor(ex Executor, m *Metrics) *MetricsExecutor {
	return &MetricsExecutor{Executor: ex, metrics: m}
}

// Execute runs the statement and records its outcome.
func (e *MetricsExecutor) Execute(ctx context.Context, stmt string) (Rows, error) {
	op := Operation(stmt)
	start := time.Now()
	rows, err := e.Executor.Execute(ctx, stmt)
	e.metrics.StatementDurationSeconds.WithLabelValues(op).Observe(time.Since(start).Seconds())
	status := "ok"
	if err != nil {
		status = "error"
	}
	e.metrics.StatementsTotal.WithLabelValues(op, status).Inc()
	return rows, err
}

// Operation returns the leading keyword of stmt in upper case, such as
// INSERT, UPSERT, GO or FETCH.
func Operation(stmt string) string {
	stmt = strings.TrimSpace(stmt)
	if i := strings.IndexAny(stmt, " \t\n;("); i >= 0 {
		stmt = stmt[:i]
	}
	if stmt == "" {
		return "UNKNOWN"
	}
	return strings.ToUpper(stmt)
}

var _ Executor = (*MetricsExecutor)(nil)
