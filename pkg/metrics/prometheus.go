package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics is the global metrics container for the diversion core.
type Metrics struct {
	// Solve outcomes
	SolveOperationsTotal *prometheus.CounterVec
	SolveDuration        *prometheus.HistogramVec
	AllyCount            *prometheus.HistogramVec
	EditCost             *prometheus.GaugeVec

	// Graph shape
	GraphNodesTotal *prometheus.HistogramVec
	GraphEdgesTotal *prometheus.HistogramVec
	SplitWarnings   *prometheus.CounterVec

	// System
	MemoryUsage *prometheus.GaugeVec
	Goroutines  prometheus.Gauge

	ServiceInfo *prometheus.GaugeVec
}

var defaultMetrics *Metrics

// InitMetrics registers and returns the package's metrics container.
func InitMetrics(namespace, subsystem string) *Metrics {
	m := &Metrics{
		SolveOperationsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "solve_operations_total",
				Help:      "Total number of solve operations",
			},
			[]string{"mode", "status"},
		),

		SolveDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "solve_duration_seconds",
				Help:      "Duration of solve operations",
				Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10, 30},
			},
			[]string{"mode"},
		),

		AllyCount: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "ally_count",
				Help:      "Number of ally nodes attached by a solve",
				Buckets:   []float64{0, 1, 2, 3, 5, 8, 13, 21},
			},
			[]string{"mode"},
		),

		EditCost: promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "last_edit_cost",
				Help:      "Edit cost of the last solve",
			},
			[]string{"mode"},
		),

		GraphNodesTotal: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "graph_nodes_total",
				Help:      "Number of nodes in processed graphs",
				Buckets:   []float64{10, 50, 100, 500, 1000, 5000, 10000},
			},
			[]string{"operation"},
		),

		GraphEdgesTotal: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "graph_edges_total",
				Help:      "Number of edges in processed graphs",
				Buckets:   []float64{20, 100, 500, 1000, 5000, 10000, 50000},
			},
			[]string{"operation"},
		),

		SplitWarnings: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "split_rounding_warnings_total",
				Help:      "Total number of RoundingViolation warnings raised by SplitAssigner",
			},
			[]string{"mode"},
		),

		MemoryUsage: promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "memory_usage_bytes",
				Help:      "Current memory usage",
			},
			[]string{"type"},
		),

		Goroutines: promauto.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "goroutines",
				Help:      "Current number of goroutines",
			},
		),

		ServiceInfo: promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "service_info",
				Help:      "Service information",
			},
			[]string{"version", "environment"},
		),
	}

	defaultMetrics = m
	return m
}

// Get returns the global metrics container, initializing it with defaults
// if InitMetrics has not been called yet.
func Get() *Metrics {
	if defaultMetrics == nil {
		return InitMetrics("netdivert", "")
	}
	return defaultMetrics
}

// RecordSolveOperation records the outcome of a single solve call.
func (m *Metrics) RecordSolveOperation(mode string, success bool, duration time.Duration, allyCount int, editCost float64) {
	status := "success"
	if !success {
		status = "error"
	}

	m.SolveOperationsTotal.WithLabelValues(mode, status).Inc()
	m.SolveDuration.WithLabelValues(mode).Observe(duration.Seconds())
	m.AllyCount.WithLabelValues(mode).Observe(float64(allyCount))
	m.EditCost.WithLabelValues(mode).Set(editCost)
}

// RecordGraphSize records the size of a graph passed into an operation.
func (m *Metrics) RecordGraphSize(operation string, nodes, edges int) {
	m.GraphNodesTotal.WithLabelValues(operation).Observe(float64(nodes))
	m.GraphEdgesTotal.WithLabelValues(operation).Observe(float64(edges))
}

// RecordSplitWarning records a RoundingViolation warning raised by SplitAssigner.
func (m *Metrics) RecordSplitWarning(mode string) {
	m.SplitWarnings.WithLabelValues(mode).Inc()
}

// SetServiceInfo publishes the running build's version and environment.
func (m *Metrics) SetServiceInfo(version, environment string) {
	m.ServiceInfo.WithLabelValues(version, environment).Set(1)
}

// Handler returns the HTTP handler for /metrics.
func Handler() http.Handler {
	return promhttp.Handler()
}

// StartMetricsServer starts a small HTTP server exposing /metrics and /health.
func StartMetricsServer(port int) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", Handler())
	mux.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK")) //nolint:errcheck // health endpoint, write error is not actionable
	})

	server := &http.Server{
		Addr:         ":" + strconv.Itoa(port),
		Handler:      mux,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	return server.ListenAndServe()
}
