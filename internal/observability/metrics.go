package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "neo_impact"

// Metrics holds the Prometheus counters, histograms, and gauges for the API.
type Metrics struct {
	// Catalog metrics.
	CatalogRequests *prometheus.CounterVec   // labels: operation={feed,lookup,browse}, outcome={success,not_found,rate_limited,unavailable,timeout}
	CatalogDuration *prometheus.HistogramVec // labels: operation

	// Simulation metrics.
	Simulations           prometheus.Counter
	SimulationsBySeverity *prometheus.CounterVec // labels: severity

	// History metrics.
	HistoryWrites     *prometheus.CounterVec // labels: sink, outcome={success,error}
	HistoryDropped    prometheus.Counter
	HistoryQueueDepth prometheus.Gauge
	RecorderRunning   prometheus.Gauge
}

// NewMetrics creates and registers all service metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(
		m.CatalogRequests,
		m.CatalogDuration,
		m.Simulations,
		m.SimulationsBySeverity,
		m.HistoryWrites,
		m.HistoryDropped,
		m.HistoryQueueDepth,
		m.RecorderRunning,
	)
	return m
}

// NewMetricsForTesting creates unregistered Metrics to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		CatalogRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "catalog_requests_total",
			Help:      "NeoWs catalog requests by operation and outcome.",
		}, []string{"operation", "outcome"}),
		CatalogDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "catalog_request_duration_seconds",
			Help:      "NeoWs request duration in seconds.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}, []string{"operation"}),
		Simulations: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "simulations_total",
			Help:      "Total impact simulations computed.",
		}),
		SimulationsBySeverity: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "simulations_by_severity_total",
			Help:      "Impact simulations by resulting severity class.",
		}, []string{"severity"}),
		HistoryWrites: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "history_writes_total",
			Help:      "Simulation record writes by sink and outcome.",
		}, []string{"sink", "outcome"}),
		HistoryDropped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "history_dropped_total",
			Help:      "Simulation records dropped because the history queue was full.",
		}),
		HistoryQueueDepth: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "history_queue_depth",
			Help:      "Simulation records waiting to be persisted.",
		}),
		RecorderRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "history_recorder_running",
			Help:      "1 when the history recorder is active, 0 when shut down.",
		}),
	}
}
