package observability

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/push"
)

const namespace = "station_catalog"

// PushJob is the Pushgateway job label for catalog runs.
const PushJob = "station_catalog_build"

// Metrics holds the gauges and counters describing one catalog run.
// The job is short-lived, so values are pushed rather than scraped.
type Metrics struct {
	StationsParsed   prometheus.Gauge
	StationsActive   prometheus.Gauge
	ParseFieldErrors prometheus.Counter

	// Feed URL probing.
	CandidateURLs *prometheus.GaugeVec     // labels: product={60801,60803}
	ProbeResults  *prometheus.CounterVec   // labels: outcome={ok,error}
	ProbeDuration prometheus.Histogram

	RowsWritten        *prometheus.GaugeVec // labels: table={urls,locations}
	RunDuration        prometheus.Gauge
	LastSuccessSeconds prometheus.Gauge

	registry *prometheus.Registry
}

// NewMetrics creates all run metrics on a dedicated registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	m.registry = prometheus.NewRegistry()
	m.registry.MustRegister(m.collectors()...)
	return m
}

// NewMetricsForTesting creates Metrics without registering them anywhere.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		StationsParsed: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "stations_parsed",
			Help:      "Station lines decoded from the listing.",
		}),
		StationsActive: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "stations_active",
			Help:      "Stations with no end year.",
		}),
		ParseFieldErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "parse_field_errors_total",
			Help:      "Listing fields that failed to decode and were nulled.",
		}),
		CandidateURLs: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "candidate_urls",
			Help:      "Active stations with a derived feed URL, by product code.",
		}, []string{"product"}),
		ProbeResults: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "probe_results_total",
			Help:      "Feed URL probes by outcome.",
		}, []string{"outcome"}),
		ProbeDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "probe_duration_seconds",
			Help:      "Duration of a single feed URL probe.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}),
		RowsWritten: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "rows_written",
			Help:      "Rows in each output table.",
		}, []string{"table"}),
		RunDuration: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "run_duration_seconds",
			Help:      "Wall time of the last run.",
		}),
		LastSuccessSeconds: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_success_timestamp_seconds",
			Help:      "Unix time of the last successful run.",
		}),
	}
}

func (m *Metrics) collectors() []prometheus.Collector {
	return []prometheus.Collector{
		m.StationsParsed,
		m.StationsActive,
		m.ParseFieldErrors,
		m.CandidateURLs,
		m.ProbeResults,
		m.ProbeDuration,
		m.RowsWritten,
		m.RunDuration,
		m.LastSuccessSeconds,
	}
}

// Gatherer exposes the registry, or nil for test metrics.
func (m *Metrics) Gatherer() prometheus.Gatherer {
	if m.registry == nil {
		return nil
	}
	return m.registry
}

// Push sends the current values to a Prometheus Pushgateway.
func (m *Metrics) Push(ctx context.Context, gatewayURL string) error {
	if m.registry == nil {
		return fmt.Errorf("push metrics: metrics are not registered")
	}
	if err := push.New(gatewayURL, PushJob).Gatherer(m.registry).PushContext(ctx); err != nil {
		return fmt.Errorf("push metrics: %w", err)
	}
	return nil
}
