// Package metrics exposes Prometheus collectors for trail runs.
//
// A run is a short-lived process, so collectors live on a private registry
// that is dumped to a textfile when the run ends instead of being scraped.
package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Fetch result label values.
const (
	ResultOK    = "ok"
	ResultError = "error"
)

// Metrics holds the collectors for a single process.
type Metrics struct {
	registry             *prometheus.Registry
	hopsTotal            prometheus.Counter
	fetchesTotal         *prometheus.CounterVec
	fetchDurationSeconds prometheus.Histogram
	fetchBytesTotal      prometheus.Counter
	runsTotal            *prometheus.CounterVec
	trailLength          prometheus.Gauge
}

// New registers the collectors on a fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)
	return &Metrics{
		registry: reg,
		hopsTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "wikitrail_hops_total",
			Help: "Total number of titles appended to a trail.",
		}),
		fetchesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "wikitrail_fetches_total",
				Help: "Total number of article fetches, labeled by result.",
			},
			[]string{"result"},
		),
		fetchDurationSeconds: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "wikitrail_fetch_duration_seconds",
			Help:    "Histogram of article fetch latencies.",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 15},
		}),
		fetchBytesTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "wikitrail_fetch_bytes_total",
			Help: "Total number of article bytes fetched.",
		}),
		runsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "wikitrail_runs_total",
				Help: "Total number of finished runs, labeled by terminal state.",
			},
			[]string{"state"},
		),
		trailLength: factory.NewGauge(prometheus.GaugeOpts{
			Name: "wikitrail_trail_length",
			Help: "Number of titles in the most recently finished trail.",
		}),
	}
}

// Registry returns the registry the collectors are registered on.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// ObserveHop counts a title being appended to a trail.
func (m *Metrics) ObserveHop() {
	m.hopsTotal.Inc()
}

// ObserveFetch records one article fetch.
func (m *Metrics) ObserveFetch(bytesFetched int, duration time.Duration, err error) {
	result := ResultOK
	if err != nil {
		result = ResultError
	}
	m.fetchesTotal.WithLabelValues(result).Inc()
	m.fetchDurationSeconds.Observe(duration.Seconds())
	if bytesFetched > 0 {
		m.fetchBytesTotal.Add(float64(bytesFetched))
	}
}

// ObserveRun records the terminal state and length of a finished trail.
func (m *Metrics) ObserveRun(state string, length int) {
	m.runsTotal.WithLabelValues(state).Inc()
	m.trailLength.Set(float64(length))
}

// WriteTextfile writes every collector to path in the text exposition
// format, atomically, for the node_exporter textfile collector.
func (m *Metrics) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("write metrics textfile: %w", err)
	}
	return nil
}
