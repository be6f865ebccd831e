package web

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// metrics holds the server's Prometheus collectors. Each Server owns its
// own registry so tests can build servers side by side.
type metrics struct {
	registry *prometheus.Registry

	runs     *prometheus.CounterVec
	failures *prometheus.CounterVec
	duration prometheus.Histogram
	rules    prometheus.Histogram
}

func newMetrics() *metrics {
	m := &metrics{
		registry: prometheus.NewRegistry(),
		runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "basketmine",
			Name:      "mining_runs_total",
			Help:      "Completed mining runs by endpoint.",
		}, []string{"endpoint"}),
		failures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "basketmine",
			Name:      "mining_failures_total",
			Help:      "Mining requests rejected before or during mining, by reason.",
		}, []string{"reason"}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "basketmine",
			Name:      "mining_duration_seconds",
			Help:      "Wall time of a mining run, excluding dataset loading.",
			Buckets:   prometheus.ExponentialBuckets(0.0005, 4, 10),
		}),
		rules: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "basketmine",
			Name:      "rules_returned",
			Help:      "Length of the display list returned per run.",
			Buckets:   prometheus.ExponentialBuckets(1, 4, 8),
		}),
	}

	m.registry.MustRegister(
		m.runs,
		m.failures,
		m.duration,
		m.rules,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

func (m *metrics) observeRun(endpoint string, took time.Duration, rules int) {
	m.runs.WithLabelValues(endpoint).Inc()
	m.duration.Observe(took.Seconds())
	m.rules.Observe(float64(rules))
}

func (m *metrics) observeFailure(reason string) {
	m.failures.WithLabelValues(reason).Inc()
}

func (m *metrics) handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
