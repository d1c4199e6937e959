// Package prometheus exports crawl instrumentation as Prometheus metrics.
package prometheus

import (
	"net/http"
	"time"

	"github.com/fwojciec/websum"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Ensure Metrics implements websum.CrawlMetrics.
var _ websum.CrawlMetrics = (*Metrics)(nil)

// Metrics bundles the crawl collectors on a dedicated registry.
type Metrics struct {
	Registry      *prometheus.Registry
	FetchesTotal  *prometheus.CounterVec
	FetchDuration prometheus.Histogram
	PagesTotal    *prometheus.CounterVec
	RetriesTotal  prometheus.Counter
	ErrorsTotal   *prometheus.CounterVec
}

// NewMetrics constructs and registers all metrics on a fresh registry.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()

	fetches := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "websum_fetches_total",
			Help: "Page fetches by result.",
		},
		[]string{"result"},
	)
	duration := prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "websum_fetch_duration_seconds",
			Help:    "Latency of page fetches including retries.",
			Buckets: prometheus.DefBuckets,
		},
	)
	pages := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "websum_pages_total",
			Help: "Processed pages by outcome.",
		},
		[]string{"outcome"},
	)
	retries := prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "websum_retries_total",
			Help: "Fetch retries scheduled.",
		},
	)
	errorsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "websum_errors_total",
			Help: "Crawl errors by code.",
		},
		[]string{"code"},
	)

	registry.MustRegister(fetches, duration, pages, retries, errorsTotal)

	return &Metrics{
		Registry:      registry,
		FetchesTotal:  fetches,
		FetchDuration: duration,
		PagesTotal:    pages,
		RetriesTotal:  retries,
		ErrorsTotal:   errorsTotal,
	}
}

// ObserveFetch records one fetch and its latency.
func (m *Metrics) ObserveFetch(d time.Duration, err error) {
	if m == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.FetchesTotal.WithLabelValues(result).Inc()
	m.FetchDuration.Observe(d.Seconds())
}

// IncRetry increments the retries counter.
func (m *Metrics) IncRetry() {
	if m == nil {
		return
	}
	m.RetriesTotal.Inc()
}

// IncPage counts a page under its outcome label.
func (m *Metrics) IncPage(outcome string) {
	if m == nil {
		return
	}
	m.PagesTotal.WithLabelValues(outcome).Inc()
}

// IncError counts an error under its code.
func (m *Metrics) IncError(code string) {
	if m == nil {
		return
	}
	m.ErrorsTotal.WithLabelValues(code).Inc()
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{})
}
