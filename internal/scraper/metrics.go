package scraper

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics bundles Prometheus collectors for the scrape pipeline.
type Metrics struct {
	Registry          *prometheus.Registry
	PagesTotal        *prometheus.CounterVec
	ItemsTotal        *prometheus.CounterVec
	EnhancementsTotal *prometheus.CounterVec
	ScrapeDuration    prometheus.Histogram
}

// NewMetrics constructs and registers all collectors on a dedicated registry.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()

	pages := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "scraper_pages_total",
			Help: "Search-results pages processed, by outcome.",
		},
		[]string{"status"},
	)
	items := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "scraper_items_total",
			Help: "Product items processed, by outcome.",
		},
		[]string{"status"},
	)
	enhancements := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "scraper_enhancements_total",
			Help: "Description enhancement calls, by outcome.",
		},
		[]string{"status"},
	)
	duration := prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "scraper_run_duration_seconds",
			Help:    "Wall-clock duration of full scrape runs.",
			Buckets: prometheus.ExponentialBuckets(1, 2, 12),
		},
	)

	registry.MustRegister(pages, items, enhancements, duration)

	return &Metrics{
		Registry:          registry,
		PagesTotal:        pages,
		ItemsTotal:        items,
		EnhancementsTotal: enhancements,
		ScrapeDuration:    duration,
	}
}

// IncPage increments the pages counter for a status label.
func (m *Metrics) IncPage(status string) {
	if m == nil {
		return
	}
	m.PagesTotal.WithLabelValues(status).Inc()
}

// IncItem increments the items counter for a status label.
func (m *Metrics) IncItem(status string) {
	if m == nil {
		return
	}
	m.ItemsTotal.WithLabelValues(status).Inc()
}

// IncEnhancement increments the enhancements counter for a status label.
func (m *Metrics) IncEnhancement(status string) {
	if m == nil {
		return
	}
	m.EnhancementsTotal.WithLabelValues(status).Inc()
}

// ObserveRun records the duration of a completed scrape run.
func (m *Metrics) ObserveRun(d time.Duration) {
	if m == nil {
		return
	}
	m.ScrapeDuration.Observe(d.Seconds())
}
