// Package metrics exposes Prometheus instrumentation for the extraction pipeline.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "recipe"

// Collector holds the pipeline metrics on a dedicated registry.
// A nil *Collector is valid and records nothing.
type Collector struct {
	registry *prometheus.Registry

	extractionsTotal   *prometheus.CounterVec
	extractionDuration *prometheus.HistogramVec
	aiRequestsTotal    *prometheus.CounterVec
	captionFetches     *prometheus.CounterVec
	handoffEvents      *prometheus.CounterVec
	cacheLookups       *prometheus.CounterVec
	tempFilesRemoved   prometheus.Counter
}

// New creates a Collector registered on its own registry
func New() *Collector {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(registry)

	return &Collector{
		registry: registry,

		extractionsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "extraction",
				Name:      "total",
				Help:      "Extraction attempts by outcome (success or error kind)",
			},
			[]string{"outcome"},
		),

		extractionDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "extraction",
				Name:      "duration_seconds",
				Help:      "Duration of successful extractions by path",
				Buckets:   []float64{0.5, 1, 2.5, 5, 10, 20, 30, 60, 120, 300},
			},
			[]string{"path"},
		),

		aiRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "ai",
				Name:      "requests_total",
				Help:      "Recipe parser requests by input mode and status",
			},
			[]string{"mode", "status"},
		),

		captionFetches: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "captions",
				Name:      "fetches_total",
				Help:      "Caption fetches by platform and status",
			},
			[]string{"platform", "status"},
		),

		handoffEvents: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "handoff",
				Name:      "events_total",
				Help:      "Mailbox operations by type",
			},
			[]string{"event"},
		),

		cacheLookups: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "cache",
				Name:      "lookups_total",
				Help:      "Cache lookups by cache name and result (hit or miss)",
			},
			[]string{"cache", "result"},
		),

		tempFilesRemoved: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "cleanup",
				Name:      "temp_files_removed_total",
				Help:      "Stale temporary media files removed by the sweeper",
			},
		),
	}
}

// Registry returns the underlying registry
func (c *Collector) Registry() *prometheus.Registry {
	if c == nil {
		return nil
	}
	return c.registry
}

// Handler returns an HTTP handler serving the registry
func (c *Collector) Handler() http.Handler {
	if c == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{Registry: c.registry})
}

// ExtractionFinished records the outcome of one extraction attempt.
// path is empty for failures.
func (c *Collector) ExtractionFinished(outcome, path string, elapsed time.Duration) {
	if c == nil {
		return
	}
	c.extractionsTotal.WithLabelValues(outcome).Inc()
	if path != "" {
		c.extractionDuration.WithLabelValues(path).Observe(elapsed.Seconds())
	}
}

// AIRequest records one recipe parser call
func (c *Collector) AIRequest(mode, status string) {
	if c == nil {
		return
	}
	c.aiRequestsTotal.WithLabelValues(mode, status).Inc()
}

// CaptionFetch records one caption fetcher call
func (c *Collector) CaptionFetch(platform, status string) {
	if c == nil {
		return
	}
	c.captionFetches.WithLabelValues(platform, status).Inc()
}

// HandoffEvent records a mailbox save, load or cleanup
func (c *Collector) HandoffEvent(event string) {
	if c == nil {
		return
	}
	c.handoffEvents.WithLabelValues(event).Inc()
}

// CacheLookup records a cache hit or miss
func (c *Collector) CacheLookup(cache string, hit bool) {
	if c == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	c.cacheLookups.WithLabelValues(cache, result).Inc()
}

// TempFilesRemoved adds to the sweeper counter
func (c *Collector) TempFilesRemoved(n int) {
	if c == nil || n <= 0 {
		return
	}
	c.tempFilesRemoved.Add(float64(n))
}
