// Package metrics exposes pipeline, cache and HTTP activity as Prometheus
// metrics. A [Registry] implements the hook interfaces of
// [github.com/matzehuels/blockgen/pkg/observability] and is installed by the
// serve command.
package metrics

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/matzehuels/blockgen/pkg/observability"
)

const namespace = "blockgen"

// Registry holds all metrics for the application.
type Registry struct {
	// Pipeline
	GenerateTotal    prometheus.Counter
	GenerateDuration prometheus.Histogram
	DiagramNodes     prometheus.Histogram
	DiagramEdges     prometheus.Histogram
	ExportTotal      *prometheus.CounterVec
	ExportDuration   *prometheus.HistogramVec
	ExportSizeBytes  *prometheus.HistogramVec

	// Cache
	CacheHitsTotal   *prometheus.CounterVec
	CacheMissesTotal *prometheus.CounterVec
	CacheWritesTotal *prometheus.CounterVec

	// HTTP
	HTTPRequestsTotal    *prometheus.CounterVec
	HTTPRequestDuration  *prometheus.HistogramVec
	HTTPRequestsInFlight prometheus.Gauge

	registry *prometheus.Registry
}

// NewRegistry creates a registry with every metric initialized, plus the
// standard Go runtime and process collectors.
func NewRegistry() *Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	r := &Registry{registry: reg}
	r.initPipelineMetrics()
	r.initCacheMetrics()
	r.initHTTPMetrics()
	return r
}

func (r *Registry) initPipelineMetrics() {
	f := promauto.With(r.registry)
	r.GenerateTotal = f.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "generate_total",
		Help:      "Total number of diagrams generated",
	})
	r.GenerateDuration = f.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "generate_duration_seconds",
		Help:      "Diagram generation latency in seconds",
		Buckets:   []float64{.0001, .0005, .001, .005, .01, .05, .1},
	})
	r.DiagramNodes = f.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "diagram_nodes",
		Help:      "Number of nodes per generated diagram",
		Buckets:   []float64{5, 6, 8, 10, 15, 20, 30, 50},
	})
	r.DiagramEdges = f.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "diagram_edges",
		Help:      "Number of edges per generated diagram",
		Buckets:   []float64{0, 1, 2, 4, 8, 16, 32},
	})
	r.ExportTotal = f.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "export_total",
		Help:      "Total number of exports by format and status",
	}, []string{"format", "status"})
	r.ExportDuration = f.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "export_duration_seconds",
		Help:      "Export latency in seconds",
		Buckets:   prometheus.DefBuckets,
	}, []string{"format"})
	r.ExportSizeBytes = f.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "export_size_bytes",
		Help:      "Size of exported documents in bytes",
		Buckets:   []float64{1000, 5000, 10000, 50000, 100000, 1000000},
	}, []string{"format"})
}

func (r *Registry) initCacheMetrics() {
	f := promauto.With(r.registry)
	r.CacheHitsTotal = f.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "cache_hits_total",
		Help:      "Cache hits by key type",
	}, []string{"type"})
	r.CacheMissesTotal = f.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "cache_misses_total",
		Help:      "Cache misses by key type",
	}, []string{"type"})
	r.CacheWritesTotal = f.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "cache_writes_total",
		Help:      "Cache writes by key type",
	}, []string{"type"})
}

func (r *Registry) initHTTPMetrics() {
	f := promauto.With(r.registry)
	r.HTTPRequestsTotal = f.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "http_requests_total",
		Help:      "Total number of HTTP requests",
	}, []string{"method", "route", "status"})
	r.HTTPRequestDuration = f.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency in seconds",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "route", "status"})
	r.HTTPRequestsInFlight = f.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "http_requests_in_flight",
		Help:      "Current number of HTTP requests being processed",
	})
}

// Handler serves the registry in the Prometheus exposition format.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{Registry: r.registry})
}

// PrometheusRegistry returns the underlying Prometheus registry.
func (r *Registry) PrometheusRegistry() *prometheus.Registry {
	return r.registry
}

// Install registers r as the pipeline, cache and HTTP hooks.
func (r *Registry) Install() {
	observability.SetPipelineHooks(r)
	observability.SetCacheHooks(r)
	observability.SetHTTPHooks(r)
}

// =============================================================================
// Hook implementations
// =============================================================================

func (r *Registry) OnGenerateStart(context.Context, int) {}

func (r *Registry) OnGenerateComplete(_ context.Context, nodeCount, edgeCount int, d time.Duration) {
	r.GenerateTotal.Inc()
	r.GenerateDuration.Observe(d.Seconds())
	r.DiagramNodes.Observe(float64(nodeCount))
	r.DiagramEdges.Observe(float64(edgeCount))
}

func (r *Registry) OnExportStart(context.Context, string) {}

func (r *Registry) OnExportComplete(_ context.Context, format string, size int, d time.Duration, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	r.ExportTotal.WithLabelValues(format, status).Inc()
	r.ExportDuration.WithLabelValues(format).Observe(d.Seconds())
	if err == nil {
		r.ExportSizeBytes.WithLabelValues(format).Observe(float64(size))
	}
}

func (r *Registry) OnCacheHit(_ context.Context, keyType string) {
	r.CacheHitsTotal.WithLabelValues(keyType).Inc()
}

func (r *Registry) OnCacheMiss(_ context.Context, keyType string) {
	r.CacheMissesTotal.WithLabelValues(keyType).Inc()
}

func (r *Registry) OnCacheSet(_ context.Context, keyType string, _ int) {
	r.CacheWritesTotal.WithLabelValues(keyType).Inc()
}

func (r *Registry) OnRequest(context.Context, string, string) {
	r.HTTPRequestsInFlight.Inc()
}

func (r *Registry) OnResponse(_ context.Context, method, route string, statusCode int, d time.Duration) {
	r.HTTPRequestsInFlight.Dec()
	status := strconv.Itoa(statusCode)
	r.HTTPRequestsTotal.WithLabelValues(method, route, status).Inc()
	r.HTTPRequestDuration.WithLabelValues(method, route, status).Observe(d.Seconds())
}

var (
	_ observability.PipelineHooks = (*Registry)(nil)
	_ observability.CacheHooks    = (*Registry)(nil)
	_ observability.HTTPHooks     = (*Registry)(nil)
)
