// Package metrics provides Prometheus metrics for the spinematch engine.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager manages all Prometheus metrics for the spinematch service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	constLabels      prometheus.Labels
	registry         prometheus.Registerer

	// Calculation metrics
	calculations       *prometheus.CounterVec
	calculationErrors  *prometheus.CounterVec
	calculationLatency prometheus.Histogram

	// Matching and session metrics
	matchesReturned prometheus.Histogram
	speedEstimates  *prometheus.CounterVec
	sessions        prometheus.Counter
	sessionLatency  prometheus.Histogram
	batchSize       prometheus.Histogram

	// Repository metrics
	catalogProducts        prometheus.Gauge
	catalogSpecifications  prometheus.Gauge
	chartsLoaded           prometheus.Gauge
	chronographRecords     prometheus.Gauge
	repositoryQueryLatency *prometheus.HistogramVec

	// HTTP metrics
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Error metrics
	errorRateByComponent *prometheus.CounterVec
	errorRateByEndpoint  *prometheus.CounterVec
	errorLatency         *prometheus.HistogramVec

	// System metrics
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
	systemGCPauseTime    prometheus.Histogram
}

var globalManager *Manager //nolint:gochecknoglobals // singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // metrics registry

func init() { //nolint:gochecknoinits // global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "spinematch",
		subsystem:        "engine",
		histogramBuckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 25, 50, 100, 250},
		registry:         prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initializeMetrics()
	return m
}

func (m *Manager) initializeMetrics() { //nolint:funlen // one place for every metric
	auto := promauto.With(m.registry)

	counterVec := func(name, help string, labels ...string) *prometheus.CounterVec {
		return auto.NewCounterVec(prometheus.CounterOpts{
			Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, ConstLabels: m.constLabels,
		}, labels)
	}
	gauge := func(name, help string) prometheus.Gauge {
		return auto.NewGauge(prometheus.GaugeOpts{
			Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, ConstLabels: m.constLabels,
		})
	}
	histogram := func(name, help string, buckets []float64) prometheus.Histogram {
		return auto.NewHistogram(prometheus.HistogramOpts{
			Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, Buckets: buckets, ConstLabels: m.constLabels,
		})
	}
	histogramVec := func(name, help string, labels ...string) *prometheus.HistogramVec {
		return auto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, Buckets: m.histogramBuckets, ConstLabels: m.constLabels,
		}, labels)
	}

	m.calculations = counterVec("calculations_total",
		"Total number of spine calculations by method and bow type", "method", "bow_type")
	m.calculationErrors = counterVec("calculation_errors_total",
		"Total number of failed spine calculations", "method", "error_type")
	m.calculationLatency = histogram("calculation_latency_milliseconds",
		"Spine calculation latency in milliseconds", m.histogramBuckets)

	m.matchesReturned = histogram("matches_returned",
		"Number of arrows returned per matching query", []float64{0, 1, 2, 5, 10, 20, 50, 100})
	m.speedEstimates = counterVec("speed_estimates_total",
		"Total number of speed values by source", "source")
	m.sessions = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: "sessions_total",
		Help: "Total number of tuning sessions built", ConstLabels: m.constLabels,
	})
	m.sessionLatency = histogram("session_latency_milliseconds",
		"Tuning session latency in milliseconds", m.histogramBuckets)
	m.batchSize = histogram("batch_size",
		"Number of sessions per batch request", []float64{1, 2, 5, 10, 25, 50, 100})

	m.catalogProducts = gauge("catalog_products", "Number of arrow products in the catalog")
	m.catalogSpecifications = gauge("catalog_specifications", "Number of spine specifications in the catalog")
	m.chartsLoaded = gauge("charts_loaded", "Number of spine charts loaded")
	m.chronographRecords = gauge("chronograph_records", "Number of chronograph records loaded")
	m.repositoryQueryLatency = histogramVec("repository_query_latency_milliseconds",
		"Repository query latency in milliseconds", "operation")

	m.httpRequests = counterVec("http_requests_total",
		"Total number of HTTP requests by endpoint and method", "endpoint", "method", "status_code")
	m.httpRequestDuration = histogramVec("http_request_duration_milliseconds",
		"HTTP request duration in milliseconds", "endpoint", "method", "status_code")

	m.errorRateByComponent = counterVec("errors_by_component_total",
		"Total number of errors by component", "component", "error_type")
	m.errorRateByEndpoint = counterVec("errors_by_endpoint_total",
		"Total number of errors by endpoint", "endpoint", "method", "error_type")
	m.errorLatency = histogramVec("error_latency_milliseconds",
		"Latency of operations that resulted in errors", "component", "error_type")

	m.systemMemoryUsage = gauge("system_memory_usage_bytes", "System memory usage in bytes")
	m.systemGoroutineCount = gauge("system_goroutine_count", "Number of goroutines")
	m.systemGCPauseTime = histogram("system_gc_pause_time_milliseconds", "GC pause time in milliseconds",
		[]float64{0.1, 0.5, 1, 2, 5, 10, 25, 50, 100, 250, 500, 1000})
}

// RecordCalculation counts a successful spine calculation.
func RecordCalculation(method, bowType string) {
	globalManager.calculations.WithLabelValues(method, bowType).Inc()
}

// RecordCalculationError counts a failed spine calculation.
func RecordCalculationError(method, errorType string) {
	globalManager.calculationErrors.WithLabelValues(method, errorType).Inc()
}

// RecordCalculationLatency records calculation latency in milliseconds.
func RecordCalculationLatency(latencyMs float64) {
	globalManager.calculationLatency.Observe(latencyMs)
}

// RecordMatchesReturned records the size of one matching result.
func RecordMatchesReturned(n int) {
	globalManager.matchesReturned.Observe(float64(n))
}

// RecordSpeedEstimate counts a speed value by its source.
func RecordSpeedEstimate(source string) {
	globalManager.speedEstimates.WithLabelValues(source).Inc()
}

// RecordSession counts a tuning session and its latency.
func RecordSession(latencyMs float64) {
	globalManager.sessions.Inc()
	globalManager.sessionLatency.Observe(latencyMs)
}

// RecordBatchSize records the number of requests in a batch.
func RecordBatchSize(n int) {
	globalManager.batchSize.Observe(float64(n))
}

// UpdateCatalogSize sets the catalog gauges.
func UpdateCatalogSize(products, specifications int) {
	globalManager.catalogProducts.Set(float64(products))
	globalManager.catalogSpecifications.Set(float64(specifications))
}

// UpdateChartsLoaded sets the number of loaded charts.
func UpdateChartsLoaded(n int) {
	globalManager.chartsLoaded.Set(float64(n))
}

// UpdateChronographRecords sets the number of loaded chronograph records.
func UpdateChronographRecords(n int) {
	globalManager.chronographRecords.Set(float64(n))
}

// RecordRepositoryQueryLatency records repository query latency.
func RecordRepositoryQueryLatency(operation string, latencyMs float64) {
	globalManager.repositoryQueryLatency.WithLabelValues(operation).Observe(latencyMs)
}

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// RecordErrorByComponent records an error with component and type labels.
func RecordErrorByComponent(component, errorType string) {
	globalManager.errorRateByComponent.WithLabelValues(component, errorType).Inc()
}

// RecordErrorByEndpoint records an error with endpoint, method, and error type labels.
func RecordErrorByEndpoint(endpoint, method, errorType string) {
	globalManager.errorRateByEndpoint.WithLabelValues(endpoint, method, errorType).Inc()
}

// RecordErrorLatency records the latency of an operation that resulted in an error.
func RecordErrorLatency(component, errorType string, latencyMs float64) {
	globalManager.errorLatency.WithLabelValues(component, errorType).Observe(latencyMs)
}

// UpdateSystemMemoryUsage sets the system memory usage in bytes.
func UpdateSystemMemoryUsage(bytes uint64) {
	globalManager.systemMemoryUsage.Set(float64(bytes))
}

// UpdateSystemGoroutineCount sets the number of goroutines.
func UpdateSystemGoroutineCount(count int) {
	globalManager.systemGoroutineCount.Set(float64(count))
}

// RecordSystemGCPauseTime records GC pause time in milliseconds.
func RecordSystemGCPauseTime(pauseMs float64) {
	globalManager.systemGCPauseTime.Observe(pauseMs)
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
