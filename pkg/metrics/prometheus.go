// Package metrics provides Prometheus metrics for the crewcast prediction service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager manages all Prometheus metrics for the crewcast service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	enabled          bool
	customLabels     map[string]string
	metricPrefix     string
	registry         prometheus.Registerer

	// Prediction Metrics - What the service exists for
	predictions       *prometheus.CounterVec
	predictedRows     *prometheus.CounterVec
	predictionLatency *prometheus.HistogramVec
	batchSize         prometheus.Histogram
	droppedColumns    prometheus.Counter
	unmatchedLabels   *prometheus.CounterVec

	// Model Metrics - Runtime handle state
	modelLoaded      prometheus.Gauge
	modelLoads       *prometheus.CounterVec
	modelLoadSeconds prometheus.Gauge

	// Remote runtime circuit breaker
	breakerTransitions *prometheus.CounterVec
	breakerOpen        *prometheus.GaugeVec

	// HTTP Performance Metrics
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Error Metrics
	errorRateByKind     *prometheus.CounterVec
	errorRateByType     *prometheus.CounterVec
	errorRateByEndpoint *prometheus.CounterVec
	errorLatency        *prometheus.HistogramVec

	// System Performance Metrics
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
	systemGCPauseTime    prometheus.Histogram
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

// Initialize global metrics.
func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// Configure replaces the global manager with one built from opts on a fresh
// custom registry. Call it once at startup, before any handler is built
// from GetRegistry.
func Configure(opts ...Option) {
	registry := prometheus.NewRegistry()
	all := make([]Option, 0, len(opts)+1)
	all = append(all, opts...)
	all = append(all, WithPrometheusRegistry(registry))
	globalManager = NewManager(all...)
	customRegistry = registry
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "crewcast",
		subsystem:        "staffing",
		histogramBuckets: prometheus.DefBuckets,
		enabled:          true,
		customLabels:     make(map[string]string),
		metricPrefix:     "",
		registry:         prometheus.NewRegistry(),
	}

	// Apply all options
	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()

	return m
}

func (m *Manager) name(n string) string {
	if m.metricPrefix == "" {
		return n
	}
	return m.metricPrefix + "_" + n
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() { //nolint:funlen // long function required for comprehensive metrics initialization
	auto := promauto.With(m.registry)
	labels := prometheus.Labels(m.customLabels)

	m.predictions = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("predictions_total"),
		Help:        "Total number of prediction requests by mode (manual, batch) and result",
		ConstLabels: labels,
	}, []string{"mode", "result"})

	m.predictedRows = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("predicted_rows_total"),
		Help:        "Total number of rows sent through the model runtime",
		ConstLabels: labels,
	}, []string{"mode"})

	m.predictionLatency = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("prediction_latency_milliseconds"),
		Help:        "Model runtime latency per prediction request in milliseconds",
		Buckets:     m.histogramBuckets,
		ConstLabels: labels,
	}, []string{"mode", "runtime"})

	m.batchSize = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("batch_rows"),
		Help:        "Number of rows per batch prediction",
		Buckets:     []float64{1, 5, 10, 50, 100, 500, 1000, 5000, 10000},
		ConstLabels: labels,
	})

	m.droppedColumns = auto.NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("identifier_columns_dropped_total"),
		Help:        "Identifier columns removed from imported files",
		ConstLabels: labels,
	})

	m.unmatchedLabels = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("unmatched_labels_total"),
		Help:        "Categorical answers that matched no known label and encoded to 0",
		ConstLabels: labels,
	}, []string{"field"})

	m.modelLoaded = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("model_loaded"),
		Help:        "1 when a model runtime is loaded, 0 otherwise",
		ConstLabels: labels,
	})

	m.modelLoads = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("model_loads_total"),
		Help:        "Model load attempts by runtime kind and result",
		ConstLabels: labels,
	}, []string{"kind", "result"})

	m.modelLoadSeconds = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("model_loaded_timestamp_seconds"),
		Help:        "Unix time of the last successful model load",
		ConstLabels: labels,
	})

	m.breakerTransitions = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("breaker_transitions_total"),
		Help:        "Circuit breaker state transitions of the remote model runtime",
		ConstLabels: labels,
	}, []string{"name", "from", "to"})

	m.breakerOpen = auto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("breaker_open"),
		Help:        "1 while the remote model circuit breaker is open",
		ConstLabels: labels,
	}, []string{"name"})

	m.httpRequests = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace:   m.namespace,
			Subsystem:   m.subsystem,
			Name:        m.name("http_requests_total"),
			Help:        "Total number of HTTP requests by endpoint and method",
			ConstLabels: labels,
		},
		[]string{"endpoint", "method", "status_code"},
	)

	m.httpRequestDuration = auto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace:   m.namespace,
			Subsystem:   m.subsystem,
			Name:        m.name("http_request_duration_milliseconds"),
			Help:        "HTTP request duration in milliseconds (user experience)",
			Buckets:     m.histogramBuckets,
			ConstLabels: labels,
		},
		[]string{"endpoint", "method", "status_code"},
	)

	m.errorRateByKind = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace:   m.namespace,
			Subsystem:   m.subsystem,
			Name:        m.name("errors_by_kind_total"),
			Help:        "Request failures by domain error kind (input, file, model)",
			ConstLabels: labels,
		},
		[]string{"kind", "mode"},
	)

	m.errorRateByType = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace:   m.namespace,
			Subsystem:   m.subsystem,
			Name:        m.name("errors_by_type_total"),
			Help:        "Total errors by type and severity",
			ConstLabels: labels,
		},
		[]string{"error_type", "severity"},
	)

	m.errorRateByEndpoint = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace:   m.namespace,
			Subsystem:   m.subsystem,
			Name:        m.name("errors_by_endpoint_total"),
			Help:        "Total errors by endpoint, method and error type",
			ConstLabels: labels,
		},
		[]string{"endpoint", "method", "error_type"},
	)

	m.errorLatency = auto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace:   m.namespace,
			Subsystem:   m.subsystem,
			Name:        m.name("error_latency_milliseconds"),
			Help:        "Latency of requests that ended in an error",
			Buckets:     m.histogramBuckets,
			ConstLabels: labels,
		},
		[]string{"component", "error_type"},
	)

	m.systemMemoryUsage = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("system_memory_usage_bytes"),
		Help:        "System memory usage in bytes",
		ConstLabels: labels,
	})

	m.systemGoroutineCount = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("system_goroutine_count"),
		Help:        "Number of goroutines",
		ConstLabels: labels,
	})

	m.systemGCPauseTime = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("system_gc_pause_time_milliseconds"),
		Help:        "GC pause time in milliseconds",
		Buckets:     []float64{0.1, 0.5, 1, 2, 5, 10, 25, 50, 100, 250, 500, 1000},
		ConstLabels: labels,
	})
}

// Enabled reports whether recording is enabled on the global manager.
func Enabled() bool {
	return globalManager.enabled
}

// Prediction Metrics Functions.

// RecordPrediction counts a prediction request. result is "ok" or an error kind.
func RecordPrediction(mode, result string) {
	if !globalManager.enabled {
		return
	}
	globalManager.predictions.WithLabelValues(mode, result).Inc()
}

// RecordPredictedRows adds n rows to the predicted rows counter.
func RecordPredictedRows(mode string, n int) {
	if !globalManager.enabled {
		return
	}
	globalManager.predictedRows.WithLabelValues(mode).Add(float64(n))
}

// RecordPredictionLatency records runtime latency in milliseconds.
func RecordPredictionLatency(mode, runtime string, latencyMs float64) {
	if !globalManager.enabled {
		return
	}
	globalManager.predictionLatency.WithLabelValues(mode, runtime).Observe(latencyMs)
}

// RecordBatchSize records the row count of one batch.
func RecordBatchSize(rows int) {
	if !globalManager.enabled {
		return
	}
	globalManager.batchSize.Observe(float64(rows))
}

// RecordDroppedColumns adds n dropped identifier columns.
func RecordDroppedColumns(n int) {
	if !globalManager.enabled {
		return
	}
	globalManager.droppedColumns.Add(float64(n))
}

// RecordUnmatchedLabel counts an unrecognized categorical answer for field.
func RecordUnmatchedLabel(field string) {
	if !globalManager.enabled {
		return
	}
	globalManager.unmatchedLabels.WithLabelValues(field).Inc()
}

// Model Metrics Functions.

// SetModelLoaded sets the loaded gauge.
func SetModelLoaded(loaded bool) {
	if !globalManager.enabled {
		return
	}
	if loaded {
		globalManager.modelLoaded.Set(1)
		return
	}
	globalManager.modelLoaded.Set(0)
}

// RecordModelLoad counts a load attempt and stamps the time of successful ones.
func RecordModelLoad(kind, result string) {
	if !globalManager.enabled {
		return
	}
	globalManager.modelLoads.WithLabelValues(kind, result).Inc()
	if result == "ok" {
		globalManager.modelLoadSeconds.SetToCurrentTime()
	}
}

// RecordBreakerTransition counts a breaker state change and tracks whether
// it is open.
func RecordBreakerTransition(name, from, to string) {
	if !globalManager.enabled {
		return
	}
	globalManager.breakerTransitions.WithLabelValues(name, from, to).Inc()
	if to == "open" {
		globalManager.breakerOpen.WithLabelValues(name).Set(1)
		return
	}
	globalManager.breakerOpen.WithLabelValues(name).Set(0)
}

// HTTP Metrics Functions.

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	if !globalManager.enabled {
		return
	}
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	if !globalManager.enabled {
		return
	}
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// Error Metrics Functions.

// RecordErrorByKind records a failed request by domain error kind.
func RecordErrorByKind(kind, mode string) {
	if !globalManager.enabled {
		return
	}
	globalManager.errorRateByKind.WithLabelValues(kind, mode).Inc()
}

// RecordErrorByType records an error with type and severity labels.
func RecordErrorByType(errorType, severity string) {
	if !globalManager.enabled {
		return
	}
	globalManager.errorRateByType.WithLabelValues(errorType, severity).Inc()
}

// RecordErrorByEndpoint records an error with endpoint, method, and error type labels.
func RecordErrorByEndpoint(endpoint, method, errorType string) {
	if !globalManager.enabled {
		return
	}
	globalManager.errorRateByEndpoint.WithLabelValues(endpoint, method, errorType).Inc()
}

// RecordErrorLatency records the latency of an operation that resulted in an error.
func RecordErrorLatency(component, errorType string, latencyMs float64) {
	if !globalManager.enabled {
		return
	}
	globalManager.errorLatency.WithLabelValues(component, errorType).Observe(latencyMs)
}

// System Performance Metrics Functions.

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
