package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// IncrementOperations increments the operation counter.
// Example: m.IncrementOperations("qdrant", "search", "success")
func (m *Metrics) IncrementOperations(component, operation, status string) {
	m.operationsTotal.WithLabelValues(component, operation, status).Inc()
}

// RecordOperationDuration observes d in seconds on the
// operation_duration_seconds histogram (default Prometheus buckets).
func (m *Metrics) RecordOperationDuration(component, operation string, d time.Duration) {
	m.operationDuration.WithLabelValues(component, operation).Observe(d.Seconds())
}

// AddOperationItems adds n to the item counter. Non-positive n is ignored.
func (m *Metrics) AddOperationItems(component, operation string, n int64) {
	if n <= 0 {
		return
	}
	m.operationItems.WithLabelValues(component, operation).Add(float64(n))
}

// CreateCounter creates a new CounterVec under the configured namespace and
// registers it. It panics when a metric with the same name is already
// registered, like prometheus.MustRegister.
//
// Example:
//
//	created := m.CreateCounter("collections_created_total", "Collections created", []string{"collection"})
//	created.WithLabelValues("memories").Inc()
func (m *Metrics) CreateCounter(name, help string, labels []string) *prometheus.CounterVec {
	counter := createCounterVec(m.namespace, name, help, labels)
	m.registerer.MustRegister(counter)
	return counter
}

// CreateHistogram creates a new HistogramVec with the given buckets and
// registers it. Nil buckets mean prometheus.DefBuckets.
func (m *Metrics) CreateHistogram(name, help string, labels []string, buckets []float64) *prometheus.HistogramVec {
	hist := createHistogramVec(m.namespace, name, help, labels, buckets)
	m.registerer.MustRegister(hist)
	return hist
}

// CreateGauge creates a new GaugeVec and registers it. Same panics as
// CreateCounter.
func (m *Metrics) CreateGauge(name, help string, labels []string) *prometheus.GaugeVec {
	gauge := createGaugeVec(m.namespace, name, help, labels)
	m.registerer.MustRegister(gauge)
	return gauge
}

// createCounterVec and its siblings build collectors without registering
// them; NewMetrics registers the built-ins in one call.
func createCounterVec(namespace, name, help string, labels []string) *prometheus.CounterVec {
	return prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      name,
			Help:      help,
		},
		labels,
	)
}

func createHistogramVec(namespace, name, help string, labels []string, buckets []float64) *prometheus.HistogramVec {
	return prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      name,
			Help:      help,
			Buckets:   buckets,
		},
		labels,
	)
}

func createGaugeVec(namespace, name, help string, labels []string) *prometheus.GaugeVec {
	return prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      name,
			Help:      help,
		},
		labels,
	)
}
