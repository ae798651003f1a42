package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// MetricsCollector is the metrics contract consumed by the connector.
// *Metrics implements it.
type MetricsCollector interface {
	// IncrementOperations counts one finished operation with its outcome.
	IncrementOperations(component, operation, status string)

	// RecordOperationDuration observes how long an operation took.
	RecordOperationDuration(component, operation string, d time.Duration)

	// AddOperationItems adds the number of items (points, results, names) an
	// operation moved.
	AddOperationItems(component, operation string, n int64)

	// CreateCounter creates and registers a new CounterVec.
	CreateCounter(name, help string, labels []string) *prometheus.CounterVec

	// CreateHistogram creates and registers a new HistogramVec.
	CreateHistogram(name, help string, labels []string, buckets []float64) *prometheus.HistogramVec

	// CreateGauge creates and registers a new GaugeVec.
	CreateGauge(name, help string, labels []string) *prometheus.GaugeVec
}
