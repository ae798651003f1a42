package metrics

import (
	"github.com/Aleph-Alpha/qdrant-connector/v1/observability"
)

// Outcome labels used by OperationObserver.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// OperationObserver records observability events as Prometheus metrics.
type OperationObserver struct {
	collector MetricsCollector
}

var _ observability.Observer = (*OperationObserver)(nil)

// NewOperationObserver returns an observer that feeds c.
//
//	client := qdrant.NewQdrantClient(cfg, qdrant.WithObserver(metrics.NewOperationObserver(m)))
func NewOperationObserver(c MetricsCollector) *OperationObserver {
	return &OperationObserver{collector: c}
}

// ObserveOperation implements observability.Observer.
func (o *OperationObserver) ObserveOperation(ctx observability.OperationContext) {
	status := StatusSuccess
	if ctx.Error != nil {
		status = StatusError
	}
	o.collector.IncrementOperations(ctx.Component, ctx.Operation, status)
	o.collector.RecordOperationDuration(ctx.Component, ctx.Operation, ctx.Duration)
	o.collector.AddOperationItems(ctx.Component, ctx.Operation, ctx.Size)
}
