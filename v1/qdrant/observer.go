package qdrant

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/trace"

	"github.com/Aleph-Alpha/qdrant-connector/v1/observability"
)

const component = "qdrant"

// observeOperation notifies the observer about a finished request if one is
// configured.
//
// Notes:
//   - resource: collection name
//   - size: number of points or ids sent
func (c *QdrantClient) observeOperation(op call, duration time.Duration, status int, err error) {
	if c == nil || c.observer == nil {
		return
	}

	c.observer.ObserveOperation(observability.OperationContext{
		Component: component,
		Operation: op.operation,
		Resource:  op.collection,
		Duration:  duration,
		Error:     err,
		Size:      op.size,
		Metadata: map[string]interface{}{
			"status_code": status,
		},
	})
}

func (c *QdrantClient) startSpan(ctx context.Context, op call) (context.Context, trace.Span) {
	ctx, span := c.tracer.StartSpan(ctx, component+"."+op.operation)
	c.tracer.SetAttributes(span, map[string]interface{}{
		"db.system":            "qdrant",
		"db.operation":         op.operation,
		"db.qdrant.collection": op.collection,
		"db.qdrant.size":       op.size,
	})
	return ctx, span
}

func (c *QdrantClient) finishSpan(span trace.Span, status int, err error) {
	if status != 0 {
		c.tracer.SetAttributes(span, map[string]interface{}{"http.status_code": status})
	}
	c.tracer.RecordErrorOnSpan(span, err)
	span.End()
}
