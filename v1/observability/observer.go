// Package observability defines the hook clients use to report the operations
// they perform. Metrics, tracing or audit backends implement Observer; clients
// accept one through WithObserver and call it once per completed operation.
package observability

import "time"

// Observer receives a notification after every observed operation.
// Implementations must be safe for concurrent use and must not block.
type Observer interface {
	ObserveOperation(ctx OperationContext)
}

// OperationContext describes a single completed operation.
type OperationContext struct {
	// Component is the client family, e.g. "qdrant".
	Component string

	// Operation is the logical action, e.g. "upsert_points" or "search".
	Operation string

	// Resource is the primary target, e.g. a collection name.
	Resource string

	// SubResource narrows Resource, e.g. a point or field name.
	SubResource string

	// Duration is the wall time of the operation.
	Duration time.Duration

	// Error is nil on success.
	Error error

	// Size is an operation-specific count (points written, results returned).
	Size int64

	// Metadata carries extra labels such as the HTTP status code.
	Metadata map[string]interface{}
}

// ObserverFunc adapts a plain function to the Observer interface.
type ObserverFunc func(ctx OperationContext)

// ObserveOperation calls f(ctx).
func (f ObserverFunc) ObserveOperation(ctx OperationContext) {
	f(ctx)
}

// Multi fans a notification out to several observers. Nil entries are skipped.
func Multi(observers ...Observer) Observer {
	return multiObserver(observers)
}

type multiObserver []Observer

// ObserveOperation forwards ctx to every wrapped observer in order.
func (m multiObserver) ObserveOperation(ctx OperationContext) {
	for _, o := range m {
		if o != nil {
			o.ObserveOperation(ctx)
		}
	}
}
