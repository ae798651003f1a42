// Package metrics provides Prometheus instrumentation for the Qdrant connector.
//
// # Architecture
//
//   - MetricsCollector: the interface consumers depend on
//   - Metrics: concrete implementation with an isolated registry and a /metrics server
//   - OperationObserver: adapts Metrics to observability.Observer so clients
//     report every operation without knowing about Prometheus
//   - FXModule: provides all three and manages the server lifecycle
//
// # Direct Usage
//
//	import (
//		"github.com/Aleph-Alpha/qdrant-connector/v1/metrics"
//		"github.com/Aleph-Alpha/qdrant-connector/v1/qdrant"
//	)
//
//	m := metrics.NewMetrics(metrics.Config{
//		Address:     ":9090",
//		Namespace:   "indexer",
//		ServiceName: "document-index",
//	})
//	go m.Server.ListenAndServe()
//
//	client, err := qdrant.NewQdrantClient(cfg,
//		qdrant.WithObserver(metrics.NewOperationObserver(m)),
//	)
//
// # Exposed Metrics
//
//	<namespace>_operations_total{component,operation,status}
//	<namespace>_operation_duration_seconds{component,operation}
//	<namespace>_operation_items_total{component,operation}
//
// Every metric also carries service="<ServiceName>".
//
// # Configuration
//
//	METRICS_ADDRESS=:9090
//	METRICS_ENABLE_DEFAULT_COLLECTORS=true
//	METRICS_NAMESPACE=indexer
//	METRICS_SERVICE_NAME=document-index
//
// All methods are safe for concurrent use.
package metrics
