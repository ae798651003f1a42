// Package tracer wraps the OpenTelemetry SDK for the Qdrant connector.
//
// It creates spans, records errors on them and moves W3C trace context in and
// out of HTTP headers, so a search issued by a traced service shows up as a
// child span in the same trace.
//
// Core Features:
//   - Span creation with StartSpan
//   - Error recording and span status with RecordErrorOnSpan
//   - Typed span attributes from a plain map with SetAttributes
//   - W3C trace-context and baggage propagation (GetCarrier,
//     SetCarrierOnContext, InjectHTTPHeaders)
//   - OTLP/HTTP export, switched on by Config.EnableExport
//
// Basic Usage:
//
//	t := tracer.NewClient(tracer.Config{
//		ServiceName:      "indexer",
//		AppEnv:           "production",
//		EnableExport:     true,
//		ExporterEndpoint: "http://otel-collector:4318",
//	}, log)
//
//	ctx, span := t.StartSpan(ctx, "reindex")
//	defer span.End()
//
//	t.SetAttributes(span, map[string]interface{}{
//		"collection": "memories",
//		"points":     128,
//	})
//	if err != nil {
//		t.RecordErrorOnSpan(span, err)
//	}
//
// With the Qdrant client every HTTP call gets its own span, and the
// traceparent header is set on the outgoing request:
//
//	client, _ := qdrant.NewQdrantClient(cfg, qdrant.WithTracer(t))
//
// Propagation Across Services:
//
//	// sender
//	carrier := t.GetCarrier(ctx)
//
//	// receiver
//	ctx = t.SetCarrierOnContext(ctx, carrier)
//	ctx, span := t.StartSpan(ctx, "handle")
//	defer span.End()
//
// Testing:
//
// NewWithProvider accepts a provider built around an in-memory span recorder
// (go.opentelemetry.io/otel/sdk/trace/tracetest) and leaves the otel globals
// alone.
//
// FX Integration:
//
// FXModule provides *Tracer from a tracer.Config and a tracer.Logger and
// flushes pending spans on shutdown.
package tracer
