// Package qdrant is a client for the Qdrant vector database over its HTTP
// REST API.
//
// The package covers the storage side of a semantic-memory service: collection
// lifecycle, point upsert/fetch/delete, payload overwrite, payload indexing and
// nearest-neighbor search with filters. Every request is built by a typed
// request builder, so the wire format of each endpoint lives in one place.
//
// # Core Features
//
//   - Builder-style Config with YAML/env tags and validation
//   - Typed request builders for every endpoint (RequestBuilder)
//   - Lazy result sequences (iter.Seq2) that fetch pages on demand
//   - Composable Must/Should/MustNot filters
//   - Sentinel errors with Is helpers and a structured APIError
//   - Optional logging, observability.Observer reporting and OpenTelemetry spans
//   - Database-agnostic access through Adapter and vectordb.Service
//   - Fx module with health check on start
//
// # Basic Usage
//
//	client, err := qdrant.NewQdrantClient(
//	    qdrant.FromEndpoint("http://localhost:6333").
//	        WithVectorSize(384).
//	        WithDistance(qdrant.DistanceCosine),
//	    qdrant.WithLogger(log),
//	)
//	if err != nil {
//	    return err
//	}
//	defer client.Close()
//
//	if err := client.CreateCollection(ctx, "memories"); err != nil {
//	    return err
//	}
//
//	err = client.UpsertVectors(ctx, "memories", []qdrant.VectorRecord{{
//	    PointID:   qdrant.NewPointID(),
//	    Embedding: embedding,
//	    Payload:   map[string]any{qdrant.PayloadIDKey: "note-1", "text": "hello"},
//	    Tags:      []string{"personal"},
//	}})
//
// # Search
//
// FindNearestInCollection yields hits best first. The threshold is sent to
// Qdrant and checked again on every hit; math.Inf(-1) disables it. With
// DistanceEuclid or DistanceManhattan scores are distances: hits come
// nearest first and the threshold is a maximum distance.
//
//	filter := qdrant.NewFilter().
//	    Must(qdrant.MatchCondition{Key: "lang", Value: "en"})
//
//	for hit, err := range client.FindNearestInCollection(ctx, "memories", query, 0.7,
//	    qdrant.SearchOptions{Filter: filter, Top: 5, RequiredTags: []string{"personal"}}) {
//	    if err != nil {
//	        return err
//	    }
//	    fmt.Println(hit.Record.PointID, hit.Score)
//	}
//
// # Point Identifiers
//
// A point id is an unsigned integer or a UUID. The caller's own identifier
// goes into the payload under PayloadIDKey; GetVectorByPayloadId and
// DeleteVectorByPayloadId select by it.
//
// # Error Handling
//
//	err := client.CreateIndex(ctx, "memories", "lang", qdrant.Keyword)
//	switch {
//	case qdrant.IsNotFound(err):
//	    // collection is missing
//	case qdrant.IsCancelled(err):
//	    // ctx ended
//	case qdrant.IsTransportError(err):
//	    // network failure
//	}
//
//	if apiErr, ok := qdrant.AsAPIError(err); ok {
//	    log.Printf("qdrant returned %d: %s", apiErr.StatusCode, apiErr.Message)
//	}
//
// Nothing is retried.
//
// # VectorDB Interface
//
// Adapter implements vectordb.Service:
//
//	var db vectordb.Service = qdrant.NewAdapter(client)
//
// # Fx Integration
//
//	app := fx.New(
//	    logger.FXModule,
//	    fx.Provide(func() *qdrant.Config { return qdrant.FromEndpoint("http://qdrant:6333") }),
//	    qdrant.FXModule,
//	    fx.Invoke(func(db qdrant.VectorDbClient) { /* ... */ }),
//	)
//
// # Thread Safety
//
// QdrantClient holds no mutable state after construction and is safe for
// concurrent use.
package qdrant
