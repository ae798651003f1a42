package vectordb

import "context"

// Service is the common interface for vector databases.
type Service interface {
	// Search runs each request independently and returns one result slice
	// per request, in request order. Per-request failures are joined into
	// the returned error; results of successful requests are still returned.
	Search(ctx context.Context, requests ...SearchRequest) ([][]SearchResult, error)

	// Insert adds or replaces embeddings in a collection.
	Insert(ctx context.Context, collectionName string, inputs []EmbeddingInput) error

	// Delete removes points by id.
	Delete(ctx context.Context, collectionName string, ids []string) error

	// EnsureCollection creates the collection unless it already exists.
	EnsureCollection(ctx context.Context, name string, vectorSize uint64) error

	// GetCollection returns collection metadata.
	GetCollection(ctx context.Context, name string) (*Collection, error)

	// ListCollections returns all collection names.
	ListCollections(ctx context.Context) ([]string, error)
}
