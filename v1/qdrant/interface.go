package qdrant

import (
	"context"
	"iter"
)

// VectorDbClient is the capability surface of the connector: collection
// lifecycle, point upsert/fetch/delete, payload overwrite, payload indexing
// and nearest-neighbor search.
//
// Every method honors ctx. When ctx ends, the in-flight request is aborted
// and the error wraps both ErrCancelled and ctx.Err().
//
// Multi-item reads return lazy sequences: pages are requested only as the
// caller iterates, and breaking out of the loop stops further requests.
//
//	for rec, err := range client.GetVectorsById(ctx, "docs", ids, false) {
//	    if err != nil {
//	        return err
//	    }
//	    use(rec)
//	}
type VectorDbClient interface {
	// GetVectorsById fetches points by point id.
	GetVectorsById(ctx context.Context, collectionName string, pointIDs []string, withVectors bool) iter.Seq2[VectorRecord, error]

	// GetVectorByPayloadId fetches the point whose payload "id" equals
	// metadataID. It returns (nil, nil) when there is none.
	GetVectorByPayloadId(ctx context.Context, collectionName, metadataID string, withVector bool) (*VectorRecord, error)

	// DeleteVectorsById deletes points by point id.
	DeleteVectorsById(ctx context.Context, collectionName string, pointIDs []string) error

	// DeleteVectorByPayloadId deletes the point whose payload "id" equals
	// metadataID. Deleting a missing point is not an error.
	DeleteVectorByPayloadId(ctx context.Context, collectionName, metadataID string) error

	// UpsertVectors inserts or replaces records.
	UpsertVectors(ctx context.Context, collectionName string, records []VectorRecord) error

	// OverwriteFilterable replaces the PayloadFilterableKey field of one
	// point's payload with filterable. The other payload keys are kept.
	OverwriteFilterable(ctx context.Context, collectionName, pointID string, filterable any) error

	// FindNearestInCollection yields up to opts.Top hits within threshold,
	// best first. For Euclid and Manhattan lower scores are better.
	FindNearestInCollection(ctx context.Context, collectionName string, target []float32, threshold float64, opts SearchOptions) iter.Seq2[ScoredRecord, error]

	// CreateCollection creates a collection using the configured vector size
	// and distance.
	CreateCollection(ctx context.Context, collectionName string) error

	// DeleteCollection deletes a collection. Deleting a missing collection is
	// not an error.
	DeleteCollection(ctx context.Context, collectionName string) error

	// DoesCollectionExist reports whether the collection exists.
	DoesCollectionExist(ctx context.Context, collectionName string) (bool, error)

	// ListCollections yields the names of all collections.
	ListCollections(ctx context.Context) iter.Seq2[string, error]

	// CreateIndex indexes a payload field with the given schema type.
	CreateIndex(ctx context.Context, collectionName, fieldName string, schemaType PayloadSchemaType) error

	// GetCollectionInfo returns status, counts and vector params of a collection.
	GetCollectionInfo(ctx context.Context, collectionName string) (*CollectionInfo, error)

	// Health checks that the server answers.
	Health(ctx context.Context) error
}

// SearchOptions are the optional parts of FindNearestInCollection.
type SearchOptions struct {
	// Filter restricts candidates. Nil means no filter.
	Filter *Filter

	// Top caps the number of hits. Values below 1 mean 1.
	Top int

	// WithVectors includes stored embeddings in the hits.
	WithVectors bool

	// RequiredTags must all be present in a hit's tags.
	RequiredTags []string

	// Distance is the metric of the searched collection. It decides whether
	// higher or lower scores are better. Unspecified means Config.Distance.
	Distance Distance
}
