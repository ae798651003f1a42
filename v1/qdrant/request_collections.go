package qdrant

import (
	"context"
	"fmt"
	"net/http"
)

// VectorParams configures the single unnamed vector of a collection.
type VectorParams struct {
	Size     uint64 `json:"size"`
	Distance string `json:"distance"`
}

// CreateCollectionRequest is PUT collections/{name}.
type CreateCollectionRequest struct {
	CollectionName string   `json:"-"`
	VectorSize     uint64   `json:"-"`
	Distance       Distance `json:"-"`
}

// NewCreateCollectionRequest creates collectionName with one unnamed vector
// of vectorSize dimensions compared by distance.
func NewCreateCollectionRequest(collectionName string, vectorSize uint64, distance Distance) *CreateCollectionRequest {
	return &CreateCollectionRequest{
		CollectionName: collectionName,
		VectorSize:     vectorSize,
		Distance:       distance,
	}
}

// Build rejects a zero vector size and unsupported distances.
func (r *CreateCollectionRequest) Build(ctx context.Context, server string) (*http.Request, error) {
	if err := validateCollectionName(r.CollectionName); err != nil {
		return nil, err
	}
	if r.VectorSize == 0 {
		return nil, fmt.Errorf("%w: vector size must be greater than 0", ErrInvalidArgument)
	}
	distance, err := r.Distance.WireValue()
	if err != nil {
		return nil, err
	}

	u, err := operationURL(server, r.CollectionName, "", false)
	if err != nil {
		return nil, err
	}

	body := struct {
		Vectors VectorParams `json:"vectors"`
	}{
		Vectors: VectorParams{Size: r.VectorSize, Distance: distance},
	}
	return newRequest(ctx, http.MethodPut, u, body)
}

// DeleteCollectionRequest is DELETE collections/{name}.
type DeleteCollectionRequest struct {
	CollectionName string `json:"-"`
}

// NewDeleteCollectionRequest drops collectionName and all its points.
func NewDeleteCollectionRequest(collectionName string) *DeleteCollectionRequest {
	return &DeleteCollectionRequest{CollectionName: collectionName}
}

// Build issues DELETE collections/{name}.
func (r *DeleteCollectionRequest) Build(ctx context.Context, server string) (*http.Request, error) {
	if err := validateCollectionName(r.CollectionName); err != nil {
		return nil, err
	}
	u, err := operationURL(server, r.CollectionName, "", false)
	if err != nil {
		return nil, err
	}
	return newRequest(ctx, http.MethodDelete, u, nil)
}

// GetCollectionRequest is GET collections/{name}. A 404 means the collection
// does not exist.
type GetCollectionRequest struct {
	CollectionName string `json:"-"`
}

// NewGetCollectionRequest reads status, counts and params of collectionName.
// A 404 answer means the collection does not exist.
func NewGetCollectionRequest(collectionName string) *GetCollectionRequest {
	return &GetCollectionRequest{CollectionName: collectionName}
}

// Build issues GET collections/{name}.
func (r *GetCollectionRequest) Build(ctx context.Context, server string) (*http.Request, error) {
	if err := validateCollectionName(r.CollectionName); err != nil {
		return nil, err
	}
	u, err := operationURL(server, r.CollectionName, "", false)
	if err != nil {
		return nil, err
	}
	return newRequest(ctx, http.MethodGet, u, nil)
}

// ListCollectionsRequest is GET collections.
type ListCollectionsRequest struct{}

// NewListCollectionsRequest lists the names of all collections.
func NewListCollectionsRequest() *ListCollectionsRequest {
	return &ListCollectionsRequest{}
}

// Build issues GET collections.
func (r *ListCollectionsRequest) Build(ctx context.Context, server string) (*http.Request, error) {
	u, err := operationURL(server, "", "", false)
	if err != nil {
		return nil, err
	}
	return newRequest(ctx, http.MethodGet, u, nil)
}

// listCollectionsResult is the result of GET collections.
type listCollectionsResult struct {
	Collections []struct {
		Name string `json:"name"`
	} `json:"collections"`
}

// collectionInfoResult is the subset of GET collections/{name} we read.
type collectionInfoResult struct {
	Status              string  `json:"status"`
	PointsCount         *uint64 `json:"points_count"`
	IndexedVectorsCount *uint64 `json:"indexed_vectors_count"`
	Config              struct {
		Params struct {
			Vectors struct {
				Size     uint64 `json:"size"`
				Distance string `json:"distance"`
			} `json:"vectors"`
		} `json:"params"`
	} `json:"config"`
	PayloadSchema map[string]struct {
		DataType string `json:"data_type"`
	} `json:"payload_schema"`
}

func (r collectionInfoResult) toCollectionInfo(name string) *CollectionInfo {
	info := &CollectionInfo{
		Name:       name,
		Status:     r.Status,
		VectorSize: r.Config.Params.Vectors.Size,
		Distance:   r.Config.Params.Vectors.Distance,
	}
	if r.PointsCount != nil {
		info.PointsCount = *r.PointsCount
	}
	if r.IndexedVectorsCount != nil {
		info.IndexedVectorsCount = *r.IndexedVectorsCount
	}
	if len(r.PayloadSchema) > 0 {
		info.PayloadSchema = make(map[string]string, len(r.PayloadSchema))
		for field, schema := range r.PayloadSchema {
			info.PayloadSchema[field] = schema.DataType
		}
	}
	return info
}
