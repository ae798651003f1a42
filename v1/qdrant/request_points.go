package qdrant

import (
	"context"
	"fmt"
	"net/http"
)

// UpsertPointsRequest is PUT collections/{name}/points?wait=true.
// Existing points with the same id are replaced.
type UpsertPointsRequest struct {
	CollectionName string         `json:"-"`
	Records        []VectorRecord `json:"-"`
}

// NewUpsertPointsRequest writes records; tags are folded into each payload
// under PayloadTagsKey.
func NewUpsertPointsRequest(collectionName string, records []VectorRecord) *UpsertPointsRequest {
	return &UpsertPointsRequest{CollectionName: collectionName, Records: records}
}

// Build validates every record and fails on an empty batch.
func (r *UpsertPointsRequest) Build(ctx context.Context, server string) (*http.Request, error) {
	if err := validateCollectionName(r.CollectionName); err != nil {
		return nil, err
	}
	if len(r.Records) == 0 {
		return nil, fmt.Errorf("%w: no points to upsert", ErrInvalidArgument)
	}

	points := make([]pointStruct, len(r.Records))
	for i, rec := range r.Records {
		p, err := rec.toPointStruct()
		if err != nil {
			return nil, err
		}
		points[i] = p
	}

	u, err := operationURL(server, r.CollectionName, "/points", true)
	if err != nil {
		return nil, err
	}

	body := struct {
		Points []pointStruct `json:"points"`
	}{Points: points}
	return newRequest(ctx, http.MethodPut, u, body)
}

// GetPointsRequest is POST collections/{name}/points; it retrieves points by id.
type GetPointsRequest struct {
	CollectionName string    `json:"-"`
	IDs            []PointID `json:"ids"`
	WithPayload    bool      `json:"with_payload"`
	WithVector     bool      `json:"with_vector"`
}

// NewGetPointsRequest fetches ids with their payload, and their vectors when
// withVector is set.
func NewGetPointsRequest(collectionName string, ids []PointID, withVector bool) *GetPointsRequest {
	return &GetPointsRequest{
		CollectionName: collectionName,
		IDs:            ids,
		WithPayload:    true,
		WithVector:     withVector,
	}
}

// Build fails when no ids are given.
func (r *GetPointsRequest) Build(ctx context.Context, server string) (*http.Request, error) {
	if err := validateCollectionName(r.CollectionName); err != nil {
		return nil, err
	}
	if len(r.IDs) == 0 {
		return nil, fmt.Errorf("%w: no point ids given", ErrInvalidArgument)
	}
	u, err := operationURL(server, r.CollectionName, "/points", false)
	if err != nil {
		return nil, err
	}
	return newRequest(ctx, http.MethodPost, u, r)
}

// ScrollPointsRequest is POST collections/{name}/points/scroll; it pages
// through points matching a filter.
type ScrollPointsRequest struct {
	CollectionName string   `json:"-"`
	Filter         *Filter  `json:"filter,omitempty"`
	Limit          int      `json:"limit"`
	WithPayload    bool     `json:"with_payload"`
	WithVector     bool     `json:"with_vector"`
}

// NewScrollPointsRequest asks for the first limit points matching filter.
// An empty filter matches every point.
func NewScrollPointsRequest(collectionName string, filter *Filter, limit int, withVector bool) *ScrollPointsRequest {
	return &ScrollPointsRequest{
		CollectionName: collectionName,
		Filter:         wireFilter(filter),
		Limit:          limit,
		WithPayload:    true,
		WithVector:     withVector,
	}
}

// Build requires a positive limit.
func (r *ScrollPointsRequest) Build(ctx context.Context, server string) (*http.Request, error) {
	if err := validateCollectionName(r.CollectionName); err != nil {
		return nil, err
	}
	if r.Limit <= 0 {
		return nil, fmt.Errorf("%w: scroll limit must be greater than 0", ErrInvalidArgument)
	}
	u, err := operationURL(server, r.CollectionName, "/points/scroll", false)
	if err != nil {
		return nil, err
	}
	return newRequest(ctx, http.MethodPost, u, r)
}

// scrollResult is the result of a scroll request. Only the first page is
// read, so next_page_offset is ignored.
type scrollResult struct {
	Points []retrievedPoint `json:"points"`
}

// DeletePointsRequest is POST collections/{name}/points/delete?wait=true.
// It selects points either by id or by filter, never both.
type DeletePointsRequest struct {
	CollectionName string    `json:"-"`
	Points         []PointID `json:"points,omitempty"`
	Filter         *Filter   `json:"filter,omitempty"`
}

// NewDeletePointsRequest deletes points by id.
func NewDeletePointsRequest(collectionName string, ids []PointID) *DeletePointsRequest {
	return &DeletePointsRequest{CollectionName: collectionName, Points: ids}
}

// NewDeletePointsByFilterRequest deletes every point matching filter. An
// empty filter is rejected in Build rather than deleting the collection's
// contents.
func NewDeletePointsByFilterRequest(collectionName string, filter *Filter) *DeletePointsRequest {
	return &DeletePointsRequest{CollectionName: collectionName, Filter: wireFilter(filter)}
}

// Build requires exactly one selector: ids or a non-empty filter.
func (r *DeletePointsRequest) Build(ctx context.Context, server string) (*http.Request, error) {
	if err := validateCollectionName(r.CollectionName); err != nil {
		return nil, err
	}
	switch {
	case len(r.Points) == 0 && r.Filter == nil:
		return nil, fmt.Errorf("%w: delete needs point ids or a filter", ErrInvalidArgument)
	case len(r.Points) > 0 && r.Filter != nil:
		return nil, fmt.Errorf("%w: delete takes point ids or a filter, not both", ErrInvalidArgument)
	}
	u, err := operationURL(server, r.CollectionName, "/points/delete", true)
	if err != nil {
		return nil, err
	}
	return newRequest(ctx, http.MethodPost, u, r)
}

// updateResult is the result of every wait=true point mutation.
type updateResult struct {
	OperationID uint64 `json:"operation_id"`
	Status      string `json:"status"`
}
