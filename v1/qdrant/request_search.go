package qdrant

import (
	"context"
	"fmt"
	"math"
	"net/http"
)

// SearchPointsRequest is POST collections/{name}/points/search.
type SearchPointsRequest struct {
	CollectionName string    `json:"-"`
	Vector         []float32 `json:"vector"`
	Filter         *Filter   `json:"filter,omitempty"`
	Limit          int       `json:"limit"`
	Offset         int       `json:"offset,omitempty"`
	WithPayload    bool      `json:"with_payload"`
	WithVector     bool      `json:"with_vector"`
	ScoreThreshold *float64  `json:"score_threshold,omitempty"`
}

// NewSearchPointsRequest builds a search for the limit best hits after offset.
// A threshold of -Inf or NaN means no threshold.
func NewSearchPointsRequest(collectionName string, vector []float32, filter *Filter, limit, offset int, threshold float64, withVector bool) *SearchPointsRequest {
	r := &SearchPointsRequest{
		CollectionName: collectionName,
		Vector:         vector,
		Filter:         wireFilter(filter),
		Limit:          limit,
		Offset:         offset,
		WithPayload:    true,
		WithVector:     withVector,
	}
	if !math.IsInf(threshold, -1) && !math.IsNaN(threshold) {
		r.ScoreThreshold = &threshold
	}
	return r
}

// Build rejects an empty vector, a non-positive limit, a negative offset and
// an infinite threshold.
func (r *SearchPointsRequest) Build(ctx context.Context, server string) (*http.Request, error) {
	if err := validateCollectionName(r.CollectionName); err != nil {
		return nil, err
	}
	if len(r.Vector) == 0 {
		return nil, fmt.Errorf("%w: search vector cannot be empty", ErrInvalidArgument)
	}
	if r.Limit <= 0 {
		return nil, fmt.Errorf("%w: search limit must be greater than 0", ErrInvalidArgument)
	}
	if r.ScoreThreshold != nil && math.IsInf(*r.ScoreThreshold, 0) {
		return nil, fmt.Errorf("%w: score threshold must be finite", ErrInvalidArgument)
	}
	if r.Offset < 0 {
		return nil, fmt.Errorf("%w: search offset must not be negative", ErrInvalidArgument)
	}
	u, err := operationURL(server, r.CollectionName, "/points/search", false)
	if err != nil {
		return nil, err
	}
	return newRequest(ctx, http.MethodPost, u, r)
}
