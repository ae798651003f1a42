package qdrant

import (
	"context"
	"fmt"
	"net/http"
)

// OverwritePayloadRequest is PUT collections/{name}/points/payload?wait=true.
// The body has exactly two keys: "points" and "payload".
type OverwritePayloadRequest struct {
	CollectionName string    `json:"-"`
	Points         []PointID `json:"points"`
	Payload        any       `json:"payload"`
}

// NewOverwritePayloadRequest replaces the whole payload of points with
// payload. A nil payload clears it.
func NewOverwritePayloadRequest(collectionName string, points []PointID, payload any) *OverwritePayloadRequest {
	return &OverwritePayloadRequest{
		CollectionName: collectionName,
		Points:         points,
		Payload:        payload,
	}
}

// Build validates the point ids and always sends both body keys.
func (r *OverwritePayloadRequest) Build(ctx context.Context, server string) (*http.Request, error) {
	if err := validateCollectionName(r.CollectionName); err != nil {
		return nil, err
	}
	if len(r.Points) == 0 {
		return nil, fmt.Errorf("%w: no points to update", ErrInvalidArgument)
	}
	for _, id := range r.Points {
		if err := id.Validate(); err != nil {
			return nil, err
		}
	}

	u, err := operationURL(server, r.CollectionName, "/points/payload", true)
	if err != nil {
		return nil, err
	}

	body := *r
	if body.Payload == nil {
		body.Payload = map[string]any{}
	}
	return newRequest(ctx, http.MethodPut, u, body)
}
