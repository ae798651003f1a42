package qdrant

import (
	"context"
	"fmt"
	"net/http"
	"strings"
)

// CreateIndexRequest is PUT collections/{name}/index?wait=true. It declares
// a payload field as indexed so filters on it are efficient.
//
//	req := qdrant.NewCreateIndexRequest("docs", "category", qdrant.Keyword)
//	httpReq, err := req.Build(ctx, "http://localhost:6333")
//	// PUT http://localhost:6333/collections/docs/index?wait=true
//	// {"field_name":"category","field_schema":"keyword"}
type CreateIndexRequest struct {
	CollectionName string            `json:"-"`
	FieldName      string            `json:"field_name"`
	SchemaType     PayloadSchemaType `json:"field_schema"`
}

// NewCreateIndexRequest indexes fieldName of collectionName as schemaType.
// The schema is validated in Build.
func NewCreateIndexRequest(collectionName, fieldName string, schemaType PayloadSchemaType) *CreateIndexRequest {
	return &CreateIndexRequest{
		CollectionName: collectionName,
		FieldName:      fieldName,
		SchemaType:     schemaType,
	}
}

// Build fails with ErrUnsupportedValue when SchemaType has no wire value.
// SchemaType is serialized through PayloadSchemaType.MarshalText.
func (r *CreateIndexRequest) Build(ctx context.Context, server string) (*http.Request, error) {
	if err := validateCollectionName(r.CollectionName); err != nil {
		return nil, err
	}
	if strings.TrimSpace(r.FieldName) == "" {
		return nil, fmt.Errorf("%w: field name cannot be empty", ErrInvalidArgument)
	}
	if _, err := r.SchemaType.WireValue(); err != nil {
		return nil, err
	}

	u, err := operationURL(server, r.CollectionName, "/index", true)
	if err != nil {
		return nil, err
	}
	return newRequest(ctx, http.MethodPut, u, r)
}
