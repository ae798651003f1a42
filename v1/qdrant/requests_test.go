package qdrant

import (
	"context"
	"encoding/json"
	"io"
	"math"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testServer = "http://localhost:6333"

func readBody(t *testing.T, req *http.Request) map[string]any {
	t.Helper()
	require.NotNil(t, req.Body)
	raw, err := io.ReadAll(req.Body)
	require.NoError(t, err)
	var body map[string]any
	require.NoError(t, json.Unmarshal(raw, &body))
	return body
}

func TestCreateIndexRequest_Build(t *testing.T) {
	req, err := NewCreateIndexRequest("docs", "category", Keyword).Build(context.Background(), testServer)
	require.NoError(t, err)

	assert.Equal(t, http.MethodPut, req.Method)
	assert.Equal(t, "http://localhost:6333/collections/docs/index?wait=true", req.URL.String())
	assert.Equal(t, "application/json", req.Header.Get("Content-Type"))

	raw, err := io.ReadAll(req.Body)
	require.NoError(t, err)
	assert.JSONEq(t, `{"field_name":"category","field_schema":"keyword"}`, string(raw))
	assert.NotContains(t, string(raw), "docs")
}

func TestCreateIndexRequest_BuildRejects(t *testing.T) {
	tests := []struct {
		name string
		req  *CreateIndexRequest
	}{
		{"empty collection", NewCreateIndexRequest("", "category", Keyword)},
		{"empty field", NewCreateIndexRequest("docs", " ", Keyword)},
		{"unspecified schema", NewCreateIndexRequest("docs", "category", PayloadSchemaTypeUnspecified)},
		{"out of range schema", NewCreateIndexRequest("docs", "category", PayloadSchemaType(42))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, err := tt.req.Build(context.Background(), testServer)
			assert.Nil(t, req)
			assert.ErrorIs(t, err, ErrInvalidArgument)
		})
	}
}

func TestCreateIndexRequest_OutOfRangeIsUnsupported(t *testing.T) {
	_, err := NewCreateIndexRequest("docs", "category", PayloadSchemaType(-1)).Build(context.Background(), testServer)
	assert.ErrorIs(t, err, ErrUnsupportedValue)
}

func TestOverwritePayloadRequest_Build(t *testing.T) {
	req, err := NewOverwritePayloadRequest("docs", []PointID{"7"}, map[string]any{"lang": "en"}).
		Build(context.Background(), testServer)
	require.NoError(t, err)

	assert.Equal(t, http.MethodPut, req.Method)
	assert.Equal(t, "/collections/docs/points/payload", req.URL.Path)
	assert.Equal(t, "true", req.URL.Query().Get("wait"))

	body := readBody(t, req)
	assert.Len(t, body, 2)
	assert.Equal(t, []any{float64(7)}, body["points"])
	assert.Equal(t, map[string]any{"lang": "en"}, body["payload"])
}

func TestOverwritePayloadRequest_NilPayloadIsEmptyObject(t *testing.T) {
	req, err := NewOverwritePayloadRequest("docs", []PointID{"7"}, nil).Build(context.Background(), testServer)
	require.NoError(t, err)

	body := readBody(t, req)
	assert.Equal(t, map[string]any{}, body["payload"])
}

func TestOverwritePayloadRequest_RejectsInvalidPoint(t *testing.T) {
	_, err := NewOverwritePayloadRequest("docs", []PointID{"not-an-id"}, nil).Build(context.Background(), testServer)
	assert.ErrorIs(t, err, ErrInvalidArgument)

	_, err = NewOverwritePayloadRequest("docs", nil, nil).Build(context.Background(), testServer)
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestCreateCollectionRequest_Build(t *testing.T) {
	req, err := NewCreateCollectionRequest("docs", 4, DistanceDot).Build(context.Background(), testServer)
	require.NoError(t, err)

	assert.Equal(t, http.MethodPut, req.Method)
	assert.Equal(t, "http://localhost:6333/collections/docs", req.URL.String())

	raw, err := io.ReadAll(req.Body)
	require.NoError(t, err)
	assert.JSONEq(t, `{"vectors":{"size":4,"distance":"Dot"}}`, string(raw))

	_, err = NewCreateCollectionRequest("docs", 0, DistanceDot).Build(context.Background(), testServer)
	assert.ErrorIs(t, err, ErrInvalidArgument)

	_, err = NewCreateCollectionRequest("docs", 4, DistanceUnspecified).Build(context.Background(), testServer)
	assert.ErrorIs(t, err, ErrUnsupportedValue)
}

func TestCollectionRequests_EscapeName(t *testing.T) {
	req, err := NewDeleteCollectionRequest("my docs/v1").Build(context.Background(), testServer)
	require.NoError(t, err)

	assert.Equal(t, http.MethodDelete, req.Method)
	assert.Equal(t, "/collections/my%20docs%2Fv1", req.URL.EscapedPath())
}

func TestRequests_ServerWithPathPrefix(t *testing.T) {
	req, err := NewGetCollectionRequest("docs").Build(context.Background(), "https://proxy.example.com/qdrant")
	require.NoError(t, err)
	assert.Equal(t, "https://proxy.example.com/qdrant/collections/docs", req.URL.String())

	req, err = NewListCollectionsRequest().Build(context.Background(), "https://proxy.example.com/qdrant/")
	require.NoError(t, err)
	assert.Equal(t, http.MethodGet, req.Method)
	assert.Equal(t, "https://proxy.example.com/qdrant/collections", req.URL.String())
	assert.Nil(t, req.Body)
}

func TestUpsertPointsRequest_Build(t *testing.T) {
	records := []VectorRecord{
		{PointID: "1", Embedding: []float32{0.5, 1}, Payload: map[string]any{"id": "a"}, Tags: []string{"x"}},
		{PointID: "5c56c793-69f3-4fbf-87e6-c4bf54c28c26", Embedding: []float32{1, 0}},
	}
	req, err := NewUpsertPointsRequest("docs", records).Build(context.Background(), testServer)
	require.NoError(t, err)

	assert.Equal(t, http.MethodPut, req.Method)
	assert.Equal(t, "http://localhost:6333/collections/docs/points?wait=true", req.URL.String())

	raw, err := io.ReadAll(req.Body)
	require.NoError(t, err)
	assert.JSONEq(t, `{"points":[
		{"id":1,"vector":[0.5,1],"payload":{"id":"a","external_tags":["x"]}},
		{"id":"5c56c793-69f3-4fbf-87e6-c4bf54c28c26","vector":[1,0]}
	]}`, string(raw))

	assert.NotContains(t, records[0].Payload, PayloadTagsKey, "caller payload must not be modified")
}

func TestUpsertPointsRequest_BuildRejects(t *testing.T) {
	_, err := NewUpsertPointsRequest("docs", nil).Build(context.Background(), testServer)
	assert.ErrorIs(t, err, ErrInvalidArgument)

	_, err = NewUpsertPointsRequest("docs", []VectorRecord{{PointID: "1"}}).Build(context.Background(), testServer)
	assert.ErrorIs(t, err, ErrInvalidArgument)

	_, err = NewUpsertPointsRequest("docs", []VectorRecord{{PointID: "-3", Embedding: []float32{1}}}).
		Build(context.Background(), testServer)
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestGetPointsRequest_Build(t *testing.T) {
	req, err := NewGetPointsRequest("docs", []PointID{"1", "2"}, true).Build(context.Background(), testServer)
	require.NoError(t, err)

	assert.Equal(t, http.MethodPost, req.Method)
	assert.Equal(t, "/collections/docs/points", req.URL.Path)
	assert.Empty(t, req.URL.RawQuery)

	raw, err := io.ReadAll(req.Body)
	require.NoError(t, err)
	assert.JSONEq(t, `{"ids":[1,2],"with_payload":true,"with_vector":true}`, string(raw))
}

func TestScrollPointsRequest_Build(t *testing.T) {
	filter := NewFilter().Must(MatchCondition{Key: PayloadIDKey, Value: "note-1"})
	req, err := NewScrollPointsRequest("docs", filter, 1, false).Build(context.Background(), testServer)
	require.NoError(t, err)

	assert.Equal(t, "/collections/docs/points/scroll", req.URL.Path)
	raw, err := io.ReadAll(req.Body)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"filter":{"must":[{"key":"id","match":{"value":"note-1"}}]},
		"limit":1,"with_payload":true,"with_vector":false
	}`, string(raw))
}

func TestDeletePointsRequest_Build(t *testing.T) {
	req, err := NewDeletePointsRequest("docs", []PointID{"3"}).Build(context.Background(), testServer)
	require.NoError(t, err)

	assert.Equal(t, http.MethodPost, req.Method)
	assert.Equal(t, "http://localhost:6333/collections/docs/points/delete?wait=true", req.URL.String())
	raw, err := io.ReadAll(req.Body)
	require.NoError(t, err)
	assert.JSONEq(t, `{"points":[3]}`, string(raw))

	filter := NewFilter().Must(MatchCondition{Key: "lang", Value: "de"})
	req, err = NewDeletePointsByFilterRequest("docs", filter).Build(context.Background(), testServer)
	require.NoError(t, err)
	raw, err = io.ReadAll(req.Body)
	require.NoError(t, err)
	assert.JSONEq(t, `{"filter":{"must":[{"key":"lang","match":{"value":"de"}}]}}`, string(raw))
}

func TestDeletePointsRequest_NeedsExactlyOneSelector(t *testing.T) {
	_, err := NewDeletePointsRequest("docs", nil).Build(context.Background(), testServer)
	assert.ErrorIs(t, err, ErrInvalidArgument)

	_, err = NewDeletePointsByFilterRequest("docs", NewFilter()).Build(context.Background(), testServer)
	assert.ErrorIs(t, err, ErrInvalidArgument)

	both := &DeletePointsRequest{
		CollectionName: "docs",
		Points:         []PointID{"1"},
		Filter:         NewFilter().Must(IsNullCondition{Key: "lang"}),
	}
	_, err = both.Build(context.Background(), testServer)
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestSearchPointsRequest_Build(t *testing.T) {
	filter := NewFilter().RequireTags("a")
	req, err := NewSearchPointsRequest("docs", []float32{1, 0}, filter, 5, 10, 0.25, false).
		Build(context.Background(), testServer)
	require.NoError(t, err)

	assert.Equal(t, http.MethodPost, req.Method)
	assert.Equal(t, "/collections/docs/points/search", req.URL.Path)

	raw, err := io.ReadAll(req.Body)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"vector":[1,0],
		"filter":{"must":[{"key":"external_tags","match":{"value":"a"}}]},
		"limit":5,"offset":10,
		"with_payload":true,"with_vector":false,
		"score_threshold":0.25
	}`, string(raw))
}

func TestSearchPointsRequest_Threshold(t *testing.T) {
	t.Run("negative infinity omits threshold", func(t *testing.T) {
		req, err := NewSearchPointsRequest("docs", []float32{1}, nil, 1, 0, math.Inf(-1), false).
			Build(context.Background(), testServer)
		require.NoError(t, err)
		body := readBody(t, req)
		assert.NotContains(t, body, "score_threshold")
		assert.NotContains(t, body, "filter")
		assert.NotContains(t, body, "offset")
	})

	t.Run("NaN omits threshold", func(t *testing.T) {
		r := NewSearchPointsRequest("docs", []float32{1}, nil, 1, 0, math.NaN(), false)
		assert.Nil(t, r.ScoreThreshold)
	})

	t.Run("positive infinity is rejected", func(t *testing.T) {
		_, err := NewSearchPointsRequest("docs", []float32{1}, nil, 1, 0, math.Inf(1), false).
			Build(context.Background(), testServer)
		assert.ErrorIs(t, err, ErrInvalidArgument)
	})
}

func TestSearchPointsRequest_BuildRejects(t *testing.T) {
	tests := []struct {
		name string
		req  *SearchPointsRequest
	}{
		{"empty vector", NewSearchPointsRequest("docs", nil, nil, 1, 0, 0, false)},
		{"zero limit", NewSearchPointsRequest("docs", []float32{1}, nil, 0, 0, 0, false)},
		{"negative offset", NewSearchPointsRequest("docs", []float32{1}, nil, 1, -1, 0, false)},
		{"empty collection", NewSearchPointsRequest("", []float32{1}, nil, 1, 0, 0, false)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.req.Build(context.Background(), testServer)
			assert.ErrorIs(t, err, ErrInvalidArgument)
		})
	}
}
