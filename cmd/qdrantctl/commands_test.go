package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Aleph-Alpha/qdrant-connector/v1/qdrant"
)

type recorded struct {
	Method string
	Path   string
	Query  string
	Body   map[string]any
}

// fakeQdrant answers with canned results per "METHOD /path" and records every
// request it sees.
type fakeQdrant struct {
	mu       sync.Mutex
	requests []recorded
	results  map[string]any
}

func newFakeQdrant(t *testing.T, results map[string]any) (*fakeQdrant, *httptest.Server) {
	t.Helper()
	f := &fakeQdrant{results: results}
	srv := httptest.NewServer(http.HandlerFunc(f.serve))
	t.Cleanup(srv.Close)
	return f, srv
}

func (f *fakeQdrant) serve(w http.ResponseWriter, r *http.Request) {
	raw, _ := io.ReadAll(r.Body)
	body := map[string]any{}
	if len(raw) > 0 {
		_ = json.Unmarshal(raw, &body)
	}

	f.mu.Lock()
	f.requests = append(f.requests, recorded{Method: r.Method, Path: r.URL.Path, Query: r.URL.RawQuery, Body: body})
	result, ok := f.results[r.Method+" "+r.URL.Path]
	f.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	if !ok {
		w.WriteHeader(http.StatusNotFound)
		_, _ = fmt.Fprintf(w, `{"status":{"error":"Not found: %s"},"time":0.0}`, r.URL.Path)
		return
	}
	_ = json.NewEncoder(w).Encode(map[string]any{"result": result, "status": "ok", "time": 0.001})
}

func (f *fakeQdrant) last() recorded {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.requests[len(f.requests)-1]
}

func run(t *testing.T, srv *httptest.Server, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetArgs(append(args, "--endpoint", srv.URL))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	err := cmd.ExecuteContext(ctx)
	return out.String(), err
}

func TestCollectionsCommands(t *testing.T) {
	f, srv := newFakeQdrant(t, map[string]any{
		"GET /collections": map[string]any{"collections": []any{
			map[string]any{"name": "memories"},
			map[string]any{"name": "docs"},
		}},
		"PUT /collections/memories":    true,
		"DELETE /collections/memories": true,
		"GET /collections/memories": map[string]any{
			"status":                "green",
			"points_count":          3,
			"indexed_vectors_count": 3,
			"config": map[string]any{"params": map[string]any{
				"vectors": map[string]any{"size": 4, "distance": "Cosine"},
			}},
			"payload_schema": map[string]any{},
		},
	})

	t.Run("list", func(t *testing.T) {
		out, err := run(t, srv, "collections", "list")
		require.NoError(t, err)
		assert.Equal(t, "memories\ndocs\n", out)
	})

	t.Run("create with overrides", func(t *testing.T) {
		out, err := run(t, srv, "collections", "create", "memories", "--vector-size", "4", "--distance", "dot")
		require.NoError(t, err)
		assert.Contains(t, out, "created collection memories")

		req := f.last()
		assert.Equal(t, http.MethodPut, req.Method)
		assert.Equal(t, map[string]any{"size": float64(4), "distance": "Dot"}, req.Body["vectors"])
	})

	t.Run("create rejects unknown distance", func(t *testing.T) {
		_, err := run(t, srv, "collections", "create", "memories", "--distance", "hamming")
		assert.ErrorIs(t, err, qdrant.ErrInvalidArgument)
	})

	t.Run("exists", func(t *testing.T) {
		out, err := run(t, srv, "collections", "exists", "memories")
		require.NoError(t, err)
		assert.Equal(t, "true\n", out)

		out, err = run(t, srv, "collections", "exists", "missing")
		require.NoError(t, err)
		assert.Equal(t, "false\n", out)
	})

	t.Run("info", func(t *testing.T) {
		out, err := run(t, srv, "collections", "info", "memories")
		require.NoError(t, err)

		var info qdrant.CollectionInfo
		require.NoError(t, json.Unmarshal([]byte(out), &info))
		assert.Equal(t, "green", info.Status)
		assert.EqualValues(t, 3, info.PointsCount)
		assert.EqualValues(t, 4, info.VectorSize)
	})

	t.Run("delete", func(t *testing.T) {
		_, err := run(t, srv, "collections", "delete", "memories")
		require.NoError(t, err)
		assert.Equal(t, http.MethodDelete, f.last().Method)
	})
}

func TestIndexCreate(t *testing.T) {
	f, srv := newFakeQdrant(t, map[string]any{
		"PUT /collections/docs/index": map[string]any{"operation_id": 1, "status": "completed"},
	})

	out, err := run(t, srv, "index", "create", "docs", "category", "keyword")
	require.NoError(t, err)
	assert.Contains(t, out, "indexed docs.category")

	req := f.last()
	assert.Equal(t, "wait=true", req.Query)
	assert.Equal(t, "category", req.Body["field_name"])
	assert.Equal(t, "keyword", req.Body["field_schema"])

	_, err = run(t, srv, "index", "create", "docs", "category", "blob")
	assert.ErrorIs(t, err, qdrant.ErrUnsupportedValue)
}

func TestPointsUpsert(t *testing.T) {
	f, srv := newFakeQdrant(t, map[string]any{
		"PUT /collections/memories/points": map[string]any{"operation_id": 1, "status": "completed"},
	})

	path := filepath.Join(t.TempDir(), "points.json")
	require.NoError(t, os.WriteFile(path, []byte(`[
		{"id": 7, "vector": [0.1, 0.2], "payload": {"id": "note-7"}, "tags": ["a"]},
		{"id": "0b6c5e0e-4a4f-4f5e-9a4e-2f7d0d1d9c11", "vector": [0.3, 0.4]}
	]`), 0o600))

	out, err := run(t, srv, "points", "upsert", "memories", path)
	require.NoError(t, err)
	assert.Equal(t, "upserted 2 points into memories\n", out)

	points := f.last().Body["points"].([]any)
	require.Len(t, points, 2)
	first := points[0].(map[string]any)
	assert.Equal(t, float64(7), first["id"])
	assert.Equal(t, []any{"a"}, first["payload"].(map[string]any)[qdrant.PayloadTagsKey])
	assert.Equal(t, "0b6c5e0e-4a4f-4f5e-9a4e-2f7d0d1d9c11", points[1].(map[string]any)["id"])
}

func TestPointsUpsert_BadFile(t *testing.T) {
	_, srv := newFakeQdrant(t, nil)

	path := filepath.Join(t.TempDir(), "points.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"id": 1}`), 0o600))

	_, err := run(t, srv, "points", "upsert", "memories", path)
	assert.ErrorContains(t, err, "decode points")
}

func TestPointsGetAndDelete(t *testing.T) {
	f, srv := newFakeQdrant(t, map[string]any{
		"POST /collections/memories/points": []any{
			map[string]any{"id": 1, "payload": map[string]any{"id": "note-1", qdrant.PayloadTagsKey: []any{"x"}}},
		},
		"POST /collections/memories/points/scroll": map[string]any{
			"points":           []any{map[string]any{"id": 2, "payload": map[string]any{"id": "note-2"}}},
			"next_page_offset": nil,
		},
		"POST /collections/memories/points/delete": map[string]any{"operation_id": 2, "status": "completed"},
	})

	t.Run("by point id", func(t *testing.T) {
		out, err := run(t, srv, "points", "get", "memories", "1")
		require.NoError(t, err)

		var views []pointView
		require.NoError(t, json.Unmarshal([]byte(out), &views))
		require.Len(t, views, 1)
		assert.Equal(t, "1", views[0].ID)
		assert.Equal(t, []string{"x"}, views[0].Tags)
	})

	t.Run("by payload id", func(t *testing.T) {
		out, err := run(t, srv, "points", "get", "memories", "note-2", "--payload-id")
		require.NoError(t, err)
		assert.Contains(t, out, `"id": "2"`)
		assert.Equal(t, "/collections/memories/points/scroll", f.last().Path)
	})

	t.Run("delete by point id", func(t *testing.T) {
		out, err := run(t, srv, "points", "delete", "memories", "1", "2")
		require.NoError(t, err)
		assert.Equal(t, "deleted 2 points from memories\n", out)
		assert.Equal(t, []any{float64(1), float64(2)}, f.last().Body["points"])
	})

	t.Run("delete rejects bad id", func(t *testing.T) {
		_, err := run(t, srv, "points", "delete", "memories", "not-an-id")
		assert.ErrorIs(t, err, qdrant.ErrInvalidArgument)
	})
}

func TestSearch(t *testing.T) {
	f, srv := newFakeQdrant(t, map[string]any{
		"POST /collections/memories/points/search": []any{
			map[string]any{"id": 1, "score": 0.9, "payload": map[string]any{"id": "a"}},
			map[string]any{"id": 2, "score": 0.5, "payload": map[string]any{"id": "b"}},
		},
	})

	t.Run("threshold and filters", func(t *testing.T) {
		out, err := run(t, srv, "search", "memories",
			"--vector", "0.1,0.2",
			"--top", "5",
			"--threshold", "0.6",
			"--tag", "personal",
			"--match", "lang=en",
		)
		require.NoError(t, err)

		var hits []pointView
		require.NoError(t, json.Unmarshal([]byte(out), &hits))
		require.Len(t, hits, 1)
		assert.Equal(t, "1", hits[0].ID)
		require.NotNil(t, hits[0].Score)
		assert.InDelta(t, 0.9, *hits[0].Score, 1e-9)

		body := f.last().Body
		assert.InDelta(t, 0.6, body["score_threshold"], 1e-9)
		filter, _ := json.Marshal(body["filter"])
		assert.Contains(t, string(filter), `"lang"`)
		assert.Contains(t, string(filter), `"personal"`)
	})

	t.Run("no threshold", func(t *testing.T) {
		out, err := run(t, srv, "search", "memories", "--vector", "0.1,0.2")
		require.NoError(t, err)
		assert.Equal(t, 2, strings.Count(out, `"score"`))
		assert.NotContains(t, f.last().Body, "score_threshold")
	})

	t.Run("distance metric", func(t *testing.T) {
		out, err := run(t, srv, "search", "memories", "--vector", "0.1,0.2", "--distance", "euclid", "--threshold", "0.7")
		require.NoError(t, err)

		var hits []pointView
		require.NoError(t, json.Unmarshal([]byte(out), &hits))
		require.Len(t, hits, 1)
		assert.Equal(t, "2", hits[0].ID)
	})

	t.Run("vector required", func(t *testing.T) {
		_, err := run(t, srv, "search", "memories")
		assert.Error(t, err)
	})
}

func TestParseVector(t *testing.T) {
	v, err := parseVector(" 0.5, 1,-2 ")
	require.NoError(t, err)
	assert.Equal(t, []float32{0.5, 1, -2}, v)

	_, err = parseVector("")
	assert.Error(t, err)

	_, err = parseVector("1,x")
	assert.ErrorContains(t, err, `"x"`)
}

func TestParseMatch(t *testing.T) {
	tests := []struct {
		in   string
		want any
	}{
		{"n=42", int64(42)},
		{"ok=true", true},
		{"lang=en", "en"},
		{"empty=", ""},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			m, err := parseMatch(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, m.Value)
		})
	}

	_, err := parseMatch("novalue")
	assert.Error(t, err)
	_, err = parseMatch("=x")
	assert.Error(t, err)
}

func TestClientConfig(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		cfg, err := clientConfig(viper.New())
		require.NoError(t, err)
		assert.Equal(t, qdrant.DefaultConfig(), cfg)
	})

	t.Run("file and env", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "qdrantctl.yaml")
		require.NoError(t, os.WriteFile(path, []byte(
			"endpoint: http://qdrant:6333\nvector_size: 384\ndistance: euclid\npage_size: 20\ntimeout: 3s\n",
		), 0o600))
		t.Setenv("QDRANT_API_KEY", "secret")

		v := viper.New()
		require.NoError(t, readConfig(v, path))
		cfg, err := clientConfig(v)
		require.NoError(t, err)

		assert.Equal(t, "http://qdrant:6333", cfg.Endpoint)
		assert.Equal(t, "secret", cfg.ApiKey)
		assert.EqualValues(t, 384, cfg.VectorSize)
		assert.Equal(t, qdrant.DistanceEuclid, cfg.Distance)
		assert.Equal(t, 20, cfg.PageSize)
		assert.Equal(t, 3*time.Second, cfg.Timeout)
	})

	t.Run("explicit missing file", func(t *testing.T) {
		err := readConfig(viper.New(), filepath.Join(t.TempDir(), "nope.yaml"))
		assert.ErrorContains(t, err, "failed to read config file")
	})

	t.Run("bad distance", func(t *testing.T) {
		v := viper.New()
		v.Set("distance", "hamming")
		_, err := clientConfig(v)
		assert.ErrorIs(t, err, qdrant.ErrUnsupportedValue)
	})
}
