package qdrant

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/Aleph-Alpha/qdrant-connector/v1/vectordb"
	"golang.org/x/sync/errgroup"
)

const maxConcurrentSearches = 10

// Adapter exposes a QdrantClient as a vectordb.Service, so applications can
// depend on the database-agnostic contract.
//
//	var db vectordb.Service = qdrant.NewAdapter(client)
type Adapter struct {
	client *QdrantClient
}

var _ vectordb.Service = (*Adapter)(nil)

// NewAdapter wraps client.
func NewAdapter(client *QdrantClient) *Adapter {
	return &Adapter{client: client}
}

// Search runs the requests concurrently, at most maxConcurrentSearches at a
// time. results[i] belongs to requests[i]; a failed request leaves its slot
// nil and its error is joined into the returned error.
func (a *Adapter) Search(ctx context.Context, requests ...vectordb.SearchRequest) ([][]vectordb.SearchResult, error) {
	if len(requests) == 0 {
		return nil, fmt.Errorf("%w: at least one search request is required", ErrInvalidArgument)
	}

	results := make([][]vectordb.SearchResult, len(requests))
	errs := make([]error, len(requests))

	var g errgroup.Group
	g.SetLimit(maxConcurrentSearches)
	for i, req := range requests {
		g.Go(func() error {
			res, err := a.search(ctx, req)
			if err != nil {
				errs[i] = fmt.Errorf("request [%d]: %w", i, err)
				return nil
			}
			results[i] = res
			return nil
		})
	}
	_ = g.Wait()

	return results, errors.Join(errs...)
}

func (a *Adapter) search(ctx context.Context, req vectordb.SearchRequest) ([]vectordb.SearchResult, error) {
	if req.TopK <= 0 {
		return nil, fmt.Errorf("%w: topK must be greater than 0", ErrInvalidArgument)
	}

	opts := SearchOptions{
		Filter: convertFilterSet(req.Filters),
		Top:    req.TopK,
	}
	out := make([]vectordb.SearchResult, 0, req.TopK)
	for hit, err := range a.client.FindNearestInCollection(ctx, req.CollectionName, req.Vector, math.Inf(-1), opts) {
		if err != nil {
			return nil, err
		}
		out = append(out, vectordb.SearchResult{
			ID:             hit.Record.PointID,
			Score:          float32(hit.Score),
			Payload:        hit.Record.Payload,
			Vector:         hit.Record.Embedding,
			CollectionName: req.CollectionName,
		})
	}
	return out, nil
}

// Insert upserts inputs into collectionName.
func (a *Adapter) Insert(ctx context.Context, collectionName string, inputs []vectordb.EmbeddingInput) error {
	records := make([]VectorRecord, len(inputs))
	for i, in := range inputs {
		records[i] = VectorRecord{PointID: in.ID, Embedding: in.Vector, Payload: in.Payload}
	}
	return a.client.UpsertVectors(ctx, collectionName, records)
}

// Delete removes points by id.
func (a *Adapter) Delete(ctx context.Context, collectionName string, ids []string) error {
	return a.client.DeleteVectorsById(ctx, collectionName, ids)
}

// EnsureCollection creates name with vectorSize and the configured distance
// unless it exists. The size of an existing collection is not checked.
func (a *Adapter) EnsureCollection(ctx context.Context, name string, vectorSize uint64) error {
	exists, err := a.client.DoesCollectionExist(ctx, name)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}
	return a.client.createCollection(ctx, name, vectorSize, a.client.cfg.Distance)
}

// GetCollection returns collection metadata.
func (a *Adapter) GetCollection(ctx context.Context, name string) (*vectordb.Collection, error) {
	info, err := a.client.GetCollectionInfo(ctx, name)
	if err != nil {
		return nil, err
	}
	return &vectordb.Collection{
		Name:        info.Name,
		Status:      info.Status,
		VectorSize:  int(info.VectorSize),
		Distance:    info.Distance,
		PointCount:  info.PointsCount,
		VectorCount: info.IndexedVectorsCount,
	}, nil
}

// ListCollections collects all collection names.
func (a *Adapter) ListCollections(ctx context.Context) ([]string, error) {
	var names []string
	for name, err := range a.client.ListCollections(ctx) {
		if err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, nil
}

// ── Filter conversion ───────────────────────────────────────────────────────

// convertFilterSet translates a vectordb.FilterSet; nil and empty sets give nil.
func convertFilterSet(fs *vectordb.FilterSet) *Filter {
	if fs == nil {
		return nil
	}
	f := NewFilter()
	if fs.Must != nil {
		f.Must(convertConditionSet(fs.Must)...)
	}
	if fs.Should != nil {
		f.Should(convertConditionSet(fs.Should)...)
	}
	if fs.MustNot != nil {
		f.MustNot(convertConditionSet(fs.MustNot)...)
	}
	if f.IsEmpty() {
		return nil
	}
	return f
}

func convertConditionSet(cs *vectordb.ConditionSet) []FilterCondition {
	out := make([]FilterCondition, 0, len(cs.Conditions))
	for _, c := range cs.Conditions {
		if cond := convertCondition(c); cond != nil {
			out = append(out, cond)
		}
	}
	return out
}

func convertCondition(c vectordb.FilterCondition) FilterCondition {
	switch cond := c.(type) {
	case *vectordb.MatchCondition:
		v := matchValue(cond.Value)
		if v == nil {
			return nil
		}
		return MatchCondition{Key: vectordb.ResolveField(cond.Field, cond.FieldType), Value: v}
	case *vectordb.MatchAnyCondition:
		return MatchAnyCondition{Key: vectordb.ResolveField(cond.Field, cond.FieldType), Values: matchValues(cond.Values)}
	case *vectordb.MatchExceptCondition:
		return MatchExceptCondition{Key: vectordb.ResolveField(cond.Field, cond.FieldType), Values: matchValues(cond.Values)}
	case *vectordb.NumericRangeCondition:
		return RangeCondition{
			Key: vectordb.ResolveField(cond.Field, cond.FieldType),
			Range: Range{
				Gt:  cond.Range.Gt,
				Gte: cond.Range.Gte,
				Lt:  cond.Range.Lt,
				Lte: cond.Range.Lte,
			},
		}
	case *vectordb.IsNullCondition:
		return IsNullCondition{Key: vectordb.ResolveField(cond.Field, cond.FieldType)}
	case *vectordb.IsEmptyCondition:
		return IsEmptyCondition{Key: vectordb.ResolveField(cond.Field, cond.FieldType)}
	default:
		return nil
	}
}

// matchValue keeps the value types Qdrant can match exactly: keyword, integer
// and bool. Whole floats (as decoded from JSON) become integers.
func matchValue(v any) any {
	switch x := v.(type) {
	case string, bool, int64:
		return x
	case int:
		return int64(x)
	case int32:
		return int64(x)
	case float64:
		if x == math.Trunc(x) {
			return int64(x)
		}
		return nil
	default:
		return nil
	}
}

func matchValues(vs []any) []any {
	out := make([]any, 0, len(vs))
	for _, v := range vs {
		if m := matchValue(v); m != nil {
			out = append(out, m)
		}
	}
	return out
}
