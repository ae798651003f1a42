package qdrant

import (
	"cmp"
	"context"
	"fmt"
	"iter"
	"math"
	"slices"
)

// ListCollections yields collection names. Cancelling ctx stops the sequence
// with a cancellation error.
func (c *QdrantClient) ListCollections(ctx context.Context) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		var result listCollectionsResult
		if _, err := c.send(ctx, call{operation: "list_collections"}, NewListCollectionsRequest(), &result); err != nil {
			yield("", fmt.Errorf("list collections: %w", err))
			return
		}

		for _, col := range result.Collections {
			if err := ctx.Err(); err != nil {
				yield("", cancelledError(err))
				return
			}
			if !yield(col.Name, nil) {
				return
			}
		}
	}
}

// GetVectorsById yields the stored points among pointIDs. Ids are requested
// Config.PageSize at a time, and the next page is requested only once the
// caller has consumed the previous one. Unknown ids are skipped by Qdrant.
func (c *QdrantClient) GetVectorsById(ctx context.Context, collectionName string, pointIDs []string, withVectors bool) iter.Seq2[VectorRecord, error] {
	return func(yield func(VectorRecord, error) bool) {
		ids, err := toPointIDs(pointIDs)
		if err != nil {
			yield(VectorRecord{}, err)
			return
		}

		pageSize := c.cfg.pageSize()
		for start := 0; start < len(ids); start += pageSize {
			page := ids[start:min(start+pageSize, len(ids))]

			var points []retrievedPoint
			op := call{operation: "get_points", collection: collectionName, size: int64(len(page))}
			if _, err := c.send(ctx, op, NewGetPointsRequest(collectionName, page, withVectors), &points); err != nil {
				yield(VectorRecord{}, fmt.Errorf("get points from %q: %w", collectionName, err))
				return
			}

			for _, p := range points {
				if err := ctx.Err(); err != nil {
					yield(VectorRecord{}, cancelledError(err))
					return
				}
				rec, err := p.toRecord()
				if err != nil {
					yield(VectorRecord{}, err)
					return
				}
				if !yield(rec, nil) {
					return
				}
			}
		}
	}
}

// FindNearestInCollection yields at most opts.Top hits, best first, each
// within threshold. For Cosine and Dot a hit is within threshold when its
// score is at least threshold; for Euclid and Manhattan the score is a
// distance and must be at most threshold. The metric is opts.Distance, or
// Config.Distance when that is unspecified. Qdrant applies the threshold
// before its limit (score_threshold) and it is checked again here. Pass
// math.Inf(-1) to disable it.
//
// Hits are fetched in pages of up to Config.PageSize using offsets; a page is
// requested only when the caller has consumed the previous one.
func (c *QdrantClient) FindNearestInCollection(ctx context.Context, collectionName string, target []float32, threshold float64, opts SearchOptions) iter.Seq2[ScoredRecord, error] {
	return func(yield func(ScoredRecord, error) bool) {
		if len(target) == 0 {
			yield(ScoredRecord{}, fmt.Errorf("%w: search vector cannot be empty", ErrInvalidArgument))
			return
		}

		top := max(opts.Top, 1)
		filter := opts.Filter.Clone().RequireTags(opts.RequiredTags...)
		pageSize := c.cfg.pageSize()

		distance := opts.Distance
		if distance == DistanceUnspecified {
			distance = c.cfg.Distance
		}
		order := orderFor(distance)
		hasThreshold := !math.IsInf(threshold, -1) && !math.IsNaN(threshold)

		offset, yielded := 0, 0
		var last float64
		for yielded < top {
			limit := min(top-yielded, pageSize)

			var hits []retrievedPoint
			op := call{operation: "search", collection: collectionName, size: int64(limit)}
			req := NewSearchPointsRequest(collectionName, target, filter, limit, offset, threshold, opts.WithVectors)
			if _, err := c.send(ctx, op, req, &hits); err != nil {
				yield(ScoredRecord{}, fmt.Errorf("search %q: %w", collectionName, err))
				return
			}

			slices.SortStableFunc(hits, func(a, b retrievedPoint) int {
				return order.compare(a.Score, b.Score)
			})

			for _, h := range hits {
				if hasThreshold && order.better(threshold, h.Score) {
					return
				}
				// Points written between page fetches can outrank hits
				// already yielded; skipping them keeps the order.
				if yielded > 0 && order.better(h.Score, last) {
					continue
				}
				if err := ctx.Err(); err != nil {
					yield(ScoredRecord{}, cancelledError(err))
					return
				}

				rec, err := h.toRecord()
				if err != nil {
					yield(ScoredRecord{}, err)
					return
				}
				if !yield(ScoredRecord{Record: rec, Score: h.Score}, nil) {
					return
				}
				last = h.Score
				yielded++
				if yielded >= top {
					return
				}
			}

			if len(hits) < limit {
				return
			}
			offset += len(hits)
		}
	}
}

// scoreOrder ranks search hits. Cosine and Dot scores grow with similarity;
// Euclid and Manhattan scores are distances and shrink with it.
type scoreOrder struct {
	ascending bool
}

func orderFor(d Distance) scoreOrder {
	return scoreOrder{ascending: d == DistanceEuclid || d == DistanceManhattan}
}

// better reports whether score a ranks strictly ahead of score b.
func (o scoreOrder) better(a, b float64) bool {
	if o.ascending {
		return a < b
	}
	return a > b
}

// compare sorts best first.
func (o scoreOrder) compare(a, b float64) int {
	if o.ascending {
		return cmp.Compare(a, b)
	}
	return cmp.Compare(b, a)
}
