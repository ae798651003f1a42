package qdrant

import (
	"context"
	"fmt"
	"maps"
)

// CreateCollection creates collectionName with the configured vector size and
// distance.
func (c *QdrantClient) CreateCollection(ctx context.Context, collectionName string) error {
	return c.createCollection(ctx, collectionName, c.cfg.VectorSize, c.cfg.Distance)
}

func (c *QdrantClient) createCollection(ctx context.Context, collectionName string, vectorSize uint64, distance Distance) error {
	var created bool
	op := call{operation: "create_collection", collection: collectionName}
	if _, err := c.send(ctx, op, NewCreateCollectionRequest(collectionName, vectorSize, distance), &created); err != nil {
		return fmt.Errorf("create collection %q: %w", collectionName, err)
	}
	c.logger.Info("collection created", nil, map[string]interface{}{
		"collection":  collectionName,
		"vector_size": vectorSize,
		"distance":    distance.String(),
	})
	return nil
}

// DeleteCollection deletes collectionName; a missing collection is not an error.
func (c *QdrantClient) DeleteCollection(ctx context.Context, collectionName string) error {
	var deleted bool
	op := call{operation: "delete_collection", collection: collectionName}
	if _, err := c.send(ctx, op, NewDeleteCollectionRequest(collectionName), &deleted); err != nil {
		if IsNotFound(err) {
			c.logger.Debug("collection already absent", nil, op.fields())
			return nil
		}
		return fmt.Errorf("delete collection %q: %w", collectionName, err)
	}
	c.logger.Info("collection deleted", nil, op.fields())
	return nil
}

// DoesCollectionExist maps 200 to true and 404 to false.
func (c *QdrantClient) DoesCollectionExist(ctx context.Context, collectionName string) (bool, error) {
	op := call{operation: "collection_exists", collection: collectionName}
	if _, err := c.send(ctx, op, NewGetCollectionRequest(collectionName), nil); err != nil {
		if IsNotFound(err) {
			return false, nil
		}
		return false, fmt.Errorf("check collection %q: %w", collectionName, err)
	}
	return true, nil
}

// GetCollectionInfo returns status, counts, vector params and indexed fields.
func (c *QdrantClient) GetCollectionInfo(ctx context.Context, collectionName string) (*CollectionInfo, error) {
	var result collectionInfoResult
	op := call{operation: "get_collection", collection: collectionName}
	if _, err := c.send(ctx, op, NewGetCollectionRequest(collectionName), &result); err != nil {
		return nil, fmt.Errorf("get collection %q: %w", collectionName, err)
	}
	return result.toCollectionInfo(collectionName), nil
}

// CreateIndex declares fieldName as an indexed payload field.
func (c *QdrantClient) CreateIndex(ctx context.Context, collectionName, fieldName string, schemaType PayloadSchemaType) error {
	var result updateResult
	op := call{operation: "create_index", collection: collectionName}
	if _, err := c.send(ctx, op, NewCreateIndexRequest(collectionName, fieldName, schemaType), &result); err != nil {
		return fmt.Errorf("create index %q on %q: %w", fieldName, collectionName, err)
	}
	c.logger.Info("payload index created", nil, op.fields(), map[string]interface{}{
		"field":  fieldName,
		"schema": schemaType.String(),
	})
	return nil
}

// UpsertVectors writes all records in one request and waits until Qdrant has
// applied it. An empty slice is a no-op.
func (c *QdrantClient) UpsertVectors(ctx context.Context, collectionName string, records []VectorRecord) error {
	if len(records) == 0 {
		return nil
	}
	var result updateResult
	op := call{operation: "upsert_points", collection: collectionName, size: int64(len(records))}
	if _, err := c.send(ctx, op, NewUpsertPointsRequest(collectionName, records), &result); err != nil {
		return fmt.Errorf("upsert %d points into %q: %w", len(records), collectionName, err)
	}
	return nil
}

// OverwriteFilterable sets the PayloadFilterableKey field of pointID to
// filterable and keeps every other payload key, PayloadIDKey and
// PayloadTagsKey included. A nil filterable removes the field.
//
// Qdrant's PUT payload replaces the whole payload, so the current payload is
// read first and written back with the new field. The read and the write are
// two requests; a concurrent writer to the same point can be lost in between.
// A missing point is reported as ErrNotFound.
func (c *QdrantClient) OverwriteFilterable(ctx context.Context, collectionName, pointID string, filterable any) error {
	id := PointID(pointID)
	if err := id.Validate(); err != nil {
		return err
	}

	var points []retrievedPoint
	getOp := call{operation: "get_points", collection: collectionName, size: 1}
	if _, err := c.send(ctx, getOp, NewGetPointsRequest(collectionName, []PointID{id}, false), &points); err != nil {
		return fmt.Errorf("overwrite payload of point %q in %q: %w", pointID, collectionName, err)
	}
	if len(points) == 0 {
		return fmt.Errorf("overwrite payload of point %q in %q: %w", pointID, collectionName, ErrNotFound)
	}

	payload := maps.Clone(points[0].Payload)
	if payload == nil {
		payload = make(map[string]any, 1)
	}
	if filterable == nil {
		delete(payload, PayloadFilterableKey)
	} else {
		payload[PayloadFilterableKey] = filterable
	}

	var result updateResult
	op := call{operation: "overwrite_payload", collection: collectionName, size: 1}
	if _, err := c.send(ctx, op, NewOverwritePayloadRequest(collectionName, []PointID{id}, payload), &result); err != nil {
		return fmt.Errorf("overwrite payload of point %q in %q: %w", pointID, collectionName, err)
	}
	return nil
}

// DeleteVectorsById deletes the given points. An empty slice is a no-op.
func (c *QdrantClient) DeleteVectorsById(ctx context.Context, collectionName string, pointIDs []string) error {
	if len(pointIDs) == 0 {
		return nil
	}
	ids, err := toPointIDs(pointIDs)
	if err != nil {
		return err
	}
	var result updateResult
	op := call{operation: "delete_points", collection: collectionName, size: int64(len(ids))}
	if _, err := c.send(ctx, op, NewDeletePointsRequest(collectionName, ids), &result); err != nil {
		return fmt.Errorf("delete %d points from %q: %w", len(ids), collectionName, err)
	}
	return nil
}

// GetVectorByPayloadId scrolls for the first point whose payload "id" equals
// metadataID. A missing point or collection yields (nil, nil).
func (c *QdrantClient) GetVectorByPayloadId(ctx context.Context, collectionName, metadataID string, withVector bool) (*VectorRecord, error) {
	if metadataID == "" {
		return nil, fmt.Errorf("%w: metadata id cannot be empty", ErrInvalidArgument)
	}

	filter := NewFilter().Must(MatchCondition{Key: PayloadIDKey, Value: metadataID})
	var result scrollResult
	op := call{operation: "get_point_by_payload_id", collection: collectionName}
	if _, err := c.send(ctx, op, NewScrollPointsRequest(collectionName, filter, 1, withVector), &result); err != nil {
		if IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get point by payload id %q from %q: %w", metadataID, collectionName, err)
	}
	if len(result.Points) == 0 {
		return nil, nil
	}

	rec, err := result.Points[0].toRecord()
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// DeleteVectorByPayloadId deletes the points whose payload "id" equals
// metadataID with a single filtered delete. Nothing happens when no such point
// or collection exists.
func (c *QdrantClient) DeleteVectorByPayloadId(ctx context.Context, collectionName, metadataID string) error {
	if metadataID == "" {
		return fmt.Errorf("%w: metadata id cannot be empty", ErrInvalidArgument)
	}

	filter := NewFilter().Must(MatchCondition{Key: PayloadIDKey, Value: metadataID})
	var result updateResult
	op := call{operation: "delete_point_by_payload_id", collection: collectionName}
	if _, err := c.send(ctx, op, NewDeletePointsByFilterRequest(collectionName, filter), &result); err != nil {
		if IsNotFound(err) {
			c.logger.Debug("collection absent, nothing to delete", nil, op.fields(), map[string]interface{}{
				"payload_id": metadataID,
			})
			return nil
		}
		return fmt.Errorf("delete point by payload id %q from %q: %w", metadataID, collectionName, err)
	}
	return nil
}
