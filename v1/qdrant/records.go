package qdrant

import (
	"bytes"
	"encoding/json"
	"fmt"
	"maps"
)

// Reserved payload keys.
const (
	// PayloadIDKey holds the caller's own unique id of a record. It is what
	// GetVectorByPayloadId and DeleteVectorByPayloadId look up.
	PayloadIDKey = "id"

	// PayloadTagsKey holds VectorRecord.Tags. Required tags in a search are
	// matched against it.
	PayloadTagsKey = "external_tags"

	// PayloadFilterableKey holds the value written by OverwriteFilterable.
	// Index its nested fields as "filterable.<field>".
	PayloadFilterableKey = "filterable"
)

// VectorRecord is one point: id, embedding and payload.
type VectorRecord struct {
	// PointID is an unsigned integer or a UUID, assigned by the caller.
	PointID string

	// Embedding is the vector. It is empty when a read did not ask for vectors.
	Embedding []float32

	// Payload is arbitrary JSON-compatible metadata.
	Payload map[string]any

	// Tags are stored in the payload under PayloadTagsKey.
	Tags []string
}

// ScoredRecord is a search hit. For Cosine and Dot a higher Score means more
// similar; for Euclid and Manhattan Score is a distance and lower is closer.
type ScoredRecord struct {
	Record VectorRecord
	Score  float64
}

// CollectionInfo summarizes GET collections/{name}.
type CollectionInfo struct {
	Name                string
	Status              string
	PointsCount         uint64
	IndexedVectorsCount uint64
	VectorSize          uint64
	Distance            string
	PayloadSchema       map[string]string
}

// pointStruct is the upsert wire shape of a point.
type pointStruct struct {
	ID      PointID        `json:"id"`
	Vector  []float32      `json:"vector"`
	Payload map[string]any `json:"payload,omitempty"`
}

// retrievedPoint is the read wire shape returned by points, scroll and search.
type retrievedPoint struct {
	ID      PointID         `json:"id"`
	Version uint64          `json:"version,omitempty"`
	Score   float64         `json:"score,omitempty"`
	Payload map[string]any  `json:"payload"`
	Vector  json.RawMessage `json:"vector,omitempty"`
}

// toPointStruct validates r and folds its tags into a copy of the payload.
func (r VectorRecord) toPointStruct() (pointStruct, error) {
	id := PointID(r.PointID)
	if err := id.Validate(); err != nil {
		return pointStruct{}, err
	}
	if len(r.Embedding) == 0 {
		return pointStruct{}, fmt.Errorf("%w: point %q has no embedding", ErrInvalidArgument, r.PointID)
	}

	var payload map[string]any
	if len(r.Payload) > 0 || len(r.Tags) > 0 {
		payload = maps.Clone(r.Payload)
		if payload == nil {
			payload = make(map[string]any, 1)
		}
		if len(r.Tags) > 0 {
			payload[PayloadTagsKey] = r.Tags
		}
	}

	return pointStruct{ID: id, Vector: r.Embedding, Payload: payload}, nil
}

// toRecord converts a read point into a VectorRecord.
func (p retrievedPoint) toRecord() (VectorRecord, error) {
	vector, err := decodeVector(p.Vector)
	if err != nil {
		return VectorRecord{}, fmt.Errorf("%w: point %s: %v", ErrDecode, string(p.ID), err)
	}
	return VectorRecord{
		PointID:   string(p.ID),
		Embedding: vector,
		Payload:   p.Payload,
		Tags:      tagsFromPayload(p.Payload),
	}, nil
}

// decodeVector handles the unnamed-vector array form and the single named
// vector object form. Null and absent vectors yield nil.
func decodeVector(raw json.RawMessage) ([]float32, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil, nil
	}

	switch raw[0] {
	case '[':
		var v []float32
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, err
		}
		return v, nil
	case '{':
		var named map[string]json.RawMessage
		if err := json.Unmarshal(raw, &named); err != nil {
			return nil, err
		}
		if v, ok := named[""]; ok {
			return decodeVector(v)
		}
		if len(named) == 1 {
			for _, v := range named {
				return decodeVector(v)
			}
		}
		return nil, fmt.Errorf("ambiguous named vectors (%d)", len(named))
	default:
		return nil, fmt.Errorf("unexpected vector encoding %q", raw[:1])
	}
}

func tagsFromPayload(payload map[string]any) []string {
	raw, ok := payload[PayloadTagsKey].([]any)
	if !ok {
		return nil
	}
	tags := make([]string, 0, len(raw))
	for _, v := range raw {
		if s, ok := v.(string); ok {
			tags = append(tags, s)
		}
	}
	return tags
}
