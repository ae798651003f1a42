package qdrant

import (
	"fmt"
	"strings"
)

// PayloadSchemaType is the type Qdrant uses to index a payload field.
// The zero value is PayloadSchemaTypeUnspecified and cannot be sent.
type PayloadSchemaType int

const (
	PayloadSchemaTypeUnspecified PayloadSchemaType = iota
	Keyword
	Integer
	Float
	Geo
	Text
)

// PayloadSchemaTypes lists every member that maps to a wire value.
var PayloadSchemaTypes = []PayloadSchemaType{Keyword, Integer, Float, Geo, Text}

// WireValue returns the lowercase field_schema string Qdrant expects.
// Any value outside the five defined members fails with ErrUnsupportedValue.
func (t PayloadSchemaType) WireValue() (string, error) {
	switch t {
	case Keyword:
		return "keyword", nil
	case Integer:
		return "integer", nil
	case Float:
		return "float", nil
	case Geo:
		return "geo", nil
	case Text:
		return "text", nil
	default:
		return "", fmt.Errorf("%w: payload schema type %d", ErrUnsupportedValue, int(t))
	}
}

// String implements fmt.Stringer.
func (t PayloadSchemaType) String() string {
	if s, err := t.WireValue(); err == nil {
		return s
	}
	return fmt.Sprintf("PayloadSchemaType(%d)", int(t))
}

// MarshalText implements encoding.TextMarshaler.
func (t PayloadSchemaType) MarshalText() ([]byte, error) {
	s, err := t.WireValue()
	if err != nil {
		return nil, err
	}
	return []byte(s), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (t *PayloadSchemaType) UnmarshalText(b []byte) error {
	parsed, err := ParsePayloadSchemaType(string(b))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// ParsePayloadSchemaType is the inverse of WireValue. Matching is case-insensitive.
func ParsePayloadSchemaType(s string) (PayloadSchemaType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "keyword":
		return Keyword, nil
	case "integer":
		return Integer, nil
	case "float":
		return Float, nil
	case "geo":
		return Geo, nil
	case "text":
		return Text, nil
	default:
		return PayloadSchemaTypeUnspecified, fmt.Errorf("%w: payload schema type %q", ErrUnsupportedValue, s)
	}
}

// Distance is the similarity metric of a collection's vectors.
type Distance int

const (
	DistanceUnspecified Distance = iota
	DistanceCosine
	DistanceDot
	DistanceEuclid
	DistanceManhattan
)

// WireValue returns the distance name Qdrant expects in collection params.
func (d Distance) WireValue() (string, error) {
	switch d {
	case DistanceCosine:
		return "Cosine", nil
	case DistanceDot:
		return "Dot", nil
	case DistanceEuclid:
		return "Euclid", nil
	case DistanceManhattan:
		return "Manhattan", nil
	default:
		return "", fmt.Errorf("%w: distance %d", ErrUnsupportedValue, int(d))
	}
}

// String returns the wire name, or Distance(n) for values outside the enum.
func (d Distance) String() string {
	if s, err := d.WireValue(); err == nil {
		return s
	}
	return fmt.Sprintf("Distance(%d)", int(d))
}

// MarshalText implements encoding.TextMarshaler. Values outside the enum
// fail with ErrUnsupportedValue.
func (d Distance) MarshalText() ([]byte, error) {
	s, err := d.WireValue()
	if err != nil {
		return nil, err
	}
	return []byte(s), nil
}

// UnmarshalText implements encoding.TextUnmarshaler using ParseDistance, so
// YAML and env config can name the metric.
func (d *Distance) UnmarshalText(b []byte) error {
	parsed, err := ParseDistance(string(b))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// ParseDistance accepts the wire names case-insensitively; "euclidean" is an
// alias for Euclid.
func ParseDistance(s string) (Distance, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "cosine":
		return DistanceCosine, nil
	case "dot":
		return DistanceDot, nil
	case "euclid", "euclidean":
		return DistanceEuclid, nil
	case "manhattan":
		return DistanceManhattan, nil
	default:
		return DistanceUnspecified, fmt.Errorf("%w: distance %q", ErrUnsupportedValue, s)
	}
}
