package qdrant

import (
	"encoding/json"
)

// FilterCondition is anything that contributes conditions to a Filter clause.
// Conditions that cannot produce a valid predicate (e.g. a range with no
// bounds) return nil and are dropped.
type FilterCondition interface {
	Conditions() []Condition
}

// Condition is the Qdrant wire form of a single predicate.
// Exactly one of the predicate fields is set.
type Condition struct {
	Key            string          `json:"key,omitempty"`
	Match          *Match          `json:"match,omitempty"`
	Range          *Range          `json:"range,omitempty"`
	GeoBoundingBox *GeoBoundingBox `json:"geo_bounding_box,omitempty"`
	GeoRadius      *GeoRadius      `json:"geo_radius,omitempty"`
	IsEmpty        *fieldRef       `json:"is_empty,omitempty"`
	IsNull         *fieldRef       `json:"is_null,omitempty"`
	HasID          []PointID       `json:"has_id,omitempty"`

	// Nested is serialized in place of the condition.
	Nested *Filter `json:"-"`
}

// MarshalJSON inlines nested filters.
func (c Condition) MarshalJSON() ([]byte, error) {
	if c.Nested != nil {
		return json.Marshal(c.Nested)
	}
	type plain Condition
	return json.Marshal(plain(c))
}

// Match is the "match" object of a field condition.
type Match struct {
	Value  any    `json:"value,omitempty"`
	Text   string `json:"text,omitempty"`
	Any    []any  `json:"any,omitempty"`
	Except []any  `json:"except,omitempty"`
}

// Range bounds a numeric field. Nil bounds are open.
type Range struct {
	Gt  *float64 `json:"gt,omitempty"`
	Gte *float64 `json:"gte,omitempty"`
	Lt  *float64 `json:"lt,omitempty"`
	Lte *float64 `json:"lte,omitempty"`
}

func (r Range) empty() bool {
	return r.Gt == nil && r.Gte == nil && r.Lt == nil && r.Lte == nil
}

// GeoPoint is a WGS84 coordinate.
type GeoPoint struct {
	Lon float64 `json:"lon"`
	Lat float64 `json:"lat"`
}

// GeoBoundingBox matches points inside the rectangle.
type GeoBoundingBox struct {
	TopLeft     GeoPoint `json:"top_left"`
	BottomRight GeoPoint `json:"bottom_right"`
}

// GeoRadius matches points within Radius meters of Center.
type GeoRadius struct {
	Center GeoPoint `json:"center"`
	Radius float64  `json:"radius"`
}

type fieldRef struct {
	Key string `json:"key"`
}

// ── Conditions ──────────────────────────────────────────────────────────────

// MatchCondition is an exact match on a keyword, integer or bool field.
type MatchCondition struct {
	Key   string
	Value any
}

// Conditions implements FilterCondition. An empty key or nil value yields
// nothing.
func (c MatchCondition) Conditions() []Condition {
	if c.Key == "" || c.Value == nil {
		return nil
	}
	return []Condition{{Key: c.Key, Match: &Match{Value: c.Value}}}
}

// MatchAnyCondition matches when the field equals one of Values (IN).
type MatchAnyCondition struct {
	Key    string
	Values []any
}

// Conditions implements FilterCondition.
func (c MatchAnyCondition) Conditions() []Condition {
	if c.Key == "" || len(c.Values) == 0 {
		return nil
	}
	return []Condition{{Key: c.Key, Match: &Match{Any: c.Values}}}
}

// MatchExceptCondition matches when the field equals none of Values (NOT IN).
type MatchExceptCondition struct {
	Key    string
	Values []any
}

// Conditions implements FilterCondition.
func (c MatchExceptCondition) Conditions() []Condition {
	if c.Key == "" || len(c.Values) == 0 {
		return nil
	}
	return []Condition{{Key: c.Key, Match: &Match{Except: c.Values}}}
}

// TextMatchCondition is a full-text match; the field needs a Text index.
type TextMatchCondition struct {
	Key  string
	Text string
}

// Conditions implements FilterCondition. Qdrant needs a Text index on the
// field for this to match.
func (c TextMatchCondition) Conditions() []Condition {
	if c.Key == "" || c.Text == "" {
		return nil
	}
	return []Condition{{Key: c.Key, Match: &Match{Text: c.Text}}}
}

// RangeCondition bounds a numeric field.
type RangeCondition struct {
	Key   string
	Range Range
}

// Conditions implements FilterCondition. A range with no bounds yields
// nothing.
func (c RangeCondition) Conditions() []Condition {
	if c.Key == "" || c.Range.empty() {
		return nil
	}
	r := c.Range
	return []Condition{{Key: c.Key, Range: &r}}
}

// GeoBoundingBoxCondition restricts a Geo field to a rectangle.
type GeoBoundingBoxCondition struct {
	Key         string
	TopLeft     GeoPoint
	BottomRight GeoPoint
}

// Conditions implements FilterCondition.
func (c GeoBoundingBoxCondition) Conditions() []Condition {
	if c.Key == "" {
		return nil
	}
	return []Condition{{Key: c.Key, GeoBoundingBox: &GeoBoundingBox{TopLeft: c.TopLeft, BottomRight: c.BottomRight}}}
}

// GeoRadiusCondition restricts a Geo field to a circle.
type GeoRadiusCondition struct {
	Key    string
	Center GeoPoint
	Radius float64
}

// Conditions implements FilterCondition. A non-positive radius yields
// nothing.
func (c GeoRadiusCondition) Conditions() []Condition {
	if c.Key == "" || c.Radius <= 0 {
		return nil
	}
	return []Condition{{Key: c.Key, GeoRadius: &GeoRadius{Center: c.Center, Radius: c.Radius}}}
}

// IsEmptyCondition matches points where the field is missing or [].
type IsEmptyCondition struct {
	Key string
}

// Conditions implements FilterCondition.
func (c IsEmptyCondition) Conditions() []Condition {
	if c.Key == "" {
		return nil
	}
	return []Condition{{IsEmpty: &fieldRef{Key: c.Key}}}
}

// IsNullCondition matches points where the field is null.
type IsNullCondition struct {
	Key string
}

// Conditions implements FilterCondition.
func (c IsNullCondition) Conditions() []Condition {
	if c.Key == "" {
		return nil
	}
	return []Condition{{IsNull: &fieldRef{Key: c.Key}}}
}

// HasIDCondition restricts results to the given point ids.
type HasIDCondition struct {
	IDs []string
}

// Conditions implements FilterCondition. Invalid ids are sent as they are
// and rejected by Qdrant.
func (c HasIDCondition) Conditions() []Condition {
	if len(c.IDs) == 0 {
		return nil
	}
	ids := make([]PointID, len(c.IDs))
	for i, id := range c.IDs {
		ids[i] = PointID(id)
	}
	return []Condition{{HasID: ids}}
}

// ── Filter ──────────────────────────────────────────────────────────────────

// Filter combines conditions: every Must condition holds (AND), at least one
// Should condition holds (OR), and no MustNot condition holds (NOT).
//
// Example:
//
//	f := qdrant.NewFilter().
//	    Must(qdrant.MatchCondition{Key: "category", Value: "news"}).
//	    Must(qdrant.RangeCondition{Key: "year", Range: qdrant.Range{Gte: ptr(2020.0)}}).
//	    MustNot(qdrant.MatchCondition{Key: "archived", Value: true})
type Filter struct {
	MustClauses    []FilterCondition
	ShouldClauses  []FilterCondition
	MustNotClauses []FilterCondition
}

// NewFilter returns an empty filter.
func NewFilter() *Filter {
	return &Filter{}
}

// Must appends conjunctive conditions.
func (f *Filter) Must(conds ...FilterCondition) *Filter {
	f.MustClauses = append(f.MustClauses, conds...)
	return f
}

// Should appends disjunctive conditions.
func (f *Filter) Should(conds ...FilterCondition) *Filter {
	f.ShouldClauses = append(f.ShouldClauses, conds...)
	return f
}

// MustNot appends negated conditions.
func (f *Filter) MustNot(conds ...FilterCondition) *Filter {
	f.MustNotClauses = append(f.MustNotClauses, conds...)
	return f
}

// RequireTags adds one Must match on PayloadTagsKey per non-empty tag, so a
// point must carry all of them.
func (f *Filter) RequireTags(tags ...string) *Filter {
	for _, tag := range tags {
		if tag != "" {
			f.Must(MatchCondition{Key: PayloadTagsKey, Value: tag})
		}
	}
	return f
}

// Conditions lets a Filter be nested inside another filter's clause.
func (f *Filter) Conditions() []Condition {
	if f.IsEmpty() {
		return nil
	}
	return []Condition{{Nested: f}}
}

// IsEmpty reports whether the filter would serialize without any condition.
func (f *Filter) IsEmpty() bool {
	if f == nil {
		return true
	}
	return len(flatten(f.MustClauses)) == 0 &&
		len(flatten(f.ShouldClauses)) == 0 &&
		len(flatten(f.MustNotClauses)) == 0
}

// Clone returns a copy whose clause slices can be appended to independently.
func (f *Filter) Clone() *Filter {
	if f == nil {
		return NewFilter()
	}
	return &Filter{
		MustClauses:    append([]FilterCondition(nil), f.MustClauses...),
		ShouldClauses:  append([]FilterCondition(nil), f.ShouldClauses...),
		MustNotClauses: append([]FilterCondition(nil), f.MustNotClauses...),
	}
}

// MarshalJSON emits {"must":[...],"should":[...],"must_not":[...]}, omitting
// empty clauses.
func (f *Filter) MarshalJSON() ([]byte, error) {
	wire := struct {
		Must    []Condition `json:"must,omitempty"`
		Should  []Condition `json:"should,omitempty"`
		MustNot []Condition `json:"must_not,omitempty"`
	}{
		Must:    flatten(f.MustClauses),
		Should:  flatten(f.ShouldClauses),
		MustNot: flatten(f.MustNotClauses),
	}
	return json.Marshal(wire)
}

// wireFilter returns nil for empty filters so request bodies omit the key.
func wireFilter(f *Filter) *Filter {
	if f.IsEmpty() {
		return nil
	}
	return f
}

func flatten(conds []FilterCondition) []Condition {
	var out []Condition
	for _, c := range conds {
		if c == nil {
			continue
		}
		out = append(out, c.Conditions()...)
	}
	return out
}
