package vectordb

import "strings"

// UserPayloadPrefix is the payload key under which user-defined fields live.
const UserPayloadPrefix = "custom"

// FieldType says whether a condition addresses a system field at the top of
// the payload or a user field under UserPayloadPrefix.
type FieldType int

const (
	InternalField FieldType = iota
	UserField
)

// ResolveField returns the payload path of field.
//
//	ResolveField("document_id", UserField) == "custom.document_id"
func ResolveField(field string, fieldType FieldType) string {
	if fieldType == UserField && !strings.HasPrefix(field, UserPayloadPrefix+".") {
		return UserPayloadPrefix + "." + field
	}
	return field
}

// FilterCondition is implemented by every condition type in this package.
type FilterCondition interface {
	IsFilterCondition()
}

// FilterSet holds Must (AND), Should (OR) and MustNot (NOT) clauses.
type FilterSet struct {
	Must    *ConditionSet `json:"must,omitempty"`
	Should  *ConditionSet `json:"should,omitempty"`
	MustNot *ConditionSet `json:"mustNot,omitempty"`
}

// ConditionSet is the condition list of one clause.
type ConditionSet struct {
	Conditions []FilterCondition `json:"conditions,omitempty"`
}

// NewFilterSet applies the clause options to an empty FilterSet.
func NewFilterSet(clauses ...func(*FilterSet)) *FilterSet {
	fs := &FilterSet{}
	for _, clause := range clauses {
		clause(fs)
	}
	return fs
}

// Must adds conditions that all have to hold.
func Must(conditions ...FilterCondition) func(*FilterSet) {
	return func(fs *FilterSet) { fs.Must = &ConditionSet{Conditions: conditions} }
}

// Should adds conditions of which at least one has to hold.
func Should(conditions ...FilterCondition) func(*FilterSet) {
	return func(fs *FilterSet) { fs.Should = &ConditionSet{Conditions: conditions} }
}

// MustNot adds conditions none of which may hold.
func MustNot(conditions ...FilterCondition) func(*FilterSet) {
	return func(fs *FilterSet) { fs.MustNot = &ConditionSet{Conditions: conditions} }
}

// MatchCondition is field == value.
type MatchCondition struct {
	Field     string
	Value     any
	FieldType FieldType
}

// MatchAnyCondition is field IN values.
type MatchAnyCondition struct {
	Field     string
	Values    []any
	FieldType FieldType
}

// MatchExceptCondition is field NOT IN values.
type MatchExceptCondition struct {
	Field     string
	Values    []any
	FieldType FieldType
}

// NumericRange bounds a number; nil bounds are open.
type NumericRange struct {
	Gt  *float64
	Gte *float64
	Lt  *float64
	Lte *float64
}

// NumericRangeCondition restricts field to Range.
type NumericRangeCondition struct {
	Field     string
	Range     NumericRange
	FieldType FieldType
}

// IsNullCondition matches a null field.
type IsNullCondition struct {
	Field     string
	FieldType FieldType
}

// IsEmptyCondition matches a missing or empty field.
type IsEmptyCondition struct {
	Field     string
	FieldType FieldType
}

// IsFilterCondition marks the condition types.
func (*MatchCondition) IsFilterCondition()        {}
func (*MatchAnyCondition) IsFilterCondition()     {}
func (*MatchExceptCondition) IsFilterCondition()  {}
func (*NumericRangeCondition) IsFilterCondition() {}
func (*IsNullCondition) IsFilterCondition()       {}
func (*IsEmptyCondition) IsFilterCondition()      {}

// NewMatch matches an internal field exactly.
func NewMatch(field string, value any) *MatchCondition {
	return &MatchCondition{Field: field, Value: value}
}

// NewUserMatch matches a user payload field exactly.
func NewUserMatch(field string, value any) *MatchCondition {
	return &MatchCondition{Field: field, Value: value, FieldType: UserField}
}

// NewMatchAny matches an internal field against any of values.
func NewMatchAny(field string, values ...any) *MatchAnyCondition {
	return &MatchAnyCondition{Field: field, Values: values}
}

// NewUserMatchAny is NewMatchAny for a user payload field.
func NewUserMatchAny(field string, values ...any) *MatchAnyCondition {
	return &MatchAnyCondition{Field: field, Values: values, FieldType: UserField}
}

// NewMatchExcept matches an internal field equal to none of values.
func NewMatchExcept(field string, values ...any) *MatchExceptCondition {
	return &MatchExceptCondition{Field: field, Values: values}
}

// NewUserMatchExcept is NewMatchExcept for a user payload field.
func NewUserMatchExcept(field string, values ...any) *MatchExceptCondition {
	return &MatchExceptCondition{Field: field, Values: values, FieldType: UserField}
}

// NewNumericRange bounds a numeric internal field.
func NewNumericRange(field string, r NumericRange) *NumericRangeCondition {
	return &NumericRangeCondition{Field: field, Range: r}
}

// NewUserNumericRange bounds a numeric user payload field.
func NewUserNumericRange(field string, r NumericRange) *NumericRangeCondition {
	return &NumericRangeCondition{Field: field, Range: r, FieldType: UserField}
}

// NewIsNull matches points whose field is null.
func NewIsNull(field string) *IsNullCondition {
	return &IsNullCondition{Field: field}
}

// NewIsEmpty matches points whose field is missing, null or an empty array.
func NewIsEmpty(field string) *IsEmptyCondition {
	return &IsEmptyCondition{Field: field}
}
