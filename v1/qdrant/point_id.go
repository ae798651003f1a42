package qdrant

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/google/uuid"
)

// PointID is a Qdrant point identifier. Qdrant accepts unsigned integers and
// UUIDs; integers travel as JSON numbers, UUIDs as strings.
type PointID string

// NewPointID returns a random UUID suitable as a point id.
func NewPointID() string {
	return uuid.NewString()
}

// Validate rejects ids Qdrant would refuse and ids that would not read back
// unchanged: integers with leading zeros, and UUIDs not in the lowercase
// hyphenated form Qdrant returns.
func (id PointID) Validate() error {
	if id == "" {
		return fmt.Errorf("%w: point id is empty", ErrInvalidArgument)
	}
	if _, ok := id.number(); ok {
		return nil
	}
	if _, err := strconv.ParseUint(string(id), 10, 64); err == nil {
		return fmt.Errorf("%w: point id %q has leading zeros", ErrInvalidArgument, string(id))
	}
	parsed, err := uuid.Parse(string(id))
	if err != nil {
		return fmt.Errorf("%w: point id %q is neither an unsigned integer nor a UUID", ErrInvalidArgument, string(id))
	}
	if parsed.String() != string(id) {
		return fmt.Errorf("%w: point id %q is not a canonical UUID, use %q", ErrInvalidArgument, string(id), parsed.String())
	}
	return nil
}

// number returns the id as an integer when it is one in canonical form.
func (id PointID) number() (uint64, bool) {
	n, err := strconv.ParseUint(string(id), 10, 64)
	if err != nil || strconv.FormatUint(n, 10) != string(id) {
		return 0, false
	}
	return n, true
}

// MarshalJSON implements json.Marshaler.
func (id PointID) MarshalJSON() ([]byte, error) {
	if n, ok := id.number(); ok {
		return strconv.AppendUint(nil, n, 10), nil
	}
	return json.Marshal(string(id))
}

// UnmarshalJSON accepts both numeric and string ids.
func (id *PointID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*id = PointID(s)
		return nil
	}
	if _, err := strconv.ParseUint(string(b), 10, 64); err != nil {
		return fmt.Errorf("point id %s is not an unsigned integer or string", string(b))
	}
	*id = PointID(b)
	return nil
}

// toPointIDs converts and validates caller-supplied ids.
func toPointIDs(ids []string) ([]PointID, error) {
	out := make([]PointID, len(ids))
	for i, raw := range ids {
		id := PointID(raw)
		if err := id.Validate(); err != nil {
			return nil, err
		}
		out[i] = id
	}
	return out, nil
}
