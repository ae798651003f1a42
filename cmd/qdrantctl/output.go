package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/Aleph-Alpha/qdrant-connector/v1/qdrant"
)

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// parseVector parses "0.1,0.2,0.3".
func parseVector(s string) ([]float32, error) {
	parts := strings.Split(s, ",")
	vec := make([]float32, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		f, err := strconv.ParseFloat(p, 32)
		if err != nil {
			return nil, fmt.Errorf("invalid vector component %q: %w", p, err)
		}
		vec = append(vec, float32(f))
	}
	if len(vec) == 0 {
		return nil, fmt.Errorf("vector is empty")
	}
	return vec, nil
}

// parseMatch parses "key=value". Values that parse as integers or booleans
// are matched as such, everything else as a keyword.
func parseMatch(s string) (qdrant.MatchCondition, error) {
	key, value, ok := strings.Cut(s, "=")
	if !ok || key == "" {
		return qdrant.MatchCondition{}, fmt.Errorf("invalid match %q, want key=value", s)
	}
	if n, err := strconv.ParseInt(value, 10, 64); err == nil {
		return qdrant.MatchCondition{Key: key, Value: n}, nil
	}
	if b, err := strconv.ParseBool(value); err == nil {
		return qdrant.MatchCondition{Key: key, Value: b}, nil
	}
	return qdrant.MatchCondition{Key: key, Value: value}, nil
}
