package vectordb

// SearchRequest is one similarity query.
type SearchRequest struct {
	CollectionName string     `json:"collectionName"`
	Vector         []float32  `json:"vector"`
	TopK           int        `json:"maxResults"`
	Filters        *FilterSet `json:"filters,omitempty"`
}

// SearchResult is one hit. Higher Score means more similar.
type SearchResult struct {
	ID             string         `json:"id"`
	Score          float32        `json:"score"`
	Payload        map[string]any `json:"payload"`
	Vector         []float32      `json:"vector,omitempty"`
	CollectionName string         `json:"collectionName,omitempty"`
}

// EmbeddingInput is one point to insert.
type EmbeddingInput struct {
	ID      string         `json:"id"`
	Vector  []float32      `json:"vector"`
	Payload map[string]any `json:"payload,omitempty"`
}

// Collection describes a collection.
type Collection struct {
	Name        string `json:"name"`
	Status      string `json:"status"`
	VectorSize  int    `json:"vectorSize"`
	Distance    string `json:"distance"`
	PointCount  uint64 `json:"pointCount"`
	VectorCount uint64 `json:"vectorCount"`
}
