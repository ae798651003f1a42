package qdrant

import (
	"fmt"
	"net/url"
	"time"
)

const (
	// DefaultEndpoint is the REST address of a local Qdrant instance.
	DefaultEndpoint = "http://localhost:6333"

	// DefaultVectorSize matches the 1536-dimensional embeddings most
	// collections in this connector are created for.
	DefaultVectorSize = 1536

	// DefaultPageSize bounds how many ids or search hits one request asks for.
	DefaultPageSize = 100
)

// Config holds connection and behavior settings for the Qdrant REST client.
//
// Example (programmatic):
//
//	cfg := qdrant.DefaultConfig()
//	cfg.Endpoint = "http://qdrant:6333"
//	cfg.ApiKey = os.Getenv("QDRANT_API_KEY")
//
// Example (builder style):
//
//	cfg := qdrant.FromEndpoint("http://qdrant:6333").
//	    WithApiKey(os.Getenv("QDRANT_API_KEY")).
//	    WithVectorSize(768).
//	    WithDistance(qdrant.DistanceDot)
type Config struct {
	// Base URL of the Qdrant REST API, e.g. "http://localhost:6333".
	// A path prefix is allowed for deployments behind a reverse proxy.
	Endpoint string `yaml:"endpoint" env:"QDRANT_ENDPOINT" mapstructure:"endpoint"`

	// Optional API key sent in the "api-key" header.
	ApiKey string `yaml:"api_key" env:"QDRANT_API_KEY" mapstructure:"api_key"`

	// Maximum duration of a single HTTP request. Zero disables the timeout;
	// callers can still bound calls through their context.
	Timeout time.Duration `yaml:"timeout" env:"QDRANT_TIMEOUT" mapstructure:"timeout"`

	// Dimension of vectors in collections created by CreateCollection.
	VectorSize uint64 `yaml:"vector_size" env:"QDRANT_VECTOR_SIZE" mapstructure:"vector_size"`

	// Similarity metric of collections created by CreateCollection.
	Distance Distance `yaml:"distance" env:"QDRANT_DISTANCE" mapstructure:"distance"`

	// Number of ids per GetVectorsById request and upper bound of hits per
	// search request.
	PageSize int `yaml:"page_size" env:"QDRANT_PAGE_SIZE" mapstructure:"page_size"`

	// Ping /healthz when the fx application starts.
	HealthCheckOnStart bool `yaml:"health_check_on_start" env:"QDRANT_HEALTH_CHECK_ON_START" mapstructure:"health_check_on_start"`
}

// DefaultConfig provides sensible defaults for most use cases.
func DefaultConfig() *Config {
	return &Config{
		Endpoint:           DefaultEndpoint,
		Timeout:            10 * time.Second,
		VectorSize:         DefaultVectorSize,
		Distance:           DistanceCosine,
		PageSize:           DefaultPageSize,
		HealthCheckOnStart: true,
	}
}

// FromEndpoint returns a default config pre-filled with a specific endpoint.
func FromEndpoint(endpoint string) *Config {
	cfg := DefaultConfig()
	cfg.Endpoint = endpoint
	return cfg
}

// Builder-style helpers
func (c *Config) WithApiKey(key string) *Config {
	c.ApiKey = key
	return c
}

// WithTimeout sets the per-request timeout of the default HTTP client.
func (c *Config) WithTimeout(d time.Duration) *Config {
	c.Timeout = d
	return c
}

// WithVectorSize sets the dimension used by CreateCollection.
func (c *Config) WithVectorSize(size uint64) *Config {
	c.VectorSize = size
	return c
}

// WithDistance sets the metric used by CreateCollection and, unless a
// search overrides it, how search scores are ranked.
func (c *Config) WithDistance(d Distance) *Config {
	c.Distance = d
	return c
}

// WithPageSize bounds how many ids or hits one request asks for.
func (c *Config) WithPageSize(n int) *Config {
	c.PageSize = n
	return c
}

// WithHealthCheckOnStart makes the fx lifecycle call Health on start and
// fail startup when Qdrant does not answer.
func (c *Config) WithHealthCheckOnStart(enabled bool) *Config {
	c.HealthCheckOnStart = enabled
	return c
}

// Validate reports configuration errors that would make every request fail.
func (c *Config) Validate() error {
	if c == nil {
		return fmt.Errorf("%w: config is nil", ErrInvalidArgument)
	}
	u, err := url.Parse(c.Endpoint)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("%w: endpoint %q must be an absolute http(s) URL", ErrInvalidArgument, c.Endpoint)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("%w: endpoint scheme %q is not http or https", ErrInvalidArgument, u.Scheme)
	}
	if c.Timeout < 0 {
		return fmt.Errorf("%w: timeout must not be negative", ErrInvalidArgument)
	}
	if c.PageSize < 0 {
		return fmt.Errorf("%w: page size must not be negative", ErrInvalidArgument)
	}
	return nil
}

// pageSize returns PageSize, or DefaultPageSize when unset.
func (c *Config) pageSize() int {
	if c.PageSize <= 0 {
		return DefaultPageSize
	}
	return c.PageSize
}
