package qdrant

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/otel/trace"

	"github.com/Aleph-Alpha/qdrant-connector/v1/logger"
	"github.com/Aleph-Alpha/qdrant-connector/v1/observability"
	"github.com/Aleph-Alpha/qdrant-connector/v1/tracer"
)

// Logger defines the logging operations the client uses. *logger.LoggerClient
// satisfies it.
//
//go:generate mockgen -source=client.go -destination=mock_logger.go -package=qdrant
type Logger interface {
	Info(msg string, err error, fields ...map[string]interface{})
	Debug(msg string, err error, fields ...map[string]interface{})
	Warn(msg string, err error, fields ...map[string]interface{})
	Error(msg string, err error, fields ...map[string]interface{})
	Fatal(msg string, err error, fields ...map[string]interface{})
}

// HttpRequestDoer performs HTTP requests. *http.Client satisfies it.
type HttpRequestDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// RequestEditorFn is a callback for modifying requests before they are sent.
type RequestEditorFn func(ctx context.Context, req *http.Request) error

// ClientOption customizes a QdrantClient.
type ClientOption func(*QdrantClient) error

// WithHTTPClient replaces the default *http.Client.
func WithHTTPClient(doer HttpRequestDoer) ClientOption {
	return func(c *QdrantClient) error {
		if doer == nil {
			return fmt.Errorf("%w: http client is nil", ErrInvalidArgument)
		}
		c.client = doer
		return nil
	}
}

// WithRequestEditorFn appends a callback run on every request before sending.
func WithRequestEditorFn(fn RequestEditorFn) ClientOption {
	return func(c *QdrantClient) error {
		c.requestEditors = append(c.requestEditors, fn)
		return nil
	}
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(l Logger) ClientOption {
	return func(c *QdrantClient) error {
		if l != nil {
			c.logger = l
		}
		return nil
	}
}

// WithObserver reports every request to o.
func WithObserver(o observability.Observer) ClientOption {
	return func(c *QdrantClient) error {
		c.observer = o
		return nil
	}
}

// WithTracer wraps every request in a span and propagates the trace context
// to Qdrant in the request headers.
func WithTracer(t *tracer.Tracer) ClientOption {
	return func(c *QdrantClient) error {
		c.tracer = t
		return nil
	}
}

// QdrantClient talks to Qdrant's REST API. It keeps no per-call state and is
// safe for concurrent use; concurrency is delegated to the HttpRequestDoer.
type QdrantClient struct {
	server         string
	cfg            *Config
	client         HttpRequestDoer
	requestEditors []RequestEditorFn
	logger         Logger
	observer       observability.Observer
	tracer         *tracer.Tracer
}

var _ VectorDbClient = (*QdrantClient)(nil)

// NewQdrantClient validates cfg and builds a client. It does not contact the
// server; call Health for that.
//
// Example:
//
//	client, err := qdrant.NewQdrantClient(qdrant.FromEndpoint("http://localhost:6333"),
//	    qdrant.WithLogger(log),
//	)
func NewQdrantClient(cfg *Config, opts ...ClientOption) (*QdrantClient, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	server := cfg.Endpoint
	if !strings.HasSuffix(server, "/") {
		server += "/"
	}

	c := &QdrantClient{
		server: server,
		cfg:    cfg,
		logger: logger.NewNop(),
	}
	for _, o := range opts {
		if err := o(c); err != nil {
			return nil, err
		}
	}
	if c.client == nil {
		c.client = &http.Client{Timeout: cfg.Timeout}
	}
	if cfg.ApiKey != "" {
		apiKey := cfg.ApiKey
		c.requestEditors = append([]RequestEditorFn{func(_ context.Context, req *http.Request) error {
			req.Header.Set("api-key", apiKey)
			return nil
		}}, c.requestEditors...)
	}
	return c, nil
}

// Config returns the configuration the client was built with.
func (c *QdrantClient) Config() *Config {
	return c.cfg
}

// Health calls GET /healthz.
func (c *QdrantClient) Health(ctx context.Context) error {
	_, err := c.send(ctx, call{operation: "health"}, healthRequest{}, nil)
	return err
}

// Close releases idle connections of the underlying transport.
func (c *QdrantClient) Close() error {
	if closer, ok := c.client.(interface{ CloseIdleConnections() }); ok {
		closer.CloseIdleConnections()
	}
	c.logger.Debug("qdrant client closed", nil, map[string]interface{}{"endpoint": c.cfg.Endpoint})
	return nil
}

type healthRequest struct{}

func (healthRequest) Build(ctx context.Context, server string) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, server+"healthz", nil)
	if err != nil {
		return nil, fmt.Errorf("%w: server url: %v", ErrInvalidArgument, err)
	}
	return req, nil
}

// call describes one HTTP exchange for logging, tracing and observation.
type call struct {
	operation  string
	collection string
	size       int64
}

func (o call) fields() map[string]interface{} {
	f := map[string]interface{}{"operation": o.operation}
	if o.collection != "" {
		f["collection"] = o.collection
	}
	return f
}

// send builds, sends and decodes one request. When out is non-nil the
// envelope's "result" is decoded into it. It returns the HTTP status code
// (0 when no response was received).
func (c *QdrantClient) send(ctx context.Context, op call, builder RequestBuilder, out any) (status int, err error) {
	start := time.Now()
	defer func() {
		c.observeOperation(op, time.Since(start), status, err)
	}()

	if ctxErr := ctx.Err(); ctxErr != nil {
		return 0, cancelledError(ctxErr)
	}

	if c.tracer != nil {
		var span trace.Span
		ctx, span = c.startSpan(ctx, op)
		defer func() {
			c.finishSpan(span, status, err)
		}()
	}

	req, err := builder.Build(ctx, c.server)
	if err != nil {
		return 0, err
	}
	for _, edit := range c.requestEditors {
		if err := edit(ctx, req); err != nil {
			return 0, err
		}
	}
	if c.tracer != nil {
		c.tracer.InjectHTTPHeaders(ctx, req.Header)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return 0, c.transportError(ctx, req, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, c.transportError(ctx, req, err)
	}

	c.logger.Debug("qdrant request completed", nil, op.fields(), map[string]interface{}{
		"method":      req.Method,
		"path":        req.URL.Path,
		"status_code": resp.StatusCode,
		"duration_ms": time.Since(start).Milliseconds(),
	})

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return resp.StatusCode, newAPIError(resp.StatusCode, body)
	}

	if out != nil {
		if err := decodeResult(body, out); err != nil {
			return resp.StatusCode, err
		}
	}
	return resp.StatusCode, nil
}

// transportError classifies a failed exchange: cancellation of ctx wins over
// the transport's own error.
func (c *QdrantClient) transportError(ctx context.Context, req *http.Request, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return cancelledError(ctxErr)
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return cancelledError(err)
	}
	return fmt.Errorf("%w: %s %s: %w", ErrTransport, req.Method, req.URL.Path, err)
}

// decodeResult unmarshals the "result" member of Qdrant's response envelope.
func decodeResult(body []byte, out any) error {
	var env struct {
		Result json.RawMessage `json:"result"`
	}
	if err := json.Unmarshal(body, &env); err != nil {
		return fmt.Errorf("%w: %v", ErrDecode, err)
	}
	if len(env.Result) == 0 {
		return fmt.Errorf("%w: response has no result", ErrDecode)
	}
	if err := json.Unmarshal(env.Result, out); err != nil {
		return fmt.Errorf("%w: %v", ErrDecode, err)
	}
	return nil
}
