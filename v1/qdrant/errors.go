package qdrant

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// Common errors returned by the client. Match them with errors.Is or the
// IsXxx helpers below.
var (
	// ErrInvalidArgument is returned before any request is sent when an
	// argument cannot produce a valid request.
	ErrInvalidArgument = errors.New("qdrant: invalid argument")

	// ErrUnsupportedValue marks an enum value outside its defined members.
	// It also matches ErrInvalidArgument.
	ErrUnsupportedValue = fmt.Errorf("%w: unsupported value", ErrInvalidArgument)

	// ErrTransport wraps network, DNS and timeout failures of the HTTP transport.
	ErrTransport = errors.New("qdrant: transport failure")

	// ErrDecode marks a response body that is not the expected JSON shape.
	ErrDecode = errors.New("qdrant: malformed response")

	// ErrCancelled is returned when the caller's context ends before the
	// operation completes. The context error is wrapped alongside it.
	ErrCancelled = errors.New("qdrant: operation cancelled")

	// ErrNotFound matches APIErrors with status 404.
	ErrNotFound = errors.New("qdrant: not found")
)

// APIError is returned for every non-2xx response.
type APIError struct {
	// StatusCode is the HTTP status code.
	StatusCode int

	// Message is status.error from Qdrant's error envelope, when present.
	Message string

	// Body is the raw response body.
	Body []byte
}

// Error includes the status code and Qdrant's message.
func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("qdrant: server returned status %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("qdrant: server returned status %d: %s", e.StatusCode, string(e.Body))
}

// Is makes errors.Is(err, ErrNotFound) true for 404 responses.
func (e *APIError) Is(target error) bool {
	return target == ErrNotFound && e.StatusCode == http.StatusNotFound
}

// newAPIError builds an APIError, extracting the message from bodies shaped
// like {"status":{"error":"..."}}.
func newAPIError(statusCode int, body []byte) *APIError {
	apiErr := &APIError{StatusCode: statusCode, Body: body}

	var env struct {
		Status struct {
			Error string `json:"error"`
		} `json:"status"`
	}
	if json.Unmarshal(body, &env) == nil {
		apiErr.Message = env.Status.Error
	}
	return apiErr
}

// cancelledError wraps both ErrCancelled and the context's own error, so
// errors.Is works with either.
func cancelledError(cause error) error {
	return fmt.Errorf("%w: %w", ErrCancelled, cause)
}

// IsNotFound reports whether err is a 404 from Qdrant.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsCancelled reports whether the caller's context ended the operation.
func IsCancelled(err error) bool {
	return errors.Is(err, ErrCancelled)
}

// IsTransportError reports whether err originated in the HTTP transport.
func IsTransportError(err error) bool {
	return errors.Is(err, ErrTransport)
}

// IsDecodeError reports whether a response could not be decoded.
func IsDecodeError(err error) bool {
	return errors.Is(err, ErrDecode)
}

// IsInvalidArgument reports whether err was raised before sending a request.
func IsInvalidArgument(err error) bool {
	return errors.Is(err, ErrInvalidArgument)
}

// AsAPIError extracts the *APIError from err's chain.
func AsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}
