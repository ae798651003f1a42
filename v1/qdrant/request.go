package qdrant

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/oapi-codegen/runtime"
)

// RequestBuilder is implemented by every request type in this package.
// Build performs no I/O; it only produces the *http.Request for server.
type RequestBuilder interface {
	Build(ctx context.Context, server string) (*http.Request, error)
}

// operationURL resolves "collections[/{collection}{suffix}]" against server,
// escaping the collection name as a path parameter and adding wait=true when
// requested.
func operationURL(server, collection, suffix string, wait bool) (*url.URL, error) {
	serverURL, err := url.Parse(server)
	if err != nil {
		return nil, fmt.Errorf("%w: server url: %v", ErrInvalidArgument, err)
	}
	if !strings.HasSuffix(serverURL.Path, "/") {
		serverURL.Path += "/"
	}

	operationPath := "./collections"
	if collection != "" {
		pathParam0, err := runtime.StyleParamWithLocation("simple", false, "collection_name", runtime.ParamLocationPath, collection)
		if err != nil {
			return nil, fmt.Errorf("%w: collection name: %v", ErrInvalidArgument, err)
		}
		operationPath = fmt.Sprintf("./collections/%s%s", pathParam0, suffix)
	}

	queryURL, err := serverURL.Parse(operationPath)
	if err != nil {
		return nil, err
	}

	if wait {
		queryValues := queryURL.Query()
		queryFrag, err := runtime.StyleParamWithLocation("form", true, "wait", runtime.ParamLocationQuery, true)
		if err != nil {
			return nil, err
		}
		parsed, err := url.ParseQuery(queryFrag)
		if err != nil {
			return nil, err
		}
		for k, v := range parsed {
			for _, v2 := range v {
				queryValues.Add(k, v2)
			}
		}
		queryURL.RawQuery = queryValues.Encode()
	}

	return queryURL, nil
}

// newRequest builds an HTTP request; a non-nil body is sent as JSON.
func newRequest(ctx context.Context, method string, u *url.URL, body any) (*http.Request, error) {
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode %s %s body: %w", method, u.Path, err)
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), reader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return req, nil
}

func validateCollectionName(name string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("%w: collection name cannot be empty", ErrInvalidArgument)
	}
	return nil
}
