package connector

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"reflect"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Custom verbs used by relationship and action endpoints
const (
	MethodLink   = "LINK"
	MethodUnlink = "UNLINK"
	MethodAction = "patch"
)

// PaginateHeader asks the service to paginate a collection
const PaginateHeader = "x-paginate"

// APIUserHeader selects the user a request acts on behalf of
const APIUserHeader = "penneo-api-user"

// callOptions are the optional parts of a call
type callOptions struct {
	data    map[string]any
	query   map[string]any
	page    *int
	perPage *int
}

// preparedRequest is an outgoing request before authentication
type preparedRequest struct {
	req    *http.Request
	body   []byte
	params map[string]any
}

// firstCharToLower lower-cases the first rune of s: "CaseFileId" -> "caseFileId"
func firstCharToLower(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError || unicode.IsLower(r) {
		return s
	}
	return string(unicode.ToLower(r)) + s[size:]
}

// buildParameters folds query and pagination into request parameters.
// Query keys must stay distinct once lower-cased and pagination values must be positive.
func buildParameters(opts callOptions) (map[string]any, error) {
	params := make(map[string]any)

	for key, value := range opts.query {
		name := firstCharToLower(key)
		if _, exists := params[name]; exists {
			return nil, fmt.Errorf("%w: %q collides with another key as %q", ErrInvalidQuery, key, name)
		}
		params[name] = value
	}

	if opts.perPage != nil {
		if *opts.perPage <= 0 {
			return nil, fmt.Errorf("%w: per_page must be greater than zero, got %d", ErrInvalidPagination, *opts.perPage)
		}
		params["per_page"] = *opts.perPage
	}
	if opts.page != nil {
		if *opts.page <= 0 {
			return nil, fmt.Errorf("%w: page must be greater than zero, got %d", ErrInvalidPagination, *opts.page)
		}
		params["page"] = *opts.page
	}

	return params, nil
}

// prepareRequest builds the request. Parameters are merged into the JSON body
// when the call carries one and sent as URL query parameters otherwise.
func (c *Connector) prepareRequest(ctx context.Context, method, path string, opts callOptions) (*preparedRequest, error) {
	params, err := buildParameters(opts)
	if err != nil {
		return nil, err
	}

	fullURL := c.endpoint + "/" + strings.TrimLeft(path, "/")

	var jsonBody []byte
	if opts.data != nil {
		formData := make(map[string]any, len(opts.data)+len(params))
		for key, value := range opts.data {
			formData[key] = value
		}
		for key, value := range params {
			formData[key] = value
		}
		jsonBody, err = json.Marshal(formData)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
	} else if len(params) > 0 {
		values := url.Values{}
		for key, value := range params {
			for _, v := range queryValues(value) {
				values.Add(key, v)
			}
		}
		separator := "?"
		if strings.Contains(fullURL, "?") {
			separator = "&"
		}
		fullURL += separator + values.Encode()
	}

	var req *http.Request
	if jsonBody != nil {
		req, err = http.NewRequestWithContext(ctx, method, fullURL, bytes.NewReader(jsonBody))
	} else {
		req, err = http.NewRequestWithContext(ctx, method, fullURL, nil)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	for key, value := range c.headers {
		req.Header.Set(key, value)
	}
	req.Header.Set("Accept", "application/json")
	if jsonBody != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if opts.page != nil {
		req.Header.Set(PaginateHeader, "true")
	}

	return &preparedRequest{req: req, body: jsonBody, params: params}, nil
}

// queryValues renders a parameter for the URL query. Slices and arrays repeat
// the key once per element.
func queryValues(value any) []string {
	if _, ok := value.([]byte); ok {
		return []string{fmt.Sprint(value)}
	}
	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		out := make([]string, 0, rv.Len())
		for i := 0; i < rv.Len(); i++ {
			out = append(out, fmt.Sprint(rv.Index(i).Interface()))
		}
		return out
	default:
		return []string{fmt.Sprint(value)}
	}
}
