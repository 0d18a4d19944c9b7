// Package binder converts raw request paths and query strings into typed
// request values. It performs no I/O.
package binder

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"flipkart-scraper-api-go/internal/model"
)

// Client-facing binding failure messages.
const (
	MsgInvalidQuery    = "Invalid query parameters"
	MsgInvalidPath     = "Invalid path"
	MsgMissingProduct  = "Product URL is required"
	MsgInvalidGreeting = "Invalid greeting options"
)

// Route prefixes consumed by the trailing captures.
const (
	SearchPrefix  = "/search"
	ProductPrefix = "/product"
)

var errParentSegment = errors.New(`".." segments are not allowed`)

// DecodeTrailing returns the part of escapedPath after prefix as a single
// slash-joined string. Each segment is percent-decoded on its own, so an
// escaped "%2F" survives inside one logical segment.
func DecodeTrailing(escapedPath, prefix string) (string, error) {
	rest, ok := strings.CutPrefix(escapedPath, prefix)
	if !ok {
		return "", &model.BindingError{
			Message: MsgInvalidPath,
			Detail:  fmt.Sprintf("path %q does not start with %q", escapedPath, prefix),
		}
	}
	segs, err := PathSegments(rest)
	if err != nil {
		return "", err
	}
	return strings.Join(segs, "/"), nil
}

// PathSegments splits an escaped path and percent-decodes every segment.
// Empty and "." segments are skipped; ".." is rejected.
func PathSegments(escapedPath string) ([]string, error) {
	var segs []string
	for _, raw := range strings.Split(escapedPath, "/") {
		if raw == "" || raw == "." {
			continue
		}
		seg, err := url.PathUnescape(raw)
		if err != nil {
			return nil, model.NewBindingError(MsgInvalidPath, err)
		}
		if seg == ".." {
			return nil, model.NewBindingError(MsgInvalidPath, errParentSegment)
		}
		segs = append(segs, seg)
	}
	return segs, nil
}

// ParseQuery parses rawQuery into a flat map. Repeated keys resolve to the
// last value. Unknown keys are kept.
func ParseQuery(rawQuery string) (map[string]string, error) {
	values, err := url.ParseQuery(rawQuery)
	if err != nil {
		return nil, model.NewBindingError(MsgInvalidQuery, err)
	}
	params := make(map[string]string, len(values))
	for k, vs := range values {
		if len(vs) > 0 {
			params[k] = vs[len(vs)-1]
		}
	}
	return params, nil
}

// Search binds GET /search and GET /search/<query..>.
func Search(escapedPath, rawQuery string) (model.SearchRequest, error) {
	query, err := DecodeTrailing(escapedPath, SearchPrefix)
	if err != nil {
		return model.SearchRequest{}, err
	}
	params, err := ParseQuery(rawQuery)
	if err != nil {
		return model.SearchRequest{}, err
	}
	return model.SearchRequest{Query: query, Params: params}, nil
}

// Product binds GET /product/<url..>. An empty capture is rejected.
func Product(escapedPath, rawQuery string) (model.ProductRequest, error) {
	fragment, err := DecodeTrailing(escapedPath, ProductPrefix)
	if err != nil {
		return model.ProductRequest{}, err
	}
	if fragment == "" {
		return model.ProductRequest{}, &model.BindingError{
			Message: MsgMissingProduct,
			Detail:  "use /product/<product link argument>",
		}
	}
	params, err := ParseQuery(rawQuery)
	if err != nil {
		return model.ProductRequest{}, err
	}
	return model.ProductRequest{Fragment: fragment, Params: params}, nil
}
