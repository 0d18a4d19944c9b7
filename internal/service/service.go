// Package service implements the search and product orchestrators that sit
// between bound requests and the scraper collaborator.
package service

import (
	"context"
	"encoding/json"
	"errors"
	"net/url"
	"strings"

	"flipkart-scraper-api-go/internal/model"
)

// Searcher is the search collaborator.
type Searcher interface {
	Search(ctx context.Context, query string, params map[string]string) (any, error)
}

// ProductFetcher is the product-detail collaborator. It receives an absolute,
// already validated URL.
type ProductFetcher interface {
	ProductDetails(ctx context.Context, productURL *url.URL) (any, error)
}

const (
	msgTimeout = "upstream request timed out"
	msgFailed  = "upstream request failed"
)

// downstream classifies a collaborator failure. Timeouts get a fixed message;
// everything else keeps the collaborator's text unless it is blank.
func downstream(op string, err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return &model.DownstreamError{Op: op, Message: msgTimeout, Err: err}
	}
	msg := strings.TrimSpace(err.Error())
	if msg == "" {
		msg = msgFailed
	}
	return &model.DownstreamError{Op: op, Message: msg, Err: err}
}

// encode serializes a collaborator result. Failures are ours, not the
// collaborator's.
func encode(v any) (json.RawMessage, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, &model.EncodeError{Err: err}
	}
	return data, nil
}
