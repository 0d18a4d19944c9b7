package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"flipkart-scraper-api-go/internal/config"
	"flipkart-scraper-api-go/internal/model"
)

// MsgInvalidProductURL is the client-facing message for unparsable product URLs.
const MsgInvalidProductURL = "Invalid product URL"

// ProductService rebuilds product URLs and forwards them to the
// product-detail collaborator.
type ProductService struct {
	fetcher ProductFetcher
	origin  string
	host    string
	timeout time.Duration
	logger  *slog.Logger
}

// NewProductService creates a ProductService rooted at cfg.Product.BaseOrigin.
func NewProductService(f ProductFetcher, cfg *config.Config, logger *slog.Logger) (*ProductService, error) {
	origin, err := url.Parse(cfg.Product.BaseOrigin)
	if err != nil {
		return nil, fmt.Errorf("parse product base_origin: %w", err)
	}

	return &ProductService{
		fetcher: f,
		origin:  strings.TrimSuffix(cfg.Product.BaseOrigin, "/"),
		host:    origin.Host,
		timeout: cfg.Collaborator.Timeout(),
		logger:  logger.With("component", "product_service"),
	}, nil
}

// Lookup resolves req to an absolute URL and fetches its details. Errors are
// *model.BindingError, *model.DownstreamError or *model.EncodeError.
func (s *ProductService) Lookup(ctx context.Context, req model.ProductRequest) (json.RawMessage, error) {
	u, err := s.BuildURL(req.Fragment, req.Params)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	s.logger.Debug("fetching product", "url", u.String())

	result, err := s.fetcher.ProductDetails(ctx, u)
	if err != nil {
		return nil, downstream("product", err)
	}
	return encode(result)
}

// BuildURL joins fragment onto the base origin and merges params into the
// query the fragment already carries. params win on equal keys.
func (s *ProductService) BuildURL(fragment string, params map[string]string) (*url.URL, error) {
	u, err := url.Parse(s.origin + "/" + fragment)
	if err != nil {
		return nil, model.NewBindingError(MsgInvalidProductURL, err)
	}
	if u.Host != s.host || (u.Scheme != "https" && u.Scheme != "http") {
		return nil, &model.BindingError{
			Message: MsgInvalidProductURL,
			Detail:  fmt.Sprintf("%q does not resolve under %s", fragment, s.host),
		}
	}

	q, err := url.ParseQuery(u.RawQuery)
	if err != nil {
		return nil, model.NewBindingError(MsgInvalidProductURL, err)
	}
	for k, v := range params {
		q.Set(k, v)
	}
	u.RawQuery = q.Encode()

	return u, nil
}
