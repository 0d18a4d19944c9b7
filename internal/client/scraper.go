// Package client provides the HTTP client for the remote scraper backend.
package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"flipkart-scraper-api-go/internal/config"
	"flipkart-scraper-api-go/internal/metrics"
)

// maxBodyBytes caps how much of a backend response is read.
const maxBodyBytes = 16 << 20

const userAgent = "flipkart-scraper-api-go/1.0"

// ScraperClient calls the scraper backend. It satisfies both collaborator
// interfaces of the service package.
type ScraperClient struct {
	httpClient *http.Client
	baseURL    *url.URL
	logger     *slog.Logger
	metrics    *metrics.Metrics
}

// NewScraperClient creates a ScraperClient with connection pooling and timeouts.
// The metrics parameter is optional; pass nil to disable upstream metrics recording.
func NewScraperClient(cfg *config.Config, logger *slog.Logger, m *metrics.Metrics) (*ScraperClient, error) {
	base, err := url.Parse(cfg.Collaborator.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse collaborator base_url: %w", err)
	}

	var transport http.RoundTripper = &http.Transport{
		MaxIdleConns:        cfg.Collaborator.IdleConnections,
		MaxIdleConnsPerHost: cfg.Collaborator.IdleConnections,
		IdleConnTimeout:     90 * time.Second,
		DialContext: (&net.Dialer{
			Timeout:   30 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
	}
	if cfg.Tracing.Enabled {
		transport = otelhttp.NewTransport(transport)
	}

	return &ScraperClient{
		httpClient: &http.Client{
			Transport: transport,
			Timeout:   cfg.Collaborator.Timeout(),
		},
		baseURL: base,
		logger:  logger.With("component", "scraper_client"),
		metrics: m,
	}, nil
}

// Search asks the backend for search results of query.
func (c *ScraperClient) Search(ctx context.Context, query string, params map[string]string) (any, error) {
	u := c.endpoint("search", query)
	q := make(url.Values, len(params))
	for k, v := range params {
		q.Set(k, v)
	}
	u.RawQuery = q.Encode()

	return c.get(ctx, "search", u)
}

// ProductDetails asks the backend for the details of the product at productURL.
func (c *ScraperClient) ProductDetails(ctx context.Context, productURL *url.URL) (any, error) {
	u := c.endpoint("product")
	u.RawQuery = url.Values{"url": {productURL.String()}}.Encode()

	return c.get(ctx, "product", u)
}

// endpoint joins path segments onto the base URL, escaping each one.
func (c *ScraperClient) endpoint(segs ...string) *url.URL {
	u := *c.baseURL
	path := strings.TrimSuffix(u.Path, "/")
	raw := strings.TrimSuffix(u.EscapedPath(), "/")
	for _, s := range segs {
		path += "/" + s
		raw += "/" + url.PathEscape(s)
	}
	u.Path = path
	u.RawPath = raw
	return &u
}

// get performs the request and returns the body as raw JSON. Non-2xx
// responses become errors carrying the backend's own message.
func (c *ScraperClient) get(ctx context.Context, op string, u *url.URL) (any, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("build upstream request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)

	c.logger.Debug("upstream request", "op", op, "path", u.Path)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	duration := time.Since(start).Seconds()

	if err != nil {
		if c.metrics != nil {
			c.metrics.UpstreamDuration.WithLabelValues(op).Observe(duration)
			c.metrics.UpstreamResponses.WithLabelValues(op, "error").Inc()
		}
		return nil, fmt.Errorf("upstream request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if c.metrics != nil {
		c.metrics.UpstreamDuration.WithLabelValues(op).Observe(duration)
		c.metrics.UpstreamResponses.WithLabelValues(op, strconv.Itoa(resp.StatusCode)).Inc()
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("read upstream body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{Code: resp.StatusCode, Message: errorMessage(resp.StatusCode, body)}
	}
	if !json.Valid(body) {
		return nil, errors.New("upstream returned invalid JSON")
	}
	return json.RawMessage(body), nil
}

// StatusError is a non-2xx backend response.
type StatusError struct {
	Code    int
	Message string
}

func (e *StatusError) Error() string { return e.Message }

// errorMessage extracts a readable message from an error body. The backend
// may answer with our own envelope, a flat {"error": "..."} or plain text.
func errorMessage(code int, body []byte) string {
	var nested struct {
		Error struct {
			ErrorMessage string `json:"error_message"`
		} `json:"error"`
	}
	if json.Unmarshal(body, &nested) == nil && nested.Error.ErrorMessage != "" {
		return nested.Error.ErrorMessage
	}

	var flat struct {
		Error string `json:"error"`
	}
	if json.Unmarshal(body, &flat) == nil && flat.Error != "" {
		return flat.Error
	}

	if text := strings.TrimSpace(string(body)); text != "" && len(text) <= 512 && !strings.HasPrefix(text, "{") {
		return text
	}
	return fmt.Sprintf("upstream returned %d %s", code, http.StatusText(code))
}
