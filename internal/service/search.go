package service

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"flipkart-scraper-api-go/internal/config"
	"flipkart-scraper-api-go/internal/model"
)

// SearchService forwards search requests to the search collaborator.
type SearchService struct {
	searcher Searcher
	timeout  time.Duration
	logger   *slog.Logger
}

// NewSearchService creates a SearchService.
func NewSearchService(s Searcher, cfg *config.Config, logger *slog.Logger) *SearchService {
	return &SearchService{
		searcher: s,
		timeout:  cfg.Collaborator.Timeout(),
		logger:   logger.With("component", "search_service"),
	}
}

// Search runs req against the collaborator and returns the encoded result.
// Errors are *model.DownstreamError or *model.EncodeError.
func (s *SearchService) Search(ctx context.Context, req model.SearchRequest) (json.RawMessage, error) {
	params := req.Params
	if params == nil {
		params = map[string]string{}
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	s.logger.Debug("searching", "query", req.Query, "params", len(params))

	result, err := s.searcher.Search(ctx, req.Query, params)
	if err != nil {
		return nil, downstream("search", err)
	}
	return encode(result)
}
