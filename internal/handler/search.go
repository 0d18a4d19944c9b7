package handler

import (
	"log/slog"

	"github.com/labstack/echo/v4"

	"flipkart-scraper-api-go/internal/binder"
	"flipkart-scraper-api-go/internal/envelope"
	"flipkart-scraper-api-go/internal/service"
)

// SearchHandler serves GET /search and GET /search/<query..>.
type SearchHandler struct {
	service *service.SearchService
	logger  *slog.Logger
}

// NewSearchHandler creates a SearchHandler.
func NewSearchHandler(svc *service.SearchService, logger *slog.Logger) *SearchHandler {
	return &SearchHandler{
		service: svc,
		logger:  logger.With("component", "search_handler"),
	}
}

// Handle binds the query text and options and returns the search envelope.
func (h *SearchHandler) Handle(c echo.Context) error {
	req := c.Request()

	sr, err := binder.Search(req.URL.EscapedPath(), req.URL.RawQuery)
	if err != nil {
		return respondError(c, h.logger, err)
	}

	data, err := h.service.Search(req.Context(), sr)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return envelope.Success(data).Write(c)
}
