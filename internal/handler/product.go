package handler

import (
	"log/slog"

	"github.com/labstack/echo/v4"

	"flipkart-scraper-api-go/internal/binder"
	"flipkart-scraper-api-go/internal/envelope"
	"flipkart-scraper-api-go/internal/service"
)

// ProductHandler serves GET /product/<url..>.
type ProductHandler struct {
	service *service.ProductService
	logger  *slog.Logger
}

// NewProductHandler creates a ProductHandler.
func NewProductHandler(svc *service.ProductService, logger *slog.Logger) *ProductHandler {
	return &ProductHandler{
		service: svc,
		logger:  logger.With("component", "product_handler"),
	}
}

// Handle binds the product link and returns the product envelope.
func (h *ProductHandler) Handle(c echo.Context) error {
	req := c.Request()

	pr, err := binder.Product(req.URL.EscapedPath(), req.URL.RawQuery)
	if err != nil {
		return respondError(c, h.logger, err)
	}

	data, err := h.service.Lookup(req.Context(), pr)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return envelope.Success(data).Write(c)
}
