package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"flipkart-scraper-api-go/internal/envelope"
	"flipkart-scraper-api-go/internal/model"
)

// respondError maps a binding, downstream or internal failure to its envelope.
func respondError(c echo.Context, logger *slog.Logger, err error) error {
	path := c.Request().URL.Path

	var be *model.BindingError
	if errors.As(err, &be) {
		logger.Debug("binding error", "err", err, "path", path)
		return envelope.BadRequest(envelope.ErrorDetail{
			ErrorMessage: be.Message,
			MoreDetails:  be.Detail,
		}).Write(c)
	}

	var de *model.DownstreamError
	if errors.As(err, &de) {
		logger.Warn("collaborator error", "op", de.Op, "err", de.Err, "path", path)
		return envelope.BadGateway(envelope.ErrorDetail{ErrorMessage: de.Message}).Write(c)
	}

	logger.Error("internal error", "err", err, "path", path)
	return envelope.InternalError(err.Error()).Write(c)
}

// NewErrorHandler returns an Echo error handler that renders framework
// errors (405, 413, recovered panics) as envelopes.
func NewErrorHandler(logger *slog.Logger) echo.HTTPErrorHandler {
	logger = logger.With("component", "error_handler")
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		var he *echo.HTTPError
		if !errors.As(err, &he) {
			logger.Error("unhandled error", "err", err, "path", c.Request().URL.Path)
			he = echo.NewHTTPError(http.StatusInternalServerError)
		}

		resp := envelope.FromHTTPError(he)
		var werr error
		if c.Request().Method == http.MethodHead {
			werr = c.NoContent(resp.Status)
		} else {
			werr = resp.Write(c)
		}
		if werr != nil {
			logger.Error("write error response", "err", werr)
		}
	}
}
