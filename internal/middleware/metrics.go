package middleware

import (
	"errors"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"flipkart-scraper-api-go/internal/metrics"
)

// MetricsMiddleware returns an Echo middleware that records request counts,
// latency and envelope outcome per route.
func MetricsMiddleware(m *metrics.Metrics) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			m.RequestsInFlight.Inc()
			defer m.RequestsInFlight.Dec()

			start := time.Now()
			err := next(c)

			// A returned *echo.HTTPError is written later by the error
			// handler, so the response status is not final yet.
			code := c.Response().Status
			var he *echo.HTTPError
			if err != nil && errors.As(err, &he) {
				code = he.Code
			}

			method := metrics.NormalizeMethod(c.Request().Method)
			route := metrics.NormalizePath(c.Request().URL.Path)
			status := strconv.Itoa(code)

			m.RequestsTotal.WithLabelValues(method, status, route).Inc()
			m.RequestDuration.WithLabelValues(method, status, route).Observe(time.Since(start).Seconds())
			m.Outcomes.WithLabelValues(route, metrics.Outcome(code)).Inc()

			return err
		}
	}
}
