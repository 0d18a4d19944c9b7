package handler

import (
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"flipkart-scraper-api-go/internal/config"
	"flipkart-scraper-api-go/internal/metrics"
)

type route struct {
	path    string
	handler echo.HandlerFunc
}

// routeTable lists every GET route. Literal paths are registered before the
// trailing captures so that no demo path can shadow search or product.
func routeTable(search *SearchHandler, product *ProductHandler, info *InfoHandler, demo *DemoHandler) []route {
	return []route{
		{"/", info.Root},
		{"/hello", demo.Hello},
		{"/hello/world", demo.World},
		{"/hello/мир", demo.Mir},
		{"/wave/:name/:age", demo.Wave},
		{"/search", search.Handle},
		{"/search/*", search.Handle},
		{"/product", product.Handle},
		{"/product/*", product.Handle},
		{"/healthz", info.Healthz},
	}
}

// RegisterRoutes wires all route handlers onto the Echo instance. Anything
// unmatched is redirected to the root.
func RegisterRoutes(
	e *echo.Echo,
	cfg *config.Config,
	m *metrics.Metrics,
	search *SearchHandler,
	product *ProductHandler,
	info *InfoHandler,
	demo *DemoHandler,
) {
	for _, r := range routeTable(search, product, info, demo) {
		e.GET(r.path, r.handler)
	}

	if cfg.Metrics.Enabled && m != nil {
		e.GET(cfg.Metrics.Path, echo.WrapHandler(promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{})))
	}

	e.RouteNotFound("/*", NotFound)
}
