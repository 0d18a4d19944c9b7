package main

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/alecthomas/kong"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/fx"

	"flipkart-scraper-api-go/internal/client"
	"flipkart-scraper-api-go/internal/config"
	"flipkart-scraper-api-go/internal/handler"
	"flipkart-scraper-api-go/internal/metrics"
	"flipkart-scraper-api-go/internal/middleware"
	"flipkart-scraper-api-go/internal/service"
	"flipkart-scraper-api-go/internal/tracing"
)

// Set by goreleaser ldflags.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	var cli config.CLI
	kong.Parse(&cli,
		kong.Name("flipkart-scraper-api"),
		kong.Description("JSON API for searching Flipkart and fetching product details."),
		kong.Vars{"version": fmt.Sprintf("%s (%s, %s)", version, commit, date)},
	)

	fx.New(
		fx.Provide(
			func() *config.CLI { return &cli },
			func() handler.Version { return handler.Version(version) },
			config.Load,
			newLogger,
			metrics.New,
			tracing.New,
			newEcho,
			client.NewScraperClient,
			fx.Annotate(
				func(c *client.ScraperClient) *client.ScraperClient { return c },
				fx.As(new(service.Searcher)),
				fx.As(new(service.ProductFetcher)),
			),
			service.NewSearchService,
			service.NewProductService,
			handler.NewSearchHandler,
			handler.NewProductHandler,
			handler.NewInfoHandler,
			handler.NewDemoHandler,
		),
		fx.Invoke(handler.RegisterRoutes, warnConfigPermissions, startServer),
	).Run()
}

func newLogger(cfg *config.Config) *slog.Logger {
	level := slog.LevelInfo
	switch strings.ToLower(cfg.Log.Level) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}

	opts := &slog.HandlerOptions{Level: level}

	var h slog.Handler
	switch strings.ToLower(cfg.Log.Format) {
	case "text":
		h = slog.NewTextHandler(os.Stdout, opts)
	default:
		h = slog.NewJSONHandler(os.Stdout, opts)
	}

	return slog.New(h).With("service", cfg.Tracing.ServiceName)
}

func newEcho(cfg *config.Config, logger *slog.Logger, m *metrics.Metrics) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Server.ReadTimeout = 30 * time.Second
	// Product pages can take a while to scrape; writes get the collaborator
	// timeout plus some slack.
	e.Server.WriteTimeout = cfg.Collaborator.Timeout() + 10*time.Second
	e.Server.IdleTimeout = 120 * time.Second
	e.Server.ReadHeaderTimeout = 10 * time.Second

	e.HTTPErrorHandler = handler.NewErrorHandler(logger)

	e.Pre(middleware.CanonicalPath())
	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())
	e.Use(middleware.RequestLogger(logger))
	if cfg.Metrics.Enabled {
		e.Use(middleware.MetricsMiddleware(m))
	}
	e.Use(echomw.BodyLimit(fmt.Sprintf("%dB", cfg.Server.BodyMaxBytes)))
	e.Use(middleware.SecurityHeaders())

	return e
}

func warnConfigPermissions(cfg *config.Config, logger *slog.Logger) {
	cfg.WarnPermissions(logger)
}

func startServer(lc fx.Lifecycle, e *echo.Echo, cfg *config.Config, tp *tracing.Provider, logger *slog.Logger) {
	var h http.Handler = e
	if tp.Enabled() {
		h = otelhttp.NewHandler(e, "flipkart-scraper-api",
			otelhttp.WithSpanNameFormatter(func(_ string, r *http.Request) string {
				return r.Method + " " + metrics.NormalizePath(r.URL.Path)
			}),
		)
	}
	e.Server.Handler = h

	lc.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			addr := cfg.Server.Addr()
			ln, err := net.Listen("tcp", addr)
			if err != nil {
				return fmt.Errorf("bind %s: %w", addr, err)
			}
			logger.Info("starting server",
				"addr", addr,
				"collaborator", cfg.Collaborator.BaseURL,
				"origin", cfg.Product.BaseOrigin,
				"tracing", tp.Enabled(),
			)
			go func() {
				if err := e.Server.Serve(ln); err != nil && err != http.ErrServerClosed {
					logger.Error("server error", "err", err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			logger.Info("shutting down server")
			if err := e.Shutdown(ctx); err != nil {
				return err
			}
			return tp.Shutdown(ctx)
		},
	})
}
