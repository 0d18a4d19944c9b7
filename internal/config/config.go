// Package config handles CLI, environment and optional TOML configuration.
package config

import (
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

// configSearchPaths lists paths checked in order when no explicit config is given.
var configSearchPaths = []string{
	"/etc/flipkart-scraper-api/config.toml",
	"configs/config.toml",
}

// CLI holds command-line arguments parsed by Kong.
type CLI struct {
	Config        string `kong:"short='c',help='Path to TOML config file.',env='CONFIG_PATH'"`
	Host          string `kong:"help='Listen address (overrides config).',env='HOST'"`
	Port          int    `kong:"short='p',help='Listen port (overrides config).',env='PORT'"`
	ScraperURL    string `kong:"help='Scraper backend base URL (overrides config).',env='SCRAPER_URL'"`
	BaseOrigin    string `kong:"help='Origin product links are resolved against (overrides config).',env='BASE_ORIGIN'"`
	DeploymentURL string `kong:"help='Public URL shown in usage hints (overrides config).',env='DEPLOYMENT_URL'"`
	LogLevel      string `kong:"help='Log level: debug|info|warn|error (overrides config).',env='LOG_LEVEL'"`
}

// Config is the top-level application configuration.
type Config struct {
	Server       ServerConfig       `toml:"server"`
	Product      ProductConfig      `toml:"product"`
	Collaborator CollaboratorConfig `toml:"collaborator"`
	Log          LogConfig          `toml:"log"`
	Metrics      MetricsConfig      `toml:"metrics"`
	Tracing      TracingConfig      `toml:"tracing"`

	filePath string // resolved config file path (unexported)
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host          string `toml:"host"`
	Port          int    `toml:"port"` // 0 means "use default" (8000); TOML cannot distinguish 0 from unset
	BodyMaxBytes  int64  `toml:"body_max_bytes"`
	DeploymentURL string `toml:"deployment_url"`
}

// ProductConfig controls how product links are resolved.
type ProductConfig struct {
	BaseOrigin string `toml:"base_origin"`
}

// CollaboratorConfig holds scraper backend connection settings.
type CollaboratorConfig struct {
	BaseURL         string `toml:"base_url"`
	TimeoutSeconds  int    `toml:"timeout_seconds"`
	IdleConnections int    `toml:"idle_connections"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// MetricsConfig holds Prometheus metrics settings.
type MetricsConfig struct {
	Enabled bool   `toml:"enabled"`
	Path    string `toml:"path"`
}

// TracingConfig holds OpenTelemetry settings. With an empty Endpoint spans
// are created and propagated but not exported.
type TracingConfig struct {
	Enabled     bool   `toml:"enabled"`
	Endpoint    string `toml:"endpoint"`
	ServiceName string `toml:"service_name"`
}

// Load reads the optional TOML config file and applies CLI overrides.
// When no explicit path is given (via --config or CONFIG_PATH), it searches
// /etc/flipkart-scraper-api/config.toml then configs/config.toml; if neither
// exists, CLI/env values and defaults are used alone.
func Load(cli *CLI) (*Config, error) {
	var cfg Config

	path := cli.Config
	if path == "" {
		path = findConfig()
	}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("config: parse %s: %w", path, err)
		}
		cfg.filePath = path
	}

	cfg.applyCLI(cli)
	cfg.setDefaults()

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config: validate: %w", err)
	}
	return &cfg, nil
}

// applyCLI overrides config values with non-zero CLI flags.
func (c *Config) applyCLI(cli *CLI) {
	if cli.Host != "" {
		c.Server.Host = cli.Host
	}
	if cli.Port != 0 {
		c.Server.Port = cli.Port
	}
	if cli.DeploymentURL != "" {
		c.Server.DeploymentURL = cli.DeploymentURL
	}
	if cli.ScraperURL != "" {
		c.Collaborator.BaseURL = cli.ScraperURL
	}
	if cli.BaseOrigin != "" {
		c.Product.BaseOrigin = cli.BaseOrigin
	}
	if cli.LogLevel != "" {
		c.Log.Level = cli.LogLevel
	}
}

// setDefaults fills zero-valued fields with sensible defaults.
// For integer fields (Port, BodyMaxBytes, etc.), zero means "unset" because TOML
// cannot distinguish between an explicit 0 and an omitted key. Setting port=0 in
// the config file therefore results in the default port (8000).
func (c *Config) setDefaults() {
	if c.Server.Host == "" {
		c.Server.Host = "0.0.0.0"
	}
	if c.Server.Port == 0 {
		c.Server.Port = 8000
	}
	if c.Server.BodyMaxBytes == 0 {
		c.Server.BodyMaxBytes = 64 * 1024
	}
	if c.Server.DeploymentURL == "" {
		c.Server.DeploymentURL = "https://0.0.0.0:10000"
	}
	if c.Product.BaseOrigin == "" {
		c.Product.BaseOrigin = "https://www.flipkart.com"
	}
	if c.Collaborator.TimeoutSeconds == 0 {
		c.Collaborator.TimeoutSeconds = 30
	}
	if c.Collaborator.IdleConnections == 0 {
		c.Collaborator.IdleConnections = 100
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "json"
	}
	if c.Metrics.Path == "" {
		c.Metrics.Path = "/metrics"
	}
	if c.Tracing.ServiceName == "" {
		c.Tracing.ServiceName = "flipkart-scraper-api"
	}
}

// reservedRoutes are path prefixes served by the API itself.
var reservedRoutes = []string{"/search", "/product", "/hello", "/wave", "/healthz"}

func (c *Config) validate() error {
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be 0–65535; got %d", c.Server.Port)
	}
	if c.Server.BodyMaxBytes < 0 {
		return fmt.Errorf("server.body_max_bytes must be non-negative; got %d", c.Server.BodyMaxBytes)
	}
	if c.Collaborator.TimeoutSeconds < 0 {
		return fmt.Errorf("collaborator.timeout_seconds must be non-negative; got %d", c.Collaborator.TimeoutSeconds)
	}
	if c.Collaborator.IdleConnections < 0 {
		return fmt.Errorf("collaborator.idle_connections must be non-negative; got %d", c.Collaborator.IdleConnections)
	}

	// Scraper backend: required, absolute http(s).
	if c.Collaborator.BaseURL == "" {
		return fmt.Errorf("collaborator.base_url is required (set it in config, --scraper-url or SCRAPER_URL)")
	}
	if err := validateHTTPURL("collaborator.base_url", c.Collaborator.BaseURL); err != nil {
		return err
	}

	// Product origin: scheme and host only.
	if err := validateHTTPURL("product.base_origin", c.Product.BaseOrigin); err != nil {
		return err
	}
	if u, _ := url.Parse(c.Product.BaseOrigin); strings.Trim(u.Path, "/") != "" || u.RawQuery != "" {
		return fmt.Errorf("product.base_origin must not carry a path or query; got %q", c.Product.BaseOrigin)
	}

	// Log fields.
	level := strings.ToLower(c.Log.Level)
	switch level {
	case "debug", "info", "warn", "error":
		// valid
	default:
		return fmt.Errorf("log.level must be one of: debug, info, warn, error; got %q", c.Log.Level)
	}
	format := strings.ToLower(c.Log.Format)
	switch format {
	case "json", "text":
		// valid
	default:
		return fmt.Errorf("log.format must be one of: json, text; got %q", c.Log.Format)
	}

	// Metrics path validation (only when metrics are enabled).
	if c.Metrics.Enabled {
		p := c.Metrics.Path
		if p[0] != '/' || p == "/" {
			return fmt.Errorf("metrics.path must start with '/' and not be the root; got %q", p)
		}
		for _, reserved := range reservedRoutes {
			if p == reserved || strings.HasPrefix(p, reserved+"/") {
				return fmt.Errorf("metrics.path %q conflicts with reserved route %q", p, reserved)
			}
		}
	}

	if c.Tracing.Enabled && c.Tracing.Endpoint != "" {
		if err := validateHTTPURL("tracing.endpoint", c.Tracing.Endpoint); err != nil {
			return err
		}
	}

	return nil
}

func validateHTTPURL(field, raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("%s is not a valid URL: %w", field, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("%s must use http or https; got %q", field, raw)
	}
	if u.Host == "" {
		return fmt.Errorf("%s must include a host; got %q", field, raw)
	}
	return nil
}

// findConfig returns the first config path that exists, or empty string.
func findConfig() string {
	return findConfigInPaths(configSearchPaths)
}

// findConfigInPaths returns the first path that exists on disk, or empty string.
func findConfigInPaths(paths []string) string {
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

// Addr returns the server listen address as host:port.
func (c *ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// Timeout returns the collaborator call budget.
func (c *CollaboratorConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// WarnPermissions logs a warning if the config file is readable by group or others.
func (c *Config) WarnPermissions(logger *slog.Logger) {
	if c.filePath == "" {
		return
	}
	info, err := os.Stat(c.filePath)
	if err != nil {
		return
	}
	if perm := info.Mode().Perm(); perm&0o077 != 0 {
		logger.Warn("config file is readable by group/others; consider chmod 600",
			"path", c.filePath,
			"mode", fmt.Sprintf("%04o", perm),
		)
	}
}
