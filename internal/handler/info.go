package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"flipkart-scraper-api-go/internal/config"
	"flipkart-scraper-api-go/internal/envelope"
)

// Version is a string type for dependency injection of the build version.
type Version string

const (
	serviceName        = "flipkart-scraper-api"
	serviceDescription = "HTTP API for searching Flipkart and fetching product details."
	serviceRepository  = envelope.IssuesURL
	serviceLicense     = "GPL-3.0"
)

type usage struct {
	SearchAPI  string `json:"search_api"`
	ProductAPI string `json:"product_api"`
}

type serviceInfo struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Version     string `json:"version"`
	Repository  string `json:"repository"`
	License     string `json:"license"`
	Usage       usage  `json:"usage"`
}

// InfoHandler serves the root description and the liveness probe.
type InfoHandler struct {
	info serviceInfo
}

// NewInfoHandler creates an InfoHandler. Usage hints are built once from the
// configured deployment URL.
func NewInfoHandler(cfg *config.Config, v Version) *InfoHandler {
	deploy := strings.TrimSuffix(cfg.Server.DeploymentURL, "/")
	return &InfoHandler{info: serviceInfo{
		Name:        serviceName,
		Description: serviceDescription,
		Version:     string(v),
		Repository:  serviceRepository,
		License:     serviceLicense,
		Usage: usage{
			SearchAPI:  deploy + "/search/{product_name}",
			ProductAPI: deploy + "/product/{product_link_argument}",
		},
	}}
}

// Root describes the service and how to call it.
func (h *InfoHandler) Root(c echo.Context) error {
	return envelope.Success(h.info).Write(c)
}

// Healthz returns a simple OK response for liveness probes.
func (h *InfoHandler) Healthz(c echo.Context) error {
	return envelope.Success(map[string]string{"status": "ok"}).Write(c)
}

// NotFound sends every unmatched path back to the root description.
func NotFound(c echo.Context) error {
	return c.Redirect(http.StatusPermanentRedirect, "/")
}
