package handler

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"flipkart-scraper-api-go/internal/binder"
	"flipkart-scraper-api-go/internal/envelope"
)

type message struct {
	Message string `json:"message"`
}

// DemoHandler serves the greeting endpoints.
type DemoHandler struct {
	logger *slog.Logger
}

// NewDemoHandler creates a DemoHandler.
func NewDemoHandler(logger *slog.Logger) *DemoHandler {
	return &DemoHandler{logger: logger.With("component", "demo_handler")}
}

// Hello composes a greeting from ?lang=&emoji&name=.
func (h *DemoHandler) Hello(c echo.Context) error {
	opts, err := binder.Greeting(c.Request().URL.RawQuery)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return envelope.Success(message{Message: greet(opts)}).Write(c)
}

func greet(opts binder.GreetingOptions) string {
	var b strings.Builder
	if opts.Emoji {
		b.WriteString("👋 ")
	}
	switch opts.Lang {
	case binder.LangRussian:
		b.WriteString("Привет")
	case binder.LangEnglish:
		b.WriteString("Hello")
	default:
		b.WriteString("Hi")
	}
	if opts.Name != "" {
		b.WriteString(", ")
		b.WriteString(opts.Name)
	}
	b.WriteByte('!')
	return b.String()
}

// World greets in English.
func (h *DemoHandler) World(c echo.Context) error {
	return envelope.Success(message{Message: "Hello, world!"}).Write(c)
}

// Mir greets in Russian.
func (h *DemoHandler) Mir(c echo.Context) error {
	return envelope.Success(message{Message: "Привет, мир!"}).Write(c)
}

// Wave greets /wave/<name>/<age>. An age outside 0..255 does not match the
// route and is handled like any unknown path.
func (h *DemoHandler) Wave(c echo.Context) error {
	segs, err := binder.PathSegments(c.Request().URL.EscapedPath())
	if err != nil || len(segs) != 3 {
		return NotFound(c)
	}
	age, err := strconv.ParseUint(segs[2], 10, 8)
	if err != nil {
		return NotFound(c)
	}
	return envelope.Success(message{
		Message: fmt.Sprintf("👋 Hello, %d year old named %s!", age, segs[1]),
	}).Write(c)
}
