package middleware

import (
	"strings"

	"github.com/labstack/echo/v4"
)

// CanonicalPath drops a request's RawPath when it differs from the default
// encoding of Path only in the case of percent escapes. Echo routes on
// RawPath when it is set, so "/hello/%d0%bc..." would otherwise miss the
// "/hello/мир" route. Escaped slashes and other meaningful escapes are kept.
// It must be registered with e.Pre.
func CanonicalPath() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			u := c.Request().URL
			if u.RawPath != "" {
				canonical := *u
				canonical.RawPath = ""
				if strings.EqualFold(u.RawPath, canonical.EscapedPath()) {
					u.RawPath = ""
				}
			}
			return next(c)
		}
	}
}
