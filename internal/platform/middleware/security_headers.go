package middleware

import (
	"strings"

	"github.com/labstack/echo/v4"
)

var staticHeaders = [][2]string{
	{"X-Content-Type-Options", "nosniff"},
	{"X-Frame-Options", "DENY"},
	{"Content-Security-Policy", "default-src 'none'; frame-ancestors 'none'"},
	{"Strict-Transport-Security", "max-age=31536000; includeSubDomains"},
	{"Referrer-Policy", "no-referrer"},
	{"Cache-Control", "no-store"},
}

// permissionsPolicy grants device access only to the pages that need it:
// the video visit uses camera and microphone, the dispatch board uses
// location.
func permissionsPolicy(path string) string {
	switch {
	case strings.Contains(path, "/telemedicine"):
		return "camera=(self), microphone=(self), geolocation=()"
	case strings.Contains(path, "/emergency"):
		return "camera=(), microphone=(), geolocation=(self)"
	}
	return "camera=(), microphone=(), geolocation=()"
}

// SecurityHeaders hardens every response. Patient records must not be cached
// by browsers or proxies.
func SecurityHeaders() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			h := c.Response().Header()
			for _, kv := range staticHeaders {
				h.Set(kv[0], kv[1])
			}
			h.Set("Permissions-Policy", permissionsPolicy(c.Request().URL.Path))
			return next(c)
		}
	}
}
