package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

// CORSConfig holds CORS configuration.
type CORSConfig struct {
	AllowOrigins []string
	AllowMethods []string
	AllowHeaders []string
}

// DefaultAllowHeaders are the request headers browser clients of the API send.
var DefaultAllowHeaders = []string{"authorization", "x-client-info", "apikey", "content-type"}

// CORS returns CORS middleware. Headers are set on every response and
// preflight requests are answered with an empty 200.
func CORS(cfg CORSConfig) echo.MiddlewareFunc {
	if len(cfg.AllowHeaders) == 0 {
		cfg.AllowHeaders = DefaultAllowHeaders
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			origin := c.Request().Header.Get(echo.HeaderOrigin)
			h := c.Response().Header()

			switch {
			case len(cfg.AllowOrigins) == 0 || cfg.AllowOrigins[0] == "*":
				h.Set(echo.HeaderAccessControlAllowOrigin, "*")
			case originAllowed(cfg.AllowOrigins, origin):
				h.Set(echo.HeaderAccessControlAllowOrigin, origin)
				h.Add(echo.HeaderVary, echo.HeaderOrigin)
			}

			if len(cfg.AllowMethods) > 0 {
				h.Set(echo.HeaderAccessControlAllowMethods, strings.Join(cfg.AllowMethods, ", "))
			}
			h.Set(echo.HeaderAccessControlAllowHeaders, strings.Join(cfg.AllowHeaders, ", "))

			if c.Request().Method == http.MethodOptions {
				return c.String(http.StatusOK, "")
			}

			return next(c)
		}
	}
}

func originAllowed(allowed []string, origin string) bool {
	for _, o := range allowed {
		if o == "*" || o == origin {
			return true
		}
	}
	return false
}
