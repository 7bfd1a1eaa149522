package stub

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"golang.org/x/time/rate"
)

// RegisterRoutes configures the quote route, auth and rate limiting.
func RegisterRoutes(e *echo.Echo, h *Handlers, cfg ServerConfig) {
	e.HTTPErrorHandler = PlainTextErrors()
	e.Use(SetNoCacheHeaders)

	e.GET("/health", h.Health)

	api := e.Group("/api/v1")
	if cfg.AuthToken != "" {
		api.Use(middleware.KeyAuthWithConfig(middleware.KeyAuthConfig{
			KeyLookup:  "header:" + echo.HeaderAuthorization,
			AuthScheme: "Bearer",
			Validator: func(key string, c echo.Context) (bool, error) {
				return key == cfg.AuthToken, nil
			},
			ErrorHandler: func(err error, c echo.Context) error {
				return c.String(http.StatusUnauthorized, "invalid or missing bearer token")
			},
		}))
	}
	if cfg.RateLimit > 0 {
		burst := cfg.RateBurst
		if burst <= 0 {
			burst = 1
		}
		api.Use(middleware.RateLimiter(middleware.NewRateLimiterMemoryStoreWithConfig(middleware.RateLimiterMemoryStoreConfig{
			Rate:      rate.Limit(cfg.RateLimit),
			Burst:     burst,
			ExpiresIn: 2 * time.Minute,
		})))
	}
	api.GET("/quote/swap", h.QuoteSwap)

	e.RouteNotFound("/*", func(c echo.Context) error {
		return c.String(http.StatusNotFound, "not found")
	})
}
