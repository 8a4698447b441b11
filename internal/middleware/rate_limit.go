package middleware

import (
	"fmt"
	"net/http"
	"time"

	"postewatch/internal/caching"
	"postewatch/internal/common"

	"github.com/labstack/echo/v4"
)

// RateLimitMiddleware throttles requests with Redis counters keyed by
// (scope, window); counters expire with the window, so there is no
// in-process mutable state.
type RateLimitMiddleware struct {
	cacheSvc caching.CacheService
	limit    int
	window   time.Duration
}

func NewRateLimitMiddleware(cacheSvc caching.CacheService, limit int, window time.Duration) *RateLimitMiddleware {
	return &RateLimitMiddleware{
		cacheSvc: cacheSvc,
		limit:    limit,
		window:   window,
	}
}

// ByIP limits unauthenticated routes (login, signup) per client IP.
func (m *RateLimitMiddleware) ByIP() echo.MiddlewareFunc {
	return m.limited(func(c echo.Context) string {
		return fmt.Sprintf("ip:%s:%d", c.RealIP(), time.Now().Unix()/int64(m.window.Seconds()))
	})
}

// ByTenant limits authenticated routes per tenant.
func (m *RateLimitMiddleware) ByTenant() echo.MiddlewareFunc {
	return m.limited(func(c echo.Context) string {
		tenantID, ok := common.GetTenantIDFromContext(c.Request().Context())
		if !ok {
			return fmt.Sprintf("ip:%s:%d", c.RealIP(), time.Now().Unix()/int64(m.window.Seconds()))
		}
		return fmt.Sprintf("tenant:%s:%d", tenantID.String(), time.Now().Unix()/int64(m.window.Seconds()))
	})
}

func (m *RateLimitMiddleware) limited(key func(echo.Context) string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			limited, err := m.cacheSvc.IsRateLimited(c.Request().Context(), key(c), m.limit, m.window)
			if err != nil {
				// Redis being down should not take requests with it
				c.Logger().Warnf("rate limit check failed: %v", err)
				return next(c)
			}
			if limited {
				return echo.NewHTTPError(http.StatusTooManyRequests, "Rate limit exceeded")
			}
			return next(c)
		}
	}
}
