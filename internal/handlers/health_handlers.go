package handlers

import (
	"net/http"
	"time"

	"postewatch/internal/caching"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
)

// HealthHandlers handles liveness and readiness probes
type HealthHandlers struct {
	pool     *pgxpool.Pool
	cacheSvc caching.CacheService
}

// NewHealthHandlers creates a new health handlers instance
func NewHealthHandlers(pool *pgxpool.Pool, cacheSvc caching.CacheService) *HealthHandlers {
	return &HealthHandlers{
		pool:     pool,
		cacheSvc: cacheSvc,
	}
}

// HealthCheck reports process liveness
func (h *HealthHandlers) HealthCheck(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status": "ok",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

// ReadinessCheck reports whether the database and cache are reachable
func (h *HealthHandlers) ReadinessCheck(c echo.Context) error {
	ctx := c.Request().Context()

	checks := map[string]string{
		"database": "ok",
		"cache":    "ok",
	}
	status := http.StatusOK

	if err := h.pool.Ping(ctx); err != nil {
		checks["database"] = err.Error()
		status = http.StatusServiceUnavailable
	}

	// A failed write means cached dashboards would silently degrade.
	if err := h.cacheSvc.SetString(ctx, "postewatch:healthcheck", "ok", 10*time.Second); err != nil {
		checks["cache"] = err.Error()
		status = http.StatusServiceUnavailable
	}

	return c.JSON(status, map[string]any{
		"status": http.StatusText(status),
		"checks": checks,
	})
}
