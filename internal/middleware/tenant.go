package middleware

import (
	"context"
	"net/http"

	"postewatch/internal/common"
	"postewatch/internal/repositories"
	"postewatch/internal/services"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// TenantMiddleware attributes each request to a tenant. It runs after
// the JWT middleware and rejects any principal without a valid tenant
// before a handler can touch domain data: a user with no tenant, or a
// tenant_id whose row is gone, gets a 401 and must re-authenticate.
type TenantMiddleware struct {
	userRepo   repositories.UserRepository
	tenantRepo repositories.TenantRepository
}

func NewTenantMiddleware(userRepo repositories.UserRepository, tenantRepo repositories.TenantRepository) *TenantMiddleware {
	return &TenantMiddleware{
		userRepo:   userRepo,
		tenantRepo: tenantRepo,
	}
}

func (m *TenantMiddleware) Resolve() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token, ok := c.Get("user").(*jwt.Token)
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "Missing token")
			}
			claims, ok := token.Claims.(*services.TokenClaims)
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "Invalid claims")
			}

			userID, err := uuid.Parse(claims.UserID)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "Invalid user_id format")
			}

			// The token's tenant claim is not trusted on its own; the
			// user row is the source of truth.
			tenantID, err := m.userRepo.GetTenantIDByUserID(c.Request().Context(), userID)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "User not found")
			}
			if tenantID == uuid.Nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "User has no tenant")
			}

			// A tenant_id pointing at a missing tenant row is a data
			// integrity violation; force re-authentication.
			if _, err := m.tenantRepo.GetByID(c.Request().Context(), tenantID); err != nil {
				c.Logger().Errorf("tenant %s referenced by user %s does not exist", tenantID, userID)
				return echo.NewHTTPError(http.StatusUnauthorized, "Tenant not found")
			}

			ctx := context.WithValue(c.Request().Context(), common.UserIDKey, userID)
			ctx = context.WithValue(ctx, common.TenantIDKey, tenantID)
			c.SetRequest(c.Request().WithContext(ctx))

			return next(c)
		}
	}
}
