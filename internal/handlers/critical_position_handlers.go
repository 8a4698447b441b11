package handlers

import (
	"net/http"

	"postewatch/internal/common"
	"postewatch/internal/services"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// CriticalPositionHandlers handles critical position HTTP requests
type CriticalPositionHandlers struct {
	criticalService services.CriticalPositionService
}

// NewCriticalPositionHandlers creates a new critical position handlers instance
func NewCriticalPositionHandlers(criticalService services.CriticalPositionService) *CriticalPositionHandlers {
	return &CriticalPositionHandlers{criticalService: criticalService}
}

// ListCriticalPositionsRequest represents query parameters for listing
type ListCriticalPositionsRequest struct {
	Limit  int `query:"limit"`
	Offset int `query:"offset"`
}

// ListCriticalPositions returns the tenant's critical position records
func (h *CriticalPositionHandlers) ListCriticalPositions(c echo.Context) error {
	ctx := c.Request().Context()

	var req ListCriticalPositionsRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid query parameters")
	}
	limit, offset := common.ValidatePaginationParams(req.Limit, req.Offset)

	tenantID, ok := common.GetTenantIDFromContext(ctx)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "Tenant not found")
	}

	positions, err := h.criticalService.List(ctx, tenantID, limit, offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to list critical positions")
	}

	return c.JSON(http.StatusOK, map[string]any{
		"critical_positions": positions,
		"limit":              limit,
		"offset":             offset,
	})
}

// GetCriticalStatusRequest represents query parameters for a criticality lookup
type GetCriticalStatusRequest struct {
	PosteID string `query:"poste_id" validate:"required"`
	Ligne   string `query:"ligne"`
}

// GetCriticalStatus answers whether one (poste, ligne) pair is critical
func (h *CriticalPositionHandlers) GetCriticalStatus(c echo.Context) error {
	ctx := c.Request().Context()

	var req GetCriticalStatusRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid query parameters")
	}
	posteID, err := uuid.Parse(req.PosteID)
	if err != nil {
		return common.SendValidationError(c, "poste_id", "invalid UUID format")
	}
	if err := common.ValidateLigne(req.Ligne); err != nil {
		return common.SendValidationError(c, "ligne", err.Error())
	}

	tenantID, ok := common.GetTenantIDFromContext(ctx)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "Tenant not found")
	}

	critical, err := h.criticalService.IsCritical(ctx, tenantID, posteID, req.Ligne)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to resolve critical status")
	}

	return c.JSON(http.StatusOK, map[string]any{
		"poste_id":    posteID,
		"ligne":       common.NormalizeLigne(req.Ligne),
		"is_critical": critical,
	})
}

// SetCriticalRequest represents the criticality mutation payload
type SetCriticalRequest struct {
	PosteID    string `json:"poste_id" validate:"required"`
	Ligne      string `json:"ligne"`
	IsCritical bool   `json:"is_critical"`
}

// SetCritical marks or unmarks a (poste, ligne) pair as critical
func (h *CriticalPositionHandlers) SetCritical(c echo.Context) error {
	ctx := c.Request().Context()

	var req SetCriticalRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}
	posteID, err := uuid.Parse(req.PosteID)
	if err != nil {
		return common.SendValidationError(c, "poste_id", "invalid UUID format")
	}
	if err := common.ValidateLigne(req.Ligne); err != nil {
		return common.SendValidationError(c, "ligne", err.Error())
	}

	tenantID, ok := common.GetTenantIDFromContext(ctx)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "Tenant not found")
	}

	cp, err := h.criticalService.SetCritical(ctx, tenantID, posteID, req.Ligne, req.IsCritical)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to update critical status")
	}

	return c.JSON(http.StatusOK, cp)
}
