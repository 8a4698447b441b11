package handlers

import (
	"net/http"

	"postewatch/internal/common"
	"postewatch/internal/services"

	"github.com/labstack/echo/v4"
)

// DashboardHandlers handles dashboard HTTP requests
type DashboardHandlers struct {
	dashboardService services.DashboardService
}

// NewDashboardHandlers creates a new dashboard handlers instance
func NewDashboardHandlers(dashboardService services.DashboardService) *DashboardHandlers {
	return &DashboardHandlers{dashboardService: dashboardService}
}

// SnapshotRequest represents query parameters for the dashboard snapshot
type SnapshotRequest struct {
	Date string `query:"date"`
}

// GetSnapshot returns the unstaffed critical positions for a date
func (h *DashboardHandlers) GetSnapshot(c echo.Context) error {
	ctx := c.Request().Context()

	var req SnapshotRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid query parameters")
	}

	date := common.Today()
	if req.Date != "" {
		parsed, err := common.ValidateDateFormat(req.Date, "date")
		if err != nil {
			return common.SendValidationError(c, "date", err.Error())
		}
		date = parsed
	}

	tenantID, ok := common.GetTenantIDFromContext(ctx)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "Tenant not found")
	}

	snapshot, err := h.dashboardService.Snapshot(ctx, tenantID, date)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to build dashboard snapshot")
	}

	return c.JSON(http.StatusOK, snapshot)
}

// GetSettings returns the tenant's dashboard settings, creating the
// default record on first access
func (h *DashboardHandlers) GetSettings(c echo.Context) error {
	ctx := c.Request().Context()

	tenantID, ok := common.GetTenantIDFromContext(ctx)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "Tenant not found")
	}

	settings, err := h.dashboardService.GetSettings(ctx, tenantID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to load dashboard settings")
	}

	return c.JSON(http.StatusOK, settings)
}

// UpdateSettingsRequest represents the dashboard settings update payload
type UpdateSettingsRequest struct {
	Title    string            `json:"title"`
	Settings map[string]string `json:"settings"`
}

// UpdateSettings updates the tenant's dashboard settings
func (h *DashboardHandlers) UpdateSettings(c echo.Context) error {
	ctx := c.Request().Context()

	var req UpdateSettingsRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	tenantID, ok := common.GetTenantIDFromContext(ctx)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "Tenant not found")
	}

	settings, err := h.dashboardService.UpdateSettings(ctx, tenantID, req.Title, req.Settings)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to update dashboard settings")
	}

	return c.JSON(http.StatusOK, settings)
}
