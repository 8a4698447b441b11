package handlers

import (
	"net/http"

	"postewatch/internal/common"
	"postewatch/internal/services"

	"github.com/labstack/echo/v4"
)

// ReportHandlers handles report export HTTP requests
type ReportHandlers struct {
	reportService services.ReportService
}

// NewReportHandlers creates a new report handlers instance
func NewReportHandlers(reportService services.ReportService) *ReportHandlers {
	return &ReportHandlers{reportService: reportService}
}

// ExportAttendanceRequest represents query parameters for the export
type ExportAttendanceRequest struct {
	Date string `query:"date"`
}

// ExportAttendance builds the day's attendance CSV and returns a
// presigned download URL
func (h *ReportHandlers) ExportAttendance(c echo.Context) error {
	ctx := c.Request().Context()

	var req ExportAttendanceRequest
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

	url, err := h.reportService.ExportAttendance(ctx, tenantID, date)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to export attendance report")
	}

	return c.JSON(http.StatusOK, map[string]string{
		"download_url": url,
		"date":         common.DateOf(date).Format("2006-01-02"),
	})
}
