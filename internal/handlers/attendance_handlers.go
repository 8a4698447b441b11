package handlers

import (
	"errors"
	"net/http"

	"postewatch/internal/common"
	"postewatch/internal/repositories"
	"postewatch/internal/services"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// AttendanceHandlers handles attendance-related HTTP requests
type AttendanceHandlers struct {
	attendanceService services.AttendanceService
}

// NewAttendanceHandlers creates a new attendance handlers instance
func NewAttendanceHandlers(attendanceService services.AttendanceService) *AttendanceHandlers {
	return &AttendanceHandlers{attendanceService: attendanceService}
}

// GetTodayStatus returns an operator's effective status for today
func (h *AttendanceHandlers) GetTodayStatus(c echo.Context) error {
	ctx := c.Request().Context()

	operatorID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid operator ID format")
	}

	tenantID, ok := common.GetTenantIDFromContext(ctx)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "Tenant not found")
	}

	status, err := h.attendanceService.StatusForToday(ctx, tenantID, operatorID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to resolve attendance status")
	}

	return c.JSON(http.StatusOK, map[string]any{
		"operator_id": operatorID,
		"date":        common.Today().Format("2006-01-02"),
		"status":      status,
	})
}

// ToggleToday flips an operator's attendance for today
func (h *AttendanceHandlers) ToggleToday(c echo.Context) error {
	ctx := c.Request().Context()

	operatorID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid operator ID format")
	}

	tenantID, ok := common.GetTenantIDFromContext(ctx)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "Tenant not found")
	}

	attendance, err := h.attendanceService.ToggleToday(ctx, tenantID, operatorID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Operator not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to toggle attendance")
	}

	return c.JSON(http.StatusOK, attendance)
}

// ListAttendanceRequest represents query parameters for listing attendance rows
type ListAttendanceRequest struct {
	Date   string `query:"date"`
	Limit  int    `query:"limit"`
	Offset int    `query:"offset"`
}

// ListAttendance returns the explicit attendance rows for a date.
// Operators with no row are implicitly present and do not appear.
func (h *AttendanceHandlers) ListAttendance(c echo.Context) error {
	ctx := c.Request().Context()

	var req ListAttendanceRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid query parameters")
	}
	limit, offset := common.ValidatePaginationParams(req.Limit, req.Offset)

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

	rows, err := h.attendanceService.ListByDate(ctx, tenantID, date, limit, offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to list attendance")
	}

	return c.JSON(http.StatusOK, map[string]any{
		"date":        common.DateOf(date).Format("2006-01-02"),
		"attendances": rows,
		"limit":       limit,
		"offset":      offset,
	})
}

// SummaryRequest represents query parameters for the attendance summary
type SummaryRequest struct {
	Date string `query:"date"`
}

// Summary returns present/absent headcounts for a date
func (h *AttendanceHandlers) Summary(c echo.Context) error {
	ctx := c.Request().Context()

	var req SummaryRequest
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

	summary, err := h.attendanceService.Summary(ctx, tenantID, date)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to compute attendance summary")
	}

	return c.JSON(http.StatusOK, summary)
}
