package handlers

import (
	"errors"
	"net/http"

	"postewatch/internal/common"
	"postewatch/internal/models"
	"postewatch/internal/repositories"
	"postewatch/internal/services"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// BackupHandlers handles backup assignment HTTP requests
type BackupHandlers struct {
	backupService services.BackupService
}

// NewBackupHandlers creates a new backup handlers instance
func NewBackupHandlers(backupService services.BackupService) *BackupHandlers {
	return &BackupHandlers{backupService: backupService}
}

// AssignBackupRequest represents the backup assignment payload
type AssignBackupRequest struct {
	PosteID          string `json:"poste_id" validate:"required"`
	BackupOperatorID string `json:"backup_operator_id" validate:"required"`
	BackupSlot       int    `json:"backup_slot"`
	AssignedDate     string `json:"assigned_date"`
}

// AssignBackup assigns a backup operator to a poste for a date
func (h *BackupHandlers) AssignBackup(c echo.Context) error {
	ctx := c.Request().Context()

	var req AssignBackupRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}
	posteID, err := uuid.Parse(req.PosteID)
	if err != nil {
		return common.SendValidationError(c, "poste_id", "invalid UUID format")
	}
	operatorID, err := uuid.Parse(req.BackupOperatorID)
	if err != nil {
		return common.SendValidationError(c, "backup_operator_id", "invalid UUID format")
	}

	assignedDate := common.Today()
	if req.AssignedDate != "" {
		parsed, err := common.ValidateDateFormat(req.AssignedDate, "assigned_date")
		if err != nil {
			return common.SendValidationError(c, "assigned_date", err.Error())
		}
		assignedDate = parsed
	}

	tenantID, ok := common.GetTenantIDFromContext(ctx)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "Tenant not found")
	}

	assignment := &models.BackupAssignment{
		PosteID:          posteID,
		BackupOperatorID: operatorID,
		BackupSlot:       req.BackupSlot,
		AssignedDate:     assignedDate,
	}
	if err := h.backupService.Assign(ctx, tenantID, assignment); err != nil {
		switch err.Error() {
		case "poste not found":
			return echo.NewHTTPError(http.StatusNotFound, "Poste not found")
		case "backup operator not found":
			return echo.NewHTTPError(http.StatusNotFound, "Backup operator not found")
		case "backup slot already assigned for this poste and date":
			return echo.NewHTTPError(http.StatusConflict, "Backup slot already assigned for this poste and date")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to assign backup")
	}

	return c.JSON(http.StatusCreated, assignment)
}

// ListBackupsRequest represents query parameters for listing backups
type ListBackupsRequest struct {
	Date string `query:"date"`
}

// ListBackups returns the tenant's backup assignments for a date
func (h *BackupHandlers) ListBackups(c echo.Context) error {
	ctx := c.Request().Context()

	var req ListBackupsRequest
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

	assignments, err := h.backupService.ListByDate(ctx, tenantID, date)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to list backups")
	}

	return c.JSON(http.StatusOK, map[string]any{
		"date":    common.DateOf(date).Format("2006-01-02"),
		"backups": assignments,
	})
}

// RemoveBackup deletes a backup assignment
func (h *BackupHandlers) RemoveBackup(c echo.Context) error {
	ctx := c.Request().Context()

	assignmentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid assignment ID format")
	}

	tenantID, ok := common.GetTenantIDFromContext(ctx)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "Tenant not found")
	}

	if err := h.backupService.Remove(ctx, tenantID, assignmentID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Backup assignment not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to remove backup")
	}

	return c.JSON(http.StatusOK, map[string]string{
		"message": "Backup assignment removed successfully",
	})
}
