package handlers

import (
	"errors"
	"net/http"

	"postewatch/internal/common"
	"postewatch/internal/models"
	"postewatch/internal/services"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// PosteHandlers handles poste-related HTTP requests
type PosteHandlers struct {
	posteService services.PosteService
}

// NewPosteHandlers creates a new poste handlers instance
func NewPosteHandlers(posteService services.PosteService) *PosteHandlers {
	return &PosteHandlers{posteService: posteService}
}

// ListPostesRequest represents query parameters for listing postes
type ListPostesRequest struct {
	Limit  int `query:"limit"`
	Offset int `query:"offset"`
}

// ListPostes handles getting a list of postes with tenant filtering
func (h *PosteHandlers) ListPostes(c echo.Context) error {
	ctx := c.Request().Context()

	var req ListPostesRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid query parameters")
	}
	limit, offset := common.ValidatePaginationParams(req.Limit, req.Offset)

	tenantID, ok := common.GetTenantIDFromContext(ctx)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "Tenant not found")
	}

	postes, err := h.posteService.List(ctx, tenantID, limit, offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to list postes")
	}

	return c.JSON(http.StatusOK, map[string]any{
		"postes": postes,
		"limit":  limit,
		"offset": offset,
	})
}

// CreatePosteRequest represents the poste creation request payload
type CreatePosteRequest struct {
	Name  string `json:"name" validate:"required"`
	Ligne string `json:"ligne"`
}

// CreatePoste handles creating a new poste
func (h *PosteHandlers) CreatePoste(c echo.Context) error {
	ctx := c.Request().Context()

	var req CreatePosteRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}
	if err := common.ValidateRequiredString(req.Name, "name"); err != nil {
		return common.SendValidationError(c, "name", err.Error())
	}
	if err := common.ValidateLigne(req.Ligne); err != nil {
		return common.SendValidationError(c, "ligne", err.Error())
	}

	tenantID, ok := common.GetTenantIDFromContext(ctx)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "Tenant not found")
	}

	poste := &models.Poste{
		Name:  req.Name,
		Ligne: req.Ligne,
	}
	if err := h.posteService.Create(ctx, tenantID, poste); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to create poste")
	}

	return c.JSON(http.StatusCreated, poste)
}

// GetPoste handles getting poste details by ID
func (h *PosteHandlers) GetPoste(c echo.Context) error {
	ctx := c.Request().Context()

	posteID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid poste ID format")
	}

	tenantID, ok := common.GetTenantIDFromContext(ctx)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "Tenant not found")
	}

	poste, err := h.posteService.GetByID(ctx, tenantID, posteID)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Poste not found")
	}

	return c.JSON(http.StatusOK, poste)
}

// UpdatePosteRequest represents the poste update request payload
type UpdatePosteRequest struct {
	Name  *string `json:"name"`
	Ligne *string `json:"ligne"`
}

// UpdatePoste handles updating poste details
func (h *PosteHandlers) UpdatePoste(c echo.Context) error {
	ctx := c.Request().Context()

	posteID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid poste ID format")
	}

	var req UpdatePosteRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	tenantID, ok := common.GetTenantIDFromContext(ctx)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "Tenant not found")
	}

	poste, err := h.posteService.GetByID(ctx, tenantID, posteID)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Poste not found")
	}

	if req.Name != nil {
		poste.Name = *req.Name
	}
	if req.Ligne != nil {
		if err := common.ValidateLigne(*req.Ligne); err != nil {
			return common.SendValidationError(c, "ligne", err.Error())
		}
		poste.Ligne = *req.Ligne
	}

	if err := h.posteService.Update(ctx, tenantID, poste); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to update poste")
	}

	return c.JSON(http.StatusOK, poste)
}

// DeletePoste handles deleting a poste
func (h *PosteHandlers) DeletePoste(c echo.Context) error {
	ctx := c.Request().Context()

	posteID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid poste ID format")
	}

	tenantID, ok := common.GetTenantIDFromContext(ctx)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "Tenant not found")
	}

	if _, err := h.posteService.GetByID(ctx, tenantID, posteID); err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Poste not found")
	}

	if err := h.posteService.Delete(ctx, tenantID, posteID); err != nil {
		if errors.Is(err, services.ErrPosteInUse) {
			return echo.NewHTTPError(http.StatusConflict, "Poste still has operators assigned")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to delete poste")
	}

	return c.JSON(http.StatusOK, map[string]string{
		"message": "Poste deleted successfully",
	})
}
