package handlers

import (
	"net/http"

	"postewatch/internal/common"
	"postewatch/internal/models"
	"postewatch/internal/services"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// OperatorHandlers handles operator-related HTTP requests
type OperatorHandlers struct {
	operatorService services.OperatorService
}

// NewOperatorHandlers creates a new operator handlers instance
func NewOperatorHandlers(operatorService services.OperatorService) *OperatorHandlers {
	return &OperatorHandlers{operatorService: operatorService}
}

// ListOperatorsRequest represents query parameters for listing operators
type ListOperatorsRequest struct {
	Limit  int `query:"limit"`
	Offset int `query:"offset"`
}

// ListOperators handles getting a list of operators with tenant filtering
func (h *OperatorHandlers) ListOperators(c echo.Context) error {
	ctx := c.Request().Context()

	var req ListOperatorsRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid query parameters")
	}
	limit, offset := common.ValidatePaginationParams(req.Limit, req.Offset)

	tenantID, ok := common.GetTenantIDFromContext(ctx)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "Tenant not found")
	}

	operators, err := h.operatorService.List(ctx, tenantID, limit, offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to list operators")
	}

	return c.JSON(http.StatusOK, map[string]any{
		"operators": operators,
		"limit":     limit,
		"offset":    offset,
	})
}

// SearchOperatorsRequest represents query parameters for operator search
type SearchOperatorsRequest struct {
	Query     string `query:"q"`
	PosteID   string `query:"poste_id"`
	Ligne     string `query:"ligne"`
	IsCapable string `query:"is_capable"`
	Limit     int    `query:"limit"`
	Offset    int    `query:"offset"`
}

// SearchOperators handles operator search with optional filters
func (h *OperatorHandlers) SearchOperators(c echo.Context) error {
	ctx := c.Request().Context()

	var req SearchOperatorsRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid query parameters")
	}

	tenantID, ok := common.GetTenantIDFromContext(ctx)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "Tenant not found")
	}

	filter := &models.OperatorSearchFilter{Query: req.Query}
	filter.Limit, filter.Offset = common.ValidatePaginationParams(req.Limit, req.Offset)

	if req.PosteID != "" {
		posteID, err := uuid.Parse(req.PosteID)
		if err != nil {
			return common.SendValidationError(c, "poste_id", "invalid UUID format")
		}
		filter.PosteID = &posteID
	}
	if req.Ligne != "" {
		if err := common.ValidateLigne(req.Ligne); err != nil {
			return common.SendValidationError(c, "ligne", err.Error())
		}
		ligne := common.NormalizeLigne(req.Ligne)
		filter.Ligne = &ligne
	}
	if req.IsCapable != "" {
		capable := req.IsCapable == "true"
		filter.IsCapable = &capable
	}

	operators, err := h.operatorService.Search(ctx, tenantID, filter)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to search operators")
	}

	return c.JSON(http.StatusOK, map[string]any{
		"operators": operators,
		"count":     len(operators),
	})
}

// CreateOperatorRequest represents the operator creation request payload
type CreateOperatorRequest struct {
	PosteID       string  `json:"poste_id" validate:"required"`
	Matricule     *string `json:"matricule"`
	FirstName     string  `json:"first_name" validate:"required"`
	LastName      string  `json:"last_name" validate:"required"`
	Anciente      string  `json:"anciente"`
	TypeDeContrat string  `json:"type_de_contrat"`
	Ligne         string  `json:"ligne"`
	IsCapable     bool    `json:"is_capable"`
}

// CreateOperator handles creating a new operator
func (h *OperatorHandlers) CreateOperator(c echo.Context) error {
	ctx := c.Request().Context()

	var req CreateOperatorRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}
	if err := common.ValidateRequiredString(req.FirstName, "first_name"); err != nil {
		return common.SendValidationError(c, "first_name", err.Error())
	}
	if err := common.ValidateRequiredString(req.LastName, "last_name"); err != nil {
		return common.SendValidationError(c, "last_name", err.Error())
	}
	posteID, err := uuid.Parse(req.PosteID)
	if err != nil {
		return common.SendValidationError(c, "poste_id", "invalid UUID format")
	}
	if err := common.ValidateLigne(req.Ligne); err != nil {
		return common.SendValidationError(c, "ligne", err.Error())
	}
	if req.TypeDeContrat != "" {
		if err := common.ValidateContractType(req.TypeDeContrat); err != nil {
			return common.SendValidationError(c, "type_de_contrat", err.Error())
		}
	}

	tenantID, ok := common.GetTenantIDFromContext(ctx)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "Tenant not found")
	}

	operator := &models.Operator{
		PosteID:       posteID,
		Matricule:     req.Matricule,
		FirstName:     req.FirstName,
		LastName:      req.LastName,
		Anciente:      req.Anciente,
		TypeDeContrat: req.TypeDeContrat,
		Ligne:         req.Ligne,
		IsCapable:     req.IsCapable,
	}
	if err := h.operatorService.Create(ctx, tenantID, operator); err != nil {
		switch err.Error() {
		case "poste not found":
			return echo.NewHTTPError(http.StatusNotFound, "Poste not found")
		case "matricule already in use":
			return echo.NewHTTPError(http.StatusConflict, "Matricule already in use")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to create operator")
	}

	return c.JSON(http.StatusCreated, operator)
}

// GetOperator handles getting operator details by ID
func (h *OperatorHandlers) GetOperator(c echo.Context) error {
	ctx := c.Request().Context()

	operatorID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid operator ID format")
	}

	tenantID, ok := common.GetTenantIDFromContext(ctx)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "Tenant not found")
	}

	operator, err := h.operatorService.GetByID(ctx, tenantID, operatorID)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Operator not found")
	}

	return c.JSON(http.StatusOK, operator)
}

// UpdateOperatorRequest represents the operator update request payload
type UpdateOperatorRequest struct {
	PosteID       *string `json:"poste_id"`
	Matricule     *string `json:"matricule"`
	FirstName     *string `json:"first_name"`
	LastName      *string `json:"last_name"`
	Anciente      *string `json:"anciente"`
	TypeDeContrat *string `json:"type_de_contrat"`
	Ligne         *string `json:"ligne"`
	IsCapable     *bool   `json:"is_capable"`
}

// UpdateOperator handles updating operator details
func (h *OperatorHandlers) UpdateOperator(c echo.Context) error {
	ctx := c.Request().Context()

	operatorID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid operator ID format")
	}

	var req UpdateOperatorRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	tenantID, ok := common.GetTenantIDFromContext(ctx)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "Tenant not found")
	}

	operator, err := h.operatorService.GetByID(ctx, tenantID, operatorID)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Operator not found")
	}

	if req.PosteID != nil {
		posteID, err := uuid.Parse(*req.PosteID)
		if err != nil {
			return common.SendValidationError(c, "poste_id", "invalid UUID format")
		}
		operator.PosteID = posteID
	}
	if req.Matricule != nil {
		operator.Matricule = req.Matricule
	}
	if req.FirstName != nil {
		operator.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		operator.LastName = *req.LastName
	}
	if req.Anciente != nil {
		operator.Anciente = *req.Anciente
	}
	if req.TypeDeContrat != nil {
		if err := common.ValidateContractType(*req.TypeDeContrat); err != nil {
			return common.SendValidationError(c, "type_de_contrat", err.Error())
		}
		operator.TypeDeContrat = *req.TypeDeContrat
	}
	if req.Ligne != nil {
		if err := common.ValidateLigne(*req.Ligne); err != nil {
			return common.SendValidationError(c, "ligne", err.Error())
		}
		operator.Ligne = *req.Ligne
	}
	if req.IsCapable != nil {
		operator.IsCapable = *req.IsCapable
	}

	if err := h.operatorService.Update(ctx, tenantID, operator); err != nil {
		if err.Error() == "poste not found" {
			return echo.NewHTTPError(http.StatusNotFound, "Poste not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to update operator")
	}

	return c.JSON(http.StatusOK, operator)
}

// DeleteOperator handles deleting an operator
func (h *OperatorHandlers) DeleteOperator(c echo.Context) error {
	ctx := c.Request().Context()

	operatorID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid operator ID format")
	}

	tenantID, ok := common.GetTenantIDFromContext(ctx)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "Tenant not found")
	}

	if _, err := h.operatorService.GetByID(ctx, tenantID, operatorID); err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Operator not found")
	}

	if err := h.operatorService.Delete(ctx, tenantID, operatorID); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to delete operator")
	}

	return c.JSON(http.StatusOK, map[string]string{
		"message": "Operator deleted successfully",
	})
}
