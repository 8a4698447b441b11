package common

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type contextKey string

const (
	UserIDKey   contextKey = "user_id"
	TenantIDKey contextKey = "tenant_id"
)

// ErrorResponse represents a standardized error response
type ErrorResponse struct {
	Error struct {
		Code    string            `json:"code"`
		Message string            `json:"message"`
		Details map[string]string `json:"details,omitempty"`
	} `json:"error"`
}

// CreateErrorResponse creates a standardized error response
func CreateErrorResponse(code string, message string, details map[string]string) *ErrorResponse {
	var resp ErrorResponse
	resp.Error.Code = code
	resp.Error.Message = message
	resp.Error.Details = details
	return &resp
}

// SendValidationError sends a validation error response
func SendValidationError(c echo.Context, field, message string) error {
	details := map[string]string{
		field: message,
	}
	return c.JSON(http.StatusBadRequest, CreateErrorResponse("VALIDATION_ERROR", "Validation failed", details))
}

// SendClientError sends a client error response
func SendClientError(c echo.Context, message string) error {
	return c.JSON(http.StatusBadRequest, CreateErrorResponse("CLIENT_ERROR", message, nil))
}

// SendServerError sends a server error response
func SendServerError(c echo.Context, message string) error {
	return c.JSON(http.StatusInternalServerError, CreateErrorResponse("SERVER_ERROR", message, nil))
}

// SendNotFoundError sends a not found error response
func SendNotFoundError(c echo.Context, resource string) error {
	return c.JSON(http.StatusNotFound, CreateErrorResponse("NOT_FOUND", fmt.Sprintf("%s not found", resource), nil))
}

// SendUnauthorizedError sends an unauthorized error response
func SendUnauthorizedError(c echo.Context) error {
	return c.JSON(http.StatusUnauthorized, CreateErrorResponse("UNAUTHORIZED", "Unauthorized access", nil))
}

// GetUserIDFromContext extracts the user ID from the request context
func GetUserIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	userID, ok := ctx.Value(UserIDKey).(uuid.UUID)
	return userID, ok
}

// GetTenantIDFromContext extracts the tenant ID from the request context
func GetTenantIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	tenantID, ok := ctx.Value(TenantIDKey).(uuid.UUID)
	return tenantID, ok
}

// NormalizeLigne canonicalizes a line label. The empty string is the
// single representation of "no line"; NULL is never stored, so the
// unique (tenant, poste, ligne) key cannot split into duplicate
// null/"" tuples.
func NormalizeLigne(ligne string) string {
	return strings.TrimSpace(ligne)
}

// ValidateLigne accepts the fixed "Ligne 1".."Ligne 10" labels or the
// empty string.
func ValidateLigne(ligne string) error {
	ligne = NormalizeLigne(ligne)
	if ligne == "" {
		return nil
	}
	for i := 1; i <= 10; i++ {
		if ligne == fmt.Sprintf("Ligne %d", i) {
			return nil
		}
	}
	return fmt.Errorf("ligne must be one of \"Ligne 1\" through \"Ligne 10\" or empty")
}

// ValidateContractType validates type_de_contrat values
func ValidateContractType(contractType string) error {
	validTypes := map[string]bool{
		"CDI": true, "CDD": true, "Interim": true, "Apprentissage": true, "Stage": true,
	}
	if !validTypes[contractType] {
		return fmt.Errorf("type_de_contrat must be one of: CDI, CDD, Interim, Apprentissage, Stage")
	}
	return nil
}

// ValidateAttendanceStatus validates attendance status values
func ValidateAttendanceStatus(status string) error {
	if status != "present" && status != "absent" {
		return fmt.Errorf("attendance status must be either 'present' or 'absent'")
	}
	return nil
}

// ValidateRequiredString validates required string fields
func ValidateRequiredString(value, fieldName string) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("%s is required", fieldName)
	}
	return nil
}

// ValidateDateFormat parses a YYYY-MM-DD date string with bounds checks.
func ValidateDateFormat(dateStr, fieldName string) (time.Time, error) {
	date, err := time.Parse("2006-01-02", strings.TrimSpace(dateStr))
	if err != nil {
		return time.Time{}, fmt.Errorf("%s must be in YYYY-MM-DD format", fieldName)
	}
	if date.After(time.Now().AddDate(1, 0, 0)) {
		return time.Time{}, fmt.Errorf("%s cannot be more than a year in the future", fieldName)
	}
	if date.Before(time.Now().AddDate(-10, 0, 0)) {
		return time.Time{}, fmt.Errorf("%s cannot be more than 10 years ago", fieldName)
	}
	return date, nil
}

// Today truncates the current time to a calendar date at midnight UTC.
// Attendance rows key on this value.
func Today() time.Time {
	return DateOf(time.Now().UTC())
}

// DateOf truncates t to midnight UTC.
func DateOf(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// ValidatePaginationParams validates pagination parameters
func ValidatePaginationParams(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = 50 // Default
	}
	if limit > 1000 {
		limit = 1000 // Maximum
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

// SafeString safely handles string pointer operations
func SafeString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
