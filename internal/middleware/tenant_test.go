package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"postewatch/internal/common"
	"postewatch/internal/models"
	"postewatch/internal/repositories"
	"postewatch/internal/services"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type mockUserRepo struct {
	mock.Mock
}

func (m *mockUserRepo) Create(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *mockUserRepo) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*models.User, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *mockUserRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *mockUserRepo) GetTenantIDByUserID(ctx context.Context, userID uuid.UUID) (uuid.UUID, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(uuid.UUID), args.Error(1)
}

func (m *mockUserRepo) Update(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *mockUserRepo) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	args := m.Called(ctx, tenantID, id)
	return args.Error(0)
}

func (m *mockUserRepo) List(ctx context.Context, tenantID uuid.UUID, limit, offset int) ([]*models.User, error) {
	args := m.Called(ctx, tenantID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.User), args.Error(1)
}

type mockTenantRepo struct {
	mock.Mock
}

func (m *mockTenantRepo) Create(ctx context.Context, tenant *models.Tenant) error {
	args := m.Called(ctx, tenant)
	return args.Error(0)
}

func (m *mockTenantRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Tenant, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Tenant), args.Error(1)
}

func (m *mockTenantRepo) Update(ctx context.Context, tenant *models.Tenant) error {
	args := m.Called(ctx, tenant)
	return args.Error(0)
}

func (m *mockTenantRepo) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *mockTenantRepo) List(ctx context.Context, limit, offset int) ([]*models.Tenant, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Tenant), args.Error(1)
}

func newTestContext(t *testing.T) (echo.Context, *echo.Echo) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/v1/postes", nil)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), e
}

func tokenWithClaims(userID string) *jwt.Token {
	return &jwt.Token{Claims: &services.TokenClaims{UserID: userID}}
}

func TestResolve_MissingToken(t *testing.T) {
	userRepo := &mockUserRepo{}
	tenantRepo := &mockTenantRepo{}
	mw := NewTenantMiddleware(userRepo, tenantRepo)

	c, _ := newTestContext(t)
	handler := mw.Resolve()(func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	err := handler(c)
	httpErr, ok := err.(*echo.HTTPError)
	assert.True(t, ok)
	assert.Equal(t, http.StatusUnauthorized, httpErr.Code)
}

func TestResolve_UserWithoutTenant(t *testing.T) {
	userID := uuid.New()
	userRepo := &mockUserRepo{}
	tenantRepo := &mockTenantRepo{}
	userRepo.On("GetTenantIDByUserID", mock.Anything, userID).Return(uuid.Nil, nil)
	mw := NewTenantMiddleware(userRepo, tenantRepo)

	c, _ := newTestContext(t)
	c.Set("user", tokenWithClaims(userID.String()))
	handler := mw.Resolve()(func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	err := handler(c)
	httpErr, ok := err.(*echo.HTTPError)
	assert.True(t, ok)
	assert.Equal(t, http.StatusUnauthorized, httpErr.Code)
	userRepo.AssertExpectations(t)
}

func TestResolve_MissingTenantRow(t *testing.T) {
	userID := uuid.New()
	tenantID := uuid.New()
	userRepo := &mockUserRepo{}
	tenantRepo := &mockTenantRepo{}
	userRepo.On("GetTenantIDByUserID", mock.Anything, userID).Return(tenantID, nil)
	tenantRepo.On("GetByID", mock.Anything, tenantID).Return(nil, repositories.ErrNotFound)
	mw := NewTenantMiddleware(userRepo, tenantRepo)

	c, _ := newTestContext(t)
	c.Set("user", tokenWithClaims(userID.String()))
	handler := mw.Resolve()(func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	err := handler(c)
	httpErr, ok := err.(*echo.HTTPError)
	assert.True(t, ok)
	assert.Equal(t, http.StatusUnauthorized, httpErr.Code)
	tenantRepo.AssertExpectations(t)
}

func TestResolve_Success(t *testing.T) {
	userID := uuid.New()
	tenantID := uuid.New()
	userRepo := &mockUserRepo{}
	tenantRepo := &mockTenantRepo{}
	userRepo.On("GetTenantIDByUserID", mock.Anything, userID).Return(tenantID, nil)
	tenantRepo.On("GetByID", mock.Anything, tenantID).
		Return(&models.Tenant{ID: tenantID, Name: "Atelier", Status: "active"}, nil)
	mw := NewTenantMiddleware(userRepo, tenantRepo)

	c, _ := newTestContext(t)
	c.Set("user", tokenWithClaims(userID.String()))

	var seenUser, seenTenant uuid.UUID
	handler := mw.Resolve()(func(c echo.Context) error {
		seenUser, _ = common.GetUserIDFromContext(c.Request().Context())
		seenTenant, _ = common.GetTenantIDFromContext(c.Request().Context())
		return c.NoContent(http.StatusOK)
	})

	err := handler(c)
	assert.NoError(t, err)
	assert.Equal(t, userID, seenUser)
	assert.Equal(t, tenantID, seenTenant)
}
