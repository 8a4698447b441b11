package services

import (
	"context"
	"errors"
	"strings"

	"postewatch/internal/models"
	"postewatch/internal/repositories"

	"github.com/google/uuid"
)

type TenantService interface {
	// Onboard creates the tenant, seeds the fixed poste set and the
	// dashboard settings singleton.
	Onboard(ctx context.Context, req *OnboardTenantRequest) (*models.Tenant, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Tenant, error)
	Update(ctx context.Context, req *UpdateTenantRequest) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, limit, offset int) ([]*models.Tenant, error)
}

type tenantService struct {
	tenantRepo   repositories.TenantRepository
	posteRepo    repositories.PosteRepository
	settingsRepo repositories.DashboardSettingsRepository
}

func NewTenantService(tenantRepo repositories.TenantRepository, posteRepo repositories.PosteRepository, settingsRepo repositories.DashboardSettingsRepository) TenantService {
	return &tenantService{
		tenantRepo:   tenantRepo,
		posteRepo:    posteRepo,
		settingsRepo: settingsRepo,
	}
}

type OnboardTenantRequest struct {
	Name string `json:"name" validate:"required"`
}

type UpdateTenantRequest struct {
	ID     uuid.UUID
	Name   string `json:"name" validate:"required"`
	Status string `json:"status"`
}

func (s *tenantService) Onboard(ctx context.Context, req *OnboardTenantRequest) (*models.Tenant, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, errors.New("tenant name is required")
	}

	tenant := &models.Tenant{
		ID:     uuid.New(),
		Name:   strings.TrimSpace(req.Name),
		Status: "active",
	}
	if err := s.tenantRepo.Create(ctx, tenant); err != nil {
		return nil, err
	}

	for _, name := range models.DefaultPosteNames {
		poste := &models.Poste{
			ID:       uuid.New(),
			TenantID: tenant.ID,
			Name:     name,
			Ligne:    "",
		}
		if err := s.posteRepo.Create(ctx, poste); err != nil {
			return nil, err
		}
	}

	settings := &models.DashboardSettings{
		ID:       uuid.New(),
		TenantID: tenant.ID,
		Title:    models.DefaultDashboardTitle,
		Settings: map[string]string{},
	}
	if err := s.settingsRepo.Insert(ctx, settings); err != nil && !repositories.IsUniqueViolation(err) {
		return nil, err
	}

	return tenant, nil
}

func (s *tenantService) GetByID(ctx context.Context, id uuid.UUID) (*models.Tenant, error) {
	return s.tenantRepo.GetByID(ctx, id)
}

func (s *tenantService) Update(ctx context.Context, req *UpdateTenantRequest) error {
	tenant, err := s.tenantRepo.GetByID(ctx, req.ID)
	if err != nil {
		return err
	}

	if strings.TrimSpace(req.Name) != "" {
		tenant.Name = strings.TrimSpace(req.Name)
	}
	if req.Status != "" {
		tenant.Status = req.Status
	}

	return s.tenantRepo.Update(ctx, tenant)
}

func (s *tenantService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.tenantRepo.Delete(ctx, id)
}

func (s *tenantService) List(ctx context.Context, limit, offset int) ([]*models.Tenant, error) {
	return s.tenantRepo.List(ctx, limit, offset)
}
