package services

import (
	"context"
	"fmt"
	"log"

	"postewatch/internal/caching"
	"postewatch/internal/common"
	"postewatch/internal/models"
	"postewatch/internal/repositories"

	"github.com/google/uuid"
)

type OperatorService interface {
	Create(ctx context.Context, tenantID uuid.UUID, operator *models.Operator) error
	GetByID(ctx context.Context, tenantID, id uuid.UUID) (*models.Operator, error)
	Update(ctx context.Context, tenantID uuid.UUID, operator *models.Operator) error
	Delete(ctx context.Context, tenantID, id uuid.UUID) error
	List(ctx context.Context, tenantID uuid.UUID, limit, offset int) ([]*models.Operator, error)
	Search(ctx context.Context, tenantID uuid.UUID, filter *models.OperatorSearchFilter) ([]*models.Operator, error)
}

type operatorService struct {
	operatorRepo repositories.OperatorRepository
	posteRepo    repositories.PosteRepository
	cacheService caching.CacheService
}

func NewOperatorService(operatorRepo repositories.OperatorRepository, posteRepo repositories.PosteRepository, cacheService caching.CacheService) OperatorService {
	return &operatorService{
		operatorRepo: operatorRepo,
		posteRepo:    posteRepo,
		cacheService: cacheService,
	}
}

func (s *operatorService) Create(ctx context.Context, tenantID uuid.UUID, operator *models.Operator) error {
	// The poste must belong to the same tenant.
	if _, err := s.posteRepo.GetByID(ctx, tenantID, operator.PosteID); err != nil {
		if err == repositories.ErrNotFound {
			return fmt.Errorf("poste not found")
		}
		return err
	}

	operator.ID = uuid.New()
	operator.TenantID = tenantID
	operator.Ligne = common.NormalizeLigne(operator.Ligne)

	if err := s.operatorRepo.Create(ctx, operator); err != nil {
		if repositories.IsUniqueViolation(err) {
			return fmt.Errorf("matricule already in use")
		}
		return err
	}

	s.invalidate(ctx, tenantID)
	return nil
}

func (s *operatorService) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*models.Operator, error) {
	return s.operatorRepo.GetByID(ctx, tenantID, id)
}

func (s *operatorService) Update(ctx context.Context, tenantID uuid.UUID, operator *models.Operator) error {
	if _, err := s.posteRepo.GetByID(ctx, tenantID, operator.PosteID); err != nil {
		if err == repositories.ErrNotFound {
			return fmt.Errorf("poste not found")
		}
		return err
	}

	operator.TenantID = tenantID
	operator.Ligne = common.NormalizeLigne(operator.Ligne)

	if err := s.operatorRepo.Update(ctx, operator); err != nil {
		return err
	}

	s.invalidate(ctx, tenantID)
	return nil
}

func (s *operatorService) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	if err := s.operatorRepo.Delete(ctx, tenantID, id); err != nil {
		return err
	}

	s.invalidate(ctx, tenantID)
	return nil
}

func (s *operatorService) List(ctx context.Context, tenantID uuid.UUID, limit, offset int) ([]*models.Operator, error) {
	return s.operatorRepo.List(ctx, tenantID, limit, offset)
}

func (s *operatorService) Search(ctx context.Context, tenantID uuid.UUID, filter *models.OperatorSearchFilter) ([]*models.Operator, error) {
	return s.operatorRepo.Search(ctx, tenantID, filter)
}

// Operator churn changes headcounts and possibly staffing of critical
// postes; drop the day's cached aggregates.
func (s *operatorService) invalidate(ctx context.Context, tenantID uuid.UUID) {
	today := common.Today()
	if err := s.cacheService.DeleteAttendanceSummary(ctx, tenantID, today); err != nil {
		log.Printf("Failed to invalidate attendance summary for tenant %s: %v", tenantID.String(), err)
	}
	if err := s.cacheService.DeleteDashboardSnapshot(ctx, tenantID, today); err != nil {
		log.Printf("Failed to invalidate dashboard snapshot for tenant %s: %v", tenantID.String(), err)
	}
}
