package services

import (
	"context"
	"errors"
	"log"

	"postewatch/internal/caching"
	"postewatch/internal/common"
	"postewatch/internal/models"
	"postewatch/internal/repositories"

	"github.com/google/uuid"
)

// ErrPosteInUse is returned when deleting a poste that operators still
// reference.
var ErrPosteInUse = errors.New("poste still has operators assigned")

type PosteService interface {
	Create(ctx context.Context, tenantID uuid.UUID, poste *models.Poste) error
	GetByID(ctx context.Context, tenantID, id uuid.UUID) (*models.Poste, error)
	Update(ctx context.Context, tenantID uuid.UUID, poste *models.Poste) error
	Delete(ctx context.Context, tenantID, id uuid.UUID) error
	List(ctx context.Context, tenantID uuid.UUID, limit, offset int) ([]*models.Poste, error)
}

type posteService struct {
	posteRepo    repositories.PosteRepository
	cacheService caching.CacheService
}

func NewPosteService(posteRepo repositories.PosteRepository, cacheService caching.CacheService) PosteService {
	return &posteService{posteRepo: posteRepo, cacheService: cacheService}
}

func (s *posteService) Create(ctx context.Context, tenantID uuid.UUID, poste *models.Poste) error {
	poste.ID = uuid.New()
	poste.TenantID = tenantID
	poste.Ligne = common.NormalizeLigne(poste.Ligne)
	return s.posteRepo.Create(ctx, poste)
}

func (s *posteService) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*models.Poste, error) {
	return s.posteRepo.GetByID(ctx, tenantID, id)
}

func (s *posteService) Update(ctx context.Context, tenantID uuid.UUID, poste *models.Poste) error {
	poste.TenantID = tenantID
	poste.Ligne = common.NormalizeLigne(poste.Ligne)

	if err := s.posteRepo.Update(ctx, poste); err != nil {
		return err
	}

	s.invalidate(ctx, tenantID)
	return nil
}

func (s *posteService) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	if err := s.posteRepo.Delete(ctx, tenantID, id); err != nil {
		if repositories.IsForeignKeyViolation(err) {
			return ErrPosteInUse
		}
		return err
	}

	s.invalidate(ctx, tenantID)
	return nil
}

func (s *posteService) List(ctx context.Context, tenantID uuid.UUID, limit, offset int) ([]*models.Poste, error) {
	return s.posteRepo.List(ctx, tenantID, limit, offset)
}

func (s *posteService) invalidate(ctx context.Context, tenantID uuid.UUID) {
	if err := s.cacheService.DeleteDashboardSnapshot(ctx, tenantID, common.Today()); err != nil {
		log.Printf("Failed to invalidate dashboard snapshot for tenant %s: %v", tenantID.String(), err)
	}
}
