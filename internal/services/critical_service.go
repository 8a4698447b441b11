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

// CriticalPositionService resolves and mutates the criticality of a
// (poste, ligne) pair. Only an explicit row with is_critical = true
// makes a position critical; a missing row and an explicit false row
// are both non-critical.
type CriticalPositionService interface {
	IsCritical(ctx context.Context, tenantID, posteID uuid.UUID, ligne string) (bool, error)
	GetOrCreate(ctx context.Context, tenantID, posteID uuid.UUID, ligne string) (*models.CriticalPosition, error)
	SetCritical(ctx context.Context, tenantID, posteID uuid.UUID, ligne string, value bool) (*models.CriticalPosition, error)
	List(ctx context.Context, tenantID uuid.UUID, limit, offset int) ([]*models.CriticalPosition, error)
}

type criticalPositionService struct {
	criticalRepo repositories.CriticalPositionRepository
	cacheService caching.CacheService
}

func NewCriticalPositionService(criticalRepo repositories.CriticalPositionRepository, cacheService caching.CacheService) CriticalPositionService {
	return &criticalPositionService{
		criticalRepo: criticalRepo,
		cacheService: cacheService,
	}
}

func (s *criticalPositionService) IsCritical(ctx context.Context, tenantID, posteID uuid.UUID, ligne string) (bool, error) {
	cp, err := s.criticalRepo.GetByTuple(ctx, tenantID, posteID, common.NormalizeLigne(ligne))
	if err != nil {
		if err == repositories.ErrNotFound {
			return false, nil
		}
		return false, err
	}
	return cp.IsCritical, nil
}

// GetOrCreate finds the row for the tuple, creating a non-critical one
// when absent. A unique violation on insert means a concurrent caller
// created the row first; the winner's row is re-fetched.
func (s *criticalPositionService) GetOrCreate(ctx context.Context, tenantID, posteID uuid.UUID, ligne string) (*models.CriticalPosition, error) {
	ligne = common.NormalizeLigne(ligne)

	cp, err := s.criticalRepo.GetByTuple(ctx, tenantID, posteID, ligne)
	if err == nil {
		return cp, nil
	}
	if err != repositories.ErrNotFound {
		return nil, err
	}

	cp = &models.CriticalPosition{
		ID:         uuid.New(),
		TenantID:   tenantID,
		PosteID:    posteID,
		Ligne:      ligne,
		IsCritical: false,
	}
	if err := s.criticalRepo.Insert(ctx, cp); err != nil {
		if repositories.IsUniqueViolation(err) {
			return s.criticalRepo.GetByTuple(ctx, tenantID, posteID, ligne)
		}
		return nil, fmt.Errorf("create critical position: %w", err)
	}
	return cp, nil
}

// SetCritical is idempotent; setting the stored value again skips the
// update and the cache invalidation.
func (s *criticalPositionService) SetCritical(ctx context.Context, tenantID, posteID uuid.UUID, ligne string, value bool) (*models.CriticalPosition, error) {
	cp, err := s.GetOrCreate(ctx, tenantID, posteID, ligne)
	if err != nil {
		return nil, err
	}

	if cp.IsCritical == value {
		return cp, nil
	}

	if err := s.criticalRepo.SetCritical(ctx, tenantID, cp.ID, value); err != nil {
		return nil, err
	}
	cp.IsCritical = value

	// The dashboard highlights unstaffed critical positions; a flag
	// change must not leave a stale snapshot behind.
	if cacheErr := s.cacheService.DeleteDashboardSnapshot(ctx, tenantID, common.Today()); cacheErr != nil {
		log.Printf("Failed to invalidate dashboard snapshot for tenant %s: %v", tenantID.String(), cacheErr)
	}

	return cp, nil
}

func (s *criticalPositionService) List(ctx context.Context, tenantID uuid.UUID, limit, offset int) ([]*models.CriticalPosition, error) {
	return s.criticalRepo.List(ctx, tenantID, limit, offset)
}
