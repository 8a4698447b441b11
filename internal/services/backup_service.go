package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"postewatch/internal/caching"
	"postewatch/internal/common"
	"postewatch/internal/models"
	"postewatch/internal/repositories"

	"github.com/google/uuid"
)

type BackupService interface {
	Assign(ctx context.Context, tenantID uuid.UUID, assignment *models.BackupAssignment) error
	Remove(ctx context.Context, tenantID, id uuid.UUID) error
	ListByDate(ctx context.Context, tenantID uuid.UUID, date time.Time) ([]*models.BackupAssignment, error)
}

type backupService struct {
	backupRepo   repositories.BackupAssignmentRepository
	operatorRepo repositories.OperatorRepository
	posteRepo    repositories.PosteRepository
	cacheService caching.CacheService
}

func NewBackupService(backupRepo repositories.BackupAssignmentRepository, operatorRepo repositories.OperatorRepository, posteRepo repositories.PosteRepository, cacheService caching.CacheService) BackupService {
	return &backupService{
		backupRepo:   backupRepo,
		operatorRepo: operatorRepo,
		posteRepo:    posteRepo,
		cacheService: cacheService,
	}
}

func (s *backupService) Assign(ctx context.Context, tenantID uuid.UUID, assignment *models.BackupAssignment) error {
	if _, err := s.posteRepo.GetByID(ctx, tenantID, assignment.PosteID); err != nil {
		if err == repositories.ErrNotFound {
			return fmt.Errorf("poste not found")
		}
		return err
	}
	if _, err := s.operatorRepo.GetByID(ctx, tenantID, assignment.BackupOperatorID); err != nil {
		if err == repositories.ErrNotFound {
			return fmt.Errorf("backup operator not found")
		}
		return err
	}

	assignment.ID = uuid.New()
	assignment.TenantID = tenantID
	assignment.AssignedDate = common.DateOf(assignment.AssignedDate)
	if assignment.BackupSlot <= 0 {
		assignment.BackupSlot = 1
	}

	if err := s.backupRepo.Create(ctx, assignment); err != nil {
		if repositories.IsUniqueViolation(err) {
			return fmt.Errorf("backup slot already assigned for this poste and date")
		}
		return err
	}

	s.invalidate(ctx, tenantID, assignment.AssignedDate)
	return nil
}

func (s *backupService) Remove(ctx context.Context, tenantID, id uuid.UUID) error {
	assignment, err := s.backupRepo.GetByID(ctx, tenantID, id)
	if err != nil {
		return err
	}

	if err := s.backupRepo.Delete(ctx, tenantID, id); err != nil {
		return err
	}

	s.invalidate(ctx, tenantID, assignment.AssignedDate)
	return nil
}

func (s *backupService) ListByDate(ctx context.Context, tenantID uuid.UUID, date time.Time) ([]*models.BackupAssignment, error) {
	return s.backupRepo.ListByDate(ctx, tenantID, common.DateOf(date))
}

func (s *backupService) invalidate(ctx context.Context, tenantID uuid.UUID, date time.Time) {
	if err := s.cacheService.DeleteDashboardSnapshot(ctx, tenantID, date); err != nil {
		log.Printf("Failed to invalidate dashboard snapshot for tenant %s: %v", tenantID.String(), err)
	}
}
