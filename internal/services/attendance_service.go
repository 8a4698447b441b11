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

// AttendanceService tracks per-operator daily attendance. No row for a
// day means present; the first toggle creates an explicit absent row
// and each further toggle flips it.
type AttendanceService interface {
	StatusForToday(ctx context.Context, tenantID, operatorID uuid.UUID) (string, error)
	StatusForDate(ctx context.Context, tenantID, operatorID uuid.UUID, date time.Time) (string, error)
	ToggleToday(ctx context.Context, tenantID, operatorID uuid.UUID) (*models.Attendance, error)
	ListByDate(ctx context.Context, tenantID uuid.UUID, date time.Time, limit, offset int) ([]*models.Attendance, error)
	Summary(ctx context.Context, tenantID uuid.UUID, date time.Time) (*models.AttendanceSummary, error)
}

type attendanceService struct {
	attendanceRepo repositories.AttendanceRepository
	operatorRepo   repositories.OperatorRepository
	cacheService   caching.CacheService
}

func NewAttendanceService(attendanceRepo repositories.AttendanceRepository, operatorRepo repositories.OperatorRepository, cacheService caching.CacheService) AttendanceService {
	return &attendanceService{
		attendanceRepo: attendanceRepo,
		operatorRepo:   operatorRepo,
		cacheService:   cacheService,
	}
}

func (s *attendanceService) StatusForToday(ctx context.Context, tenantID, operatorID uuid.UUID) (string, error) {
	return s.StatusForDate(ctx, tenantID, operatorID, common.Today())
}

func (s *attendanceService) StatusForDate(ctx context.Context, tenantID, operatorID uuid.UUID, date time.Time) (string, error) {
	attendance, err := s.attendanceRepo.GetByOperatorAndDate(ctx, tenantID, operatorID, common.DateOf(date))
	if err != nil {
		if err == repositories.ErrNotFound {
			return models.StatusPresent, nil
		}
		return "", err
	}
	return attendance.Status, nil
}

// ToggleToday inverts the operator's state for today. With no row the
// implicit state is present, so the created row is absent. Two toggles
// racing on the missing row both try to insert; the loser hits the
// (operator_id, date) unique constraint and recovers by re-fetching
// the winner's row and flipping it.
func (s *attendanceService) ToggleToday(ctx context.Context, tenantID, operatorID uuid.UUID) (*models.Attendance, error) {
	// Cross-tenant operator ids must behave as not found.
	if _, err := s.operatorRepo.GetByID(ctx, tenantID, operatorID); err != nil {
		return nil, err
	}

	today := common.Today()

	attendance, err := s.attendanceRepo.GetByOperatorAndDate(ctx, tenantID, operatorID, today)
	if err != nil {
		if err != repositories.ErrNotFound {
			return nil, err
		}
		attendance = &models.Attendance{
			ID:         uuid.New(),
			TenantID:   tenantID,
			OperatorID: operatorID,
			Date:       today,
			Status:     models.StatusAbsent,
		}
		if insertErr := s.attendanceRepo.Insert(ctx, attendance); insertErr != nil {
			if !repositories.IsUniqueViolation(insertErr) {
				return nil, fmt.Errorf("create attendance: %w", insertErr)
			}
			// Lost the create race; flip the winner's row instead.
			attendance, err = s.attendanceRepo.GetByOperatorAndDate(ctx, tenantID, operatorID, today)
			if err != nil {
				return nil, err
			}
			attendance.Status = flip(attendance.Status)
			if err := s.attendanceRepo.UpdateStatus(ctx, tenantID, attendance.ID, attendance.Status); err != nil {
				return nil, err
			}
		}
	} else {
		attendance.Status = flip(attendance.Status)
		if err := s.attendanceRepo.UpdateStatus(ctx, tenantID, attendance.ID, attendance.Status); err != nil {
			return nil, err
		}
	}

	s.invalidate(ctx, tenantID, today)

	return attendance, nil
}

// invalidate drops the cached aggregates for the tenant's day. Stale
// dashboard counts would mis-report unstaffed critical positions, so
// this runs on every successful toggle.
func (s *attendanceService) invalidate(ctx context.Context, tenantID uuid.UUID, date time.Time) {
	if err := s.cacheService.DeleteAttendanceSummary(ctx, tenantID, date); err != nil {
		log.Printf("Failed to invalidate attendance summary for tenant %s: %v", tenantID.String(), err)
	}
	if err := s.cacheService.DeleteDashboardSnapshot(ctx, tenantID, date); err != nil {
		log.Printf("Failed to invalidate dashboard snapshot for tenant %s: %v", tenantID.String(), err)
	}
}

func flip(status string) string {
	if status == models.StatusAbsent {
		return models.StatusPresent
	}
	return models.StatusAbsent
}

func (s *attendanceService) ListByDate(ctx context.Context, tenantID uuid.UUID, date time.Time, limit, offset int) ([]*models.Attendance, error) {
	return s.attendanceRepo.ListByDate(ctx, tenantID, common.DateOf(date), limit, offset)
}

func (s *attendanceService) Summary(ctx context.Context, tenantID uuid.UUID, date time.Time) (*models.AttendanceSummary, error) {
	date = common.DateOf(date)

	if cached, err := s.cacheService.GetAttendanceSummary(ctx, tenantID, date); cached != nil {
		return cached, nil
	} else if err != nil {
		// Cache errors fall through to the database
		log.Printf("Cache error for attendance summary %s: %v", tenantID.String(), err)
	}

	operatorCount, err := s.operatorRepo.Count(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	absentCount, err := s.attendanceRepo.CountAbsent(ctx, tenantID, date)
	if err != nil {
		return nil, err
	}

	summary := &models.AttendanceSummary{
		TenantID:      tenantID,
		Date:          date,
		OperatorCount: operatorCount,
		AbsentCount:   absentCount,
		PresentCount:  operatorCount - absentCount,
	}

	if cacheErr := s.cacheService.SetAttendanceSummary(ctx, summary, 5*time.Minute); cacheErr != nil {
		log.Printf("Failed to cache attendance summary for tenant %s: %v", tenantID.String(), cacheErr)
	}

	return summary, nil
}
