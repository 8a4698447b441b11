package services

import (
	"context"
	"log"
	"time"

	"postewatch/internal/caching"
	"postewatch/internal/common"
	"postewatch/internal/models"
	"postewatch/internal/repositories"

	"github.com/google/uuid"
)

// DashboardService serves the per-tenant settings singleton and the
// staffing snapshot: which critical (poste, ligne) pairs have nobody
// present today.
type DashboardService interface {
	GetSettings(ctx context.Context, tenantID uuid.UUID) (*models.DashboardSettings, error)
	UpdateSettings(ctx context.Context, tenantID uuid.UUID, title string, settings map[string]string) (*models.DashboardSettings, error)
	Snapshot(ctx context.Context, tenantID uuid.UUID, date time.Time) (*models.DashboardSnapshot, error)
}

type dashboardService struct {
	settingsRepo   repositories.DashboardSettingsRepository
	criticalRepo   repositories.CriticalPositionRepository
	posteRepo      repositories.PosteRepository
	operatorRepo   repositories.OperatorRepository
	attendanceRepo repositories.AttendanceRepository
	backupRepo     repositories.BackupAssignmentRepository
	cacheService   caching.CacheService
}

func NewDashboardService(
	settingsRepo repositories.DashboardSettingsRepository,
	criticalRepo repositories.CriticalPositionRepository,
	posteRepo repositories.PosteRepository,
	operatorRepo repositories.OperatorRepository,
	attendanceRepo repositories.AttendanceRepository,
	backupRepo repositories.BackupAssignmentRepository,
	cacheService caching.CacheService,
) DashboardService {
	return &dashboardService{
		settingsRepo:   settingsRepo,
		criticalRepo:   criticalRepo,
		posteRepo:      posteRepo,
		operatorRepo:   operatorRepo,
		attendanceRepo: attendanceRepo,
		backupRepo:     backupRepo,
		cacheService:   cacheService,
	}
}

// GetSettings lazily creates the singleton on first access. A racing
// first access hits the tenant_id unique constraint and re-fetches.
func (s *dashboardService) GetSettings(ctx context.Context, tenantID uuid.UUID) (*models.DashboardSettings, error) {
	settings, err := s.settingsRepo.GetByTenant(ctx, tenantID)
	if err == nil {
		return settings, nil
	}
	if err != repositories.ErrNotFound {
		return nil, err
	}

	settings = &models.DashboardSettings{
		ID:       uuid.New(),
		TenantID: tenantID,
		Title:    models.DefaultDashboardTitle,
		Settings: map[string]string{},
	}
	if err := s.settingsRepo.Insert(ctx, settings); err != nil {
		if repositories.IsUniqueViolation(err) {
			return s.settingsRepo.GetByTenant(ctx, tenantID)
		}
		return nil, err
	}
	return settings, nil
}

func (s *dashboardService) UpdateSettings(ctx context.Context, tenantID uuid.UUID, title string, values map[string]string) (*models.DashboardSettings, error) {
	settings, err := s.GetSettings(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	if title != "" {
		settings.Title = title
	}
	if values != nil {
		settings.Settings = values
	}

	if err := s.settingsRepo.Update(ctx, settings); err != nil {
		return nil, err
	}
	return settings, nil
}

// Snapshot computes the unstaffed critical positions for the date. A
// critical (poste, ligne) pair counts as staffed when at least one of
// its operators is present, or when a present backup is assigned for
// the date. Results are cached per (tenant, day) and invalidated by
// attendance, critical-flag, operator and backup writes.
func (s *dashboardService) Snapshot(ctx context.Context, tenantID uuid.UUID, date time.Time) (*models.DashboardSnapshot, error) {
	date = common.DateOf(date)

	if cached, err := s.cacheService.GetDashboardSnapshot(ctx, tenantID, date); cached != nil {
		return cached, nil
	} else if err != nil {
		log.Printf("Cache error for dashboard snapshot %s: %v", tenantID.String(), err)
	}

	criticals, err := s.criticalRepo.ListCritical(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	absent, err := s.attendanceRepo.AbsentOperatorIDs(ctx, tenantID, date)
	if err != nil {
		return nil, err
	}
	backups, err := s.backupRepo.ListByDate(ctx, tenantID, date)
	if err != nil {
		return nil, err
	}

	// Present backups per poste
	backedUp := make(map[uuid.UUID]bool)
	for _, b := range backups {
		if !absent[b.BackupOperatorID] {
			backedUp[b.PosteID] = true
		}
	}

	var unstaffed []models.UnstaffedPosition
	for _, cp := range criticals {
		operators, err := s.operatorRepo.ListByPoste(ctx, tenantID, cp.PosteID)
		if err != nil {
			return nil, err
		}

		staffed := false
		for _, op := range operators {
			if op.Ligne != cp.Ligne {
				continue
			}
			if !absent[op.ID] {
				staffed = true
				break
			}
		}
		if !staffed && backedUp[cp.PosteID] {
			staffed = true
		}
		if staffed {
			continue
		}

		poste, err := s.posteRepo.GetByID(ctx, tenantID, cp.PosteID)
		if err != nil {
			if err == repositories.ErrNotFound {
				// Critical record outlived its poste; skip rather than fail the dashboard.
				continue
			}
			return nil, err
		}
		unstaffed = append(unstaffed, models.UnstaffedPosition{
			PosteID:   cp.PosteID,
			PosteName: poste.Name,
			Ligne:     cp.Ligne,
		})
	}

	operatorCount, err := s.operatorRepo.Count(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	snapshot := &models.DashboardSnapshot{
		TenantID:      tenantID,
		Date:          date,
		Unstaffed:     unstaffed,
		AbsentCount:   len(absent),
		PresentCount:  operatorCount - len(absent),
		OperatorCount: operatorCount,
		GeneratedAt:   time.Now().UTC(),
	}

	if cacheErr := s.cacheService.SetDashboardSnapshot(ctx, snapshot, 5*time.Minute); cacheErr != nil {
		log.Printf("Failed to cache dashboard snapshot for tenant %s: %v", tenantID.String(), cacheErr)
	}

	return snapshot, nil
}
