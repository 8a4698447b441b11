package services

import (
	"context"
	"time"

	"postewatch/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type MockCriticalPositionRepository struct {
	mock.Mock
}

func (m *MockCriticalPositionRepository) Insert(ctx context.Context, cp *models.CriticalPosition) error {
	args := m.Called(ctx, cp)
	return args.Error(0)
}

func (m *MockCriticalPositionRepository) GetByTuple(ctx context.Context, tenantID, posteID uuid.UUID, ligne string) (*models.CriticalPosition, error) {
	args := m.Called(ctx, tenantID, posteID, ligne)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.CriticalPosition), args.Error(1)
}

func (m *MockCriticalPositionRepository) SetCritical(ctx context.Context, tenantID, id uuid.UUID, isCritical bool) error {
	args := m.Called(ctx, tenantID, id, isCritical)
	return args.Error(0)
}

func (m *MockCriticalPositionRepository) List(ctx context.Context, tenantID uuid.UUID, limit, offset int) ([]*models.CriticalPosition, error) {
	args := m.Called(ctx, tenantID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.CriticalPosition), args.Error(1)
}

func (m *MockCriticalPositionRepository) ListCritical(ctx context.Context, tenantID uuid.UUID) ([]*models.CriticalPosition, error) {
	args := m.Called(ctx, tenantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.CriticalPosition), args.Error(1)
}

func (m *MockCriticalPositionRepository) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	args := m.Called(ctx, tenantID, id)
	return args.Error(0)
}

type MockAttendanceRepository struct {
	mock.Mock
}

func (m *MockAttendanceRepository) Insert(ctx context.Context, attendance *models.Attendance) error {
	args := m.Called(ctx, attendance)
	return args.Error(0)
}

func (m *MockAttendanceRepository) GetByOperatorAndDate(ctx context.Context, tenantID, operatorID uuid.UUID, date time.Time) (*models.Attendance, error) {
	args := m.Called(ctx, tenantID, operatorID, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Attendance), args.Error(1)
}

func (m *MockAttendanceRepository) UpdateStatus(ctx context.Context, tenantID, id uuid.UUID, status string) error {
	args := m.Called(ctx, tenantID, id, status)
	return args.Error(0)
}

func (m *MockAttendanceRepository) ListByDate(ctx context.Context, tenantID uuid.UUID, date time.Time, limit, offset int) ([]*models.Attendance, error) {
	args := m.Called(ctx, tenantID, date, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Attendance), args.Error(1)
}

func (m *MockAttendanceRepository) CountAbsent(ctx context.Context, tenantID uuid.UUID, date time.Time) (int, error) {
	args := m.Called(ctx, tenantID, date)
	return args.Int(0), args.Error(1)
}

func (m *MockAttendanceRepository) AbsentOperatorIDs(ctx context.Context, tenantID uuid.UUID, date time.Time) (map[uuid.UUID]bool, error) {
	args := m.Called(ctx, tenantID, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[uuid.UUID]bool), args.Error(1)
}

type MockOperatorRepository struct {
	mock.Mock
}

func (m *MockOperatorRepository) Create(ctx context.Context, operator *models.Operator) error {
	args := m.Called(ctx, operator)
	return args.Error(0)
}

func (m *MockOperatorRepository) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*models.Operator, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Operator), args.Error(1)
}

func (m *MockOperatorRepository) GetByMatricule(ctx context.Context, tenantID uuid.UUID, matricule string) (*models.Operator, error) {
	args := m.Called(ctx, tenantID, matricule)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Operator), args.Error(1)
}

func (m *MockOperatorRepository) Update(ctx context.Context, operator *models.Operator) error {
	args := m.Called(ctx, operator)
	return args.Error(0)
}

func (m *MockOperatorRepository) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	args := m.Called(ctx, tenantID, id)
	return args.Error(0)
}

func (m *MockOperatorRepository) List(ctx context.Context, tenantID uuid.UUID, limit, offset int) ([]*models.Operator, error) {
	args := m.Called(ctx, tenantID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Operator), args.Error(1)
}

func (m *MockOperatorRepository) ListByPoste(ctx context.Context, tenantID, posteID uuid.UUID) ([]*models.Operator, error) {
	args := m.Called(ctx, tenantID, posteID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Operator), args.Error(1)
}

func (m *MockOperatorRepository) Search(ctx context.Context, tenantID uuid.UUID, filter *models.OperatorSearchFilter) ([]*models.Operator, error) {
	args := m.Called(ctx, tenantID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Operator), args.Error(1)
}

func (m *MockOperatorRepository) Count(ctx context.Context, tenantID uuid.UUID) (int, error) {
	args := m.Called(ctx, tenantID)
	return args.Int(0), args.Error(1)
}

type MockPosteRepository struct {
	mock.Mock
}

func (m *MockPosteRepository) Create(ctx context.Context, poste *models.Poste) error {
	args := m.Called(ctx, poste)
	return args.Error(0)
}

func (m *MockPosteRepository) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*models.Poste, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Poste), args.Error(1)
}

func (m *MockPosteRepository) Update(ctx context.Context, poste *models.Poste) error {
	args := m.Called(ctx, poste)
	return args.Error(0)
}

func (m *MockPosteRepository) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	args := m.Called(ctx, tenantID, id)
	return args.Error(0)
}

func (m *MockPosteRepository) List(ctx context.Context, tenantID uuid.UUID, limit, offset int) ([]*models.Poste, error) {
	args := m.Called(ctx, tenantID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Poste), args.Error(1)
}

func (m *MockPosteRepository) ListByLigne(ctx context.Context, tenantID uuid.UUID, ligne string) ([]*models.Poste, error) {
	args := m.Called(ctx, tenantID, ligne)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Poste), args.Error(1)
}

type MockBackupAssignmentRepository struct {
	mock.Mock
}

func (m *MockBackupAssignmentRepository) Create(ctx context.Context, assignment *models.BackupAssignment) error {
	args := m.Called(ctx, assignment)
	return args.Error(0)
}

func (m *MockBackupAssignmentRepository) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*models.BackupAssignment, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.BackupAssignment), args.Error(1)
}

func (m *MockBackupAssignmentRepository) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	args := m.Called(ctx, tenantID, id)
	return args.Error(0)
}

func (m *MockBackupAssignmentRepository) ListByDate(ctx context.Context, tenantID uuid.UUID, date time.Time) ([]*models.BackupAssignment, error) {
	args := m.Called(ctx, tenantID, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.BackupAssignment), args.Error(1)
}

func (m *MockBackupAssignmentRepository) ListByPosteAndDate(ctx context.Context, tenantID, posteID uuid.UUID, date time.Time) ([]*models.BackupAssignment, error) {
	args := m.Called(ctx, tenantID, posteID, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.BackupAssignment), args.Error(1)
}

type MockDashboardSettingsRepository struct {
	mock.Mock
}

func (m *MockDashboardSettingsRepository) Insert(ctx context.Context, settings *models.DashboardSettings) error {
	args := m.Called(ctx, settings)
	return args.Error(0)
}

func (m *MockDashboardSettingsRepository) GetByTenant(ctx context.Context, tenantID uuid.UUID) (*models.DashboardSettings, error) {
	args := m.Called(ctx, tenantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.DashboardSettings), args.Error(1)
}

func (m *MockDashboardSettingsRepository) Update(ctx context.Context, settings *models.DashboardSettings) error {
	args := m.Called(ctx, settings)
	return args.Error(0)
}

// fakeCacheService is an in-memory caching.CacheService that records
// invalidations so tests can assert on them without Redis.
type fakeCacheService struct {
	snapshots       map[string]*models.DashboardSnapshot
	summaries       map[string]*models.AttendanceSummary
	strings         map[string]string
	snapshotDeletes int
	summaryDeletes  int
	rateLimited     bool
}

func newFakeCacheService() *fakeCacheService {
	return &fakeCacheService{
		snapshots: make(map[string]*models.DashboardSnapshot),
		summaries: make(map[string]*models.AttendanceSummary),
		strings:   make(map[string]string),
	}
}

func cacheKey(tenantID uuid.UUID, date time.Time) string {
	return tenantID.String() + ":" + date.Format("2006-01-02")
}

func (f *fakeCacheService) GetDashboardSnapshot(ctx context.Context, tenantID uuid.UUID, date time.Time) (*models.DashboardSnapshot, error) {
	return f.snapshots[cacheKey(tenantID, date)], nil
}

func (f *fakeCacheService) SetDashboardSnapshot(ctx context.Context, snapshot *models.DashboardSnapshot, ttl time.Duration) error {
	f.snapshots[cacheKey(snapshot.TenantID, snapshot.Date)] = snapshot
	return nil
}

func (f *fakeCacheService) DeleteDashboardSnapshot(ctx context.Context, tenantID uuid.UUID, date time.Time) error {
	delete(f.snapshots, cacheKey(tenantID, date))
	f.snapshotDeletes++
	return nil
}

func (f *fakeCacheService) GetAttendanceSummary(ctx context.Context, tenantID uuid.UUID, date time.Time) (*models.AttendanceSummary, error) {
	return f.summaries[cacheKey(tenantID, date)], nil
}

func (f *fakeCacheService) SetAttendanceSummary(ctx context.Context, summary *models.AttendanceSummary, ttl time.Duration) error {
	f.summaries[cacheKey(summary.TenantID, summary.Date)] = summary
	return nil
}

func (f *fakeCacheService) DeleteAttendanceSummary(ctx context.Context, tenantID uuid.UUID, date time.Time) error {
	delete(f.summaries, cacheKey(tenantID, date))
	f.summaryDeletes++
	return nil
}

func (f *fakeCacheService) InvalidateTenantCache(ctx context.Context, tenantID uuid.UUID) error {
	f.snapshots = make(map[string]*models.DashboardSnapshot)
	f.summaries = make(map[string]*models.AttendanceSummary)
	return nil
}

func (f *fakeCacheService) IsRateLimited(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	return f.rateLimited, nil
}

func (f *fakeCacheService) SetString(ctx context.Context, key string, value string, ttl time.Duration) error {
	f.strings[key] = value
	return nil
}

func (f *fakeCacheService) GetString(ctx context.Context, key string) (string, error) {
	return f.strings[key], nil
}

func (f *fakeCacheService) Delete(ctx context.Context, key string) error {
	delete(f.strings, key)
	return nil
}
