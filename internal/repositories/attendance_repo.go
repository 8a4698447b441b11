package repositories

import (
	"context"
	"time"

	"postewatch/internal/models"

	"github.com/google/uuid"
)

type AttendanceRepository interface {
	// Insert fails with a unique violation when a row for
	// (operator_id, date) already exists; toggle races re-fetch.
	Insert(ctx context.Context, attendance *models.Attendance) error
	GetByOperatorAndDate(ctx context.Context, tenantID, operatorID uuid.UUID, date time.Time) (*models.Attendance, error)
	UpdateStatus(ctx context.Context, tenantID, id uuid.UUID, status string) error
	ListByDate(ctx context.Context, tenantID uuid.UUID, date time.Time, limit, offset int) ([]*models.Attendance, error)
	CountAbsent(ctx context.Context, tenantID uuid.UUID, date time.Time) (int, error)
	// AbsentOperatorIDs returns operators with an explicit absent row
	// for the date. Everyone else is present by convention.
	AbsentOperatorIDs(ctx context.Context, tenantID uuid.UUID, date time.Time) (map[uuid.UUID]bool, error)
}

type attendanceRepo struct {
	db Database
}

func NewAttendanceRepository(db Database) AttendanceRepository {
	return &attendanceRepo{db: db}
}

func (r *attendanceRepo) Insert(ctx context.Context, attendance *models.Attendance) error {
	query := `
		INSERT INTO attendances (id, tenant_id, operator_id, date, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, NOW(), NOW())
	`
	_, err := r.db.Exec(ctx, query, attendance.ID, attendance.TenantID, attendance.OperatorID, attendance.Date, attendance.Status)
	return err
}

func (r *attendanceRepo) GetByOperatorAndDate(ctx context.Context, tenantID, operatorID uuid.UUID, date time.Time) (*models.Attendance, error) {
	attendance := &models.Attendance{}
	query := `
		SELECT id, tenant_id, operator_id, date, status, created_at, updated_at
		FROM attendances
		WHERE tenant_id = $1 AND operator_id = $2 AND date = $3
	`
	err := r.db.QueryRow(ctx, query, tenantID, operatorID, date).Scan(&attendance.ID, &attendance.TenantID, &attendance.OperatorID, &attendance.Date, &attendance.Status, &attendance.CreatedAt, &attendance.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return attendance, nil
}

func (r *attendanceRepo) UpdateStatus(ctx context.Context, tenantID, id uuid.UUID, status string) error {
	query := `
		UPDATE attendances
		SET status = $1, updated_at = NOW()
		WHERE tenant_id = $2 AND id = $3
	`
	_, err := r.db.Exec(ctx, query, status, tenantID, id)
	return err
}

func (r *attendanceRepo) ListByDate(ctx context.Context, tenantID uuid.UUID, date time.Time, limit, offset int) ([]*models.Attendance, error) {
	query := `
		SELECT id, tenant_id, operator_id, date, status, created_at, updated_at
		FROM attendances
		WHERE tenant_id = $1 AND date = $2
		ORDER BY created_at
		LIMIT $3 OFFSET $4
	`
	rows, err := r.db.Query(ctx, query, tenantID, date, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var attendances []*models.Attendance
	for rows.Next() {
		attendance := &models.Attendance{}
		if err := rows.Scan(&attendance.ID, &attendance.TenantID, &attendance.OperatorID, &attendance.Date, &attendance.Status, &attendance.CreatedAt, &attendance.UpdatedAt); err != nil {
			return nil, err
		}
		attendances = append(attendances, attendance)
	}
	return attendances, nil
}

func (r *attendanceRepo) CountAbsent(ctx context.Context, tenantID uuid.UUID, date time.Time) (int, error) {
	var count int
	query := `
		SELECT COUNT(*)
		FROM attendances
		WHERE tenant_id = $1 AND date = $2 AND status = 'absent'
	`
	err := r.db.QueryRow(ctx, query, tenantID, date).Scan(&count)
	return count, err
}

func (r *attendanceRepo) AbsentOperatorIDs(ctx context.Context, tenantID uuid.UUID, date time.Time) (map[uuid.UUID]bool, error) {
	query := `
		SELECT operator_id
		FROM attendances
		WHERE tenant_id = $1 AND date = $2 AND status = 'absent'
	`
	rows, err := r.db.Query(ctx, query, tenantID, date)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	absent := make(map[uuid.UUID]bool)
	for rows.Next() {
		var operatorID uuid.UUID
		if err := rows.Scan(&operatorID); err != nil {
			return nil, err
		}
		absent[operatorID] = true
	}
	return absent, nil
}
