package repositories

import (
	"context"
	"time"

	"postewatch/internal/models"

	"github.com/google/uuid"
)

type BackupAssignmentRepository interface {
	Create(ctx context.Context, assignment *models.BackupAssignment) error
	GetByID(ctx context.Context, tenantID, id uuid.UUID) (*models.BackupAssignment, error)
	Delete(ctx context.Context, tenantID, id uuid.UUID) error
	ListByDate(ctx context.Context, tenantID uuid.UUID, date time.Time) ([]*models.BackupAssignment, error)
	ListByPosteAndDate(ctx context.Context, tenantID, posteID uuid.UUID, date time.Time) ([]*models.BackupAssignment, error)
}

type backupAssignmentRepo struct {
	db Database
}

func NewBackupAssignmentRepository(db Database) BackupAssignmentRepository {
	return &backupAssignmentRepo{db: db}
}

func (r *backupAssignmentRepo) Create(ctx context.Context, assignment *models.BackupAssignment) error {
	query := `
		INSERT INTO backup_assignments (id, tenant_id, poste_id, operator_id, backup_operator_id, backup_slot, assigned_date, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW(), NOW())
	`
	_, err := r.db.Exec(ctx, query, assignment.ID, assignment.TenantID, assignment.PosteID, assignment.OperatorID, assignment.BackupOperatorID, assignment.BackupSlot, assignment.AssignedDate)
	return err
}

func (r *backupAssignmentRepo) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*models.BackupAssignment, error) {
	a := &models.BackupAssignment{}
	query := `
		SELECT id, tenant_id, poste_id, operator_id, backup_operator_id, backup_slot, assigned_date, created_at, updated_at
		FROM backup_assignments
		WHERE tenant_id = $1 AND id = $2
	`
	err := r.db.QueryRow(ctx, query, tenantID, id).Scan(&a.ID, &a.TenantID, &a.PosteID, &a.OperatorID, &a.BackupOperatorID, &a.BackupSlot, &a.AssignedDate, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return a, nil
}

func (r *backupAssignmentRepo) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	query := `DELETE FROM backup_assignments WHERE tenant_id = $1 AND id = $2`
	_, err := r.db.Exec(ctx, query, tenantID, id)
	return err
}

func (r *backupAssignmentRepo) ListByDate(ctx context.Context, tenantID uuid.UUID, date time.Time) ([]*models.BackupAssignment, error) {
	query := `
		SELECT id, tenant_id, poste_id, operator_id, backup_operator_id, backup_slot, assigned_date, created_at, updated_at
		FROM backup_assignments
		WHERE tenant_id = $1 AND assigned_date = $2
		ORDER BY poste_id, backup_slot
	`
	rows, err := r.db.Query(ctx, query, tenantID, date)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var assignments []*models.BackupAssignment
	for rows.Next() {
		a := &models.BackupAssignment{}
		if err := rows.Scan(&a.ID, &a.TenantID, &a.PosteID, &a.OperatorID, &a.BackupOperatorID, &a.BackupSlot, &a.AssignedDate, &a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, err
		}
		assignments = append(assignments, a)
	}
	return assignments, nil
}

func (r *backupAssignmentRepo) ListByPosteAndDate(ctx context.Context, tenantID, posteID uuid.UUID, date time.Time) ([]*models.BackupAssignment, error) {
	query := `
		SELECT id, tenant_id, poste_id, operator_id, backup_operator_id, backup_slot, assigned_date, created_at, updated_at
		FROM backup_assignments
		WHERE tenant_id = $1 AND poste_id = $2 AND assigned_date = $3
		ORDER BY backup_slot
	`
	rows, err := r.db.Query(ctx, query, tenantID, posteID, date)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var assignments []*models.BackupAssignment
	for rows.Next() {
		a := &models.BackupAssignment{}
		if err := rows.Scan(&a.ID, &a.TenantID, &a.PosteID, &a.OperatorID, &a.BackupOperatorID, &a.BackupSlot, &a.AssignedDate, &a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, err
		}
		assignments = append(assignments, a)
	}
	return assignments, nil
}
