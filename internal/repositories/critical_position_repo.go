package repositories

import (
	"context"

	"postewatch/internal/models"

	"github.com/google/uuid"
)

type CriticalPositionRepository interface {
	// Insert fails with a unique violation when the
	// (tenant_id, poste_id, ligne) tuple already exists; callers
	// resolve the race by re-fetching.
	Insert(ctx context.Context, cp *models.CriticalPosition) error
	GetByTuple(ctx context.Context, tenantID, posteID uuid.UUID, ligne string) (*models.CriticalPosition, error)
	SetCritical(ctx context.Context, tenantID, id uuid.UUID, isCritical bool) error
	List(ctx context.Context, tenantID uuid.UUID, limit, offset int) ([]*models.CriticalPosition, error)
	ListCritical(ctx context.Context, tenantID uuid.UUID) ([]*models.CriticalPosition, error)
	Delete(ctx context.Context, tenantID, id uuid.UUID) error
}

type criticalPositionRepo struct {
	db Database
}

func NewCriticalPositionRepository(db Database) CriticalPositionRepository {
	return &criticalPositionRepo{db: db}
}

func (r *criticalPositionRepo) Insert(ctx context.Context, cp *models.CriticalPosition) error {
	query := `
		INSERT INTO critical_positions (id, tenant_id, poste_id, ligne, is_critical, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, NOW(), NOW())
	`
	_, err := r.db.Exec(ctx, query, cp.ID, cp.TenantID, cp.PosteID, cp.Ligne, cp.IsCritical)
	return err
}

func (r *criticalPositionRepo) GetByTuple(ctx context.Context, tenantID, posteID uuid.UUID, ligne string) (*models.CriticalPosition, error) {
	cp := &models.CriticalPosition{}
	query := `
		SELECT id, tenant_id, poste_id, ligne, is_critical, created_at, updated_at
		FROM critical_positions
		WHERE tenant_id = $1 AND poste_id = $2 AND ligne = $3
	`
	err := r.db.QueryRow(ctx, query, tenantID, posteID, ligne).Scan(&cp.ID, &cp.TenantID, &cp.PosteID, &cp.Ligne, &cp.IsCritical, &cp.CreatedAt, &cp.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return cp, nil
}

func (r *criticalPositionRepo) SetCritical(ctx context.Context, tenantID, id uuid.UUID, isCritical bool) error {
	query := `
		UPDATE critical_positions
		SET is_critical = $1, updated_at = NOW()
		WHERE tenant_id = $2 AND id = $3
	`
	_, err := r.db.Exec(ctx, query, isCritical, tenantID, id)
	return err
}

func (r *criticalPositionRepo) List(ctx context.Context, tenantID uuid.UUID, limit, offset int) ([]*models.CriticalPosition, error) {
	query := `
		SELECT id, tenant_id, poste_id, ligne, is_critical, created_at, updated_at
		FROM critical_positions
		WHERE tenant_id = $1
		ORDER BY ligne, created_at
		LIMIT $2 OFFSET $3
	`
	rows, err := r.db.Query(ctx, query, tenantID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var positions []*models.CriticalPosition
	for rows.Next() {
		cp := &models.CriticalPosition{}
		if err := rows.Scan(&cp.ID, &cp.TenantID, &cp.PosteID, &cp.Ligne, &cp.IsCritical, &cp.CreatedAt, &cp.UpdatedAt); err != nil {
			return nil, err
		}
		positions = append(positions, cp)
	}
	return positions, nil
}

func (r *criticalPositionRepo) ListCritical(ctx context.Context, tenantID uuid.UUID) ([]*models.CriticalPosition, error) {
	query := `
		SELECT id, tenant_id, poste_id, ligne, is_critical, created_at, updated_at
		FROM critical_positions
		WHERE tenant_id = $1 AND is_critical = TRUE
		ORDER BY ligne
	`
	rows, err := r.db.Query(ctx, query, tenantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var positions []*models.CriticalPosition
	for rows.Next() {
		cp := &models.CriticalPosition{}
		if err := rows.Scan(&cp.ID, &cp.TenantID, &cp.PosteID, &cp.Ligne, &cp.IsCritical, &cp.CreatedAt, &cp.UpdatedAt); err != nil {
			return nil, err
		}
		positions = append(positions, cp)
	}
	return positions, nil
}

func (r *criticalPositionRepo) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	query := `DELETE FROM critical_positions WHERE tenant_id = $1 AND id = $2`
	_, err := r.db.Exec(ctx, query, tenantID, id)
	return err
}
