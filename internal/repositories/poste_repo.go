package repositories

import (
	"context"

	"postewatch/internal/models"

	"github.com/google/uuid"
)

type PosteRepository interface {
	Create(ctx context.Context, poste *models.Poste) error
	GetByID(ctx context.Context, tenantID, id uuid.UUID) (*models.Poste, error)
	Update(ctx context.Context, poste *models.Poste) error
	Delete(ctx context.Context, tenantID, id uuid.UUID) error
	List(ctx context.Context, tenantID uuid.UUID, limit, offset int) ([]*models.Poste, error)
	ListByLigne(ctx context.Context, tenantID uuid.UUID, ligne string) ([]*models.Poste, error)
}

type posteRepo struct {
	db Database
}

func NewPosteRepository(db Database) PosteRepository {
	return &posteRepo{db: db}
}

func (r *posteRepo) Create(ctx context.Context, poste *models.Poste) error {
	query := `
		INSERT INTO postes (id, tenant_id, name, ligne, created_at, updated_at)
		VALUES ($1, $2, $3, $4, NOW(), NOW())
	`
	_, err := r.db.Exec(ctx, query, poste.ID, poste.TenantID, poste.Name, poste.Ligne)
	return err
}

func (r *posteRepo) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*models.Poste, error) {
	poste := &models.Poste{}
	query := `
		SELECT id, tenant_id, name, ligne, created_at, updated_at
		FROM postes
		WHERE tenant_id = $1 AND id = $2
	`
	err := r.db.QueryRow(ctx, query, tenantID, id).Scan(&poste.ID, &poste.TenantID, &poste.Name, &poste.Ligne, &poste.CreatedAt, &poste.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return poste, nil
}

func (r *posteRepo) Update(ctx context.Context, poste *models.Poste) error {
	query := `
		UPDATE postes
		SET name = $1, ligne = $2, updated_at = NOW()
		WHERE tenant_id = $3 AND id = $4
	`
	_, err := r.db.Exec(ctx, query, poste.Name, poste.Ligne, poste.TenantID, poste.ID)
	return err
}

// Delete fails with a foreign-key violation while operators still
// reference the poste; callers map that to ErrPosteInUse.
func (r *posteRepo) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	query := `DELETE FROM postes WHERE tenant_id = $1 AND id = $2`
	_, err := r.db.Exec(ctx, query, tenantID, id)
	return err
}

func (r *posteRepo) List(ctx context.Context, tenantID uuid.UUID, limit, offset int) ([]*models.Poste, error) {
	query := `
		SELECT id, tenant_id, name, ligne, created_at, updated_at
		FROM postes
		WHERE tenant_id = $1
		ORDER BY ligne, name
		LIMIT $2 OFFSET $3
	`
	rows, err := r.db.Query(ctx, query, tenantID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var postes []*models.Poste
	for rows.Next() {
		poste := &models.Poste{}
		if err := rows.Scan(&poste.ID, &poste.TenantID, &poste.Name, &poste.Ligne, &poste.CreatedAt, &poste.UpdatedAt); err != nil {
			return nil, err
		}
		postes = append(postes, poste)
	}
	return postes, nil
}

func (r *posteRepo) ListByLigne(ctx context.Context, tenantID uuid.UUID, ligne string) ([]*models.Poste, error) {
	query := `
		SELECT id, tenant_id, name, ligne, created_at, updated_at
		FROM postes
		WHERE tenant_id = $1 AND ligne = $2
		ORDER BY name
	`
	rows, err := r.db.Query(ctx, query, tenantID, ligne)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var postes []*models.Poste
	for rows.Next() {
		poste := &models.Poste{}
		if err := rows.Scan(&poste.ID, &poste.TenantID, &poste.Name, &poste.Ligne, &poste.CreatedAt, &poste.UpdatedAt); err != nil {
			return nil, err
		}
		postes = append(postes, poste)
	}
	return postes, nil
}
