package repositories

import (
	"context"
	"fmt"
	"strings"

	"postewatch/internal/models"

	"github.com/google/uuid"
)

type OperatorRepository interface {
	Create(ctx context.Context, operator *models.Operator) error
	GetByID(ctx context.Context, tenantID, id uuid.UUID) (*models.Operator, error)
	GetByMatricule(ctx context.Context, tenantID uuid.UUID, matricule string) (*models.Operator, error)
	Update(ctx context.Context, operator *models.Operator) error
	Delete(ctx context.Context, tenantID, id uuid.UUID) error
	List(ctx context.Context, tenantID uuid.UUID, limit, offset int) ([]*models.Operator, error)
	ListByPoste(ctx context.Context, tenantID, posteID uuid.UUID) ([]*models.Operator, error)
	Search(ctx context.Context, tenantID uuid.UUID, filter *models.OperatorSearchFilter) ([]*models.Operator, error)
	Count(ctx context.Context, tenantID uuid.UUID) (int, error)
}

type operatorRepo struct {
	db Database
}

func NewOperatorRepository(db Database) OperatorRepository {
	return &operatorRepo{db: db}
}

const operatorColumns = `id, tenant_id, poste_id, matricule, first_name, last_name, anciente, type_de_contrat, ligne, is_capable, created_at, updated_at`

func (r *operatorRepo) scanOperator(row interface{ Scan(dest ...any) error }) (*models.Operator, error) {
	op := &models.Operator{}
	err := row.Scan(&op.ID, &op.TenantID, &op.PosteID, &op.Matricule, &op.FirstName, &op.LastName, &op.Anciente, &op.TypeDeContrat, &op.Ligne, &op.IsCapable, &op.CreatedAt, &op.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return op, nil
}

func (r *operatorRepo) Create(ctx context.Context, operator *models.Operator) error {
	query := `
		INSERT INTO operators (id, tenant_id, poste_id, matricule, first_name, last_name, anciente, type_de_contrat, ligne, is_capable, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, NOW(), NOW())
	`
	_, err := r.db.Exec(ctx, query, operator.ID, operator.TenantID, operator.PosteID, operator.Matricule, operator.FirstName, operator.LastName, operator.Anciente, operator.TypeDeContrat, operator.Ligne, operator.IsCapable)
	return err
}

func (r *operatorRepo) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*models.Operator, error) {
	query := `
		SELECT ` + operatorColumns + `
		FROM operators
		WHERE tenant_id = $1 AND id = $2
	`
	return r.scanOperator(r.db.QueryRow(ctx, query, tenantID, id))
}

func (r *operatorRepo) GetByMatricule(ctx context.Context, tenantID uuid.UUID, matricule string) (*models.Operator, error) {
	query := `
		SELECT ` + operatorColumns + `
		FROM operators
		WHERE tenant_id = $1 AND matricule = $2
	`
	return r.scanOperator(r.db.QueryRow(ctx, query, tenantID, matricule))
}

func (r *operatorRepo) Update(ctx context.Context, operator *models.Operator) error {
	query := `
		UPDATE operators
		SET poste_id = $1, matricule = $2, first_name = $3, last_name = $4, anciente = $5, type_de_contrat = $6, ligne = $7, is_capable = $8, updated_at = NOW()
		WHERE tenant_id = $9 AND id = $10
	`
	_, err := r.db.Exec(ctx, query, operator.PosteID, operator.Matricule, operator.FirstName, operator.LastName, operator.Anciente, operator.TypeDeContrat, operator.Ligne, operator.IsCapable, operator.TenantID, operator.ID)
	return err
}

func (r *operatorRepo) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	query := `DELETE FROM operators WHERE tenant_id = $1 AND id = $2`
	_, err := r.db.Exec(ctx, query, tenantID, id)
	return err
}

func (r *operatorRepo) List(ctx context.Context, tenantID uuid.UUID, limit, offset int) ([]*models.Operator, error) {
	query := `
		SELECT ` + operatorColumns + `
		FROM operators
		WHERE tenant_id = $1
		ORDER BY last_name, first_name
		LIMIT $2 OFFSET $3
	`
	rows, err := r.db.Query(ctx, query, tenantID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var operators []*models.Operator
	for rows.Next() {
		op, err := r.scanOperator(rows)
		if err != nil {
			return nil, err
		}
		operators = append(operators, op)
	}
	return operators, nil
}

func (r *operatorRepo) ListByPoste(ctx context.Context, tenantID, posteID uuid.UUID) ([]*models.Operator, error) {
	query := `
		SELECT ` + operatorColumns + `
		FROM operators
		WHERE tenant_id = $1 AND poste_id = $2
		ORDER BY last_name, first_name
	`
	rows, err := r.db.Query(ctx, query, tenantID, posteID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var operators []*models.Operator
	for rows.Next() {
		op, err := r.scanOperator(rows)
		if err != nil {
			return nil, err
		}
		operators = append(operators, op)
	}
	return operators, nil
}

func (r *operatorRepo) Search(ctx context.Context, tenantID uuid.UUID, filter *models.OperatorSearchFilter) ([]*models.Operator, error) {
	if filter.Limit == 0 {
		filter.Limit = 50
	}

	queryBase := `
		SELECT ` + operatorColumns + `
		FROM operators
		WHERE tenant_id = $1
	`
	args := []any{tenantID}
	conditionCount := 1

	if filter.Query != "" {
		conditionCount++
		queryBase += fmt.Sprintf(` AND (first_name ILIKE $%d OR last_name ILIKE $%d OR COALESCE(matricule, '') ILIKE $%d)`, conditionCount, conditionCount, conditionCount)
		args = append(args, "%"+filter.Query+"%")
	}
	if filter.PosteID != nil {
		conditionCount++
		queryBase += fmt.Sprintf(` AND poste_id = $%d`, conditionCount)
		args = append(args, *filter.PosteID)
	}
	if filter.Ligne != nil {
		conditionCount++
		queryBase += fmt.Sprintf(` AND ligne = $%d`, conditionCount)
		args = append(args, strings.TrimSpace(*filter.Ligne))
	}
	if filter.IsCapable != nil {
		conditionCount++
		queryBase += fmt.Sprintf(` AND is_capable = $%d`, conditionCount)
		args = append(args, *filter.IsCapable)
	}

	queryBase += ` ORDER BY last_name, first_name`
	conditionCount++
	queryBase += fmt.Sprintf(` LIMIT $%d`, conditionCount)
	args = append(args, filter.Limit)
	if filter.Offset > 0 {
		conditionCount++
		queryBase += fmt.Sprintf(` OFFSET $%d`, conditionCount)
		args = append(args, filter.Offset)
	}

	rows, err := r.db.Query(ctx, queryBase, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var operators []*models.Operator
	for rows.Next() {
		op, err := r.scanOperator(rows)
		if err != nil {
			return nil, err
		}
		operators = append(operators, op)
	}
	return operators, nil
}

func (r *operatorRepo) Count(ctx context.Context, tenantID uuid.UUID) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM operators WHERE tenant_id = $1`
	err := r.db.QueryRow(ctx, query, tenantID).Scan(&count)
	return count, err
}
