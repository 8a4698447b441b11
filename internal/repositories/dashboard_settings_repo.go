package repositories

import (
	"context"

	"postewatch/internal/models"

	"github.com/google/uuid"
)

type DashboardSettingsRepository interface {
	// Insert fails with a unique violation when the tenant already has
	// settings; lazy-create races re-fetch.
	Insert(ctx context.Context, settings *models.DashboardSettings) error
	GetByTenant(ctx context.Context, tenantID uuid.UUID) (*models.DashboardSettings, error)
	Update(ctx context.Context, settings *models.DashboardSettings) error
}

type dashboardSettingsRepo struct {
	db Database
}

func NewDashboardSettingsRepository(db Database) DashboardSettingsRepository {
	return &dashboardSettingsRepo{db: db}
}

func (r *dashboardSettingsRepo) Insert(ctx context.Context, settings *models.DashboardSettings) error {
	query := `
		INSERT INTO dashboard_settings (id, tenant_id, title, settings, created_at, updated_at)
		VALUES ($1, $2, $3, $4, NOW(), NOW())
	`
	_, err := r.db.Exec(ctx, query, settings.ID, settings.TenantID, settings.Title, settings.Settings)
	return err
}

func (r *dashboardSettingsRepo) GetByTenant(ctx context.Context, tenantID uuid.UUID) (*models.DashboardSettings, error) {
	settings := &models.DashboardSettings{}
	query := `
		SELECT id, tenant_id, title, settings, created_at, updated_at
		FROM dashboard_settings
		WHERE tenant_id = $1
	`
	err := r.db.QueryRow(ctx, query, tenantID).Scan(&settings.ID, &settings.TenantID, &settings.Title, &settings.Settings, &settings.CreatedAt, &settings.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return settings, nil
}

func (r *dashboardSettingsRepo) Update(ctx context.Context, settings *models.DashboardSettings) error {
	query := `
		UPDATE dashboard_settings
		SET title = $1, settings = $2, updated_at = NOW()
		WHERE tenant_id = $3 AND id = $4
	`
	_, err := r.db.Exec(ctx, query, settings.Title, settings.Settings, settings.TenantID, settings.ID)
	return err
}
