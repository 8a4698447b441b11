package models

import (
	"time"

	"github.com/google/uuid"
)

// DefaultDashboardTitle is used when settings are lazily created on
// first access.
const DefaultDashboardTitle = "Tableau de bord"

// DashboardSettings is a per-tenant singleton (unique on tenant_id).
type DashboardSettings struct {
	ID        uuid.UUID         `json:"id" db:"id"`
	TenantID  uuid.UUID         `json:"tenant_id" db:"tenant_id"`
	Title     string            `json:"title" db:"title"`
	Settings  map[string]string `json:"settings" db:"settings"`
	CreatedAt time.Time         `json:"created_at" db:"created_at"`
	UpdatedAt time.Time         `json:"updated_at" db:"updated_at"`
}

// DashboardSnapshot is the computed dashboard state for one tenant on
// one day: which critical positions are currently unstaffed, plus the
// attendance totals.
type DashboardSnapshot struct {
	TenantID      uuid.UUID           `json:"tenant_id"`
	Date          time.Time           `json:"date"`
	Unstaffed     []UnstaffedPosition `json:"unstaffed"`
	PresentCount  int                 `json:"present_count"`
	AbsentCount   int                 `json:"absent_count"`
	OperatorCount int                 `json:"operator_count"`
	GeneratedAt   time.Time           `json:"generated_at"`
}

// UnstaffedPosition is a critical (poste, ligne) pair with no present
// primary operator and no present backup today.
type UnstaffedPosition struct {
	PosteID   uuid.UUID `json:"poste_id"`
	PosteName string    `json:"poste_name"`
	Ligne     string    `json:"ligne"`
}
