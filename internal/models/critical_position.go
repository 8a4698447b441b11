package models

import (
	"time"

	"github.com/google/uuid"
)

// CriticalPosition is the authoritative criticality record for a
// (poste, ligne) pair. At most one row exists per
// (tenant_id, poste_id, ligne); only an explicit true row renders
// a position critical.
type CriticalPosition struct {
	ID         uuid.UUID `json:"id" db:"id"`
	TenantID   uuid.UUID `json:"tenant_id" db:"tenant_id"`
	PosteID    uuid.UUID `json:"poste_id" db:"poste_id"`
	Ligne      string    `json:"ligne" db:"ligne"`
	IsCritical bool      `json:"is_critical" db:"is_critical"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time `json:"updated_at" db:"updated_at"`
}
