package models

import (
	"time"

	"github.com/google/uuid"
)

// Poste is a workstation on a production line. Ligne is one of the
// fixed "Ligne 1".."Ligne 10" labels, or empty for postes not tied
// to a line. Criticality lives in CriticalPosition, not here.
type Poste struct {
	ID        uuid.UUID `json:"id" db:"id"`
	TenantID  uuid.UUID `json:"tenant_id" db:"tenant_id"`
	Name      string    `json:"name" db:"name"`
	Ligne     string    `json:"ligne" db:"ligne"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// DefaultPosteNames is the seed set created at tenant onboarding.
var DefaultPosteNames = []string{
	"Montage",
	"Soudure",
	"Contrôle qualité",
	"Emballage",
	"Préparation",
	"Finition",
}
