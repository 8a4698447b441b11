package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

type Operator struct {
	ID            uuid.UUID `json:"id" db:"id"`
	TenantID      uuid.UUID `json:"tenant_id" db:"tenant_id"`
	PosteID       uuid.UUID `json:"poste_id" db:"poste_id"`
	Matricule     *string   `json:"matricule" db:"matricule"`
	FirstName     string    `json:"first_name" db:"first_name"`
	LastName      string    `json:"last_name" db:"last_name"`
	Anciente      string    `json:"anciente" db:"anciente"`
	TypeDeContrat string    `json:"type_de_contrat" db:"type_de_contrat"`
	Ligne         string    `json:"ligne" db:"ligne"`
	IsCapable     bool      `json:"is_capable" db:"is_capable"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time `json:"updated_at" db:"updated_at"`
}

// FullName is derived, never persisted.
func (o *Operator) FullName() string {
	return strings.TrimSpace(o.FirstName + " " + o.LastName)
}

// OperatorSearchFilter holds search and filter criteria for operator queries
type OperatorSearchFilter struct {
	Query     string     `json:"query,omitempty"` // Matches name or matricule
	PosteID   *uuid.UUID `json:"poste_id,omitempty"`
	Ligne     *string    `json:"ligne,omitempty"`
	IsCapable *bool      `json:"is_capable,omitempty"`
	Limit     int        `json:"limit,omitempty"`
	Offset    int        `json:"offset,omitempty"`
}
