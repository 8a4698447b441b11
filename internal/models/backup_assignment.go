package models

import (
	"time"

	"github.com/google/uuid"
)

// BackupAssignment designates a substitute operator for a poste on a
// given date. BackupSlot distinguishes multiple backups per poste.
type BackupAssignment struct {
	ID               uuid.UUID `json:"id" db:"id"`
	TenantID         uuid.UUID `json:"tenant_id" db:"tenant_id"`
	PosteID          uuid.UUID `json:"poste_id" db:"poste_id"`
	OperatorID       uuid.UUID `json:"operator_id" db:"operator_id"`
	BackupOperatorID uuid.UUID `json:"backup_operator_id" db:"backup_operator_id"`
	BackupSlot       int       `json:"backup_slot" db:"backup_slot"`
	AssignedDate     time.Time `json:"assigned_date" db:"assigned_date"`
	CreatedAt        time.Time `json:"created_at" db:"created_at"`
	UpdatedAt        time.Time `json:"updated_at" db:"updated_at"`
}
