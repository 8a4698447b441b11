package models

import (
	"time"

	"github.com/google/uuid"
)

// Attendance status values. An operator with no row for a given day
// is present by convention; rows only exist once a day was toggled.
const (
	StatusPresent = "present"
	StatusAbsent  = "absent"
)

type Attendance struct {
	ID         uuid.UUID `json:"id" db:"id"`
	TenantID   uuid.UUID `json:"tenant_id" db:"tenant_id"`
	OperatorID uuid.UUID `json:"operator_id" db:"operator_id"`
	Date       time.Time `json:"date" db:"date"` // Calendar date, midnight UTC
	Status     string    `json:"status" db:"status"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time `json:"updated_at" db:"updated_at"`
}

// AttendanceSummary holds per-tenant daily totals. AbsentCount counts
// explicit absent rows; PresentCount is everyone else.
type AttendanceSummary struct {
	TenantID      uuid.UUID `json:"tenant_id"`
	Date          time.Time `json:"date"`
	OperatorCount int       `json:"operator_count"`
	PresentCount  int       `json:"present_count"`
	AbsentCount   int       `json:"absent_count"`
}
