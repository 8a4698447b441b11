package common

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeLigne(t *testing.T) {
	assert.Equal(t, "Ligne 1", NormalizeLigne("  Ligne 1  "))
	assert.Equal(t, "", NormalizeLigne(""))
	assert.Equal(t, "", NormalizeLigne("   "))
}

func TestValidateLigne(t *testing.T) {
	assert.NoError(t, ValidateLigne(""))
	assert.NoError(t, ValidateLigne("Ligne 1"))
	assert.NoError(t, ValidateLigne("Ligne 10"))
	assert.NoError(t, ValidateLigne("  Ligne 5 "))

	assert.Error(t, ValidateLigne("Ligne 0"))
	assert.Error(t, ValidateLigne("Ligne 11"))
	assert.Error(t, ValidateLigne("ligne 1"))
	assert.Error(t, ValidateLigne("L1"))
}

func TestValidateContractType(t *testing.T) {
	for _, valid := range []string{"CDI", "CDD", "Interim", "Apprentissage", "Stage"} {
		assert.NoError(t, ValidateContractType(valid))
	}
	assert.Error(t, ValidateContractType("cdi"))
	assert.Error(t, ValidateContractType("Freelance"))
}

func TestValidateAttendanceStatus(t *testing.T) {
	assert.NoError(t, ValidateAttendanceStatus("present"))
	assert.NoError(t, ValidateAttendanceStatus("absent"))
	assert.Error(t, ValidateAttendanceStatus("late"))
	assert.Error(t, ValidateAttendanceStatus(""))
}

func TestDateOf(t *testing.T) {
	in := time.Date(2026, 8, 28, 17, 45, 12, 999, time.FixedZone("CET", 3600))
	got := DateOf(in)

	assert.Equal(t, time.Date(2026, 8, 28, 0, 0, 0, 0, time.UTC), got)
	assert.Equal(t, got, DateOf(got)) // already-truncated dates are stable
}

func TestValidateDateFormat(t *testing.T) {
	date, err := ValidateDateFormat("2026-08-28", "date")
	assert.NoError(t, err)
	assert.Equal(t, 2026, date.Year())

	_, err = ValidateDateFormat("28/08/2026", "date")
	assert.Error(t, err)

	_, err = ValidateDateFormat("2040-01-01", "date")
	assert.Error(t, err)
}

func TestValidatePaginationParams(t *testing.T) {
	limit, offset := ValidatePaginationParams(0, -5)
	assert.Equal(t, 50, limit)
	assert.Equal(t, 0, offset)

	limit, offset = ValidatePaginationParams(5000, 20)
	assert.Equal(t, 1000, limit)
	assert.Equal(t, 20, offset)
}
