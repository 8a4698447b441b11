package repositories

import (
	"context"
	"testing"
	"time"

	"postewatch/internal/models"

	"github.com/google/uuid"
	pgx "github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
)

type AttendanceRepoTestSuite struct {
	suite.Suite
	mock       pgxmock.PgxPoolIface
	repo       AttendanceRepository
	tenantID1  uuid.UUID
	tenantID2  uuid.UUID
	operatorID uuid.UUID
	date       time.Time
	context    context.Context
}

func (suite *AttendanceRepoTestSuite) SetupTest() {
	mock, err := pgxmock.NewPool()
	assert.NoError(suite.T(), err)
	suite.mock = mock

	suite.repo = NewAttendanceRepository(mock)
	suite.tenantID1 = uuid.New()
	suite.tenantID2 = uuid.New()
	suite.operatorID = uuid.New()
	suite.date = time.Date(2026, 8, 28, 0, 0, 0, 0, time.UTC)
	suite.context = context.Background()
}

func (suite *AttendanceRepoTestSuite) TearDownTest() {
	suite.mock.Close()
}

func TestAttendanceRepoTestSuite(t *testing.T) {
	suite.Run(t, new(AttendanceRepoTestSuite))
}

func (suite *AttendanceRepoTestSuite) TestInsert_Success() {
	attendance := &models.Attendance{
		ID:         uuid.New(),
		TenantID:   suite.tenantID1,
		OperatorID: suite.operatorID,
		Date:       suite.date,
		Status:     models.StatusAbsent,
	}

	suite.mock.ExpectExec(`INSERT INTO attendances`).
		WithArgs(attendance.ID, attendance.TenantID, attendance.OperatorID, attendance.Date, attendance.Status).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	err := suite.repo.Insert(suite.context, attendance)
	assert.NoError(suite.T(), err)
}

func (suite *AttendanceRepoTestSuite) TestInsert_DuplicateDay() {
	attendance := &models.Attendance{
		ID:         uuid.New(),
		TenantID:   suite.tenantID1,
		OperatorID: suite.operatorID,
		Date:       suite.date,
		Status:     models.StatusAbsent,
	}

	suite.mock.ExpectExec(`INSERT INTO attendances`).
		WithArgs(attendance.ID, attendance.TenantID, attendance.OperatorID, attendance.Date, attendance.Status).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "attendances_operator_date_key"})

	err := suite.repo.Insert(suite.context, attendance)
	assert.Error(suite.T(), err)
	assert.True(suite.T(), IsUniqueViolation(err))
}

func (suite *AttendanceRepoTestSuite) TestGetByOperatorAndDate_Success() {
	now := time.Now()
	id := uuid.New()

	rows := pgxmock.NewRows([]string{"id", "tenant_id", "operator_id", "date", "status", "created_at", "updated_at"}).
		AddRow(id, suite.tenantID1, suite.operatorID, suite.date, models.StatusAbsent, now, now)

	suite.mock.ExpectQuery(`SELECT id, tenant_id, operator_id, date, status, created_at, updated_at`).
		WithArgs(suite.tenantID1, suite.operatorID, suite.date).
		WillReturnRows(rows)

	attendance, err := suite.repo.GetByOperatorAndDate(suite.context, suite.tenantID1, suite.operatorID, suite.date)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), id, attendance.ID)
	assert.Equal(suite.T(), models.StatusAbsent, attendance.Status)
}

func (suite *AttendanceRepoTestSuite) TestGetByOperatorAndDate_WrongTenantIsNotFound() {
	suite.mock.ExpectQuery(`SELECT id, tenant_id, operator_id, date, status, created_at, updated_at`).
		WithArgs(suite.tenantID2, suite.operatorID, suite.date).
		WillReturnError(pgx.ErrNoRows)

	attendance, err := suite.repo.GetByOperatorAndDate(suite.context, suite.tenantID2, suite.operatorID, suite.date)
	assert.Nil(suite.T(), attendance)
	assert.ErrorIs(suite.T(), err, ErrNotFound)
}

func (suite *AttendanceRepoTestSuite) TestUpdateStatus_Success() {
	id := uuid.New()

	suite.mock.ExpectExec(`UPDATE attendances`).
		WithArgs(models.StatusPresent, suite.tenantID1, id).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	err := suite.repo.UpdateStatus(suite.context, suite.tenantID1, id, models.StatusPresent)
	assert.NoError(suite.T(), err)
}

func (suite *AttendanceRepoTestSuite) TestCountAbsent() {
	rows := pgxmock.NewRows([]string{"count"}).AddRow(3)

	suite.mock.ExpectQuery(`SELECT COUNT\(\*\)`).
		WithArgs(suite.tenantID1, suite.date).
		WillReturnRows(rows)

	count, err := suite.repo.CountAbsent(suite.context, suite.tenantID1, suite.date)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), 3, count)
}

func (suite *AttendanceRepoTestSuite) TestAbsentOperatorIDs() {
	first := uuid.New()
	second := uuid.New()

	rows := pgxmock.NewRows([]string{"operator_id"}).
		AddRow(first).
		AddRow(second)

	suite.mock.ExpectQuery(`SELECT operator_id`).
		WithArgs(suite.tenantID1, suite.date).
		WillReturnRows(rows)

	absent, err := suite.repo.AbsentOperatorIDs(suite.context, suite.tenantID1, suite.date)
	assert.NoError(suite.T(), err)
	assert.Len(suite.T(), absent, 2)
	assert.True(suite.T(), absent[first])
	assert.True(suite.T(), absent[second])
}
