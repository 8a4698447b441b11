package services

import (
	"context"
	"testing"

	"postewatch/internal/common"
	"postewatch/internal/models"
	"postewatch/internal/repositories"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type AttendanceServiceTestSuite struct {
	suite.Suite
	mockAttendance *MockAttendanceRepository
	mockOperator   *MockOperatorRepository
	cache          *fakeCacheService
	service        AttendanceService
	tenantID       uuid.UUID
	operatorID     uuid.UUID
	ctx            context.Context
}

func (suite *AttendanceServiceTestSuite) SetupTest() {
	suite.mockAttendance = &MockAttendanceRepository{}
	suite.mockOperator = &MockOperatorRepository{}
	suite.cache = newFakeCacheService()
	suite.service = NewAttendanceService(suite.mockAttendance, suite.mockOperator, suite.cache)
	suite.tenantID = uuid.New()
	suite.operatorID = uuid.New()
	suite.ctx = context.Background()

	suite.mockAttendance.Test(suite.T())
	suite.mockOperator.Test(suite.T())
}

func (suite *AttendanceServiceTestSuite) TearDownTest() {
	suite.mockAttendance.AssertExpectations(suite.T())
	suite.mockOperator.AssertExpectations(suite.T())
}

func TestAttendanceServiceTestSuite(t *testing.T) {
	suite.Run(t, new(AttendanceServiceTestSuite))
}

func (suite *AttendanceServiceTestSuite) operator() *models.Operator {
	return &models.Operator{
		ID:       suite.operatorID,
		TenantID: suite.tenantID,
	}
}

func (suite *AttendanceServiceTestSuite) TestStatusForToday_NoRowMeansPresent() {
	suite.mockAttendance.On("GetByOperatorAndDate", suite.ctx, suite.tenantID, suite.operatorID, common.Today()).
		Return(nil, repositories.ErrNotFound)

	status, err := suite.service.StatusForToday(suite.ctx, suite.tenantID, suite.operatorID)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), models.StatusPresent, status)
}

func (suite *AttendanceServiceTestSuite) TestStatusForToday_ExplicitRow() {
	suite.mockAttendance.On("GetByOperatorAndDate", suite.ctx, suite.tenantID, suite.operatorID, common.Today()).
		Return(&models.Attendance{Status: models.StatusAbsent}, nil)

	status, err := suite.service.StatusForToday(suite.ctx, suite.tenantID, suite.operatorID)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), models.StatusAbsent, status)
}

func (suite *AttendanceServiceTestSuite) TestToggleToday_FirstToggleCreatesAbsentRow() {
	today := common.Today()

	suite.mockOperator.On("GetByID", suite.ctx, suite.tenantID, suite.operatorID).
		Return(suite.operator(), nil)
	suite.mockAttendance.On("GetByOperatorAndDate", suite.ctx, suite.tenantID, suite.operatorID, today).
		Return(nil, repositories.ErrNotFound)
	suite.mockAttendance.On("Insert", suite.ctx, mock.MatchedBy(func(a *models.Attendance) bool {
		return a.TenantID == suite.tenantID && a.OperatorID == suite.operatorID &&
			a.Date.Equal(today) && a.Status == models.StatusAbsent
	})).Return(nil)

	attendance, err := suite.service.ToggleToday(suite.ctx, suite.tenantID, suite.operatorID)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), models.StatusAbsent, attendance.Status)
}

func (suite *AttendanceServiceTestSuite) TestToggleToday_SecondToggleFlipsBackToPresent() {
	today := common.Today()
	existing := &models.Attendance{
		ID:         uuid.New(),
		TenantID:   suite.tenantID,
		OperatorID: suite.operatorID,
		Date:       today,
		Status:     models.StatusAbsent,
	}

	suite.mockOperator.On("GetByID", suite.ctx, suite.tenantID, suite.operatorID).
		Return(suite.operator(), nil)
	suite.mockAttendance.On("GetByOperatorAndDate", suite.ctx, suite.tenantID, suite.operatorID, today).
		Return(existing, nil)
	suite.mockAttendance.On("UpdateStatus", suite.ctx, suite.tenantID, existing.ID, models.StatusPresent).
		Return(nil)

	attendance, err := suite.service.ToggleToday(suite.ctx, suite.tenantID, suite.operatorID)
	assert.NoError(suite.T(), err)
	// The row persists; present is now explicit, not implicit.
	assert.Equal(suite.T(), models.StatusPresent, attendance.Status)
	assert.Equal(suite.T(), existing.ID, attendance.ID)
}

func (suite *AttendanceServiceTestSuite) TestToggleToday_LostInsertRaceFlipsWinnerRow() {
	today := common.Today()
	winner := &models.Attendance{
		ID:         uuid.New(),
		TenantID:   suite.tenantID,
		OperatorID: suite.operatorID,
		Date:       today,
		Status:     models.StatusAbsent,
	}

	suite.mockOperator.On("GetByID", suite.ctx, suite.tenantID, suite.operatorID).
		Return(suite.operator(), nil)
	suite.mockAttendance.On("GetByOperatorAndDate", suite.ctx, suite.tenantID, suite.operatorID, today).
		Return(nil, repositories.ErrNotFound).Once()
	suite.mockAttendance.On("Insert", suite.ctx, mock.Anything).
		Return(&pgconn.PgError{Code: "23505"}).Once()
	suite.mockAttendance.On("GetByOperatorAndDate", suite.ctx, suite.tenantID, suite.operatorID, today).
		Return(winner, nil).Once()
	suite.mockAttendance.On("UpdateStatus", suite.ctx, suite.tenantID, winner.ID, models.StatusPresent).
		Return(nil)

	attendance, err := suite.service.ToggleToday(suite.ctx, suite.tenantID, suite.operatorID)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), models.StatusPresent, attendance.Status)
}

func (suite *AttendanceServiceTestSuite) TestToggleToday_UnknownOperator() {
	suite.mockOperator.On("GetByID", suite.ctx, suite.tenantID, suite.operatorID).
		Return(nil, repositories.ErrNotFound)

	_, err := suite.service.ToggleToday(suite.ctx, suite.tenantID, suite.operatorID)
	assert.ErrorIs(suite.T(), err, repositories.ErrNotFound)
	suite.mockAttendance.AssertNotCalled(suite.T(), "Insert", mock.Anything, mock.Anything)
}

func (suite *AttendanceServiceTestSuite) TestToggleToday_InvalidatesCaches() {
	today := common.Today()

	suite.mockOperator.On("GetByID", suite.ctx, suite.tenantID, suite.operatorID).
		Return(suite.operator(), nil)
	suite.mockAttendance.On("GetByOperatorAndDate", suite.ctx, suite.tenantID, suite.operatorID, today).
		Return(nil, repositories.ErrNotFound)
	suite.mockAttendance.On("Insert", suite.ctx, mock.Anything).Return(nil)

	_, err := suite.service.ToggleToday(suite.ctx, suite.tenantID, suite.operatorID)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), 1, suite.cache.summaryDeletes)
	assert.Equal(suite.T(), 1, suite.cache.snapshotDeletes)
}

func (suite *AttendanceServiceTestSuite) TestSummary_ComputesAndCaches() {
	today := common.Today()

	suite.mockOperator.On("Count", suite.ctx, suite.tenantID).Return(12, nil)
	suite.mockAttendance.On("CountAbsent", suite.ctx, suite.tenantID, today).Return(3, nil)

	summary, err := suite.service.Summary(suite.ctx, suite.tenantID, today)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), 12, summary.OperatorCount)
	assert.Equal(suite.T(), 3, summary.AbsentCount)
	assert.Equal(suite.T(), 9, summary.PresentCount)

	// Second call hits the fake cache, not the repos.
	again, err := suite.service.Summary(suite.ctx, suite.tenantID, today)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), summary, again)
	suite.mockOperator.AssertNumberOfCalls(suite.T(), "Count", 1)
}
