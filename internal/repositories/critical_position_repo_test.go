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

type CriticalPositionRepoTestSuite struct {
	suite.Suite
	mock      pgxmock.PgxPoolIface
	repo      CriticalPositionRepository
	tenantID1 uuid.UUID
	tenantID2 uuid.UUID
	posteID   uuid.UUID
	context   context.Context
}

func (suite *CriticalPositionRepoTestSuite) SetupTest() {
	mock, err := pgxmock.NewPool()
	assert.NoError(suite.T(), err)
	suite.mock = mock

	suite.repo = NewCriticalPositionRepository(mock)
	suite.tenantID1 = uuid.New()
	suite.tenantID2 = uuid.New()
	suite.posteID = uuid.New()
	suite.context = context.Background()
}

func (suite *CriticalPositionRepoTestSuite) TearDownTest() {
	suite.mock.Close()
}

func TestCriticalPositionRepoTestSuite(t *testing.T) {
	suite.Run(t, new(CriticalPositionRepoTestSuite))
}

func (suite *CriticalPositionRepoTestSuite) TestInsert_Success() {
	cp := &models.CriticalPosition{
		ID:         uuid.New(),
		TenantID:   suite.tenantID1,
		PosteID:    suite.posteID,
		Ligne:      "Ligne 1",
		IsCritical: false,
	}

	suite.mock.ExpectExec(`INSERT INTO critical_positions`).
		WithArgs(cp.ID, cp.TenantID, cp.PosteID, cp.Ligne, cp.IsCritical).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	err := suite.repo.Insert(suite.context, cp)
	assert.NoError(suite.T(), err)
}

func (suite *CriticalPositionRepoTestSuite) TestInsert_DuplicateTuple() {
	cp := &models.CriticalPosition{
		ID:         uuid.New(),
		TenantID:   suite.tenantID1,
		PosteID:    suite.posteID,
		Ligne:      "Ligne 1",
		IsCritical: false,
	}

	suite.mock.ExpectExec(`INSERT INTO critical_positions`).
		WithArgs(cp.ID, cp.TenantID, cp.PosteID, cp.Ligne, cp.IsCritical).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "critical_positions_tenant_poste_ligne_key"})

	err := suite.repo.Insert(suite.context, cp)
	assert.Error(suite.T(), err)
	assert.True(suite.T(), IsUniqueViolation(err))
}

func (suite *CriticalPositionRepoTestSuite) TestGetByTuple_Success() {
	now := time.Now()
	id := uuid.New()

	rows := pgxmock.NewRows([]string{"id", "tenant_id", "poste_id", "ligne", "is_critical", "created_at", "updated_at"}).
		AddRow(id, suite.tenantID1, suite.posteID, "Ligne 1", true, now, now)

	suite.mock.ExpectQuery(`SELECT id, tenant_id, poste_id, ligne, is_critical, created_at, updated_at`).
		WithArgs(suite.tenantID1, suite.posteID, "Ligne 1").
		WillReturnRows(rows)

	cp, err := suite.repo.GetByTuple(suite.context, suite.tenantID1, suite.posteID, "Ligne 1")
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), id, cp.ID)
	assert.True(suite.T(), cp.IsCritical)
}

func (suite *CriticalPositionRepoTestSuite) TestGetByTuple_WrongTenantIsNotFound() {
	// The row exists under tenant 1; tenant 2 must see nothing.
	suite.mock.ExpectQuery(`SELECT id, tenant_id, poste_id, ligne, is_critical, created_at, updated_at`).
		WithArgs(suite.tenantID2, suite.posteID, "Ligne 1").
		WillReturnError(pgx.ErrNoRows)

	cp, err := suite.repo.GetByTuple(suite.context, suite.tenantID2, suite.posteID, "Ligne 1")
	assert.Nil(suite.T(), cp)
	assert.ErrorIs(suite.T(), err, ErrNotFound)
}

func (suite *CriticalPositionRepoTestSuite) TestSetCritical_Success() {
	id := uuid.New()

	suite.mock.ExpectExec(`UPDATE critical_positions`).
		WithArgs(true, suite.tenantID1, id).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	err := suite.repo.SetCritical(suite.context, suite.tenantID1, id, true)
	assert.NoError(suite.T(), err)
}

func (suite *CriticalPositionRepoTestSuite) TestListCritical_OnlyTrueRows() {
	now := time.Now()

	rows := pgxmock.NewRows([]string{"id", "tenant_id", "poste_id", "ligne", "is_critical", "created_at", "updated_at"}).
		AddRow(uuid.New(), suite.tenantID1, suite.posteID, "", true, now, now).
		AddRow(uuid.New(), suite.tenantID1, uuid.New(), "Ligne 2", true, now, now)

	suite.mock.ExpectQuery(`WHERE tenant_id = \$1 AND is_critical = TRUE`).
		WithArgs(suite.tenantID1).
		WillReturnRows(rows)

	positions, err := suite.repo.ListCritical(suite.context, suite.tenantID1)
	assert.NoError(suite.T(), err)
	assert.Len(suite.T(), positions, 2)
	for _, cp := range positions {
		assert.True(suite.T(), cp.IsCritical)
	}
}

func (suite *CriticalPositionRepoTestSuite) TestDelete_Success() {
	id := uuid.New()

	suite.mock.ExpectExec(`DELETE FROM critical_positions WHERE tenant_id = \$1 AND id = \$2`).
		WithArgs(suite.tenantID1, id).
		WillReturnResult(pgxmock.NewResult("DELETE", 1))

	err := suite.repo.Delete(suite.context, suite.tenantID1, id)
	assert.NoError(suite.T(), err)
}
