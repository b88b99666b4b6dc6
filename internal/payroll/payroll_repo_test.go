package payroll

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// The payslip upsert and the outbox insert share one service transaction.
// WithTx must route the gorm session onto that transaction's connection;
// statements escaping to the pool would make the two writes non-atomic.
func TestWithTxRunsStatementsOnTransactionConnection(t *testing.T) {
	poolDB, poolMock, err := sqlmock.New()
	assert.NoError(t, err)
	defer poolDB.Close()

	gormDB, err := gorm.Open(postgres.New(postgres.Config{Conn: poolDB}), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	assert.NoError(t, err)

	txConn, txMock, err := sqlmock.New()
	assert.NoError(t, err)
	defer txConn.Close()

	txMock.ExpectBegin()
	tx, err := txConn.Begin()
	assert.NoError(t, err)

	periodID := uuid.New()
	companyID := uuid.New()

	txMock.ExpectQuery(`SELECT .+ FROM "payroll_periods"`).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "company_id", "label", "start_date", "end_date", "status", "is_active",
		}).AddRow(
			periodID.String(), companyID.String(), "March 2025",
			time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
			time.Date(2025, 3, 31, 0, 0, 0, 0, time.UTC),
			PeriodStatusCurrent, true,
		))

	qtx := NewRepository(gormDB).WithTx(tx)
	p, err := qtx.FindPeriodByID(context.Background(), companyID.String(), periodID.String())
	assert.NoError(t, err)
	assert.Equal(t, periodID, p.ID)
	assert.True(t, p.IsActive)

	assert.NoError(t, txMock.ExpectationsWereMet())
	// The pool connection must stay untouched while the repo works inside
	// the caller's transaction.
	assert.NoError(t, poolMock.ExpectationsWereMet())
}
