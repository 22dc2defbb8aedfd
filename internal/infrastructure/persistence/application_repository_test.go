package persistence

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lending/backend/internal/domain/lending"
	"github.com/lending/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()

	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	dialector := postgres.New(postgres.Config{
		Conn:       mockDB,
		DriverName: "postgres",
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 logger.Default.LogMode(logger.Silent),
		TranslateError:         true,
	})
	require.NoError(t, err)

	return gormDB, mock, mockDB
}

func newPendingApplication(t *testing.T) *lending.LoanApplication {
	t.Helper()
	app, err := lending.NewLoanApplication(uuid.New(), decimal.NewFromInt(1200000), "Working capital")
	require.NoError(t, err)
	return app
}

func newCreateLog(t *testing.T, app *lending.LoanApplication) *lending.ApplicationLog {
	t.Helper()
	after := app.Status
	log, err := lending.NewApplicationLog(app.ID, uuid.New(), lending.AuditActionCreate, nil, &after, "Application submitted")
	require.NoError(t, err)
	return log
}

func TestGormApplicationRepository_Create(t *testing.T) {
	t.Run("inserts application and audit entry in one transaction", func(t *testing.T) {
		gormDB, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormApplicationRepository(gormDB)

		app := newPendingApplication(t)
		log := newCreateLog(t, app)

		mock.ExpectBegin()
		mock.ExpectExec(`INSERT INTO "loan_applications"`).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(`INSERT INTO "application_logs"`).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		err := repo.Create(context.Background(), app, log)

		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("maps unique violation to duplicate conflict", func(t *testing.T) {
		gormDB, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormApplicationRepository(gormDB)

		app := newPendingApplication(t)
		log := newCreateLog(t, app)

		mock.ExpectBegin()
		// The pgx stdlib driver surfaces index violations as *pgconn.PgError
		mock.ExpectExec(`INSERT INTO "loan_applications"`).
			WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "uq_loan_applications_active_customer"})
		mock.ExpectRollback()

		err := repo.Create(context.Background(), app, log)

		require.Error(t, err)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "DUPLICATE_ACTIVE_APPLICATION", domainErr.Code)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormApplicationRepository_SaveWithLock(t *testing.T) {
	t.Run("updates application and appends audit entry", func(t *testing.T) {
		gormDB, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormApplicationRepository(gormDB)

		app := newPendingApplication(t)
		log := newCreateLog(t, app)

		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT .* FROM "loan_applications"`).
			WithArgs(app.ID).
			WillReturnRows(sqlmock.NewRows([]string{"version"}).AddRow(1))
		mock.ExpectExec(`UPDATE "loan_applications" SET`).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(`INSERT INTO "application_logs"`).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		err := repo.SaveWithLock(context.Background(), app, log)

		assert.NoError(t, err)
		assert.Equal(t, 2, app.Version)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("stale version fails before the update", func(t *testing.T) {
		gormDB, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormApplicationRepository(gormDB)

		app := newPendingApplication(t)
		log := newCreateLog(t, app)

		// Another transaction already moved the row to version 2
		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT .* FROM "loan_applications"`).
			WithArgs(app.ID).
			WillReturnRows(sqlmock.NewRows([]string{"version"}).AddRow(2))
		mock.ExpectRollback()

		err := repo.SaveWithLock(context.Background(), app, log)

		require.Error(t, err)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "CONCURRENT_MODIFICATION", domainErr.Code)
		assert.Equal(t, 1, app.Version)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("row deleted since the read yields not found", func(t *testing.T) {
		gormDB, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormApplicationRepository(gormDB)

		app := newPendingApplication(t)
		log := newCreateLog(t, app)

		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT .* FROM "loan_applications"`).
			WithArgs(app.ID).
			WillReturnRows(sqlmock.NewRows([]string{"version"}))
		mock.ExpectRollback()

		err := repo.SaveWithLock(context.Background(), app, log)

		assert.ErrorIs(t, err, shared.ErrNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("lost race at update time fails", func(t *testing.T) {
		gormDB, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormApplicationRepository(gormDB)

		app := newPendingApplication(t)
		log := newCreateLog(t, app)

		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT .* FROM "loan_applications"`).
			WithArgs(app.ID).
			WillReturnRows(sqlmock.NewRows([]string{"version"}).AddRow(1))
		mock.ExpectExec(`UPDATE "loan_applications" SET`).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectRollback()

		err := repo.SaveWithLock(context.Background(), app, log)

		require.Error(t, err)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "CONCURRENT_MODIFICATION", domainErr.Code)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormApplicationRepository_CountActiveByCustomer(t *testing.T) {
	t.Run("counts non-terminal statuses only", func(t *testing.T) {
		gormDB, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormApplicationRepository(gormDB)

		customerID := uuid.New()
		mock.ExpectQuery(`SELECT count\(\*\) FROM "loan_applications"`).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

		count, err := repo.CountActiveByCustomer(context.Background(), customerID)

		require.NoError(t, err)
		assert.Equal(t, int64(1), count)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormApplicationRepository_Count(t *testing.T) {
	t.Run("scopes the count to the customer filter", func(t *testing.T) {
		gormDB, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormApplicationRepository(gormDB)

		customerID := uuid.New()
		mock.ExpectQuery(`SELECT count\(\*\) FROM "loan_applications" WHERE customer_id`).
			WithArgs(customerID).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))

		count, err := repo.Count(context.Background(), shared.Filter{
			Filters: map[string]interface{}{"customer_id": customerID},
		})

		require.NoError(t, err)
		assert.Equal(t, int64(3), count)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormApplicationRepository_FindByID(t *testing.T) {
	t.Run("missing row yields not found", func(t *testing.T) {
		gormDB, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormApplicationRepository(gormDB)

		id := uuid.New()
		mock.ExpectQuery(`SELECT .* FROM "loan_applications"`).
			WillReturnRows(sqlmock.NewRows([]string{"id"}))

		_, err := repo.FindByID(context.Background(), id)

		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestIsUniqueViolation(t *testing.T) {
	assert.True(t, isUniqueViolation(&pgconn.PgError{Code: "23505"}))
	assert.True(t, isUniqueViolation(gorm.ErrDuplicatedKey))
	assert.False(t, isUniqueViolation(&pgconn.PgError{Code: "23503"}))
	assert.False(t, isUniqueViolation(gorm.ErrRecordNotFound))
}
