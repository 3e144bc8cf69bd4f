package persistence

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/catalogue/backend/internal/domain/enquiry"
	"github.com/catalogue/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// newMockPostgres opens gorm on a mocked connection with the postgres dialect
func newMockPostgres(t *testing.T) (*gorm.DB, sqlmock.Sqlmock, *sql.DB) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	dialector := postgres.New(postgres.Config{
		Conn:       mockDB,
		DriverName: "postgres",
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)

	return gormDB, mock, mockDB
}

func TestGormUserDirectory_Postgres(t *testing.T) {
	t.Run("finds existing user", func(t *testing.T) {
		db, mock, mockDB := newMockPostgres(t)
		defer mockDB.Close()

		userID := uuid.New()
		now := time.Now()
		rows := sqlmock.NewRows([]string{"id", "name", "email", "city", "role", "created_at", "updated_at"}).
			AddRow(userID, "Asha", "asha@example.com", "Pune", "admin", now, now)

		mock.ExpectQuery(`SELECT \* FROM "users" WHERE id = \$1 ORDER BY .* LIMIT .*`).
			WithArgs(userID, 1).
			WillReturnRows(rows)

		user, err := NewGormUserDirectory(db).FindByID(context.Background(), userID)
		require.NoError(t, err)
		assert.Equal(t, "Asha", user.Name)
		assert.Equal(t, shared.RoleAdmin, user.Role)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("maps missing rows to not found", func(t *testing.T) {
		db, mock, mockDB := newMockPostgres(t)
		defer mockDB.Close()

		userID := uuid.New()
		mock.ExpectQuery(`SELECT \* FROM "users" WHERE id = \$1 ORDER BY .* LIMIT .*`).
			WithArgs(userID, 1).
			WillReturnError(gorm.ErrRecordNotFound)

		user, err := NewGormUserDirectory(db).FindByID(context.Background(), userID)
		assert.Nil(t, user)
		assert.ErrorIs(t, err, shared.ErrNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormEnquiryRepository_UpdateStatusPostgres(t *testing.T) {
	t.Run("updates status", func(t *testing.T) {
		db, mock, mockDB := newMockPostgres(t)
		defer mockDB.Close()

		id := uuid.New()
		mock.ExpectExec(`UPDATE "enquiries" SET .*"status"=\$1.* WHERE id = \$3`).
			WithArgs("dnd", sqlmock.AnyArg(), id).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := NewGormEnquiryRepository(db).UpdateStatus(context.Background(), id, enquiry.StatusDND)
		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("no rows affected is not found", func(t *testing.T) {
		db, mock, mockDB := newMockPostgres(t)
		defer mockDB.Close()

		id := uuid.New()
		mock.ExpectExec(`UPDATE "enquiries" SET`).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := NewGormEnquiryRepository(db).UpdateStatus(context.Background(), id, enquiry.StatusDND)
		assert.ErrorIs(t, err, shared.ErrNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestIsDuplicateKey(t *testing.T) {
	assert.False(t, isDuplicateKey(nil))
	assert.True(t, isDuplicateKey(gorm.ErrDuplicatedKey))
	assert.True(t, isDuplicateKey(assertError(`ERROR: duplicate key value violates unique constraint "idx_categories_name" (SQLSTATE 23505)`)))
	assert.True(t, isDuplicateKey(assertError("UNIQUE constraint failed: categories.name_key")))
	assert.False(t, isDuplicateKey(assertError("connection refused")))
}

type assertError string

func (e assertError) Error() string { return string(e) }
