package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	gormDB, err := gorm.Open(postgres.New(postgres.Config{
		Conn: db,
	}), &gorm.Config{})
	require.NoError(t, err)

	return gormDB, mock
}

func TestUserRepository_GetByID(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	query := regexp.QuoteMeta(`SELECT * FROM "users" WHERE "users"."id" = $1 AND "users"."deleted_at" IS NULL ORDER BY "users"."id" LIMIT $2`)

	t.Run("Success", func(t *testing.T) {
		rows := sqlmock.NewRows([]string{"id", "username", "email"}).
			AddRow(1, "chef_ana", "ana@example.com")
		mock.ExpectQuery(query).WithArgs(1, 1).WillReturnRows(rows)

		user, err := repo.GetByID(ctx, 1)
		require.NoError(t, err)
		require.NotNil(t, user)
		assert.Equal(t, "chef_ana", user.Username)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Not Found returns nil without error", func(t *testing.T) {
		mock.ExpectQuery(query).WithArgs(99, 1).WillReturnError(gorm.ErrRecordNotFound)

		user, err := repo.GetByID(ctx, 99)
		assert.NoError(t, err)
		assert.Nil(t, user)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestUserRepository_GetByEmail(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	query := regexp.QuoteMeta(`SELECT * FROM "users" WHERE email = $1 AND "users"."deleted_at" IS NULL ORDER BY "users"."id" LIMIT $2`)

	t.Run("Success", func(t *testing.T) {
		rows := sqlmock.NewRows([]string{"id", "username", "email"}).
			AddRow(3, "chef_ana", "ana@example.com")
		mock.ExpectQuery(query).WithArgs("ana@example.com", 1).WillReturnRows(rows)

		user, err := repo.GetByEmail(ctx, "ana@example.com")
		require.NoError(t, err)
		require.NotNil(t, user)
		assert.Equal(t, uint(3), user.ID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Unknown email", func(t *testing.T) {
		mock.ExpectQuery(query).WithArgs("nobody@example.com", 1).WillReturnError(gorm.ErrRecordNotFound)

		user, err := repo.GetByEmail(ctx, "nobody@example.com")
		assert.NoError(t, err)
		assert.Nil(t, user)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestUserRepository_GetByEmailWithValidResetCode(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	query := regexp.QuoteMeta(`SELECT * FROM "users" WHERE (email = $1 AND reset_code_hash = $2 AND reset_code_expires_at > $3) AND "users"."deleted_at" IS NULL ORDER BY "users"."id" LIMIT $4`)

	t.Run("Valid code", func(t *testing.T) {
		rows := sqlmock.NewRows([]string{"id", "username", "email"}).
			AddRow(1, "chef_ana", "ana@example.com")
		mock.ExpectQuery(query).
			WithArgs("ana@example.com", "somehash", sqlmock.AnyArg(), 1).
			WillReturnRows(rows)

		user, err := repo.GetByEmailWithValidResetCode(ctx, "ana@example.com", "somehash")
		require.NoError(t, err)
		require.NotNil(t, user)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Expired or wrong code", func(t *testing.T) {
		mock.ExpectQuery(query).
			WithArgs("ana@example.com", "wronghash", sqlmock.AnyArg(), 1).
			WillReturnError(gorm.ErrRecordNotFound)

		user, err := repo.GetByEmailWithValidResetCode(ctx, "ana@example.com", "wronghash")
		assert.NoError(t, err)
		assert.Nil(t, user)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestUserRepository_SetResetCode(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	expiresAt := time.Now().Add(10 * time.Minute)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "users" SET "reset_code_expires_at"=$1,"reset_code_hash"=$2,"updated_at"=$3 WHERE id = $4 AND "users"."deleted_at" IS NULL`)).
		WithArgs(expiresAt, "codehash", sqlmock.AnyArg(), 7).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := repo.SetResetCode(ctx, 7, "codehash", expiresAt)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_UpdatePassword(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "users" SET "password"=$1,"updated_at"=$2 WHERE id = $3 AND "users"."deleted_at" IS NULL`)).
		WithArgs("newhash", sqlmock.AnyArg(), 7).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := repo.UpdatePassword(ctx, 7, "newhash")
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
