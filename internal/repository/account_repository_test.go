package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/classroom-api/internal/models"
)

func newAccountMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func accountRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "email", "password_hash", "username", "profile_picture_url", "role", "status", "created_at", "updated_at"}).
		AddRow("64a000000000000000000001", "user@example.com", "hash", "user", "", "Student", "Active", time.Now(), time.Now())
}

func TestAccountRepositoryListNoFilters(t *testing.T) {
	db, mock, cleanup := newAccountMock(t)
	defer cleanup()
	repo := NewAccountRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, email, password_hash, username, profile_picture_url, role, status, created_at, updated_at FROM accounts WHERE 1=1 ORDER BY created_at DESC")).
		WillReturnRows(accountRows())

	accounts, err := repo.List(context.Background(), models.AccountFilter{})
	require.NoError(t, err)
	assert.Len(t, accounts, 1)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAccountRepositoryListEscapesSearch(t *testing.T) {
	db, mock, cleanup := newAccountMock(t)
	defer cleanup()
	repo := NewAccountRepository(db)

	role := models.RoleTeacher
	mock.ExpectQuery(regexp.QuoteMeta("role = $1 AND (username ILIKE $2 OR email ILIKE $2)")).
		WithArgs(role, `%a\%b\_c%`).
		WillReturnRows(accountRows())

	_, err := repo.List(context.Background(), models.AccountFilter{Role: &role, Search: "a%b_c"})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAccountRepositoryFindByEmailMissing(t *testing.T) {
	db, mock, cleanup := newAccountMock(t)
	defer cleanup()
	repo := NewAccountRepository(db)

	mock.ExpectQuery("SELECT .+ FROM accounts WHERE email").
		WithArgs("missing@example.com").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.FindByEmail(context.Background(), "missing@example.com")
	assert.ErrorIs(t, err, sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAccountRepositoryCreateAssignsID(t *testing.T) {
	db, mock, cleanup := newAccountMock(t)
	defer cleanup()
	repo := NewAccountRepository(db)

	mock.ExpectExec("INSERT INTO accounts").
		WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	account := &models.Account{Email: "user@example.com", PasswordHash: "hash", Username: "user", Role: models.RoleStudent, Status: models.AccountActive}
	err := repo.Create(context.Background(), account)
	require.NoError(t, err)
	assert.Len(t, account.ID, 24)
	assert.False(t, account.CreatedAt.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}
