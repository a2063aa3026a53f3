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

func newMemberMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func TestMemberRepositoryListFiltersByRoom(t *testing.T) {
	db, mock, cleanup := newMemberMock(t)
	defer cleanup()
	repo := NewMemberRepository(db)

	rows := sqlmock.NewRows([]string{"id", "room_id", "account_id", "joined_at", "left_at", "status", "archived_at", "created_at", "updated_at", "account_username", "account_email"}).
		AddRow("64a000000000000000000002", "64a000000000000000000003", "64a000000000000000000004", time.Now(), nil, "Active", nil, time.Now(), time.Now(), "user", "user@example.com")

	mock.ExpectQuery(regexp.QuoteMeta("m.room_id = $1")).
		WithArgs("64a000000000000000000003").
		WillReturnRows(rows)

	members, err := repo.List(context.Background(), models.MemberFilter{RoomID: "64a000000000000000000003"})
	require.NoError(t, err)
	require.Len(t, members, 1)
	require.NotNil(t, members[0].AccountUsername)
	assert.Equal(t, "user", *members[0].AccountUsername)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMemberRepositoryFindByRoomAndAccountMissing(t *testing.T) {
	db, mock, cleanup := newMemberMock(t)
	defer cleanup()
	repo := NewMemberRepository(db)

	mock.ExpectQuery("FROM room_members WHERE room_id").
		WithArgs("64a000000000000000000003", "64a000000000000000000004").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.FindByRoomAndAccount(context.Background(), "64a000000000000000000003", "64a000000000000000000004")
	assert.ErrorIs(t, err, sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMemberRepositoryUpdateLifecycleFields(t *testing.T) {
	db, mock, cleanup := newMemberMock(t)
	defer cleanup()
	repo := NewMemberRepository(db)

	mock.ExpectExec("UPDATE room_members SET").
		WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	now := time.Now().UTC()
	member := &models.RoomMember{
		ID:        "64a000000000000000000002",
		RoomID:    "64a000000000000000000003",
		AccountID: "64a000000000000000000004",
		JoinedAt:  now,
		Status:    models.MemberRemoved,
		LeftAt:    &now,
	}
	err := repo.Update(context.Background(), member)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
