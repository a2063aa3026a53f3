package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/classroom-api/internal/models"
	appErrors "github.com/noah-isme/classroom-api/pkg/errors"
	"github.com/noah-isme/classroom-api/pkg/oid"
)

type mockRoomRepo struct {
	byID       map[string]*models.Room
	byJoinCode map[string]*models.Room
	updates    int
}

func newMockRoomRepo() *mockRoomRepo {
	return &mockRoomRepo{
		byID:       make(map[string]*models.Room),
		byJoinCode: make(map[string]*models.Room),
	}
}

func (m *mockRoomRepo) seed(room *models.Room) {
	if room.ID == "" {
		room.ID = oid.New()
	}
	m.byID[room.ID] = room
	m.byJoinCode[room.JoinCode] = room
}

func (m *mockRoomRepo) List(_ context.Context, _ models.RoomFilter) ([]models.Room, error) {
	return nil, nil
}

func (m *mockRoomRepo) FindByID(_ context.Context, id string) (*models.Room, error) {
	room, ok := m.byID[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	copied := *room
	return &copied, nil
}

func (m *mockRoomRepo) FindByJoinCode(_ context.Context, joinCode string) (*models.Room, error) {
	room, ok := m.byJoinCode[joinCode]
	if !ok {
		return nil, sql.ErrNoRows
	}
	copied := *room
	return &copied, nil
}

func (m *mockRoomRepo) Create(_ context.Context, room *models.Room) error {
	m.seed(room)
	return nil
}

func (m *mockRoomRepo) Update(_ context.Context, room *models.Room) error {
	m.updates++
	m.byID[room.ID] = room
	m.byJoinCode[room.JoinCode] = room
	return nil
}

func validRoomRequest() CreateRoomRequest {
	return CreateRoomRequest{
		Name:            "Section A",
		JoinCode:        "JOIN-A",
		CourseID:        oid.New(),
		ClassSection:    "A",
		SchoolYearStart: 2024,
		SchoolYearEnd:   2025,
		CreatorID:       oid.New(),
	}
}

func TestRoomServiceCreateDefaultsActive(t *testing.T) {
	repo := newMockRoomRepo()
	svc := NewRoomService(repo, noCache(), nil, zap.NewNop())

	room, err := svc.Create(context.Background(), validRoomRequest())
	require.NoError(t, err)

	assert.True(t, room.IsActive)
	assert.False(t, room.IsArchived)
	assert.Nil(t, room.ArchivedAt)
}

func TestRoomServiceCreateDuplicateJoinCode(t *testing.T) {
	repo := newMockRoomRepo()
	repo.seed(&models.Room{Name: "Existing", JoinCode: "JOIN-A"})
	svc := NewRoomService(repo, noCache(), nil, zap.NewNop())

	_, err := svc.Create(context.Background(), validRoomRequest())
	require.Error(t, err)

	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErr.Code)
	assert.Equal(t, "Join code already in use", appErr.Message)
}

func TestRoomServiceCreateValidatesIdentifiers(t *testing.T) {
	repo := newMockRoomRepo()
	svc := NewRoomService(repo, noCache(), nil, zap.NewNop())

	req := validRoomRequest()
	req.CourseID = "not-a-valid-id"

	_, err := svc.Create(context.Background(), req)
	require.Error(t, err)

	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
}

func TestRoomServiceToggleArchiveAppliesSideEffects(t *testing.T) {
	repo := newMockRoomRepo()
	seeded := &models.Room{Name: "Section A", JoinCode: "JOIN-A", IsActive: true}
	repo.seed(seeded)
	svc := NewRoomService(repo, noCache(), nil, zap.NewNop())

	archived, err := svc.ToggleArchive(context.Background(), seeded.ID)
	require.NoError(t, err)
	assert.True(t, archived.IsArchived)
	assert.False(t, archived.IsActive)
	require.NotNil(t, archived.ArchivedAt)
	assert.Equal(t, 1, repo.updates)

	unarchived, err := svc.ToggleArchive(context.Background(), seeded.ID)
	require.NoError(t, err)
	assert.False(t, unarchived.IsArchived)
	assert.True(t, unarchived.IsActive)
	assert.Nil(t, unarchived.ArchivedAt)
	assert.Equal(t, 2, repo.updates)
}

func TestRoomServiceUpdateJoinCodeConflict(t *testing.T) {
	repo := newMockRoomRepo()
	first := &models.Room{Name: "First", JoinCode: "JOIN-A", IsActive: true}
	second := &models.Room{Name: "Second", JoinCode: "JOIN-B", IsActive: true}
	repo.seed(first)
	repo.seed(second)
	svc := NewRoomService(repo, noCache(), nil, zap.NewNop())

	conflicting := "JOIN-A"
	_, err := svc.Update(context.Background(), second.ID, UpdateRoomRequest{JoinCode: &conflicting})
	require.Error(t, err)

	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErr.Code)
}

func TestRoomServiceGetNotFound(t *testing.T) {
	repo := newMockRoomRepo()
	svc := NewRoomService(repo, noCache(), nil, zap.NewNop())

	_, err := svc.Get(context.Background(), oid.New())
	require.Error(t, err)

	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErr.Code)
	assert.Equal(t, "Room not found", appErr.Message)
}
