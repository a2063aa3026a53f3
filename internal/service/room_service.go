package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/classroom-api/internal/models"
	"github.com/noah-isme/classroom-api/internal/repository"
	appErrors "github.com/noah-isme/classroom-api/pkg/errors"
	"github.com/noah-isme/classroom-api/pkg/validation"
)

type roomRepository interface {
	List(ctx context.Context, filter models.RoomFilter) ([]models.Room, error)
	FindByID(ctx context.Context, id string) (*models.Room, error)
	FindByJoinCode(ctx context.Context, joinCode string) (*models.Room, error)
	Create(ctx context.Context, room *models.Room) error
	Update(ctx context.Context, room *models.Room) error
}

// CreateRoomRequest represents the payload for creating rooms.
type CreateRoomRequest struct {
	Name            string  `json:"name" validate:"required,min=1"`
	JoinCode        string  `json:"joinCode" validate:"required,min=1"`
	Description     *string `json:"description"`
	CourseID        string  `json:"courseId" validate:"required,objectid"`
	ClassSection    string  `json:"classSection" validate:"required,min=1"`
	SchoolYearStart int     `json:"schoolYearStart" validate:"required,gte=2000"`
	SchoolYearEnd   int     `json:"schoolYearEnd" validate:"required,gte=2000"`
	CreatorID       string  `json:"creatorId" validate:"required,objectid"`
	IsActive        *bool   `json:"isActive"`
	IsArchived      *bool   `json:"isArchived"`
}

// UpdateRoomRequest is the partial payload for editing rooms.
type UpdateRoomRequest struct {
	Name            *string `json:"name" validate:"omitempty,min=1"`
	JoinCode        *string `json:"joinCode" validate:"omitempty,min=1"`
	Description     *string `json:"description"`
	CourseID        *string `json:"courseId" validate:"omitempty,objectid"`
	ClassSection    *string `json:"classSection" validate:"omitempty,min=1"`
	SchoolYearStart *int    `json:"schoolYearStart" validate:"omitempty,gte=2000"`
	SchoolYearEnd   *int    `json:"schoolYearEnd" validate:"omitempty,gte=2000"`
	CreatorID       *string `json:"creatorId" validate:"omitempty,objectid"`
	IsActive        *bool   `json:"isActive"`
	IsArchived      *bool   `json:"isArchived"`
}

const roomCachePattern = "rooms:*"

// RoomService handles room management workflows.
type RoomService struct {
	repo      roomRepository
	cache     *CacheService
	validator *validator.Validate
	logger    *zap.Logger
}

// NewRoomService creates an instance of RoomService.
func NewRoomService(repo roomRepository, cache *CacheService, validate *validator.Validate, logger *zap.Logger) *RoomService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validation.New()
	}
	return &RoomService{repo: repo, cache: cache, validator: validate, logger: logger}
}

// List returns rooms matching the filter.
func (s *RoomService) List(ctx context.Context, filter models.RoomFilter) ([]models.Room, error) {
	key := roomListCacheKey(filter)
	var cached []models.Room
	if s.cache.Get(ctx, key, &cached) {
		return cached, nil
	}

	rooms, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list rooms")
	}

	s.cache.Set(ctx, key, rooms)
	return rooms, nil
}

// Get returns a room by ID.
func (s *RoomService) Get(ctx context.Context, id string) (*models.Room, error) {
	room, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "Room not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load room")
	}
	return room, nil
}

// Create adds a new room. The join code must be unused.
func (s *RoomService) Create(ctx context.Context, req CreateRoomRequest) (*models.Room, error) {
	if err := validation.Struct(s.validator, req); err != nil {
		return nil, err
	}

	if _, err := s.repo.FindByJoinCode(ctx, req.JoinCode); err == nil {
		return nil, appErrors.Clone(appErrors.ErrConflict, "Join code already in use")
	} else if !errors.Is(err, sql.ErrNoRows) {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check join code uniqueness")
	}

	room := &models.Room{
		Name:            req.Name,
		JoinCode:        req.JoinCode,
		Description:     req.Description,
		CourseID:        req.CourseID,
		ClassSection:    req.ClassSection,
		SchoolYearStart: req.SchoolYearStart,
		SchoolYearEnd:   req.SchoolYearEnd,
		CreatorID:       req.CreatorID,
		IsActive:        true,
	}
	if req.IsActive != nil {
		room.IsActive = *req.IsActive
	}
	if req.IsArchived != nil {
		room.IsArchived = *req.IsArchived
	}

	if err := s.repo.Create(ctx, room); err != nil {
		switch {
		case repository.IsUniqueViolation(err):
			return nil, appErrors.Clone(appErrors.ErrConflict, "Join code already in use")
		case repository.IsForeignKeyViolation(err):
			return nil, appErrors.Clone(appErrors.ErrValidation, "referenced course or creator account does not exist")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create room")
	}

	s.cache.Invalidate(ctx, roomCachePattern)
	return room, nil
}

// Update merges the supplied fields into the stored room.
func (s *RoomService) Update(ctx context.Context, id string, req UpdateRoomRequest) (*models.Room, error) {
	if err := validation.Struct(s.validator, req); err != nil {
		return nil, err
	}

	room, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.JoinCode != nil && *req.JoinCode != room.JoinCode {
		if _, err := s.repo.FindByJoinCode(ctx, *req.JoinCode); err == nil {
			return nil, appErrors.Clone(appErrors.ErrConflict, "Join code already in use")
		} else if !errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check join code uniqueness")
		}
		room.JoinCode = *req.JoinCode
	}
	if req.Name != nil {
		room.Name = *req.Name
	}
	if req.Description != nil {
		room.Description = req.Description
	}
	if req.CourseID != nil {
		room.CourseID = *req.CourseID
	}
	if req.ClassSection != nil {
		room.ClassSection = *req.ClassSection
	}
	if req.SchoolYearStart != nil {
		room.SchoolYearStart = *req.SchoolYearStart
	}
	if req.SchoolYearEnd != nil {
		room.SchoolYearEnd = *req.SchoolYearEnd
	}
	if req.CreatorID != nil {
		room.CreatorID = *req.CreatorID
	}
	if req.IsActive != nil {
		room.IsActive = *req.IsActive
	}
	if req.IsArchived != nil {
		room.IsArchived = *req.IsArchived
	}

	if err := s.repo.Update(ctx, room); err != nil {
		switch {
		case repository.IsUniqueViolation(err):
			return nil, appErrors.Clone(appErrors.ErrConflict, "Join code already in use")
		case repository.IsForeignKeyViolation(err):
			return nil, appErrors.Clone(appErrors.ErrValidation, "referenced course or creator account does not exist")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update room")
	}

	s.cache.Invalidate(ctx, roomCachePattern)
	return room, nil
}

// ToggleArchive flips the room's archived flag and applies the opposite
// side effects in the same write: archiving deactivates and stamps
// archivedAt, unarchiving reactivates and clears it. One branch over
// the current state, never two independent toggles.
func (s *RoomService) ToggleArchive(ctx context.Context, id string) (*models.Room, error) {
	room, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if room.IsArchived {
		room.IsArchived = false
		room.IsActive = true
		room.ArchivedAt = nil
	} else {
		now := time.Now().UTC()
		room.IsArchived = true
		room.IsActive = false
		room.ArchivedAt = &now
	}

	if err := s.repo.Update(ctx, room); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to toggle room archive state")
	}

	s.cache.Invalidate(ctx, roomCachePattern)
	return room, nil
}

func roomListCacheKey(filter models.RoomFilter) string {
	active := "-"
	if filter.IsActive != nil {
		active = fmt.Sprintf("%t", *filter.IsActive)
	}
	archived := "-"
	if filter.IsArchived != nil {
		archived = fmt.Sprintf("%t", *filter.IsArchived)
	}
	return fmt.Sprintf("rooms:list:%s:%s:%s:%s", filter.ClassSection, active, archived, filter.Search)
}
