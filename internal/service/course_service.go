package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/classroom-api/internal/models"
	"github.com/noah-isme/classroom-api/internal/repository"
	appErrors "github.com/noah-isme/classroom-api/pkg/errors"
	"github.com/noah-isme/classroom-api/pkg/validation"
)

type courseRepository interface {
	List(ctx context.Context, filter models.CourseFilter) ([]models.Course, error)
	FindByID(ctx context.Context, id string) (*models.Course, error)
	FindByName(ctx context.Context, name string) (*models.Course, error)
	Create(ctx context.Context, course *models.Course) error
	Update(ctx context.Context, course *models.Course) error
}

// CreateCourseRequest represents the payload for creating courses.
type CreateCourseRequest struct {
	Name        string  `json:"name" validate:"required,min=1"`
	Description *string `json:"description"`
	Department  *string `json:"department"`
	IsArchived  *bool   `json:"isArchived"`
}

// UpdateCourseRequest is the partial payload for editing courses.
type UpdateCourseRequest struct {
	Name        *string `json:"name" validate:"omitempty,min=1"`
	Description *string `json:"description"`
	Department  *string `json:"department"`
	IsArchived  *bool   `json:"isArchived"`
}

const courseCachePattern = "courses:*"

// CourseService handles course management workflows.
type CourseService struct {
	repo      courseRepository
	cache     *CacheService
	validator *validator.Validate
	logger    *zap.Logger
}

// NewCourseService creates an instance of CourseService.
func NewCourseService(repo courseRepository, cache *CacheService, validate *validator.Validate, logger *zap.Logger) *CourseService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validation.New()
	}
	return &CourseService{repo: repo, cache: cache, validator: validate, logger: logger}
}

// List returns courses matching the filter. When the caller does not
// name an archive state the listing defaults to non-archived rows.
func (s *CourseService) List(ctx context.Context, filter models.CourseFilter) ([]models.Course, error) {
	if filter.IsArchived == nil {
		notArchived := false
		filter.IsArchived = &notArchived
	}

	key := courseListCacheKey(filter)
	var cached []models.Course
	if s.cache.Get(ctx, key, &cached) {
		return cached, nil
	}

	courses, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list courses")
	}

	s.cache.Set(ctx, key, courses)
	return courses, nil
}

// Get returns a course by ID.
func (s *CourseService) Get(ctx context.Context, id string) (*models.Course, error) {
	course, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "Course not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load course")
	}
	return course, nil
}

// Create adds a new course. The name must be unused.
func (s *CourseService) Create(ctx context.Context, req CreateCourseRequest) (*models.Course, error) {
	if err := validation.Struct(s.validator, req); err != nil {
		return nil, err
	}

	if _, err := s.repo.FindByName(ctx, req.Name); err == nil {
		return nil, appErrors.Clone(appErrors.ErrConflict, "Course name already exists")
	} else if !errors.Is(err, sql.ErrNoRows) {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check course name uniqueness")
	}

	course := &models.Course{
		Name:        req.Name,
		Description: req.Description,
		Department:  req.Department,
	}
	if req.IsArchived != nil {
		course.IsArchived = *req.IsArchived
	}

	if err := s.repo.Create(ctx, course); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, appErrors.Clone(appErrors.ErrConflict, "Course name already exists")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create course")
	}

	s.cache.Invalidate(ctx, courseCachePattern)
	return course, nil
}

// Update merges the supplied fields into the stored course.
func (s *CourseService) Update(ctx context.Context, id string, req UpdateCourseRequest) (*models.Course, error) {
	if err := validation.Struct(s.validator, req); err != nil {
		return nil, err
	}

	course, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil && *req.Name != course.Name {
		if _, err := s.repo.FindByName(ctx, *req.Name); err == nil {
			return nil, appErrors.Clone(appErrors.ErrConflict, "Course name already exists")
		} else if !errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check course name uniqueness")
		}
		course.Name = *req.Name
	}
	if req.Description != nil {
		course.Description = req.Description
	}
	if req.Department != nil {
		course.Department = req.Department
	}
	if req.IsArchived != nil {
		course.IsArchived = *req.IsArchived
	}

	if err := s.repo.Update(ctx, course); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, appErrors.Clone(appErrors.ErrConflict, "Course name already exists")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update course")
	}

	s.cache.Invalidate(ctx, courseCachePattern)
	return course, nil
}

// ToggleArchive flips the course's archived flag. Evaluated from the
// current state in one branch so repeated calls alternate cleanly.
func (s *CourseService) ToggleArchive(ctx context.Context, id string) (*models.Course, error) {
	course, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	course.IsArchived = !course.IsArchived

	if err := s.repo.Update(ctx, course); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to toggle course archive state")
	}

	s.cache.Invalidate(ctx, courseCachePattern)
	return course, nil
}

func courseListCacheKey(filter models.CourseFilter) string {
	archived := "-"
	if filter.IsArchived != nil {
		archived = fmt.Sprintf("%t", *filter.IsArchived)
	}
	department := "-"
	if filter.Department != nil {
		department = *filter.Department
	}
	return fmt.Sprintf("courses:list:%s:%s:%s", archived, department, filter.Search)
}
