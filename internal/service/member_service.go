package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/classroom-api/internal/models"
	"github.com/noah-isme/classroom-api/internal/repository"
	appErrors "github.com/noah-isme/classroom-api/pkg/errors"
	"github.com/noah-isme/classroom-api/pkg/validation"
)

type memberRepository interface {
	List(ctx context.Context, filter models.MemberFilter) ([]models.RoomMember, error)
	FindByID(ctx context.Context, id string) (*models.RoomMember, error)
	FindByRoomAndAccount(ctx context.Context, roomID, accountID string) (*models.RoomMember, error)
	Create(ctx context.Context, member *models.RoomMember) error
	Update(ctx context.Context, member *models.RoomMember) error
}

// AddMemberRequest represents the payload for joining a room.
type AddMemberRequest struct {
	RoomID    string `json:"roomId" validate:"required,objectid"`
	AccountID string `json:"accountId" validate:"required,objectid"`
}

// MemberService handles room membership workflows.
type MemberService struct {
	repo      memberRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewMemberService creates an instance of MemberService.
func NewMemberService(repo memberRepository, validate *validator.Validate, logger *zap.Logger) *MemberService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validation.New()
	}
	return &MemberService{repo: repo, validator: validate, logger: logger}
}

// List returns memberships matching the filter.
func (s *MemberService) List(ctx context.Context, filter models.MemberFilter) ([]models.RoomMember, error) {
	members, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list room members")
	}
	return members, nil
}

// Get returns a membership by ID.
func (s *MemberService) Get(ctx context.Context, id string) (*models.RoomMember, error) {
	member, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "Room member not found.")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load room member")
	}
	return member, nil
}

// Add joins an account to a room. At most one logical membership exists
// per (room, account) pair: an Active pair is a conflict, a pair in any
// other status is reactivated in place, and only a brand new pair gets
// a fresh row. The returned flag reports whether this was a rejoin.
func (s *MemberService) Add(ctx context.Context, req AddMemberRequest) (*models.RoomMember, bool, error) {
	if err := validation.Struct(s.validator, req); err != nil {
		return nil, false, err
	}

	existing, err := s.repo.FindByRoomAndAccount(ctx, req.RoomID, req.AccountID)
	switch {
	case err == nil:
		if existing.Status == models.MemberActive {
			return nil, false, appErrors.Clone(appErrors.ErrConflict, "Account is already an Active member of this room.")
		}
		existing.Status = models.MemberActive
		existing.JoinedAt = time.Now().UTC()
		existing.LeftAt = nil
		existing.ArchivedAt = nil
		if err := s.repo.Update(ctx, existing); err != nil {
			return nil, false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to reactivate room member")
		}
		return existing, true, nil
	case !errors.Is(err, sql.ErrNoRows):
		return nil, false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check existing membership")
	}

	member := &models.RoomMember{
		RoomID:    req.RoomID,
		AccountID: req.AccountID,
		JoinedAt:  time.Now().UTC(),
		Status:    models.MemberActive,
	}
	if err := s.repo.Create(ctx, member); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, false, appErrors.Clone(appErrors.ErrConflict, "Account is already an Active member of this room.")
		}
		if repository.IsForeignKeyViolation(err) {
			return nil, false, appErrors.Clone(appErrors.ErrValidation, "referenced room or account does not exist")
		}
		return nil, false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to add room member")
	}

	return member, false, nil
}

// Remove marks a membership Removed and stamps leftAt. The row stays in
// place so a later Add can reactivate it.
func (s *MemberService) Remove(ctx context.Context, id string) (*models.RoomMember, error) {
	member, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	member.Status = models.MemberRemoved
	member.LeftAt = &now

	if err := s.repo.Update(ctx, member); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to remove room member")
	}

	return member, nil
}
