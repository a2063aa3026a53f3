package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/noah-isme/classroom-api/internal/models"
	"github.com/noah-isme/classroom-api/internal/repository"
	appErrors "github.com/noah-isme/classroom-api/pkg/errors"
	"github.com/noah-isme/classroom-api/pkg/validation"
)

type accountRepository interface {
	List(ctx context.Context, filter models.AccountFilter) ([]models.Account, error)
	FindByID(ctx context.Context, id string) (*models.Account, error)
	FindByEmail(ctx context.Context, email string) (*models.Account, error)
	Create(ctx context.Context, account *models.Account) error
	Update(ctx context.Context, account *models.Account) error
}

// CreateAccountRequest represents the payload for creating accounts.
type CreateAccountRequest struct {
	Email             string               `json:"email" validate:"required,email"`
	Password          string               `json:"password" validate:"required,min=6"`
	Username          string               `json:"username" validate:"required,min=1"`
	ProfilePictureURL string               `json:"profilePictureUrl" validate:"omitempty,url"`
	Role              models.AccountRole   `json:"role" validate:"omitempty,oneof=Administrator Teacher Student"`
	Status            models.AccountStatus `json:"status" validate:"omitempty,oneof=Active Inactive Archived"`
}

// UpdateAccountRequest is the partial payload for editing accounts.
// Only supplied fields are merged into the stored row.
type UpdateAccountRequest struct {
	Email             *string               `json:"email" validate:"omitempty,email"`
	Password          *string               `json:"password" validate:"omitempty,min=6"`
	Username          *string               `json:"username" validate:"omitempty,min=1"`
	ProfilePictureURL *string               `json:"profilePictureUrl" validate:"omitempty,url"`
	Role              *models.AccountRole   `json:"role" validate:"omitempty,oneof=Administrator Teacher Student"`
	Status            *models.AccountStatus `json:"status" validate:"omitempty,oneof=Active Inactive Archived"`
}

// AccountService handles account management workflows.
type AccountService struct {
	repo      accountRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewAccountService creates an instance of AccountService.
func NewAccountService(repo accountRepository, validate *validator.Validate, logger *zap.Logger) *AccountService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validation.New()
	}
	return &AccountService{repo: repo, validator: validate, logger: logger}
}

// List returns accounts matching the filter.
func (s *AccountService) List(ctx context.Context, filter models.AccountFilter) ([]models.Account, error) {
	accounts, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list accounts")
	}
	return accounts, nil
}

// Get returns an account by ID.
func (s *AccountService) Get(ctx context.Context, id string) (*models.Account, error) {
	account, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "Account not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load account")
	}
	return account, nil
}

// Create adds a new account with a hashed password. The email must be
// unused; the role defaults to Student and the status to Active.
func (s *AccountService) Create(ctx context.Context, req CreateAccountRequest) (*models.Account, error) {
	if err := validation.Struct(s.validator, req); err != nil {
		return nil, err
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))

	if _, err := s.repo.FindByEmail(ctx, email); err == nil {
		return nil, appErrors.Clone(appErrors.ErrConflict, "Email already in use")
	} else if !errors.Is(err, sql.ErrNoRows) {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check email uniqueness")
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to hash password")
	}

	role := req.Role
	if role == "" {
		role = models.RoleStudent
	}
	status := req.Status
	if status == "" {
		status = models.AccountActive
	}

	account := &models.Account{
		Email:             email,
		PasswordHash:      string(passwordHash),
		Username:          strings.TrimSpace(req.Username),
		ProfilePictureURL: req.ProfilePictureURL,
		Role:              role,
		Status:            status,
	}

	if err := s.repo.Create(ctx, account); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, appErrors.Clone(appErrors.ErrConflict, "Email already in use")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create account")
	}

	return account, nil
}

// Update merges the supplied fields into the stored account. A supplied
// password is re-hashed before persisting.
func (s *AccountService) Update(ctx context.Context, id string, req UpdateAccountRequest) (*models.Account, error) {
	if err := validation.Struct(s.validator, req); err != nil {
		return nil, err
	}

	account, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*req.Email))
		if email != account.Email {
			if _, err := s.repo.FindByEmail(ctx, email); err == nil {
				return nil, appErrors.Clone(appErrors.ErrConflict, "Email already in use")
			} else if !errors.Is(err, sql.ErrNoRows) {
				return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check email uniqueness")
			}
		}
		account.Email = email
	}
	if req.Password != nil {
		passwordHash, err := bcrypt.GenerateFromPassword([]byte(*req.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to hash password")
		}
		account.PasswordHash = string(passwordHash)
	}
	if req.Username != nil {
		account.Username = strings.TrimSpace(*req.Username)
	}
	if req.ProfilePictureURL != nil {
		account.ProfilePictureURL = *req.ProfilePictureURL
	}
	if req.Role != nil {
		account.Role = *req.Role
	}
	if req.Status != nil {
		account.Status = *req.Status
	}

	if err := s.repo.Update(ctx, account); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, appErrors.Clone(appErrors.ErrConflict, "Email already in use")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update account")
	}

	return account, nil
}

// Archive marks an account Archived. This is a one-way soft delete; the
// row itself is never removed.
func (s *AccountService) Archive(ctx context.Context, id string) (*models.Account, error) {
	account, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	account.Status = models.AccountArchived
	if err := s.repo.Update(ctx, account); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to archive account")
	}

	return account, nil
}
