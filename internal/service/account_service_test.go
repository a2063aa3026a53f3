package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/noah-isme/classroom-api/internal/models"
	appErrors "github.com/noah-isme/classroom-api/pkg/errors"
	"github.com/noah-isme/classroom-api/pkg/oid"
)

type mockAccountRepo struct {
	byID    map[string]*models.Account
	byEmail map[string]*models.Account
	list    []models.Account
	listErr error
	created int
	updated int
}

func newMockAccountRepo() *mockAccountRepo {
	return &mockAccountRepo{
		byID:    make(map[string]*models.Account),
		byEmail: make(map[string]*models.Account),
	}
}

func (m *mockAccountRepo) seed(account *models.Account) {
	if account.ID == "" {
		account.ID = oid.New()
	}
	m.byID[account.ID] = account
	m.byEmail[account.Email] = account
}

func (m *mockAccountRepo) List(_ context.Context, _ models.AccountFilter) ([]models.Account, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	return m.list, nil
}

func (m *mockAccountRepo) FindByID(_ context.Context, id string) (*models.Account, error) {
	account, ok := m.byID[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	copied := *account
	return &copied, nil
}

func (m *mockAccountRepo) FindByEmail(_ context.Context, email string) (*models.Account, error) {
	account, ok := m.byEmail[email]
	if !ok {
		return nil, sql.ErrNoRows
	}
	copied := *account
	return &copied, nil
}

func (m *mockAccountRepo) Create(_ context.Context, account *models.Account) error {
	m.created++
	if account.ID == "" {
		account.ID = oid.New()
	}
	m.seed(account)
	return nil
}

func (m *mockAccountRepo) Update(_ context.Context, account *models.Account) error {
	m.updated++
	m.byID[account.ID] = account
	m.byEmail[account.Email] = account
	return nil
}

func TestAccountServiceCreateHashesPassword(t *testing.T) {
	repo := newMockAccountRepo()
	svc := NewAccountService(repo, nil, zap.NewNop())

	account, err := svc.Create(context.Background(), CreateAccountRequest{
		Email:    "Teacher@Example.COM",
		Password: "sup3rsecret",
		Username: "teacher",
	})
	require.NoError(t, err)

	assert.Equal(t, "teacher@example.com", account.Email)
	assert.NotEqual(t, "sup3rsecret", account.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte("sup3rsecret")))
	assert.Equal(t, models.RoleStudent, account.Role)
	assert.Equal(t, models.AccountActive, account.Status)
	assert.Equal(t, 1, repo.created)
}

func TestAccountServiceCreateDuplicateEmail(t *testing.T) {
	repo := newMockAccountRepo()
	repo.seed(&models.Account{Email: "taken@example.com", Username: "taken"})
	svc := NewAccountService(repo, nil, zap.NewNop())

	_, err := svc.Create(context.Background(), CreateAccountRequest{
		Email:    "taken@example.com",
		Password: "sup3rsecret",
		Username: "other",
	})
	require.Error(t, err)

	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErr.Code)
	assert.Equal(t, "Email already in use", appErr.Message)
	assert.Zero(t, repo.created)
}

func TestAccountServiceCreateValidation(t *testing.T) {
	repo := newMockAccountRepo()
	svc := NewAccountService(repo, nil, zap.NewNop())

	_, err := svc.Create(context.Background(), CreateAccountRequest{
		Email:    "not-an-email",
		Password: "short",
		Username: "",
	})
	require.Error(t, err)

	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
	assert.Zero(t, repo.created)
}

func TestAccountServiceUpdateRehashesPassword(t *testing.T) {
	repo := newMockAccountRepo()
	oldHash, err := bcrypt.GenerateFromPassword([]byte("oldpassword"), bcrypt.DefaultCost)
	require.NoError(t, err)
	seeded := &models.Account{Email: "user@example.com", Username: "user", PasswordHash: string(oldHash), Role: models.RoleStudent, Status: models.AccountActive}
	repo.seed(seeded)
	svc := NewAccountService(repo, nil, zap.NewNop())

	newPassword := "newpassword"
	account, err := svc.Update(context.Background(), seeded.ID, UpdateAccountRequest{Password: &newPassword})
	require.NoError(t, err)

	assert.NotEqual(t, string(oldHash), account.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(newPassword)))
}

func TestAccountServiceGetNotFound(t *testing.T) {
	repo := newMockAccountRepo()
	svc := NewAccountService(repo, nil, zap.NewNop())

	_, err := svc.Get(context.Background(), oid.New())
	require.Error(t, err)

	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErr.Code)
	assert.Equal(t, "Account not found", appErr.Message)
}

func TestAccountServiceArchiveIsOneWay(t *testing.T) {
	repo := newMockAccountRepo()
	seeded := &models.Account{Email: "user@example.com", Username: "user", Status: models.AccountActive}
	repo.seed(seeded)
	svc := NewAccountService(repo, nil, zap.NewNop())

	account, err := svc.Archive(context.Background(), seeded.ID)
	require.NoError(t, err)
	assert.Equal(t, models.AccountArchived, account.Status)

	again, err := svc.Archive(context.Background(), seeded.ID)
	require.NoError(t, err)
	assert.Equal(t, models.AccountArchived, again.Status)
}
