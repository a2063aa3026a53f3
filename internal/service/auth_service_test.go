package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/noah-isme/classroom-api/internal/models"
	appErrors "github.com/noah-isme/classroom-api/pkg/errors"
)

func newAuthFixture(t *testing.T) (*mockAccountRepo, *AuthService) {
	t.Helper()
	repo := newMockAccountRepo()
	accounts := NewAccountService(repo, nil, zap.NewNop())
	auth := NewAuthService(repo, accounts, nil, zap.NewNop(), AuthConfig{Secret: "test-secret", Expiration: time.Hour})
	return repo, auth
}

func seedAccount(t *testing.T, repo *mockAccountRepo, email, password string, status models.AccountStatus) *models.Account {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	require.NoError(t, err)
	account := &models.Account{
		Email:        email,
		Username:     "user",
		PasswordHash: string(hash),
		Role:         models.RoleTeacher,
		Status:       status,
	}
	repo.seed(account)
	return account
}

func TestAuthServiceLoginSuccess(t *testing.T) {
	repo, auth := newAuthFixture(t)
	seeded := seedAccount(t, repo, "teacher@example.com", "sup3rsecret", models.AccountActive)

	account, token, err := auth.Login(context.Background(), models.LoginRequest{Email: "teacher@example.com", Password: "sup3rsecret"})
	require.NoError(t, err)
	require.NotEmpty(t, token)
	assert.Equal(t, seeded.ID, account.ID)

	claims, err := auth.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, seeded.ID, claims.AccountID)
	assert.Equal(t, models.RoleTeacher, claims.Role)
}

func TestAuthServiceLoginUnknownEmail(t *testing.T) {
	_, auth := newAuthFixture(t)

	_, _, err := auth.Login(context.Background(), models.LoginRequest{Email: "missing@example.com", Password: "whatever1"})
	require.Error(t, err)

	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErr.Code)
	assert.Equal(t, "No account found with this email", appErr.Message)
}

func TestAuthServiceLoginWrongPassword(t *testing.T) {
	repo, auth := newAuthFixture(t)
	seedAccount(t, repo, "teacher@example.com", "sup3rsecret", models.AccountActive)

	_, _, err := auth.Login(context.Background(), models.LoginRequest{Email: "teacher@example.com", Password: "wrongpass"})
	require.Error(t, err)

	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrInvalidCredentials.Code, appErr.Code)
	assert.Equal(t, 401, appErr.Status)
}

func TestAuthServiceLoginInactiveAccount(t *testing.T) {
	repo, auth := newAuthFixture(t)
	seedAccount(t, repo, "teacher@example.com", "sup3rsecret", models.AccountInactive)

	_, _, err := auth.Login(context.Background(), models.LoginRequest{Email: "teacher@example.com", Password: "sup3rsecret"})
	require.Error(t, err)

	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrInactiveAccount.Code, appErr.Code)
	assert.Equal(t, 403, appErr.Status)
	assert.Equal(t, "Account is inactive", appErr.Message)
}

func TestAuthServiceRegisterDuplicateEmail(t *testing.T) {
	repo, auth := newAuthFixture(t)
	seedAccount(t, repo, "teacher@example.com", "sup3rsecret", models.AccountActive)

	_, _, err := auth.Register(context.Background(), CreateAccountRequest{
		Email:    "teacher@example.com",
		Password: "sup3rsecret",
		Username: "someone",
	})
	require.Error(t, err)

	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErr.Code)
	assert.Equal(t, "Email is already registered", appErr.Message)
}

func TestAuthServiceRegisterIssuesValidToken(t *testing.T) {
	_, auth := newAuthFixture(t)

	account, token, err := auth.Register(context.Background(), CreateAccountRequest{
		Email:    "new@example.com",
		Password: "sup3rsecret",
		Username: "newbie",
	})
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := auth.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, account.ID, claims.AccountID)
}

func TestAuthServiceValidateTokenRejectsGarbage(t *testing.T) {
	_, auth := newAuthFixture(t)

	_, err := auth.ValidateToken("not.a.token")
	require.Error(t, err)

	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrUnauthorized.Code, appErr.Code)
}
