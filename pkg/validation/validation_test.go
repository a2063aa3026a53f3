package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appErrors "github.com/noah-isme/classroom-api/pkg/errors"
)

type samplePayload struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Role     string `json:"role" validate:"omitempty,oneof=Administrator Teacher Student"`
}

func TestStructValid(t *testing.T) {
	v := New()
	err := Struct(v, samplePayload{Email: "a@example.com", Password: "secret1", Role: "Student"})
	assert.NoError(t, err)
}

func TestStructReportsAllViolations(t *testing.T) {
	v := New()
	err := Struct(v, samplePayload{Email: "not-an-email", Password: "abc", Role: "Janitor"})
	require.Error(t, err)

	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrValidation.Status, appErr.Status)
	assert.Contains(t, appErr.Message, "email must be a valid email address")
	assert.Contains(t, appErr.Message, "password must be at least 6 characters long")
	assert.Contains(t, appErr.Message, "role must be one of")
	assert.Contains(t, appErr.Message, ", ")
}

func TestStructUsesJSONFieldNames(t *testing.T) {
	v := New()
	err := Struct(v, samplePayload{})
	require.Error(t, err)
	msg := appErrors.FromError(err).Message
	assert.Contains(t, msg, "email is required")
	assert.NotContains(t, msg, "Email")
}
