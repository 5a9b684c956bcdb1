package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/bp-tracker/internal/config"
	apperrors "github.com/spec-kit/bp-tracker/pkg/util"
)

func newAuthFixture() (*AuthService, *fakePatientRepo) {
	patients := newFakePatientRepo()
	cfg := config.Config{}
	cfg.Auth.JWTSecret = "auth-test-secret"
	cfg.Auth.AccessTokenTTLMinutes = 15
	cfg.Auth.BcryptCost = 4 // keep hashing cheap in tests
	return NewAuthService(cfg, patients), patients
}

func TestRegisterAndLogin(t *testing.T) {
	svc, _ := newAuthFixture()

	patient, token, _, err := svc.Register(context.Background(), "Ada Martin", "ada@example.com", "hunter22")
	require.NoError(t, err)
	assert.NotEmpty(t, patient.ID)
	assert.NotEmpty(t, token)

	loggedIn, token, _, err := svc.Login(context.Background(), "ada@example.com", "hunter22")
	require.NoError(t, err)
	assert.Equal(t, patient.ID, loggedIn.ID)

	claims, err := svc.TokenManager().ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, patient.ID, claims.SubjectID)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc, _ := newAuthFixture()

	_, _, _, err := svc.Register(context.Background(), "Ada", "ada@example.com", "hunter22")
	require.NoError(t, err)

	_, _, _, err = svc.Register(context.Background(), "Other", "ada@example.com", "hunter23")
	de := apperrors.ToDomainError(err)
	require.NotNil(t, de)
	assert.Equal(t, "CONFLICT", de.Code)
}

func TestLoginWrongPassword(t *testing.T) {
	svc, _ := newAuthFixture()

	_, _, _, err := svc.Register(context.Background(), "Ada", "ada@example.com", "hunter22")
	require.NoError(t, err)

	_, _, _, err = svc.Login(context.Background(), "ada@example.com", "wrong")
	de := apperrors.ToDomainError(err)
	require.NotNil(t, de)
	assert.Equal(t, "UNAUTHORIZED", de.Code)

	_, _, _, err = svc.Login(context.Background(), "nobody@example.com", "whatever")
	de = apperrors.ToDomainError(err)
	require.NotNil(t, de)
	assert.Equal(t, "UNAUTHORIZED", de.Code)
}
