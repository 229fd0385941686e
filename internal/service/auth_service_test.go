package service

import (
	"termophysics_backend/internal/config"
	"termophysics_backend/internal/model"
	"termophysics_backend/internal/repository"
	"termophysics_backend/internal/util"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAuthService(t *testing.T) *AuthService {
	t.Helper()
	db := newTestDB(t)
	cfg := &config.Config{}
	cfg.JWT.Secret = "test-secret-not-for-production-use"
	cfg.JWT.ExpireTime = time.Hour
	return NewAuthService(repository.NewUserRepository(db), cfg)
}

func TestRegisterAndLogin(t *testing.T) {
	svc := newAuthService(t)

	result, err := svc.Register(RegisterReq{
		DisplayName: "Alex",
		Email:       "alex@example.com",
		Password:    "secret123",
		Role:        "student",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, result.Token)
	assert.Equal(t, model.Student, result.User.Role)

	login, err := svc.Login(LoginReq{Email: "alex@example.com", Password: "secret123"})
	require.NoError(t, err)
	assert.NotEmpty(t, login.Token)
	assert.Equal(t, result.User.ID, login.User.ID)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc := newAuthService(t)

	req := RegisterReq{DisplayName: "Alex", Email: "alex@example.com", Password: "secret123", Role: "student"}
	_, err := svc.Register(req)
	require.NoError(t, err)

	_, err = svc.Register(req)
	assert.ErrorIs(t, err, util.ErrEmailRegistered)
}

func TestLoginWrongPassword(t *testing.T) {
	svc := newAuthService(t)

	_, err := svc.Register(RegisterReq{DisplayName: "Alex", Email: "alex@example.com", Password: "secret123", Role: "student"})
	require.NoError(t, err)

	_, err = svc.Login(LoginReq{Email: "alex@example.com", Password: "wrong"})
	assert.ErrorIs(t, err, util.ErrInvalidCredentials)
}

func TestLoginUnknownEmail(t *testing.T) {
	svc := newAuthService(t)

	_, err := svc.Login(LoginReq{Email: "nobody@example.com", Password: "whatever"})
	assert.ErrorIs(t, err, util.ErrInvalidCredentials)
}

func TestPasswordStoredHashed(t *testing.T) {
	svc := newAuthService(t)

	result, err := svc.Register(RegisterReq{DisplayName: "Alex", Email: "alex@example.com", Password: "secret123", Role: "student"})
	require.NoError(t, err)
	assert.NotEqual(t, "secret123", result.User.Password)
}
