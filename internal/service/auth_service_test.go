package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/proposalflow/backend/internal/mockapi"
	"github.com/proposalflow/backend/internal/pkg/apperror"
	"github.com/proposalflow/backend/internal/store"
)

func newTestAuthService(t *testing.T) *AuthService {
	t.Helper()
	repo := mockapi.New(store.NewProposalStore(), 0, 0, 1)
	require.NoError(t, repo.Seed())
	return NewAuthService(repo, newTestTokenManager())
}

func TestRegister_NewUser(t *testing.T) {
	svc := newTestAuthService(t)

	result, err := svc.Register(context.Background(), RegisterInput{
		Email:    "Nina.Petrova@Example.com",
		Password: "Password123",
		Name:     "  Nina Petrova  ",
	}, SessionMeta{UserAgent: "test-agent", IPAddress: "127.0.0.1"})
	require.NoError(t, err)

	// email нормализуется, имя обрезается
	assert.Equal(t, "nina.petrova@example.com", result.User.Email)
	assert.Equal(t, "Nina Petrova", result.User.Name)
	assert.True(t, result.User.IsActive)
	assert.NotEmpty(t, result.TokenPair.AccessToken)
	assert.NotEmpty(t, result.TokenPair.RefreshToken)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	svc := newTestAuthService(t)

	_, err := svc.Register(context.Background(), RegisterInput{
		Email:    "alex.johnson@example.com",
		Password: "Password123",
		Name:     "Alex Clone",
	}, SessionMeta{})
	require.Error(t, err)
	assert.True(t, apperror.IsConflict(err))
}

func TestRegister_WeakPassword(t *testing.T) {
	svc := newTestAuthService(t)

	_, err := svc.Register(context.Background(), RegisterInput{
		Email:    "new.user@example.com",
		Password: "short",
		Name:     "New User",
	}, SessionMeta{})
	require.Error(t, err)
	assert.True(t, apperror.IsValidation(err))
}

func TestLogin_CorrectCredentials(t *testing.T) {
	svc := newTestAuthService(t)

	result, err := svc.Login(context.Background(), "alex.johnson@example.com", mockapi.FixturePassword, SessionMeta{})
	require.NoError(t, err)
	assert.Equal(t, mockapi.FixtureUserAlex, result.User.ID)
	assert.NotEmpty(t, result.TokenPair.AccessToken)
}

func TestLogin_WrongPassword(t *testing.T) {
	svc := newTestAuthService(t)

	_, err := svc.Login(context.Background(), "alex.johnson@example.com", "WrongPassword1", SessionMeta{})
	assert.ErrorIs(t, err, apperror.ErrInvalidCredentials)
}

func TestLogin_UnknownEmailGivesSameError(t *testing.T) {
	svc := newTestAuthService(t)

	// неразличимость "нет пользователя" и "неверный пароль"
	_, err := svc.Login(context.Background(), "ghost@example.com", "Password123", SessionMeta{})
	assert.ErrorIs(t, err, apperror.ErrInvalidCredentials)
}

func TestRefresh_RotatesSession(t *testing.T) {
	svc := newTestAuthService(t)
	ctx := context.Background()

	login, err := svc.Login(ctx, "sarah.chen@example.com", mockapi.FixturePassword, SessionMeta{})
	require.NoError(t, err)

	refreshed, err := svc.Refresh(ctx, login.TokenPair.RefreshToken, SessionMeta{})
	require.NoError(t, err)
	assert.Equal(t, mockapi.FixtureUserSarah, refreshed.User.ID)
	assert.NotEqual(t, login.TokenPair.RefreshToken, refreshed.TokenPair.RefreshToken)

	// старый токен одноразовый
	_, err = svc.Refresh(ctx, login.TokenPair.RefreshToken, SessionMeta{})
	assert.ErrorIs(t, err, apperror.ErrUnauthorized)
}

func TestRefresh_GarbageToken(t *testing.T) {
	svc := newTestAuthService(t)

	_, err := svc.Refresh(context.Background(), "not-a-token", SessionMeta{})
	assert.ErrorIs(t, err, apperror.ErrUnauthorized)
}

func TestLogout_InvalidatesRefresh(t *testing.T) {
	svc := newTestAuthService(t)
	ctx := context.Background()

	login, err := svc.Login(ctx, "alex.johnson@example.com", mockapi.FixturePassword, SessionMeta{})
	require.NoError(t, err)

	require.NoError(t, svc.Logout(ctx, login.TokenPair.RefreshToken))

	_, err = svc.Refresh(ctx, login.TokenPair.RefreshToken, SessionMeta{})
	assert.ErrorIs(t, err, apperror.ErrUnauthorized)
}

func TestGetUser(t *testing.T) {
	svc := newTestAuthService(t)

	user, err := svc.GetUser(context.Background(), mockapi.FixtureUserEmily)
	require.NoError(t, err)
	assert.Equal(t, "Emily Davis", user.Name)
}
