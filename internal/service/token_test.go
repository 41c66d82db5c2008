package service

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/proposalflow/backend/internal/models"
)

func newTestTokenManager() *TokenManager {
	return NewTokenManager("access-secret", "refresh-secret", 15*time.Minute, 7*24*time.Hour)
}

func TestGeneratePair_AccessRoundTrip(t *testing.T) {
	tm := newTestTokenManager()
	user := &models.User{ID: uuid.New(), Email: "alex.johnson@example.com"}

	pair, refreshExp, err := tm.GeneratePair(user)
	require.NoError(t, err)
	assert.NotEmpty(t, pair.AccessToken)
	assert.NotEmpty(t, pair.RefreshToken)
	assert.Equal(t, 15*time.Minute, pair.ExpiresIn)
	assert.WithinDuration(t, time.Now().Add(7*24*time.Hour), refreshExp, 5*time.Second)

	userID, err := tm.ParseAccess(pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, user.ID, userID)
}

func TestParseAccess_WrongSecretRejected(t *testing.T) {
	tm := newTestTokenManager()
	other := NewTokenManager("another-secret", "refresh-secret", 15*time.Minute, time.Hour)

	pair, _, err := tm.GeneratePair(&models.User{ID: uuid.New()})
	require.NoError(t, err)

	_, err = other.ParseAccess(pair.AccessToken)
	assert.Error(t, err)
}

func TestParseAccess_RefreshTokenNotAccepted(t *testing.T) {
	tm := newTestTokenManager()

	pair, _, err := tm.GeneratePair(&models.User{ID: uuid.New()})
	require.NoError(t, err)

	// refresh подписан другим секретом, как access он невалиден
	_, err = tm.ParseAccess(pair.RefreshToken)
	assert.Error(t, err)
}

func TestParseAccess_ExpiredToken(t *testing.T) {
	tm := NewTokenManager("access-secret", "refresh-secret", -time.Minute, time.Hour)

	pair, _, err := tm.GeneratePair(&models.User{ID: uuid.New()})
	require.NoError(t, err)

	_, err = tm.ParseAccess(pair.AccessToken)
	assert.Error(t, err)
}

func TestParseRefresh_RoundTrip(t *testing.T) {
	tm := newTestTokenManager()
	user := &models.User{ID: uuid.New()}

	pair, _, err := tm.GeneratePair(user)
	require.NoError(t, err)

	claims, err := tm.ParseRefresh(pair.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, user.ID.String(), claims.Subject)
	assert.NotEmpty(t, claims.ID)
}

func TestParseAccess_Garbage(t *testing.T) {
	tm := newTestTokenManager()

	_, err := tm.ParseAccess("not-a-jwt")
	assert.Error(t, err)
}
