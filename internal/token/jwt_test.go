package token

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestManager() *Manager {
	return NewManager("access-secret", "refresh-secret", 15*time.Minute, 7*24*time.Hour)
}

func TestManager_RoundTrip(t *testing.T) {
	m := newTestManager()

	pair, err := m.GeneratePair("user-1")
	require.NoError(t, err)
	assert.NotEqual(t, pair.AccessToken, pair.RefreshToken)

	id, err := m.ParseAccessToken(pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "user-1", id)

	id, err = m.ParseRefreshToken(pair.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, "user-1", id)
}

func TestManager_TypesAreNotInterchangeable(t *testing.T) {
	m := newTestManager()

	pair, err := m.GeneratePair("user-1")
	require.NoError(t, err)

	_, err = m.ParseAccessToken(pair.RefreshToken)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = m.ParseRefreshToken(pair.AccessToken)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestManager_SameSecretStillChecksType(t *testing.T) {
	m := NewManager("shared", "shared", time.Minute, time.Hour)

	refresh, err := m.GenerateRefreshToken("user-1")
	require.NoError(t, err)

	_, err = m.ParseAccessToken(refresh)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestManager_Expired(t *testing.T) {
	m := newTestManager()
	m.now = func() time.Time { return time.Now().Add(-time.Hour) }

	access, err := m.GenerateAccessToken("user-1")
	require.NoError(t, err)

	m.now = time.Now
	_, err = m.ParseAccessToken(access)
	assert.ErrorIs(t, err, ErrInvalidToken)
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)
}

func TestManager_WrongSecret(t *testing.T) {
	access, err := newTestManager().GenerateAccessToken("user-1")
	require.NoError(t, err)

	other := NewManager("other", "refresh-secret", time.Minute, time.Hour)
	_, err = other.ParseAccessToken(access)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestManager_RejectsOtherAlgorithms(t *testing.T) {
	m := newTestManager()

	tok := jwt.NewWithClaims(jwt.SigningMethodHS512, Claims{UserID: "user-1", TokenType: typeAccess})
	signed, err := tok.SignedString([]byte("access-secret"))
	require.NoError(t, err)

	_, err = m.ParseAccessToken(signed)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestManager_Garbage(t *testing.T) {
	_, err := newTestManager().ParseAccessToken("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
