package utils

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/iliyamo/hotel-reservation/internal/model"
)

func TestAccessTokenRoundTrip(t *testing.T) {
	tok, err := NewAccessToken("secret", 42, model.RoleReception, "sid-1", 15)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(15*time.Minute), tok.Exp, 5*time.Second)

	claims, err := ParseAccessToken("secret", tok.Token)
	require.NoError(t, err)
	id, err := claims.UserID()
	require.NoError(t, err)
	assert.Equal(t, uint64(42), id)
	assert.Equal(t, model.RoleReception, claims.Role)
	assert.Equal(t, "sid-1", claims.SessionID)
}

func TestParseAccessTokenRejects(t *testing.T) {
	good, err := NewAccessToken("secret", 1, model.RoleAdmin, "sid", 15)
	require.NoError(t, err)
	_, err = ParseAccessToken("other", good.Token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	expired, err := NewAccessToken("secret", 1, model.RoleAdmin, "sid", -1)
	require.NoError(t, err)
	_, err = ParseAccessToken("secret", expired.Token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	noSession, err := NewAccessToken("secret", 1, model.RoleAdmin, "", 15)
	require.NoError(t, err)
	_, err = ParseAccessToken("secret", noSession.Token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	badRole := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		Role:             "OWNER",
		SessionID:        "sid",
		RegisteredClaims: jwt.RegisteredClaims{Subject: "1"},
	})
	raw, err := badRole.SignedString([]byte("secret"))
	require.NoError(t, err)
	_, err = ParseAccessToken("secret", raw)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = ParseAccessToken("secret", "garbage")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestRefreshToken(t *testing.T) {
	a, err := NewRefreshToken(7)
	require.NoError(t, err)
	b, err := NewRefreshToken(7)
	require.NoError(t, err)

	assert.Len(t, a.Raw, 96)
	assert.NotEqual(t, a.Raw, b.Raw)
	assert.Len(t, HashRefreshRaw(a.Raw), 64)
	assert.Equal(t, HashRefreshRaw(a.Raw), HashRefreshRaw(a.Raw))
	assert.NotEqual(t, a.Raw, HashRefreshRaw(a.Raw))
}

func TestPassword(t *testing.T) {
	hash, err := HashPassword("hunter2", bcrypt.MinCost)
	require.NoError(t, err)
	assert.True(t, VerifyPassword(hash, "hunter2"))
	assert.False(t, VerifyPassword(hash, "hunter3"))
}

func TestNewSessionID(t *testing.T) {
	assert.NotEqual(t, NewSessionID(), NewSessionID())
	assert.Len(t, NewSessionID(), 36)
}

func TestHashPasswordRejectsEmpty(t *testing.T) {
	_, err := HashPassword("", bcrypt.MinCost)
	assert.ErrorIs(t, err, ErrEmptyPassword)
}

func TestHashPasswordClampsCost(t *testing.T) {
	hash, err := HashPassword("pw", 99)
	require.NoError(t, err)
	cost, err := bcrypt.Cost([]byte(hash))
	require.NoError(t, err)
	assert.Equal(t, bcrypt.DefaultCost, cost)
}
