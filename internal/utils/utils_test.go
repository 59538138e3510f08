package utils

import (
	"strings"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestAccessTokenRoundTrip(t *testing.T) {
	at, err := NewAccessToken("secret", "u-1", "ada@example.com", "admin", 15)
	require.NoError(t, err)

	claims, err := ParseAccessToken("secret", at.Token)
	require.NoError(t, err)
	assert.Equal(t, "u-1", claims.Subject)
	assert.Equal(t, "admin", claims.Role)
	assert.Equal(t, "ada@example.com", claims.Email)
}

func TestParseAccessTokenRejects(t *testing.T) {
	at, err := NewAccessToken("secret", "u-1", "", "member", 15)
	require.NoError(t, err)
	_, err = ParseAccessToken("other", at.Token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	expired, err := NewAccessToken("secret", "u-1", "", "member", -5)
	require.NoError(t, err)
	_, err = ParseAccessToken("secret", expired.Token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	none := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{"sub": "u-1"})
	s, err := none.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = ParseAccessToken("secret", s)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestRefreshTokenHash(t *testing.T) {
	rt, err := NewRefreshToken(7)
	require.NoError(t, err)
	assert.Len(t, rt.Raw, 96)
	assert.Len(t, HashRefreshRaw(rt.Raw), 64)
	assert.Equal(t, HashRefreshRaw(rt.Raw), HashRefreshRaw(rt.Raw))
	assert.NotEqual(t, rt.Raw, HashRefreshRaw(rt.Raw))
}

func TestPassword(t *testing.T) {
	h, err := HashPassword("hunter22", bcrypt.MinCost)
	require.NoError(t, err)
	assert.True(t, VerifyPassword(h, "hunter22"))
	assert.False(t, VerifyPassword(h, "hunter23"))
	assert.False(t, VerifyPassword("not-a-hash", "hunter22"))

	h, err = HashPassword("hunter22", 0)
	require.NoError(t, err)
	cost, err := bcrypt.Cost([]byte(h))
	require.NoError(t, err)
	assert.Equal(t, bcrypt.DefaultCost, cost)

	_, err = HashPassword(strings.Repeat("é", 40), bcrypt.MinCost)
	assert.ErrorIs(t, err, ErrPasswordTooLong)
}
