package jwt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSSEToken_RoundTrip(t *testing.T) {
	svc, err := NewJWTService("secret", "1h")
	require.NoError(t, err)

	token, expiresIn, err := svc.GenerateSSEToken("u1")
	require.NoError(t, err)
	assert.Equal(t, 300, expiresIn)

	userID, err := svc.ValidateSSEToken(token)
	require.NoError(t, err)
	assert.Equal(t, "u1", userID)
}

func TestSSEToken_RejectsAccessToken(t *testing.T) {
	svc, err := NewJWTService("secret", "1h")
	require.NoError(t, err)

	access, _, err := svc.GenerateAccessToken("u1")
	require.NoError(t, err)

	_, err = svc.ValidateSSEToken(access)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = svc.ValidateSSEToken("garbage")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestNewJWTService_InvalidExpiration(t *testing.T) {
	_, err := NewJWTService("secret", "forever")
	assert.Error(t, err)
}
