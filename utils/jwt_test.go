package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenServiceRoundtrip(t *testing.T) {
	svc := NewTokenService("secret", 15*time.Minute, 7*24*time.Hour)

	token, err := svc.GenerateAccessToken("64f000000000000000000001", "ama@example.com", "citizen")
	require.NoError(t, err)

	claims, err := svc.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, "64f000000000000000000001", claims.UserID)
	assert.Equal(t, "ama@example.com", claims.Email)
	assert.Equal(t, "citizen", claims.Role)
	assert.WithinDuration(t, time.Now().Add(15*time.Minute), claims.ExpiresAt.Time, time.Minute)
}

func TestValidateCollapsesAllFailures(t *testing.T) {
	svc := NewTokenService("secret", 15*time.Minute, 7*24*time.Hour)

	// expired
	expiredSvc := NewTokenService("secret", -time.Minute, -time.Minute)
	expired, err := expiredSvc.GenerateAccessToken("id", "a@x.com", "citizen")
	require.NoError(t, err)

	// wrong secret
	otherSvc := NewTokenService("other-secret", 15*time.Minute, 7*24*time.Hour)
	foreign, err := otherSvc.GenerateAccessToken("id", "a@x.com", "citizen")
	require.NoError(t, err)

	for name, token := range map[string]string{
		"expired":      expired,
		"wrong secret": foreign,
		"malformed":    "not.a.jwt",
		"empty":        "",
	} {
		_, err := svc.Validate(token)
		assert.ErrorIs(t, err, ErrInvalidToken, name)
	}
}

func TestRefreshTokenOutlivesAccessToken(t *testing.T) {
	svc := NewTokenService("secret", 15*time.Minute, 7*24*time.Hour)

	access, err := svc.GenerateAccessToken("id", "a@x.com", "citizen")
	require.NoError(t, err)
	refresh, err := svc.GenerateRefreshToken("id", "a@x.com", "citizen")
	require.NoError(t, err)

	accessClaims, err := svc.Validate(access)
	require.NoError(t, err)
	refreshClaims, err := svc.Validate(refresh)
	require.NoError(t, err)

	assert.True(t, refreshClaims.ExpiresAt.After(accessClaims.ExpiresAt.Time))
}
