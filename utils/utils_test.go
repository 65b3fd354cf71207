package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("s3cret-pass")
	require.NoError(t, err)
	require.NotEqual(t, "s3cret-pass", hash)

	assert.NoError(t, CheckPassword(hash, "s3cret-pass"))
	assert.Error(t, CheckPassword(hash, "wrong-pass"))
}

func TestGenerateOTPIsSixDigits(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		code, err := GenerateOTP()
		require.NoError(t, err)
		require.Len(t, code, 6)
		for _, r := range code {
			require.True(t, r >= '0' && r <= '9', "unexpected rune %q in %q", r, code)
		}
		seen[code] = true
	}
	// uniform randomness over 900000 values should not collapse to a
	// handful of codes
	assert.Greater(t, len(seen), 90)
}

func TestGenerateVerificationToken(t *testing.T) {
	a, err := GenerateVerificationToken()
	require.NoError(t, err)
	b, err := GenerateVerificationToken()
	require.NoError(t, err)

	assert.Len(t, a, 64) // 32 bytes hex-encoded
	assert.Regexp(t, "^[0-9a-f]{64}$", a)
	assert.NotEqual(t, a, b)
}

func TestGenerateSlug(t *testing.T) {
	cases := map[string]string{
		"Broken Street Light":   "broken-street-light",
		"  Déjà vu!  ":          "deja-vu",
		"UPPER lower 42":        "upper-lower-42",
		"---":                   "",
		"route nationale n°3 !": "route-nationale-n-3",
	}
	for in, want := range cases {
		assert.Equal(t, want, GenerateSlug(in), "slug of %q", in)
	}
}

func TestTTLDefaults(t *testing.T) {
	t.Setenv("ACCESS_TOKEN_TTL_MINUTES", "")
	t.Setenv("REFRESH_TOKEN_TTL_DAYS", "")
	t.Setenv("OTP_TTL_MINUTES", "")

	assert.Equal(t, "15m0s", AccessTTL().String())
	assert.Equal(t, "168h0m0s", RefreshTTL().String())
	assert.Equal(t, "5m0s", OTPTTL().String())
}
