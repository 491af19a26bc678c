package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestTokenRoundTrip(t *testing.T) {
	issued := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	token, err := GenerateToken("secret", "account-1", issued, time.Hour)
	require.NoError(t, err)

	sub, err := ParseToken("secret", token, issued.Add(30*time.Minute))
	require.NoError(t, err)
	assert.Equal(t, "account-1", sub)

	_, err = ParseToken("secret", token, issued.Add(2*time.Hour))
	assert.Error(t, err)
	_, err = ParseToken("other", token, issued)
	assert.Error(t, err)

	_, err = GenerateToken("", "account-1", issued, time.Hour)
	assert.Error(t, err)
}

func TestPasswordHash(t *testing.T) {
	hash, err := HashPassword("admin123", bcrypt.MinCost)
	require.NoError(t, err)
	assert.True(t, CheckPasswordHash("admin123", hash))
	assert.False(t, CheckPasswordHash("admin124", hash))
	assert.False(t, CheckPasswordHash("admin123", "not-a-hash"))
}

func TestBearerToken(t *testing.T) {
	assert.Equal(t, "abc", BearerToken("Bearer abc"))
	assert.Equal(t, "abc", BearerToken("bearer  abc "))
	assert.Equal(t, "abc", BearerToken("abc"))
	assert.Equal(t, "", BearerToken(""))
}

func TestGenerateJWTSecret(t *testing.T) {
	a, err := GenerateJWTSecret()
	require.NoError(t, err)
	b, err := GenerateJWTSecret()
	require.NoError(t, err)
	assert.Len(t, a, 44)
	assert.NotEqual(t, a, b)
}
