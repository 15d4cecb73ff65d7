package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-at-least-32-characters-long"

func TestGenerateAndVerify(t *testing.T) {
	tm := NewTokenManager(testSecret, 10*time.Minute)

	token, err := tm.Generate(42, "+250788123456", RoleFarmer)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := tm.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, int64(42), claims.UserID)
	assert.Equal(t, RoleFarmer, claims.Role)
	assert.Equal(t, "+250788123456", claims.Subject)
}

func TestVerifyExpiredToken(t *testing.T) {
	tm := NewTokenManager(testSecret, -time.Minute)

	token, err := tm.Generate(1, "admin@store.test", RoleAdmin)
	require.NoError(t, err)

	_, err = tm.Verify(token)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestVerifyWrongSecret(t *testing.T) {
	tm := NewTokenManager(testSecret, 10*time.Minute)
	other := NewTokenManager("another-secret-also-32-characters-xx", 10*time.Minute)

	token, err := tm.Generate(1, "x", RoleFarmer)
	require.NoError(t, err)

	_, err = other.Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyGarbage(t *testing.T) {
	tm := NewTokenManager(testSecret, 10*time.Minute)

	_, err := tm.Verify("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestPasswordHashRoundTrip(t *testing.T) {
	hash, err := HashPassword("s3cret-pass")
	require.NoError(t, err)
	assert.NotEqual(t, "s3cret-pass", hash)

	assert.True(t, CheckPassword("s3cret-pass", hash))
	assert.False(t, CheckPassword("wrong-pass", hash))
}
