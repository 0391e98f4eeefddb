package auth

import (
	"crypto/rand"
	"crypto/rsa"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenRoundTrip(t *testing.T) {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	token, err := GenerateToken("42", "alice@example.com", "Alice", "Smith", "admin", key, time.Hour)
	require.NoError(t, err)

	claims, err := ParseToken(token, &key.PublicKey)
	require.NoError(t, err)
	assert.Equal(t, "42", claims.UserID)
	assert.Equal(t, "alice@example.com", claims.Email)
	assert.Equal(t, "Alice", claims.FirstName)
	assert.Equal(t, "Smith", claims.LastName)
	assert.Equal(t, "admin", claims.Role)
}

func TestParseTokenRejectsExpired(t *testing.T) {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	token, err := GenerateToken("42", "a@example.com", "A", "B", "user", key, -time.Minute)
	require.NoError(t, err)

	_, err = ParseToken(token, &key.PublicKey)
	assert.Error(t, err)
}

func TestParseTokenRejectsWrongKey(t *testing.T) {
	signer, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	other, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	token, err := GenerateToken("42", "a@example.com", "A", "B", "user", signer, time.Hour)
	require.NoError(t, err)

	_, err = ParseToken(token, &other.PublicKey)
	assert.Error(t, err)
}
