package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndVerify(t *testing.T) {
	manager := NewJWTManager("test-secret", 3600)

	token, err := manager.Generate("user-123")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	userID, err := manager.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "user-123", userID)
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
	token, err := NewJWTManager("secret-a", 3600).Generate("user-123")
	require.NoError(t, err)

	_, err = NewJWTManager("secret-b", 3600).Verify(token)
	assert.Error(t, err)
}

func TestVerifyRejectsExpiredToken(t *testing.T) {
	token, err := NewJWTManager("test-secret", -60).Generate("user-123")
	require.NoError(t, err)

	_, err = NewJWTManager("test-secret", -60).Verify(token)
	assert.Error(t, err)
}

func TestVerifyRejectsGarbage(t *testing.T) {
	_, err := NewJWTManager("test-secret", 3600).Verify("not-a-token")
	assert.Error(t, err)
}
