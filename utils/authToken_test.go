package utils

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	os.Setenv("SYMMETRIC_KEY", "0123456789abcdef0123456789abcdef")
	os.Exit(m.Run())
}

func TestGenerateAndValidateToken(t *testing.T) {
	claims := TokenClaims{
		UserID: "u1",
		Email:  "john@example.com",
		Name:   "John Doe",
		Role:   "PATIENT",
		Photo:  "https://example.com/p.png",
	}

	token, err := GenerateAccessToken(claims)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	parsed, err := ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "u1", parsed.UserID)
	assert.Equal(t, "john@example.com", parsed.Email)
	assert.Equal(t, "John Doe", parsed.Name)
	assert.Equal(t, "PATIENT", parsed.Role)
	assert.False(t, parsed.Expiry.IsZero())
}

func TestValidateTokenRoleCheck(t *testing.T) {
	token, err := GenerateAccessToken(TokenClaims{UserID: "d1", Role: "DOCTOR"})
	require.NoError(t, err)

	_, err = ValidateToken(token, "DOCTOR", "ADMIN")
	assert.NoError(t, err)

	_, err = ValidateToken(token, "ADMIN")
	assert.Error(t, err)
}

func TestValidateTokenGarbage(t *testing.T) {
	_, err := ValidateToken("not-a-token")
	assert.Error(t, err)
}

func TestGenerateTokensProducesBoth(t *testing.T) {
	access, refresh, err := GenerateTokens(TokenClaims{UserID: "u1", Role: "PATIENT"})
	require.NoError(t, err)
	assert.NotEmpty(t, access)
	assert.NotEmpty(t, refresh)
	assert.NotEqual(t, access, refresh)
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("S3cure!pass")
	require.NoError(t, err)
	assert.NotEqual(t, "S3cure!pass", hash)

	assert.True(t, CheckPassword(hash, "S3cure!pass"))
	assert.False(t, CheckPassword(hash, "wrong"))
}

func TestGenerateResetCode(t *testing.T) {
	code := GenerateResetCode()
	assert.Len(t, code, 6)
	for _, r := range code {
		assert.True(t, r >= '0' && r <= '9')
	}
}
