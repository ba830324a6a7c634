package auth_test

import (
	"testing"
	"time"

	"github.com/harshavardhan-hub/task-collab-platform/internal/auth"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

const testSecret = "test-secret-key"

func TestGenerateAndParseToken(t *testing.T) {
	// Generate a token
	userID := uuid.New()
	token, err := auth.GenerateToken(userID, testSecret, 24*time.Hour)

	assert.NoError(t, err)
	assert.NotEmpty(t, token)

	// Parse it back
	parsedUserID, err := auth.ParseToken(token, testSecret)

	assert.NoError(t, err)
	assert.Equal(t, userID, parsedUserID)
}

func TestParseToken_InvalidToken(t *testing.T) {
	_, err := auth.ParseToken("invalid-token", testSecret)

	assert.Error(t, err)
	assert.Equal(t, "invalid token", err.Error())
}

func TestParseToken_WrongSecret(t *testing.T) {
	token, err := auth.GenerateToken(uuid.New(), "another-secret", 24*time.Hour)
	assert.NoError(t, err)

	_, err = auth.ParseToken(token, testSecret)

	assert.Error(t, err)
	assert.Equal(t, "invalid token", err.Error())
}

func TestParseToken_ExpiredToken(t *testing.T) {
	// Token that expired an hour ago
	claims := jwt.MapClaims{
		"user_id": uuid.New().String(),
		"exp":     time.Now().Add(-1 * time.Hour).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	expiredToken, _ := token.SignedString([]byte(testSecret))

	_, err := auth.ParseToken(expiredToken, testSecret)

	assert.Error(t, err)
	assert.Equal(t, "invalid token", err.Error())
}

func TestParseToken_MissingClaims(t *testing.T) {
	// Token without a user_id claim
	claims := jwt.MapClaims{
		"exp": time.Now().Add(24 * time.Hour).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenWithoutUserID, _ := token.SignedString([]byte(testSecret))

	_, err := auth.ParseToken(tokenWithoutUserID, testSecret)

	assert.Error(t, err)
	assert.Equal(t, "invalid claims", err.Error())
}

func TestParseToken_MalformedUserID(t *testing.T) {
	claims := jwt.MapClaims{
		"user_id": "not-a-valid-uuid",
		"exp":     time.Now().Add(24 * time.Hour).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	badToken, _ := token.SignedString([]byte(testSecret))

	_, err := auth.ParseToken(badToken, testSecret)

	assert.Error(t, err)
}
