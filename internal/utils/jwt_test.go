package utils

import (
	"testing"
	"time"

	"lumbung/internal/models"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndParseToken(t *testing.T) {
	user := &models.User{ID: 7, Email: "budi@example.com", Role: models.RoleRecycler, TokenVersion: 3}

	token, err := GenerateToken("secret", time.Hour, user)
	require.NoError(t, err)

	claims, err := ParseToken("secret", token)
	require.NoError(t, err)
	assert.Equal(t, uint(7), claims.UserID)
	assert.Equal(t, models.RoleRecycler, claims.Role)
	assert.Equal(t, 3, claims.TokenVersion)
	assert.Equal(t, "7", claims.Subject)
}

func TestParseTokenRejectsWrongSecret(t *testing.T) {
	user := &models.User{ID: 1, Role: models.RoleProducer}
	token, err := GenerateToken("secret", time.Hour, user)
	require.NoError(t, err)

	_, err = ParseToken("other", token)
	assert.Error(t, err)
}

func TestParseTokenRejectsExpired(t *testing.T) {
	user := &models.User{ID: 1, Role: models.RoleProducer}
	token, err := GenerateToken("secret", -time.Minute, user)
	require.NoError(t, err)

	_, err = ParseToken("secret", token)
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)
}

func TestTokenRequiresSecret(t *testing.T) {
	_, err := GenerateToken("", time.Hour, &models.User{})
	assert.ErrorIs(t, err, ErrMissingSecret)

	_, err = ParseToken("", "anything")
	assert.ErrorIs(t, err, ErrMissingSecret)
}
