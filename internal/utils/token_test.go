package utils

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/sofreh/internal/models"
)

const testSecret = "test-secret"

func TestTokenRoundTrip(t *testing.T) {
	userID := uuid.New()

	token, err := GenerateToken(testSecret, userID, models.RoleAdmin, time.Hour)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	parsedID, role, err := ParseToken(testSecret, token)
	require.NoError(t, err)
	assert.Equal(t, userID, parsedID)
	assert.Equal(t, models.RoleAdmin, role)
}

func TestTokenRejectsWrongSecret(t *testing.T) {
	token, err := GenerateToken(testSecret, uuid.New(), models.RoleCustomer, time.Hour)
	require.NoError(t, err)

	_, _, err = ParseToken("another-secret", token)
	assert.Error(t, err)
}

func TestTokenRejectsExpired(t *testing.T) {
	token, err := GenerateToken(testSecret, uuid.New(), models.RoleCustomer, -time.Minute)
	require.NoError(t, err)

	_, _, err = ParseToken(testSecret, token)
	assert.Error(t, err)
}

func TestTokenRejectsTampering(t *testing.T) {
	token, err := GenerateToken(testSecret, uuid.New(), models.RoleCustomer, time.Hour)
	require.NoError(t, err)

	tampered := token[:len(token)-2] + "xx"
	_, _, err = ParseToken(testSecret, tampered)
	assert.Error(t, err)
}

func TestTokenRejectsUnknownRole(t *testing.T) {
	token, err := GenerateToken(testSecret, uuid.New(), models.Role("superuser"), time.Hour)
	require.NoError(t, err)

	_, _, err = ParseToken(testSecret, token)
	assert.Error(t, err)
}
