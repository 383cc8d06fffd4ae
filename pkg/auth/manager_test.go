package auth

import (
	"testing"
	"time"

	"github.com/braz-finance/backend/internal/config"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManager_NewJWTAndParse(t *testing.T) {
	manager, err := NewManager(config.JWTConfig{
		AccessTokenTTL:  15 * time.Minute,
		RefreshTokenTTL: 240 * time.Hour,
		SigningKey:      "test-signing-key",
	})
	require.NoError(t, err)

	userID := uuid.New()
	token, ttl, err := manager.NewJWT(&userID)
	require.NoError(t, err)
	assert.Equal(t, 15*time.Minute, ttl)

	sub, err := manager.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, userID.String(), sub)
}

func TestManager_ParseRejectsForeignToken(t *testing.T) {
	manager, err := NewManager(config.JWTConfig{
		AccessTokenTTL:  time.Minute,
		RefreshTokenTTL: time.Hour,
		SigningKey:      "key-one",
	})
	require.NoError(t, err)

	other, err := NewManager(config.JWTConfig{
		AccessTokenTTL:  time.Minute,
		RefreshTokenTTL: time.Hour,
		SigningKey:      "key-two",
	})
	require.NoError(t, err)

	userID := uuid.New()
	token, _, err := other.NewJWT(&userID)
	require.NoError(t, err)

	_, err = manager.Parse(token)
	assert.Error(t, err)
}

func TestManager_EmptySigningKey(t *testing.T) {
	_, err := NewManager(config.JWTConfig{
		AccessTokenTTL:  time.Minute,
		RefreshTokenTTL: time.Hour,
	})
	assert.Error(t, err)
}
