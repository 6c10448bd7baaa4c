package jwt

import (
	"testing"
	"time"

	"chat-app/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService() *JWTService {
	return NewJWTService(config.JWTConfig{
		Secret:     "test-secret",
		ExpireTime: time.Hour,
		Issuer:     "chat-app",
	})
}

func TestGenerateAndValidateToken(t *testing.T) {
	svc := newTestService()

	signed, err := svc.GenerateToken(42, "alice", "alice@example.com")
	require.NoError(t, err)
	require.NotEmpty(t, signed)

	claims, err := svc.ValidateToken(signed)
	require.NoError(t, err)
	assert.Equal(t, uint(42), claims.UserID)
	assert.Equal(t, "alice", claims.Username)
	assert.Equal(t, "alice@example.com", claims.Email)
	assert.Equal(t, "chat-app", claims.Issuer)
}

func TestGenerateToken_RequiresUserID(t *testing.T) {
	svc := newTestService()
	_, err := svc.GenerateToken(0, "alice", "alice@example.com")
	require.Error(t, err)
}

func TestValidateToken_Invalid(t *testing.T) {
	svc := newTestService()

	_, err := svc.ValidateToken("")
	assert.Error(t, err)

	_, err = svc.ValidateToken("not-a-jwt")
	assert.Error(t, err)
}

func TestValidateToken_WrongSecret(t *testing.T) {
	svc := newTestService()
	signed, err := svc.GenerateToken(1, "alice", "alice@example.com")
	require.NoError(t, err)

	other := NewJWTService(config.JWTConfig{
		Secret:     "another-secret",
		ExpireTime: time.Hour,
		Issuer:     "chat-app",
	})
	_, err = other.ValidateToken(signed)
	assert.Error(t, err)
}

func TestValidateToken_WrongIssuer(t *testing.T) {
	issued := NewJWTService(config.JWTConfig{
		Secret:     "test-secret",
		ExpireTime: time.Hour,
		Issuer:     "someone-else",
	})
	signed, err := issued.GenerateToken(1, "alice", "alice@example.com")
	require.NoError(t, err)

	_, err = newTestService().ValidateToken(signed)
	assert.Error(t, err)
}

func TestValidateToken_Expired(t *testing.T) {
	expired := NewJWTService(config.JWTConfig{
		Secret:     "test-secret",
		ExpireTime: -time.Minute,
		Issuer:     "chat-app",
	})
	signed, err := expired.GenerateToken(1, "alice", "alice@example.com")
	require.NoError(t, err)

	_, err = newTestService().ValidateToken(signed)
	assert.Error(t, err)
}
