package token

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerate(t *testing.T) {
	plain, hashed, expiresAt, err := Generate(EmailVerificationTTL)
	require.NoError(t, err)

	// 32字节随机数的十六进制表示
	assert.Len(t, plain, 64)
	assert.NotEqual(t, plain, hashed)
	assert.Equal(t, HashToken(plain), hashed)

	assert.True(t, expiresAt.After(time.Now().Add(23*time.Hour)))
	assert.True(t, expiresAt.Before(time.Now().Add(25*time.Hour)))
}

func TestGenerate_Unique(t *testing.T) {
	p1, _, _, err := Generate(PasswordResetTTL)
	require.NoError(t, err)
	p2, _, _, err := Generate(PasswordResetTTL)
	require.NoError(t, err)
	assert.NotEqual(t, p1, p2)
}

func TestHashToken_Deterministic(t *testing.T) {
	assert.Equal(t, HashToken("abc"), HashToken("abc"))
	assert.NotEqual(t, HashToken("abc"), HashToken("abd"))
	// SHA-256 的十六进制长度
	assert.Len(t, HashToken("abc"), 64)
}
