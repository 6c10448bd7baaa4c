package password

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndVerify(t *testing.T) {
	hash, err := Hash("wonderland")
	require.NoError(t, err)
	assert.NotEqual(t, "wonderland", hash)
	assert.True(t, strings.HasPrefix(hash, "$2a$12$"))

	assert.True(t, Verify("wonderland", hash))
	assert.False(t, Verify("Wonderland", hash))
	assert.False(t, Verify("", hash))
}

func TestHash_Salted(t *testing.T) {
	h1, err := Hash("same-password")
	require.NoError(t, err)
	h2, err := Hash("same-password")
	require.NoError(t, err)
	assert.NotEqual(t, h1, h2)
}

func TestVerify_EmptyHash(t *testing.T) {
	assert.False(t, Verify("anything", ""))
}
