package hasher

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashPasswordRoundTrip(t *testing.T) {
	hash, err := HashPassword("grower")
	require.NoError(t, err)
	assert.True(t, PasswordCorrect("grower", hash))
	assert.False(t, PasswordCorrect("Grower", hash))
	assert.False(t, PasswordCorrect("grower", "not-a-hash"))
}

func TestGenerateToken(t *testing.T) {
	a, err := GenerateToken(32)
	require.NoError(t, err)
	b, err := GenerateToken(32)
	require.NoError(t, err)
	assert.NotEmpty(t, a)
	assert.NotEqual(t, a, b)
}
