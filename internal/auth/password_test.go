package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashPasswordRoundTrip(t *testing.T) {
	hash, err := HashPassword("abcd1234")
	require.NoError(t, err)
	assert.NotEqual(t, "abcd1234", hash)
	assert.True(t, CheckPassword("abcd1234", hash))
	assert.False(t, CheckPassword("abcd12345", hash))
}

func TestHashPasswordSaltsEachHash(t *testing.T) {
	first, err := HashPassword("abcd1234")
	require.NoError(t, err)
	second, err := HashPassword("abcd1234")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
	assert.True(t, CheckPassword("abcd1234", first))
	assert.True(t, CheckPassword("abcd1234", second))
}

func TestCheckPasswordFailsClosed(t *testing.T) {
	assert.False(t, CheckPassword("abcd1234", ""))
	assert.False(t, CheckPassword("abcd1234", "not-a-bcrypt-hash"))
}
