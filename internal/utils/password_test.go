package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestPasswordRoundTrip(t *testing.T) {
	hash, err := HashPassword("hunter2", bcrypt.MinCost)
	require.NoError(t, err)

	assert.NotEqual(t, "hunter2", hash)
	assert.True(t, VerifyPassword(hash, "hunter2"))
	assert.False(t, VerifyPassword(hash, "hunter3"))
}

func TestHashPasswordClampsBadCost(t *testing.T) {
	// An out-of-range cost must not break hashing.
	hash, err := HashPassword("pw", 9999)
	require.NoError(t, err)
	assert.True(t, VerifyPassword(hash, "pw"))
}
