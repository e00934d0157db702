package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSessionToken(t *testing.T) {
	tok, err := NewSessionToken(24)
	require.NoError(t, err)

	assert.Len(t, tok.Raw, 96, "48 random bytes hex encoded")
	assert.Regexp(t, "^[0-9a-f]+$", tok.Raw)

	until := time.Until(tok.Exp)
	assert.InDelta(t, 24*time.Hour, until, float64(time.Minute))
}

func TestNewSessionTokenUnique(t *testing.T) {
	a, err := NewSessionToken(1)
	require.NoError(t, err)
	b, err := NewSessionToken(1)
	require.NoError(t, err)
	assert.NotEqual(t, a.Raw, b.Raw)
}

func TestHashTokenRawDeterministic(t *testing.T) {
	h1 := HashTokenRaw("some-token")
	h2 := HashTokenRaw("some-token")
	assert.Equal(t, h1, h2)
	assert.Len(t, h1, 64, "sha256 hex digest")
	assert.NotEqual(t, h1, HashTokenRaw("other-token"))
}
