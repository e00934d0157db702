package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestValidRole(t *testing.T) {
	assert.True(t, ValidRole(RoleAdmin))
	assert.True(t, ValidRole(RoleUser))
	assert.True(t, ValidRole(RoleServiceManager))
	assert.False(t, ValidRole("WIZARD"))
	assert.False(t, ValidRole(""))
	assert.False(t, ValidRole("admin"), "roles are case sensitive; handlers upper-case input")
}

func TestSessionExpired(t *testing.T) {
	now := time.Now().UTC()
	s := Session{ExpiresAt: now.Add(time.Hour)}
	assert.False(t, s.Expired(now))
	assert.True(t, s.Expired(now.Add(2*time.Hour)))
	assert.True(t, s.Expired(s.ExpiresAt), "a session expiring exactly now is expired")
}
