package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadRateLimitConfigClampsBadValues(t *testing.T) {
	t.Setenv("RATE_LIMIT_CAPACITY", "0")
	t.Setenv("RATE_LIMIT_REFILL_TOKENS", "-2")
	t.Setenv("RATE_LIMIT_REFILL_INTERVAL", "garbage")
	t.Setenv("RATE_LIMIT_TTL", "1s")

	cfg := LoadRateLimitConfig()
	assert.Equal(t, 1, cfg.Capacity)
	assert.Equal(t, 1, cfg.RefillTokens)
	assert.Equal(t, time.Second, cfg.RefillInterval)
	assert.Equal(t, 5*time.Second, cfg.TTL, "ttl is raised to five refill intervals")
}

func TestLoadRateLimitConfigReadsEnv(t *testing.T) {
	t.Setenv("RATE_LIMIT_ENABLED", "false")
	t.Setenv("RATE_LIMIT_CAPACITY", "100")
	t.Setenv("RATE_LIMIT_REFILL_INTERVAL", "250ms")
	t.Setenv("RATE_LIMIT_TTL", "30m")
	t.Setenv("RATE_LIMIT_KEY_STRATEGY", "ip")

	cfg := LoadRateLimitConfig()
	assert.False(t, cfg.Enabled)
	assert.Equal(t, 100, cfg.Capacity)
	assert.Equal(t, 250*time.Millisecond, cfg.RefillInterval)
	assert.Equal(t, 30*time.Minute, cfg.TTL)
	assert.Equal(t, "ip", cfg.KeyStrategy)
}
