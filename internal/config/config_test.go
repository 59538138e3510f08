package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadRateLimitConfig_Normalizes(t *testing.T) {
	t.Setenv("RATE_LIMIT_CAPACITY", "0")
	t.Setenv("RATE_LIMIT_REFILL_INTERVAL", "2s")
	t.Setenv("RATE_LIMIT_TTL", "1s")

	cfg := LoadRateLimitConfig()

	assert.Equal(t, 1, cfg.Capacity)
	assert.Equal(t, 2*time.Second, cfg.RefillInterval)
	assert.Equal(t, 10*time.Second, cfg.TTL, "ttl is raised to five refill intervals")
}

func TestLoadRateLimitConfig_Burst(t *testing.T) {
	t.Setenv("RATE_LIMIT_BURST", "7")
	assert.Equal(t, 7, LoadRateLimitConfig().Capacity)
}

func TestLoadCacheConfig_Defaults(t *testing.T) {
	t.Setenv("CACHE_METHODS", "get, head")
	cfg := LoadCacheConfig()

	assert.True(t, cfg.Enabled)
	assert.Equal(t, map[string]bool{"GET": true, "HEAD": true}, cfg.Methods)
	assert.Equal(t, 30*time.Second, cfg.TTL)
	assert.Equal(t, "catalog", cfg.Prefix)
}

func TestLoadRedisConfig_HostPortOverride(t *testing.T) {
	t.Setenv("REDIS_ADDR", "cache:6379")
	t.Setenv("REDIS_HOST", "redis.internal")
	t.Setenv("REDIS_PORT", "6380")
	t.Setenv("REDIS_TLS", "1")

	cfg := LoadRedisConfig()
	assert.Equal(t, "redis.internal:6380", cfg.Addr)
	assert.True(t, cfg.TLS)
}

func TestLoadQueueConfig_Fallbacks(t *testing.T) {
	t.Setenv("RABBITMQ_URL", "")
	t.Setenv("AMQP_URL", "amqp://user:pw@broker:5672/")
	assert.Equal(t, "amqp://user:pw@broker:5672/", LoadQueueConfig().URL)
}

func TestSplitList(t *testing.T) {
	assert.Equal(t, []string{"https://a.dev", "https://b.dev"}, splitList(" https://a.dev, ,https://b.dev "))
	assert.Nil(t, splitList(""))
}

func TestEnvHelpersFallBack(t *testing.T) {
	t.Setenv("X_BOOL", "Yes")
	t.Setenv("X_INT", "ten")
	t.Setenv("X_DUR", "  ")
	assert.True(t, envBool("X_BOOL", false))
	assert.Equal(t, 3, envInt("X_INT", 3))
	assert.Equal(t, time.Minute, envDur("X_DUR", time.Minute))
	assert.False(t, envBool("X_UNSET", false))
}
