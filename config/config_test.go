package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:8080", cfg.HTTPAddr)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "mongodb://localhost:27017", cfg.MongoURI)
	assert.Equal(t, "storefront", cfg.MongoDBName)
	assert.Equal(t, CacheBackendMemory, cfg.CacheBackend)
	assert.Equal(t, 30*24*time.Hour, cfg.SessionCacheTTL)
	assert.Equal(t, 10*time.Second, cfg.BootstrapTimeout)
	assert.Empty(t, cfg.FederationClientID)
}

func TestLoadConfigEnvOverrides(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	t.Setenv("STOREFRONT_HTTP_ADDR", "127.0.0.1:9090")
	t.Setenv("STOREFRONT_CACHE_BACKEND", "redis")
	t.Setenv("STOREFRONT_REDIS_ADDR", "redis.internal:6379")
	t.Setenv("STOREFRONT_SESSION_CACHE_TTL", "1h")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:9090", cfg.HTTPAddr)
	assert.Equal(t, CacheBackendRedis, cfg.CacheBackend)
	assert.Equal(t, "redis.internal:6379", cfg.RedisAddr)
	assert.Equal(t, time.Hour, cfg.SessionCacheTTL)
}
