package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("SERVER_ADDR", "")
	t.Setenv("DARWIN_MAX_ASSOCIATIONS", "")

	cfg := Load()

	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, "https://national-rail-api.davwheat.dev", cfg.Darwin.BaseURL)
	assert.Equal(t, 60, cfg.Darwin.MaxAssociations)
	assert.Equal(t, 2*time.Minute, cfg.Darwin.ServiceCacheTTL)
	assert.Empty(t, cfg.Darwin.CacheRedisAddr)
	assert.Equal(t, 100_000, cfg.Presets.MaxStateBytes)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("SERVER_ADDR", ":9999")
	t.Setenv("DARWIN_CONCURRENCY", "8")
	t.Setenv("DARWIN_REQUEST_DEADLINE", "3s")
	t.Setenv("DB_PATH", "/tmp/presets.db")
	t.Setenv("DARWIN_CACHE_REDIS_ADDR", "localhost:6379")

	cfg := Load()

	assert.Equal(t, ":9999", cfg.Server.Addr)
	assert.Equal(t, 8, cfg.Darwin.Concurrency)
	assert.Equal(t, 3*time.Second, cfg.Darwin.RequestDeadline)
	assert.Equal(t, "/tmp/presets.db", cfg.Database.Path)
	assert.Equal(t, "localhost:6379", cfg.Darwin.CacheRedisAddr)
}

func TestLoadIgnoresMalformedValues(t *testing.T) {
	t.Setenv("DARWIN_CONCURRENCY", "lots")
	t.Setenv("DARWIN_TIMEOUT", "soon")

	cfg := Load()

	assert.Equal(t, 4, cfg.Darwin.Concurrency)
	assert.Equal(t, 15*time.Second, cfg.Darwin.Timeout)
}
