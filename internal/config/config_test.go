package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFromEnvDefaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("DB_DRIVER", "")

	cfg := FromEnv()

	assert.Equal(t, "8000", cfg.Port)
	assert.Equal(t, "postgres", cfg.DB.Driver)
	assert.Equal(t, int64(5*1024*1024), cfg.MaxUploadSize)
	assert.Equal(t, 24*time.Hour, cfg.JWTExpiration)
	assert.False(t, cfg.IsProduction())
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv("ENV", "production")
	t.Setenv("DB_DRIVER", "memory")
	t.Setenv("REDIS_ENABLED", "true")
	t.Setenv("JWT_EXPIRES_IN", "90m")
	t.Setenv("DB_MAX_OPEN_CONNS", "not-a-number")

	cfg := FromEnv()

	assert.True(t, cfg.IsProduction())
	assert.Equal(t, "memory", cfg.DB.Driver)
	assert.True(t, cfg.Redis.Enabled)
	assert.Equal(t, 90*time.Minute, cfg.JWTExpiration)
	assert.Equal(t, 100, cfg.DB.MaxOpenConns)
}
