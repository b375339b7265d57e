package repositories

import (
	"context"
	"testing"

	"lumbung/internal/config"
	"lumbung/internal/repositories/cache"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenMemoryWithoutRedis(t *testing.T) {
	cfg := config.FromEnv()
	cfg.DB.Driver = "memory"
	cfg.Redis.Enabled = false

	store, userCache, err := Open(context.Background(), cfg)
	require.NoError(t, err)
	assert.IsType(t, &MemoryStore{}, store)
	assert.IsType(t, cache.Noop{}, userCache)
	assert.NoError(t, store.Ping(context.Background()))
}

func TestOpenUnknownDriver(t *testing.T) {
	cfg := config.FromEnv()
	cfg.DB.Driver = "sqlite"
	cfg.Redis.Enabled = false

	_, _, err := Open(context.Background(), cfg)
	assert.ErrorContains(t, err, "unknown DB_DRIVER")
}
