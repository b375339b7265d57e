package repositories

import (
	"context"
	"fmt"
	"log"

	"lumbung/internal/config"
	"lumbung/internal/repositories/cache"
)

// Open builds the Store selected by cfg.DB.Driver, fronted by the Redis
// user cache when it is enabled and reachable.
func Open(ctx context.Context, cfg *config.Config) (Store, cache.UserCache, error) {
	userCache := openCache(ctx, cfg.Redis)

	switch cfg.DB.Driver {
	case "memory":
		log.Println("Using in-memory store, data is lost on restart")
		return NewMemoryStore(), userCache, nil
	case "postgres":
		store, err := InitDB(cfg.DB, userCache)
		if err != nil {
			userCache.Close()
			return nil, nil, err
		}
		return store, userCache, nil
	default:
		userCache.Close()
		return nil, nil, fmt.Errorf("unknown DB_DRIVER %q", cfg.DB.Driver)
	}
}

func openCache(ctx context.Context, cfg config.RedisConfig) cache.UserCache {
	if !cfg.Enabled {
		return cache.Noop{}
	}

	client := cache.NewRedisClient(&cache.RedisConfig{
		Host:     cfg.Host,
		Port:     cfg.Port,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	svc := cache.NewCacheService(client, cfg.TTL)
	if err := svc.HealthCheck(ctx); err != nil {
		log.Printf("Redis unavailable, continuing without user cache: %v", err)
		svc.Close()
		return cache.Noop{}
	}
	log.Println("Connected to Redis user cache")
	return svc
}
