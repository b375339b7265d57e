package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"lumbung/internal/models"

	"github.com/redis/go-redis/v9"
)

// UserCache keeps recently authenticated users out of the database.
type UserCache interface {
	GetUser(ctx context.Context, id uint) (*models.User, bool)
	CacheUser(ctx context.Context, user *models.User) error
	InvalidateUser(ctx context.Context, id uint) error
	HealthCheck(ctx context.Context) error
	Close() error
}

type CacheService struct {
	client *redis.Client
	ttl    time.Duration
}

func NewCacheService(client *redis.Client, defaultTTL time.Duration) *CacheService {
	return &CacheService{
		client: client,
		ttl:    defaultTTL,
	}
}

func (s *CacheService) Set(ctx context.Context, key string, value interface{}) error {
	return s.SetWithTTL(ctx, key, value, s.ttl)
}

func (s *CacheService) SetWithTTL(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal cache value: %w", err)
	}
	return s.client.Set(ctx, key, data, ttl).Err()
}

func (s *CacheService) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	data, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, fmt.Errorf("failed to get cache value: %w", err)
	}

	if err := json.Unmarshal(data, dest); err != nil {
		return false, fmt.Errorf("failed to unmarshal cache value: %w", err)
	}
	return true, nil
}

func (s *CacheService) Delete(ctx context.Context, keys ...string) error {
	return s.client.Del(ctx, keys...).Err()
}

func (s *CacheService) GenerateKey(entityType, keyType string, value interface{}) string {
	return fmt.Sprintf("%s:%s:%v", entityType, keyType, value)
}

// cachedUser carries the fields the API never serializes.
type cachedUser struct {
	models.User
	Password     string `json:"password"`
	TokenVersion int    `json:"token_version"`
}

var errStaleUser = errors.New("cached user is newer")

// newerThan reports whether e reflects a later write than other.
func (e cachedUser) newerThan(other cachedUser) bool {
	if e.TokenVersion != other.TokenVersion {
		return e.TokenVersion > other.TokenVersion
	}
	return e.UpdatedAt.After(other.UpdatedAt)
}

// CacheUser stores user unless the cache already holds a newer copy, so a
// read that raced a logout cannot restore a revoked token version.
func (s *CacheService) CacheUser(ctx context.Context, user *models.User) error {
	if user == nil {
		return errors.New("cannot cache nil user")
	}
	entry := cachedUser{User: *user, Password: user.Password, TokenVersion: user.TokenVersion}
	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("failed to marshal cache value: %w", err)
	}
	key := s.GenerateKey("user", "id", user.ID)

	err = s.client.Watch(ctx, func(tx *redis.Tx) error {
		current, err := tx.Get(ctx, key).Bytes()
		if err != nil && !errors.Is(err, redis.Nil) {
			return err
		}
		if err == nil {
			var cached cachedUser
			if json.Unmarshal(current, &cached) == nil && cached.newerThan(entry) {
				return errStaleUser
			}
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, data, s.ttl)
			return nil
		})
		return err
	}, key)

	switch {
	case errors.Is(err, errStaleUser):
		return nil
	case errors.Is(err, redis.TxFailedErr):
		// Another writer touched the key between GET and SET; it wins.
		return nil
	}
	return err
}

func (s *CacheService) GetUser(ctx context.Context, id uint) (*models.User, bool) {
	var entry cachedUser
	found, err := s.Get(ctx, s.GenerateKey("user", "id", id), &entry)
	if err != nil {
		log.Printf("Cache read failed for user %d: %v", id, err)
		return nil, false
	}
	if !found {
		return nil, false
	}
	user := entry.User
	user.Password = entry.Password
	user.TokenVersion = entry.TokenVersion
	return &user, true
}

func (s *CacheService) InvalidateUser(ctx context.Context, id uint) error {
	return s.Delete(ctx, s.GenerateKey("user", "id", id))
}

// FlushAll flushes all keys from the cache
func (s *CacheService) FlushAll(ctx context.Context) error {
	return s.client.FlushAll(ctx).Err()
}

// Close closes the Redis client connection
func (s *CacheService) Close() error {
	return s.client.Close()
}

// Noop is used when Redis is disabled.
type Noop struct{}

func (Noop) GetUser(context.Context, uint) (*models.User, bool) { return nil, false }
func (Noop) CacheUser(context.Context, *models.User) error       { return nil }
func (Noop) InvalidateUser(context.Context, uint) error          { return nil }
func (Noop) HealthCheck(context.Context) error                   { return nil }
func (Noop) Close() error                                        { return nil }
