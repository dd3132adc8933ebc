// File: internal/platform/cache/redis.go
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/iphenelist/vendor-backend/internal/config"

	"github.com/redis/go-redis/v9"
)

// Named cache entries owned by the category module. Category mutations must
// invalidate both so subsequent reads recompute from the store.
const (
	CategoryTreeKey      = "category_tree"
	PopularCategoriesKey = "popular_categories"
)

// DefaultTTL bounds staleness even if an invalidation is ever missed.
const DefaultTTL = 1 * time.Hour

// Store is the key/value cache used for read-mostly aggregates.
type Store interface {
	// GetJSON unmarshals the cached value into dest. The bool reports a hit.
	GetJSON(ctx context.Context, key string, dest interface{}) (bool, error)
	SetJSON(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
	Close() error
}

type redisStore struct {
	client *redis.Client
}

// NewRedisStore creates a redis-backed Store and verifies connectivity.
func NewRedisStore(cfg *config.Config) (Store, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return &redisStore{client: client}, nil
}

func (s *redisStore) GetJSON(ctx context.Context, key string, dest interface{}) (bool, error) {
	data, err := s.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil // Cache miss
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return false, err
	}
	return true, nil
}

func (s *redisStore) SetJSON(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return s.client.Set(ctx, key, data, ttl).Err()
}

func (s *redisStore) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	return s.client.Del(ctx, keys...).Err()
}

func (s *redisStore) Close() error {
	return s.client.Close()
}
