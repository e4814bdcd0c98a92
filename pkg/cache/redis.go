package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/venturegraph/sdk-go/pkg/interfaces"
)

// Redis is a Redis-backed implementation of interfaces.DatasetCache.
// Datasets are stored JSON-encoded under a key prefix; expiry is delegated
// to Redis-native TTLs, which gives the same lazy-eviction semantics as the
// memory backend.
type Redis struct {
	client    *redis.Client
	keyPrefix string
}

// RedisOption represents an option for configuring the Redis cache
type RedisOption func(*Redis)

// WithKeyPrefix sets a custom prefix for cache keys
func WithKeyPrefix(prefix string) RedisOption {
	return func(r *Redis) {
		r.keyPrefix = prefix
	}
}

// NewRedis creates a Redis-backed dataset cache
func NewRedis(client *redis.Client, options ...RedisOption) *Redis {
	cache := &Redis{
		client:    client,
		keyPrefix: "venturegraph:dataset:",
	}

	for _, option := range options {
		option(cache)
	}

	return cache
}

// Get returns the dataset stored under key, or nil if absent or expired
func (r *Redis) Get(ctx context.Context, key string) (*interfaces.Dataset, error) {
	data, err := r.client.Get(ctx, r.keyPrefix+key).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read dataset from redis: %w", err)
	}

	var dataset interfaces.Dataset
	if err := json.Unmarshal(data, &dataset); err != nil {
		return nil, fmt.Errorf("failed to decode cached dataset: %w", err)
	}
	return &dataset, nil
}

// Set unconditionally overwrites key with the given TTL
func (r *Redis) Set(ctx context.Context, key string, dataset *interfaces.Dataset, ttl time.Duration) error {
	data, err := json.Marshal(dataset)
	if err != nil {
		return fmt.Errorf("failed to encode dataset: %w", err)
	}
	if err := r.client.Set(ctx, r.keyPrefix+key, data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to write dataset to redis: %w", err)
	}
	return nil
}

// IsExpired reports whether key is absent. Redis drops stale entries itself,
// so an existing key is by definition unexpired.
func (r *Redis) IsExpired(ctx context.Context, key string) (bool, error) {
	n, err := r.client.Exists(ctx, r.keyPrefix+key).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check key existence: %w", err)
	}
	return n == 0, nil
}

// Invalidate removes key
func (r *Redis) Invalidate(ctx context.Context, key string) error {
	if err := r.client.Del(ctx, r.keyPrefix+key).Err(); err != nil {
		return fmt.Errorf("failed to invalidate key: %w", err)
	}
	return nil
}

// Clear removes every entry under the cache prefix
func (r *Redis) Clear(ctx context.Context) error {
	keys, err := r.client.Keys(ctx, r.keyPrefix+"*").Result()
	if err != nil {
		return fmt.Errorf("failed to list cache keys: %w", err)
	}
	if len(keys) == 0 {
		return nil
	}
	if err := r.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("failed to clear cache: %w", err)
	}
	return nil
}

// Stats returns the current size and key set
func (r *Redis) Stats(ctx context.Context) (interfaces.CacheStats, error) {
	keys, err := r.client.Keys(ctx, r.keyPrefix+"*").Result()
	if err != nil {
		return interfaces.CacheStats{}, fmt.Errorf("failed to list cache keys: %w", err)
	}

	trimmed := make([]string, 0, len(keys))
	for _, key := range keys {
		trimmed = append(trimmed, strings.TrimPrefix(key, r.keyPrefix))
	}
	sort.Strings(trimmed)

	return interfaces.CacheStats{Size: len(trimmed), Keys: trimmed}, nil
}
