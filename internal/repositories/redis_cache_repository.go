package repositories

import (
	"context"
	"time"

	"github.com/go-redis/redis/v8"
)

// CacheRepositoryInterface is a string key/value store with expiry. Get returns redis.Nil on a miss.
type CacheRepositoryInterface interface {
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	Del(ctx context.Context, keys ...string) error
}

// RedisCacheRepository namespaces every key with prefix so several services can share one redis db.
type RedisCacheRepository struct {
	client *redis.Client
	prefix string
}

func NewRedisCacheRepository(client *redis.Client, prefix string) CacheRepositoryInterface {
	return &RedisCacheRepository{client: client, prefix: prefix}
}

func (r *RedisCacheRepository) key(k string) string {
	if r.prefix == "" {
		return k
	}
	return r.prefix + ":" + k
}

func (r *RedisCacheRepository) Get(ctx context.Context, key string) (string, error) {
	return r.client.Get(ctx, r.key(key)).Result()
}

func (r *RedisCacheRepository) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	return r.client.Set(ctx, r.key(key), value, expiration).Err()
}

func (r *RedisCacheRepository) Del(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	namespaced := make([]string, len(keys))
	for i, k := range keys {
		namespaced[i] = r.key(k)
	}
	return r.client.Del(ctx, namespaced...).Err()
}
