package cache

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
)

const defaultKeyPrefix = "tinyurl:"

// RedisCache stores each mapping as a plain string key. A zero ttl stores
// keys without expiry.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
	prefix string
}

type RedisOption func(*RedisCache)

// WithKeyPrefix namespaces every key, so several deployments can share one
// Redis database.
func WithKeyPrefix(prefix string) RedisOption {
	return func(c *RedisCache) {
		c.prefix = prefix
	}
}

// NewRedisCache parses a redis:// URL, connects and pings the server.
func NewRedisCache(ctx context.Context, redisURL string, ttl time.Duration, opts ...RedisOption) (*RedisCache, error) {
	redisOpts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, errors.Wrap(err, "parse redis url failed")
	}

	c := NewRedisCacheFromClient(redis.NewClient(redisOpts), ttl, opts...)
	if err := c.Ping(ctx); err != nil {
		_ = c.Close()
		return nil, errors.Wrap(err, "redis ping failed")
	}
	return c, nil
}

func NewRedisCacheFromClient(client *redis.Client, ttl time.Duration, opts ...RedisOption) *RedisCache {
	c := &RedisCache{
		client: client,
		ttl:    ttl,
		prefix: defaultKeyPrefix,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *RedisCache) key(code string) string {
	return c.prefix + code
}

func (c *RedisCache) Get(ctx context.Context, code string) (string, bool, error) {
	url, err := c.client.Get(ctx, c.key(code)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, errors.Wrap(err, "redis get failed")
	}
	return url, true, nil
}

func (c *RedisCache) Set(ctx context.Context, code, url string) error {
	return errors.Wrap(c.client.Set(ctx, c.key(code), url, c.ttl).Err(), "redis set failed")
}

func (c *RedisCache) Delete(ctx context.Context, codes ...string) error {
	if len(codes) == 0 {
		return nil
	}

	keys := make([]string, len(codes))
	for i, code := range codes {
		keys[i] = c.key(code)
	}
	return errors.Wrap(c.client.Del(ctx, keys...).Err(), "redis del failed")
}

func (c *RedisCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

func (c *RedisCache) Close() error {
	return c.client.Close()
}
