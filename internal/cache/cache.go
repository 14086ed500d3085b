package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/kiranshivaraju/mediagate/pkg/models"
)

// Cache is the caching interface. All cache operations go through here.
// Implementations must be safe for concurrent use.
type Cache interface {
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Delete(ctx context.Context, key string) error
	Ping(ctx context.Context) error
	SetJobStatus(ctx context.Context, provider models.JobProvider, id string, status models.JobStatus, ttl time.Duration) error
	GetJobStatus(ctx context.Context, provider models.JobProvider, id string) (models.JobStatus, bool, error)
}

// RedisCache implements the Cache interface using go-redis/v9.
type RedisCache struct {
	client *redis.Client
}

// NewRedisCache creates a new RedisCache from a Redis URL.
func NewRedisCache(redisURL string) (*RedisCache, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}
	return &RedisCache{client: redis.NewClient(opts)}, nil
}

func (c *RedisCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

func (c *RedisCache) Close() error {
	return c.client.Close()
}

func (c *RedisCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return c.client.Set(ctx, key, value, ttl).Err()
}

func (c *RedisCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	val, err := c.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return val, true, nil
}

func (c *RedisCache) Delete(ctx context.Context, key string) error {
	return c.client.Del(ctx, key).Err()
}

// SetJobStatus stores a job status as JSON.
func (c *RedisCache) SetJobStatus(ctx context.Context, provider models.JobProvider, id string, status models.JobStatus, ttl time.Duration) error {
	data, err := json.Marshal(status)
	if err != nil {
		return fmt.Errorf("encoding job status: %w", err)
	}
	return c.client.Set(ctx, JobStatusKey(provider, id), data, ttl).Err()
}

func (c *RedisCache) GetJobStatus(ctx context.Context, provider models.JobProvider, id string) (models.JobStatus, bool, error) {
	val, err := c.client.Get(ctx, JobStatusKey(provider, id)).Bytes()
	if err == redis.Nil {
		return models.JobStatus{}, false, nil
	}
	if err != nil {
		return models.JobStatus{}, false, err
	}

	var status models.JobStatus
	if err := json.Unmarshal(val, &status); err != nil {
		return models.JobStatus{}, false, fmt.Errorf("decoding job status: %w", err)
	}
	return status, true, nil
}
