package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache TTLs
const (
	TTLContent    = 5 * time.Minute  // published content lists
	TTLRoster     = 10 * time.Minute // department rosters (change rarely)
	TTLRadioCodes = 30 * time.Minute // radio code dictionary
	TTLDefault    = 5 * time.Minute
)

// Cache key prefixes
const (
	PrefixContent = "content:"
	PrefixRoster  = "roster:"
	PrefixUser    = "user:"
)

// ErrCacheMiss is returned when a key is not present
var ErrCacheMiss = redis.Nil

// Service is the Redis cache service interface
type Service interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
	Exists(ctx context.Context, key string) (bool, error)

	// Content list cache (keyed by department + status)
	GetContentList(ctx context.Context, department, status string) ([]byte, error)
	SetContentList(ctx context.Context, department, status string, data interface{}) error
	InvalidateContent(ctx context.Context, department string) error

	// Roster cache
	GetRoster(ctx context.Context, department string) ([]byte, error)
	SetRoster(ctx context.Context, department string, data interface{}) error
	InvalidateRoster(ctx context.Context, department string) error

	IsAvailable() bool
	Ping(ctx context.Context) error
}

type redisCache struct {
	client *redis.Client
}

// NewService creates a Redis-backed cache service
func NewService(client *redis.Client) Service {
	return &redisCache{client: client}
}

func (c *redisCache) Get(ctx context.Context, key string, dest interface{}) error {
	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		return err
	}
	return json.Unmarshal(data, dest)
}

func (c *redisCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, key, data, ttl).Err()
}

func (c *redisCache) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	return c.client.Del(ctx, keys...).Err()
}

func (c *redisCache) Exists(ctx context.Context, key string) (bool, error) {
	n, err := c.client.Exists(ctx, key).Result()
	return n > 0, err
}

func (c *redisCache) GetContentList(ctx context.Context, department, status string) ([]byte, error) {
	return c.client.Get(ctx, contentListKey(department, status)).Bytes()
}

func (c *redisCache) SetContentList(ctx context.Context, department, status string, data interface{}) error {
	raw, err := json.Marshal(data)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, contentListKey(department, status), raw, TTLContent).Err()
}

// InvalidateContent drops every cached content list for a department.
// Mutations cannot know which status buckets they touched, so both go.
func (c *redisCache) InvalidateContent(ctx context.Context, department string) error {
	keys := []string{
		contentListKey(department, "published"),
		contentListKey(department, "draft"),
		contentListKey(department, ""),
	}
	return c.client.Del(ctx, keys...).Err()
}

func (c *redisCache) GetRoster(ctx context.Context, department string) ([]byte, error) {
	return c.client.Get(ctx, PrefixRoster+department).Bytes()
}

func (c *redisCache) SetRoster(ctx context.Context, department string, data interface{}) error {
	raw, err := json.Marshal(data)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, PrefixRoster+department, raw, TTLRoster).Err()
}

func (c *redisCache) InvalidateRoster(ctx context.Context, department string) error {
	return c.client.Del(ctx, PrefixRoster+department).Err()
}

func (c *redisCache) IsAvailable() bool {
	return c.client != nil
}

func (c *redisCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

func contentListKey(department, status string) string {
	return fmt.Sprintf("%s%s:%s", PrefixContent, department, status)
}
