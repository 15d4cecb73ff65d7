package redisclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

// ErrCacheMiss is returned when a key is absent from the cache.
var ErrCacheMiss = errors.New("cache miss")

type Client struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewClient creates a new Redis client used as a read-through cache for
// catalog reference data.
func NewClient(addr, password string, db int, ttl time.Duration) (*Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	return &Client{rdb: rdb, ttl: ttl}, nil
}

// GetClient returns the underlying Redis client
func (c *Client) GetClient() *redis.Client {
	return c.rdb
}

// Close closes the Redis connection
func (c *Client) Close() error {
	return c.rdb.Close()
}

// GetCatalogItem loads a cached catalog record into dest.
// kind is "seed" or "fertilizer".
func (c *Client) GetCatalogItem(ctx context.Context, kind string, id int64, dest interface{}) error {
	raw, err := c.rdb.Get(ctx, catalogKey(kind, id)).Bytes()
	if err == redis.Nil {
		return ErrCacheMiss
	}
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, dest)
}

// SetCatalogItem caches a catalog record with the configured TTL.
func (c *Client) SetCatalogItem(ctx context.Context, kind string, id int64, item interface{}) error {
	raw, err := json.Marshal(item)
	if err != nil {
		return fmt.Errorf("failed to marshal catalog item: %w", err)
	}
	return c.rdb.Set(ctx, catalogKey(kind, id), raw, c.ttl).Err()
}

// InvalidateCatalogItem drops a cached record after an admin write.
func (c *Client) InvalidateCatalogItem(ctx context.Context, kind string, id int64) error {
	return c.rdb.Del(ctx, catalogKey(kind, id)).Err()
}

func catalogKey(kind string, id int64) string {
	return fmt.Sprintf("catalog:%s:%d", kind, id)
}
