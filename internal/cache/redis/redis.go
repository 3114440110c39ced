// Package redis stores recommendation results in Redis as JSON.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"showfinder/internal/domain"
)

const keyPrefix = "showfinder:result:"

// Config holds connection settings.
type Config struct {
	Addr     string
	Password string
	DB       int
	Timeout  time.Duration
}

// Cache implements domain.Cache on a Redis client.
type Cache struct {
	client *redis.Client
}

var _ domain.Cache = (*Cache)(nil)

// New wraps an existing client.
func New(client *redis.Client) *Cache {
	return &Cache{client: client}
}

// Connect dials Redis and checks it answers PING.
func Connect(ctx context.Context, cfg Config) (*Cache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  cfg.Timeout,
		ReadTimeout:  cfg.Timeout,
		WriteTimeout: cfg.Timeout,
	})
	pong, err := client.Ping(ctx).Result()
	if err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping %s: %w", cfg.Addr, err)
	}
	if pong != "PONG" {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping %s: expected PONG, got %s", cfg.Addr, pong)
	}
	return New(client), nil
}

// Get returns the stored result. A missing key is a miss, not an error.
func (c *Cache) Get(ctx context.Context, key string) (domain.Result, bool, error) {
	val, err := c.client.Get(ctx, keyPrefix+key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return domain.Result{}, false, nil
		}
		return domain.Result{}, false, fmt.Errorf("redis get: %w", err)
	}
	var res domain.Result
	if err := json.Unmarshal(val, &res); err != nil {
		return domain.Result{}, false, fmt.Errorf("decode cached result: %w", err)
	}
	return res, true, nil
}

// Set stores res for ttl. A zero ttl keeps the key without expiry.
func (c *Cache) Set(ctx context.Context, key string, res domain.Result, ttl time.Duration) error {
	data, err := json.Marshal(res)
	if err != nil {
		return fmt.Errorf("encode result: %w", err)
	}
	if err := c.client.Set(ctx, keyPrefix+key, data, ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

// Close releases the client.
func (c *Cache) Close() error {
	return c.client.Close()
}
