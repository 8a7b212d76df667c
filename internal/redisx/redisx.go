// Package redisx wraps the redis client with the handful of operations the
// property cache needs.
package redisx

import (
    "context"
    "time"

    "github.com/redis/go-redis/v9"
)

type Config struct {
    Addr     string
    Password string
    DB       int
}

type Client struct{ Rdb *redis.Client }

func New(cfg Config) *Client {
    rdb := redis.NewClient(&redis.Options{Addr: cfg.Addr, Password: cfg.Password, DB: cfg.DB})
    return &Client{Rdb: rdb}
}

func (c *Client) Ping(ctx context.Context) error {
    return c.Rdb.Ping(ctx).Err()
}

func (c *Client) Get(ctx context.Context, key string) (string, error) {
    return c.Rdb.Get(ctx, key).Result()
}

func (c *Client) Set(ctx context.Context, key string, val string, ttl time.Duration) error {
    return c.Rdb.Set(ctx, key, val, ttl).Err()
}

func (c *Client) Del(ctx context.Context, keys ...string) error {
    return c.Rdb.Del(ctx, keys...).Err()
}

func (c *Client) Exists(ctx context.Context, key string) (bool, error) {
    n, err := c.Rdb.Exists(ctx, key).Result()
    return n == 1, err
}

// SetNX is the stampede lock primitive: only one caller wins the key.
func (c *Client) SetNX(ctx context.Context, key string, val string, ttl time.Duration) (bool, error) {
    return c.Rdb.SetNX(ctx, key, val, ttl).Result()
}

func (c *Client) Close() error { return c.Rdb.Close() }
