package redis

import (
	"context"
	"fmt"
	"log"
	"net"
	"time"

	"survey-service/internal/config"

	"github.com/redis/go-redis/v9"
)

const (
	dialTimeout = 5 * time.Second
	ioTimeout   = 2 * time.Second
)

// Client wraps Redis client
type Client struct {
	client *redis.Client
	addr   string
}

func options(cfg config.RedisConfig) *redis.Options {
	return &redis.Options{
		Addr:         net.JoinHostPort(cfg.Host, cfg.Port),
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  dialTimeout,
		ReadTimeout:  ioTimeout,
		WriteTimeout: ioTimeout,
	}
}

// NewRedisClient creates a new Redis client for the analytics snapshot cache
func NewRedisClient(cfg config.RedisConfig) (*Client, error) {
	opts := options(cfg)
	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), dialTimeout)
	defer cancel()

	// Test connection
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to Redis at %s: %w", opts.Addr, err)
	}

	log.Printf("Connected to Redis at %s (db %d)", opts.Addr, cfg.DB)
	return &Client{client: client, addr: opts.Addr}, nil
}

// Ping reports whether Redis answers before ctx expires
func (c *Client) Ping(ctx context.Context) error {
	if err := c.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis %s unreachable: %w", c.addr, err)
	}
	return nil
}

// GetClient returns the underlying Redis client
func (c *Client) GetClient() *redis.Client {
	return c.client
}

// Close closes the Redis connection
func (c *Client) Close() error {
	return c.client.Close()
}
