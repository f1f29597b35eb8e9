package liveness

import (
	"context"
	"fmt"
	"time"

	"github.com/Gobusters/ectologger"
	"github.com/redis/go-redis/v9"
)

// RedisConfig holds Redis connection configuration.
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// Client wraps the Redis client used for liveness beacons and health checks.
type Client struct {
	rdb    *redis.Client
	logger ectologger.Logger
}

// NewClient creates a Redis client and verifies the connection.
func NewClient(cfg RedisConfig, logger ectologger.Logger) (*Client, error) {
	addr := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)

	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis at %s: %w", addr, err)
	}

	logger.Infof("Connected to Redis at %s", addr)

	return &Client{
		rdb:    rdb,
		logger: logger,
	}, nil
}

// Close closes the Redis connection.
func (c *Client) Close() error {
	return c.rdb.Close()
}

// Ping checks if Redis is reachable.
func (c *Client) Ping(ctx context.Context) error {
	return c.rdb.Ping(ctx).Err()
}

// RedisBeacon reports progress by refreshing an expiring key. Supervisors
// watch the key: as long as the task keeps refreshing it the input is alive,
// and if the task dies the key expires with it.
type RedisBeacon struct {
	client *Client
	taskID string
	ttl    time.Duration
}

// NewRedisBeacon creates a beacon for the given task. The TTL should be a few
// multiples of the signal interval so one missed signal does not expire it.
func NewRedisBeacon(client *Client, taskID string, ttl time.Duration) *RedisBeacon {
	return &RedisBeacon{
		client: client,
		taskID: taskID,
		ttl:    ttl,
	}
}

// Key returns the Redis key the beacon refreshes.
func (b *RedisBeacon) Key() string {
	return fmt.Sprintf("reed:task:%s:alive", b.taskID)
}

// Progress refreshes the beacon key.
func (b *RedisBeacon) Progress(ctx context.Context) error {
	ts := time.Now().UTC().Format(time.RFC3339)
	if err := b.client.rdb.Set(ctx, b.Key(), ts, b.ttl).Err(); err != nil {
		return fmt.Errorf("failed to refresh liveness key %s: %w", b.Key(), err)
	}
	return nil
}
