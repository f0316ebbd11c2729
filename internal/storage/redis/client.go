package storage

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

type Client struct {
	*redis.Client
}

// NewClient connects to redis and checks the connection once.
func NewClient(ctx context.Context, addr, password string, db int) (*Client, error) {
	const op = "storage.redis.NewClient"

	c := &Client{
		Client: redis.NewClient(&redis.Options{
			Addr:     addr,
			Password: password,
			DB:       db,
		}),
	}

	if err := c.HealthCheck(ctx); err != nil {
		_ = c.Client.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return c, nil
}

// Wrap adopts an existing go-redis client, e.g. one built by redismock.
func Wrap(rdb *redis.Client) *Client {
	return &Client{Client: rdb}
}

func (c *Client) HealthCheck(ctx context.Context) error {
	return c.Ping(ctx).Err()
}

func (c *Client) Close() error {
	return c.Client.Close()
}
