package redisclient

import (
	"context"
	_ "embed"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

//go:embed scripts/reserve_stock.lua
var reserveStockScript string

//go:embed scripts/release_stock.lua
var releaseStockScript string

// Client is the fast path for stock counters. Counters live in Redis as
// plain integers keyed by product id and are mutated atomically through Lua
// scripts; the persisted value in the remote store trails behind.
type Client struct {
	rdb           *redis.Client
	reserveScript *redis.Script
	releaseScript *redis.Script
}

// NewClient creates a new Redis client with Lua scripts loaded
func NewClient(addr, password string, db int) (*Client, error) {
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

	return &Client{
		rdb:           rdb,
		reserveScript: redis.NewScript(reserveStockScript),
		releaseScript: redis.NewScript(releaseStockScript),
	}, nil
}

// Close closes the Redis connection
func (c *Client) Close() error {
	return c.rdb.Close()
}

func stockKey(productID int64) string {
	return fmt.Sprintf("stock:%d", productID)
}

// Reserve atomically decrements a product's stock counter. With blocking
// true the counter never goes below zero and the call reports failure
// instead; otherwise the counter may go negative.
func (c *Client) Reserve(ctx context.Context, productID int64, quantity int, blocking bool) (bool, int, error) {
	floor := 0
	if blocking {
		floor = 1
	}

	result, err := c.reserveScript.Run(ctx, c.rdb, []string{stockKey(productID)}, quantity, floor).Result()
	if err != nil {
		return false, 0, fmt.Errorf("reserve stock script failed: %w", err)
	}

	vals, ok := result.([]interface{})
	if !ok || len(vals) != 2 {
		return false, 0, fmt.Errorf("unexpected script result type")
	}

	success, _ := vals[0].(int64)
	newStock, _ := vals[1].(int64)
	return success == 1, int(newStock), nil
}

// Release atomically increments a product's stock counter
func (c *Client) Release(ctx context.Context, productID int64, quantity int) (int, error) {
	result, err := c.releaseScript.Run(ctx, c.rdb, []string{stockKey(productID)}, quantity).Result()
	if err != nil {
		return 0, fmt.Errorf("release stock script failed: %w", err)
	}

	newStock, ok := result.(int64)
	if !ok {
		return 0, fmt.Errorf("unexpected script result type")
	}
	return int(newStock), nil
}

// SetStock overwrites a product's counter with an absolute value
func (c *Client) SetStock(ctx context.Context, productID int64, stock int) error {
	return c.rdb.Set(ctx, stockKey(productID), stock, 0).Err()
}

// GetStock reads a product's counter
func (c *Client) GetStock(ctx context.Context, productID int64) (int, error) {
	val, err := c.rdb.Get(ctx, stockKey(productID)).Int()
	if err == redis.Nil {
		return 0, fmt.Errorf("stock not found for product %d", productID)
	}
	return val, err
}

// DeleteStock drops a product's counter
func (c *Client) DeleteStock(ctx context.Context, productID int64) error {
	return c.rdb.Del(ctx, stockKey(productID)).Err()
}
