package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache is a thin Redis wrapper for read-path response caching. It is never
// authoritative: write paths in the order core invalidate keys, and a cache
// miss or Redis outage only costs a database read. All methods are safe on
// a nil Cache so deployments without Redis (and tests) skip caching.
type Cache struct {
	client *redis.Client
}

// Config holds Redis connection details.
type Config struct {
	Addr     string
	Password string
	DB       int
}

// NewCache creates a new Cache backed by a Redis client.
func NewCache(cfg Config) *Cache {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	return &Cache{client: client}
}

// Key builders. Every key an order-core write can stale out is derivable
// from ids the write already has in hand.

func UserOrdersKey(userID string) string  { return fmt.Sprintf("orders:user:%s", userID) }
func OrderKey(orderID string) string      { return fmt.Sprintf("orders:id:%s", orderID) }
func ProductKey(productID string) string  { return fmt.Sprintf("products:id:%s", productID) }
func ProductListKey(page string) string   { return fmt.Sprintf("products:list:%s", page) }

// Get unmarshals the cached value for key into dest. Returns false on miss
// or any Redis error.
func (c *Cache) Get(ctx context.Context, key string, dest interface{}) bool {
	if c == nil || c.client == nil {
		return false
	}
	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			log.Printf("cache get %s: %v", key, err)
		}
		return false
	}
	if err := json.Unmarshal(data, dest); err != nil {
		log.Printf("cache unmarshal %s: %v", key, err)
		return false
	}
	return true
}

// Set stores value under key with a TTL. Errors are logged, not returned;
// a failed cache write must never fail the request.
func (c *Cache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) {
	if c == nil || c.client == nil {
		return
	}
	data, err := json.Marshal(value)
	if err != nil {
		log.Printf("cache marshal %s: %v", key, err)
		return
	}
	if err := c.client.Set(ctx, key, data, ttl).Err(); err != nil {
		log.Printf("cache set %s: %v", key, err)
	}
}

// Invalidate deletes the given keys.
func (c *Cache) Invalidate(ctx context.Context, keys ...string) {
	if c == nil || c.client == nil || len(keys) == 0 {
		return
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		log.Printf("cache invalidate %v: %v", keys, err)
	}
}

// InvalidatePrefix deletes all keys under a prefix, e.g. the paginated
// product list pages after a catalog write.
func (c *Cache) InvalidatePrefix(ctx context.Context, prefix string) {
	if c == nil || c.client == nil {
		return
	}
	iter := c.client.Scan(ctx, 0, prefix+"*", 0).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		log.Printf("cache scan %s: %v", prefix, err)
		return
	}
	c.Invalidate(ctx, keys...)
}

// Close releases the underlying Redis connection.
func (c *Cache) Close() error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Close()
}
