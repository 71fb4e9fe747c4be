// Package cache provides an optional Redis cache for computed slot listings.
// When Redis is not configured or unreachable the service degrades to
// computing slots on every request.
package cache

import (
	"context"
	"encoding/json"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// NewRedisClient builds a client from REDIS_ADDR, REDIS_PASSWORD and REDIS_DB.
// It returns nil when REDIS_ADDR is unset or the server does not answer a
// ping; callers must treat a nil client as "caching disabled".
func NewRedisClient() *redis.Client {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		return nil
	}
	dbNum := 0
	if v := os.Getenv("REDIS_DB"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			dbNum = n
		}
	}
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: os.Getenv("REDIS_PASSWORD"),
		DB:       dbNum,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		log.Printf("Redis at %s not reachable, slot caching disabled: %v", addr, err)
		return nil
	}
	return client
}

// SlotCache caches the free-slot listing per (date, service). Every key is
// also registered in a per-date index set so a booking on that date can drop
// all of the day's entries at once. All methods are safe on a nil receiver.
type SlotCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewSlotCache(client *redis.Client, ttl time.Duration) *SlotCache {
	if client == nil {
		return nil
	}
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &SlotCache{client: client, ttl: ttl}
}

func slotKey(date, serviceID string) string { return "slots:" + date + ":" + serviceID }
func dateIndexKey(date string) string       { return "slots:index:" + date }

func (c *SlotCache) Get(date, serviceID string) ([]string, bool) {
	if c == nil {
		return nil, false
	}
	ctx := context.Background()
	raw, err := c.client.Get(ctx, slotKey(date, serviceID)).Bytes()
	if err != nil {
		return nil, false
	}
	var slots []string
	if err := json.Unmarshal(raw, &slots); err != nil {
		return nil, false
	}
	return slots, true
}

func (c *SlotCache) Set(date, serviceID string, slots []string) {
	if c == nil {
		return
	}
	raw, err := json.Marshal(slots)
	if err != nil {
		return
	}
	ctx := context.Background()
	key := slotKey(date, serviceID)
	pipe := c.client.TxPipeline()
	pipe.Set(ctx, key, raw, c.ttl)
	pipe.SAdd(ctx, dateIndexKey(date), key)
	pipe.Expire(ctx, dateIndexKey(date), c.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		log.Printf("Error caching slots for %s/%s: %v", date, serviceID, err)
	}
}

// InvalidateDate drops every cached listing for the date. Called after any
// write that changes the date's occupancy.
func (c *SlotCache) InvalidateDate(date string) {
	if c == nil {
		return
	}
	ctx := context.Background()
	keys, err := c.client.SMembers(ctx, dateIndexKey(date)).Result()
	if err != nil {
		return
	}
	keys = append(keys, dateIndexKey(date))
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		log.Printf("Error invalidating slot cache for %s: %v", date, err)
	}
}
