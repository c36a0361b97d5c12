package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/hetulpatel/Randex/internal/locations"
)

// LocationsCache keeps parsed province/district tables keyed by file content hash.
type LocationsCache interface {
	locations.Cache
	Close() error
}

type redisLocationsCache struct {
	client *redis.Client
	ttl    time.Duration
	prefix string
}

// NewRedisLocationsCache builds a cache with the given addr/password/db.
func NewRedisLocationsCache(addr, password string, db int, ttl time.Duration, prefix string) (LocationsCache, error) {
	if addr == "" {
		return nil, fmt.Errorf("redis addr is required")
	}
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	if prefix == "" {
		prefix = "randex:locations"
	}
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	return newRedisLocationsCache(client, ttl, prefix), nil
}

func newRedisLocationsCache(client *redis.Client, ttl time.Duration, prefix string) *redisLocationsCache {
	return &redisLocationsCache{client: client, ttl: ttl, prefix: prefix}
}

func (c *redisLocationsCache) key(k string) string {
	return fmt.Sprintf("%s:%s", c.prefix, k)
}

func (c *redisLocationsCache) Get(ctx context.Context, key string) ([]locations.Entry, bool, error) {
	if c == nil || c.client == nil {
		return nil, false, nil
	}
	raw, err := c.client.Get(ctx, c.key(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	var entries []locations.Entry
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, false, err
	}
	return entries, true, nil
}

func (c *redisLocationsCache) Set(ctx context.Context, key string, entries []locations.Entry) error {
	if c == nil || c.client == nil {
		return nil
	}
	payload, err := json.Marshal(entries)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, c.key(key), payload, c.ttl).Err()
}

func (c *redisLocationsCache) Close() error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Close()
}
