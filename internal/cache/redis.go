// Package cache keeps resolved code lookups in Redis. Keys embed the build
// id of the address store so a rebuild never serves stale chains.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/iEmiya/ruaddress/config"
	"github.com/iEmiya/ruaddress/model"
)

// AddressCache stores ParsedAddress values by build id and code.
type AddressCache struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// Open connects to Redis per cfg. It returns nil when no address is configured.
func Open(cfg config.CacheConfig) *AddressCache {
	if cfg.RedisAddr == "" {
		return nil
	}
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	return New(client, cfg.Prefix, cfg.TTL)
}

// New wraps an existing client.
func New(client *redis.Client, prefix string, ttl time.Duration) *AddressCache {
	return &AddressCache{client: client, prefix: prefix, ttl: ttl}
}

// Ping checks the connection.
func (c *AddressCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

func (c *AddressCache) key(buildID, code string) string {
	return fmt.Sprintf("%s:%s:%s", c.prefix, buildID, code)
}

// Get returns the cached chain of code. A miss is (zero, false, nil).
func (c *AddressCache) Get(ctx context.Context, buildID, code string) (model.ParsedAddress, bool, error) {
	raw, err := c.client.Get(ctx, c.key(buildID, code)).Bytes()
	if errors.Is(err, redis.Nil) {
		return model.ParsedAddress{}, false, nil
	}
	if err != nil {
		return model.ParsedAddress{}, false, fmt.Errorf("cache get %s: %w", code, err)
	}
	var addr model.ParsedAddress
	if err := json.Unmarshal(raw, &addr); err != nil {
		return model.ParsedAddress{}, false, fmt.Errorf("cache decode %s: %w", code, err)
	}
	return addr, true, nil
}

// Set stores the chain of code.
func (c *AddressCache) Set(ctx context.Context, buildID, code string, addr model.ParsedAddress) error {
	raw, err := json.Marshal(addr)
	if err != nil {
		return fmt.Errorf("cache encode %s: %w", code, err)
	}
	if err := c.client.Set(ctx, c.key(buildID, code), raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("cache set %s: %w", code, err)
	}
	return nil
}

// Close releases the connection pool.
func (c *AddressCache) Close() error {
	return c.client.Close()
}
