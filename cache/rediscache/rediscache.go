// Package rediscache implements carina.Cache on Redis.
package rediscache

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/owl-K/nebula-carina"

	"github.com/redis/go-redis/v9"
)

// DefaultNamespace prefixes every key written by a Cache.
const DefaultNamespace = "carina:"

// Client is the subset of redis.Cmdable used by Cache. *redis.Client,
// *redis.ClusterClient and redis.UniversalClient implement it.
type Client interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
	Scan(ctx context.Context, cursor uint64, match string, count int64) *redis.ScanCmd
}

// Cache stores entries in Redis under a namespace.
type Cache struct {
	client    Client
	namespace string
	scanCount int64
}

// Option configures a Cache.
type Option func(*Cache)

// WithNamespace sets the key prefix. Clear removes every key under it.
func WithNamespace(ns string) Option {
	return func(c *Cache) { c.namespace = ns }
}

// WithScanCount sets the COUNT hint of the SCAN calls made by DeletePrefix
// and Clear.
func WithScanCount(n int64) Option {
	return func(c *Cache) { c.scanCount = n }
}

// New returns a Cache over client.
func New(client Client, opts ...Option) *Cache {
	c := &Cache{client: client, namespace: DefaultNamespace, scanCount: 100}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

var _ carina.Cache = (*Cache)(nil)

// Get returns the value of key, or nil when it is absent.
func (c *Cache) Get(ctx context.Context, key string) ([]byte, error) {
	b, err := c.client.Get(ctx, c.namespace+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	return b, err
}

// Set stores value under key. A zero ttl never expires.
func (c *Cache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return c.client.Set(ctx, c.namespace+key, value, ttl).Err()
}

// Delete removes key.
func (c *Cache) Delete(ctx context.Context, key string) error {
	return c.client.Del(ctx, c.namespace+key).Err()
}

// DeletePrefix removes every key starting with prefix.
func (c *Cache) DeletePrefix(ctx context.Context, prefix string) error {
	match := escapeGlob(c.namespace+prefix) + "*"
	var cursor uint64
	for {
		keys, next, err := c.client.Scan(ctx, cursor, match, c.scanCount).Result()
		if err != nil {
			return err
		}
		if len(keys) > 0 {
			if err := c.client.Del(ctx, keys...).Err(); err != nil {
				return err
			}
		}
		if next == 0 {
			return nil
		}
		cursor = next
	}
}

// Clear removes every key of the namespace.
func (c *Cache) Clear(ctx context.Context) error {
	return c.DeletePrefix(ctx, "")
}

var globEscaper = strings.NewReplacer(`\`, `\\`, `*`, `\*`, `?`, `\?`, `[`, `\[`, `]`, `\]`)

func escapeGlob(s string) string {
	return globEscaper.Replace(s)
}
