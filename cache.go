package carina

import (
	"context"
	"strconv"
	"time"
)

// Cache is the interface for caching fetched entities.
// Implement it with your preferred backend (see cache/rediscache for Redis).
type Cache interface {
	// Get retrieves a value from the cache.
	// Returns nil, nil if the key doesn't exist.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores a value in the cache with an optional TTL.
	// If ttl is 0, the value should not expire.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Delete removes a value from the cache.
	Delete(ctx context.Context, key string) error

	// DeletePrefix removes all values with the given prefix.
	DeletePrefix(ctx context.Context, prefix string) error

	// Clear removes all values from the cache.
	Clear(ctx context.Context) error
}

// CacheKey identifies a cached vertex or edge.
type CacheKey struct {
	Space  string // Graph space
	Schema string // Vertex schema or edge type name
	ID     string // Vertex id, or "src->dst@rank" for edges
}

// String returns the string representation of the cache key.
func (k CacheKey) String() string {
	return k.Space + ":" + k.Schema + ":" + k.ID
}

// Prefix returns the key prefix shared by all entries of the same schema.
func (k CacheKey) Prefix() string {
	return k.Space + ":" + k.Schema + ":"
}

// EdgeID formats the identity of an edge for use in CacheKey.ID.
func EdgeID(src, dst string, rank int64) string {
	return src + "->" + dst + "@" + strconv.FormatInt(rank, 10)
}
