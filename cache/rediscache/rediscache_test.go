package rediscache_test

import (
	"context"
	"errors"
	"path"
	"slices"
	"sync"
	"testing"
	"time"

	"github.com/owl-K/nebula-carina"
	"github.com/owl-K/nebula-carina/cache/rediscache"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeRedis is an in-memory rediscache.Client. Scan returns every match on
// the first page and an empty second page.
type fakeRedis struct {
	mu    sync.Mutex
	data  map[string]string
	ttls  map[string]time.Duration
	scans int
	err   error
}

func newFakeRedis() *fakeRedis {
	return &fakeRedis{data: make(map[string]string), ttls: make(map[string]time.Duration)}
}

func (f *fakeRedis) Get(_ context.Context, key string) *redis.StringCmd {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return redis.NewStringResult("", f.err)
	}
	v, ok := f.data[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(v, nil)
}

func (f *fakeRedis) Set(_ context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.data[key] = string(value.([]byte))
	f.ttls[key] = expiration
	return redis.NewStatusResult("OK", nil)
}

func (f *fakeRedis) Del(_ context.Context, keys ...string) *redis.IntCmd {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for _, k := range keys {
		if _, ok := f.data[k]; ok {
			delete(f.data, k)
			n++
		}
	}
	return redis.NewIntResult(n, nil)
}

func (f *fakeRedis) Scan(_ context.Context, cursor uint64, match string, _ int64) *redis.ScanCmd {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.scans++
	if f.err != nil {
		return redis.NewScanCmdResult(nil, 0, f.err)
	}
	if cursor > 0 {
		return redis.NewScanCmdResult(nil, 0, nil)
	}
	var page []string
	for k := range f.data {
		if ok, _ := path.Match(match, k); ok {
			page = append(page, k)
		}
	}
	return redis.NewScanCmdResult(page, 1, nil)
}

func (f *fakeRedis) keys() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	var ks []string
	for k := range f.data {
		ks = append(ks, k)
	}
	slices.Sort(ks)
	return ks
}

var _ rediscache.Client = (*redis.Client)(nil)

func TestGetSet(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newFakeRedis()
	c := rediscache.New(f)

	got, err := c.Get(ctx, "main:player:v1")
	require.NoError(t, err)
	assert.Nil(t, got, "miss")

	require.NoError(t, c.Set(ctx, "main:player:v1", []byte("x"), time.Minute))
	assert.Equal(t, []string{"carina:main:player:v1"}, f.keys())
	assert.Equal(t, time.Minute, f.ttls["carina:main:player:v1"])

	got, err = c.Get(ctx, "main:player:v1")
	require.NoError(t, err)
	assert.Equal(t, []byte("x"), got)

	require.NoError(t, c.Delete(ctx, "main:player:v1"))
	assert.Empty(t, f.keys())

	f.err = errors.New("connection refused")
	_, err = c.Get(ctx, "main:player:v1")
	assert.EqualError(t, err, "connection refused")
}

func TestDeletePrefix(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newFakeRedis()
	c := rediscache.New(f, rediscache.WithNamespace("app:"), rediscache.WithScanCount(10))

	for _, k := range []string{"main:player:v1", "main:player:v2", "main:follow:a->b@0", "other:player:v1", "main:pl*er:v3"} {
		require.NoError(t, c.Set(ctx, k, []byte("x"), 0))
	}
	f.data["elsewhere"] = "y"

	require.NoError(t, c.DeletePrefix(ctx, carina.CacheKey{Space: "main", Schema: "player"}.Prefix()))
	assert.Equal(t, []string{"app:main:follow:a->b@0", "app:main:pl*er:v3", "app:other:player:v1", "elsewhere"}, f.keys())

	require.NoError(t, c.DeletePrefix(ctx, "main:pl*"))
	assert.Equal(t, []string{"app:main:follow:a->b@0", "app:other:player:v1", "elsewhere"}, f.keys(), "prefix is matched literally")

	require.NoError(t, c.Clear(ctx))
	assert.Equal(t, []string{"elsewhere"}, f.keys(), "keys outside the namespace are kept")
	assert.Equal(t, 6, f.scans)

	f.err = errors.New("connection refused")
	assert.Error(t, c.Clear(ctx))
}
