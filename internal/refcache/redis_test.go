package refcache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRedisBackend(t *testing.T, ttl time.Duration) (*RedisBackend, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	b := NewRedisBackend(client, ttl)
	t.Cleanup(func() { _ = b.Close() })
	return b, mr
}

func TestRedisBackendGetPut(t *testing.T) {
	ctx := context.Background()
	b, mr := newRedisBackend(t, 0)

	_, ok, err := b.Get(ctx, SlotActiveCards, "")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, b.Put(ctx, SlotActiveCards, "", []byte(`["a"]`)))
	v, ok, err := b.Get(ctx, SlotActiveCards, "")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []byte(`["a"]`), v)
	assert.True(t, mr.Exists("refcache:activeCards:"))
}

func TestRedisBackendEvictSlotOnly(t *testing.T) {
	ctx := context.Background()
	b, mr := newRedisBackend(t, 0)

	require.NoError(t, b.Put(ctx, SlotCardStatistics, "1", []byte("1")))
	require.NoError(t, b.Put(ctx, SlotCardStatistics, "2", []byte("2")))
	require.NoError(t, b.Put(ctx, SlotPopularCategories, "1", []byte("p")))
	require.NoError(t, mr.Set("unrelated", "keep"))

	require.NoError(t, b.Evict(ctx, SlotCardStatistics))

	assert.False(t, mr.Exists("refcache:cardStatistics:1"))
	assert.False(t, mr.Exists("refcache:cardStatistics:2"))
	assert.True(t, mr.Exists("refcache:popularCategories:1"))
	assert.True(t, mr.Exists("unrelated"))
}

func TestRedisBackendEvictKeyAndAll(t *testing.T) {
	ctx := context.Background()
	b, mr := newRedisBackend(t, 0)

	require.NoError(t, b.Put(ctx, SlotCardStatistics, "1", []byte("1")))
	require.NoError(t, b.Put(ctx, SlotCardStatistics, "2", []byte("2")))
	require.NoError(t, b.EvictKey(ctx, SlotCardStatistics, "1"))
	assert.False(t, mr.Exists("refcache:cardStatistics:1"))
	assert.True(t, mr.Exists("refcache:cardStatistics:2"))

	require.NoError(t, b.Put(ctx, SlotActiveCards, "", []byte("x")))
	require.NoError(t, mr.Set("unrelated", "keep"))
	require.NoError(t, b.EvictAll(ctx))
	assert.False(t, mr.Exists("refcache:cardStatistics:2"))
	assert.False(t, mr.Exists("refcache:activeCards:"))
	assert.True(t, mr.Exists("unrelated"))
}

func TestRedisBackendTTL(t *testing.T) {
	ctx := context.Background()
	b, mr := newRedisBackend(t, time.Minute)

	require.NoError(t, b.Put(ctx, SlotActiveCategories, "", []byte("x")))
	assert.Equal(t, time.Minute, mr.TTL("refcache:activeCategories:"))

	mr.FastForward(2 * time.Minute)
	_, ok, err := b.Get(ctx, SlotActiveCategories, "")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRedisBackendUnreachableDegrades(t *testing.T) {
	ctx := context.Background()
	b, mr := newRedisBackend(t, 0)
	mr.Close()

	c := New(b, nopLogger())
	src := &counter{value: []string{"a"}}
	v, err := Fetch(ctx, c, SlotActiveCards, "", src.load)
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, v)
}
