package refcache

import (
	"context"
	"errors"
	"testing"

	"github.com/fekuna/cardmap-service/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type counter struct {
	calls int
	value []string
	err   error
}

func (c *counter) load(ctx context.Context) ([]string, error) {
	c.calls++
	if c.err != nil {
		return nil, c.err
	}
	return c.value, nil
}

func TestFetchMemoizesUntilEvicted(t *testing.T) {
	ctx := context.Background()
	c := New(NewMemoryBackend(), logger.Nop())
	src := &counter{value: []string{"a", "b"}}

	first, err := Fetch(ctx, c, SlotActiveCards, "", src.load)
	require.NoError(t, err)
	second, err := Fetch(ctx, c, SlotActiveCards, "", src.load)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, src.calls)

	src.value = []string{"a", "b", "c"}
	require.NoError(t, c.Evict(ctx, SlotActiveCards))
	third, err := Fetch(ctx, c, SlotActiveCards, "", src.load)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, third)
	assert.Equal(t, 2, src.calls)
}

func TestFetchFailedLoadDoesNotPoisonSlot(t *testing.T) {
	ctx := context.Background()
	c := New(NewMemoryBackend(), logger.Nop())
	boom := errors.New("boom")

	src := &counter{err: boom}
	_, err := Fetch(ctx, c, SlotActiveCategories, "", src.load)
	assert.ErrorIs(t, err, boom)

	src.err = nil
	src.value = []string{"cafe"}
	v, err := Fetch(ctx, c, SlotActiveCategories, "", src.load)
	require.NoError(t, err)
	assert.Equal(t, []string{"cafe"}, v)
	assert.Equal(t, 2, src.calls)
}

func TestFetchFailedLoadKeepsPreviousValue(t *testing.T) {
	ctx := context.Background()
	backend := NewMemoryBackend()
	c := New(backend, logger.Nop())

	src := &counter{value: []string{"old"}}
	_, err := Fetch(ctx, c, SlotCardStatistics, "1", src.load)
	require.NoError(t, err)

	raw, ok, err := backend.Get(ctx, SlotCardStatistics, "1")
	require.NoError(t, err)
	require.True(t, ok)

	src.err = errors.New("boom")
	_, err = Fetch(ctx, c, SlotCardStatistics, "2", src.load)
	assert.Error(t, err)

	after, ok, _ := backend.Get(ctx, SlotCardStatistics, "1")
	assert.True(t, ok)
	assert.Equal(t, raw, after)
	_, ok, _ = backend.Get(ctx, SlotCardStatistics, "2")
	assert.False(t, ok)
}

func TestEvictKeyLeavesOtherKeys(t *testing.T) {
	ctx := context.Background()
	c := New(NewMemoryBackend(), logger.Nop())
	one := &counter{value: []string{"1"}}
	two := &counter{value: []string{"2"}}

	_, _ = Fetch(ctx, c, SlotCardStatistics, Key(1), one.load)
	_, _ = Fetch(ctx, c, SlotCardStatistics, Key(2), two.load)
	require.NoError(t, c.EvictKey(ctx, SlotCardStatistics, Key(1)))
	_, _ = Fetch(ctx, c, SlotCardStatistics, Key(1), one.load)
	_, _ = Fetch(ctx, c, SlotCardStatistics, Key(2), two.load)

	assert.Equal(t, 2, one.calls)
	assert.Equal(t, 1, two.calls)
}

func TestEvictAll(t *testing.T) {
	ctx := context.Background()
	c := New(NewMemoryBackend(), logger.Nop())
	src := &counter{value: []string{"x"}}

	_, _ = Fetch(ctx, c, SlotActiveCards, "", src.load)
	_, _ = Fetch(ctx, c, SlotPopularCategories, Key(9), src.load)
	require.NoError(t, c.EvictAll(ctx))
	_, _ = Fetch(ctx, c, SlotActiveCards, "", src.load)
	_, _ = Fetch(ctx, c, SlotPopularCategories, Key(9), src.load)

	assert.Equal(t, 4, src.calls)
}

type brokenBackend struct {
	MemoryBackend
}

func (brokenBackend) Get(context.Context, string, string) ([]byte, bool, error) {
	return nil, false, errors.New("connection refused")
}

func (brokenBackend) Put(context.Context, string, string, []byte) error {
	return errors.New("connection refused")
}

func TestFetchDegradesToLoadWhenBackendFails(t *testing.T) {
	ctx := context.Background()
	c := New(&brokenBackend{}, logger.Nop())
	src := &counter{value: []string{"a"}}

	v, err := Fetch(ctx, c, SlotActiveCards, "", src.load)
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, v)

	_, err = Fetch(ctx, c, SlotActiveCards, "", src.load)
	require.NoError(t, err)
	assert.Equal(t, 2, src.calls)
}

func TestFetchUndecodableEntryReloads(t *testing.T) {
	ctx := context.Background()
	backend := NewMemoryBackend()
	require.NoError(t, backend.Put(ctx, SlotActiveCards, "", []byte("{not json")))
	c := New(backend, logger.Nop())
	src := &counter{value: []string{"a"}}

	v, err := Fetch(ctx, c, SlotActiveCards, "", src.load)
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, v)
	assert.Equal(t, 1, src.calls)
}

func TestIsKnownSlot(t *testing.T) {
	assert.True(t, IsKnownSlot(SlotCardStatistics))
	assert.False(t, IsKnownSlot("products"))
}
