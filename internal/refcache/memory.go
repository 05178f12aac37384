package refcache

import (
	"context"
	"slices"
	"sync"
)

type MemoryBackend struct {
	mu    sync.RWMutex
	slots map[string]map[string][]byte
}

func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{slots: map[string]map[string][]byte{}}
}

func (b *MemoryBackend) Get(ctx context.Context, slot, key string) ([]byte, bool, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	v, ok := b.slots[slot][key]
	if !ok {
		return nil, false, nil
	}
	return slices.Clone(v), true, nil
}

func (b *MemoryBackend) Put(ctx context.Context, slot, key string, value []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	entries, ok := b.slots[slot]
	if !ok {
		entries = map[string][]byte{}
		b.slots[slot] = entries
	}
	entries[key] = slices.Clone(value)
	return nil
}

func (b *MemoryBackend) Evict(ctx context.Context, slot string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.slots, slot)
	return nil
}

func (b *MemoryBackend) EvictKey(ctx context.Context, slot, key string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.slots[slot], key)
	return nil
}

func (b *MemoryBackend) EvictAll(ctx context.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.slots = map[string]map[string][]byte{}
	return nil
}

func (b *MemoryBackend) Close() error {
	return nil
}
