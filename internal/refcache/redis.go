package refcache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisPrefix = "refcache"

// RedisBackend keeps entries under refcache:{slot}:{key}, so several service
// instances share one cache. A zero ttl keeps entries until evicted.
type RedisBackend struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisBackend(client *redis.Client, ttl time.Duration) *RedisBackend {
	return &RedisBackend{client: client, ttl: ttl}
}

func redisKey(slot, key string) string {
	return fmt.Sprintf("%s:%s:%s", redisPrefix, slot, key)
}

func (b *RedisBackend) Get(ctx context.Context, slot, key string) ([]byte, bool, error) {
	v, err := b.client.Get(ctx, redisKey(slot, key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return v, true, nil
}

func (b *RedisBackend) Put(ctx context.Context, slot, key string, value []byte) error {
	return b.client.Set(ctx, redisKey(slot, key), value, b.ttl).Err()
}

func (b *RedisBackend) Evict(ctx context.Context, slot string) error {
	return b.deleteMatching(ctx, fmt.Sprintf("%s:%s:*", redisPrefix, slot))
}

func (b *RedisBackend) EvictKey(ctx context.Context, slot, key string) error {
	return b.client.Del(ctx, redisKey(slot, key)).Err()
}

func (b *RedisBackend) EvictAll(ctx context.Context) error {
	return b.deleteMatching(ctx, redisPrefix+":*")
}

// deleteMatching walks the keyspace with SCAN so a large cache never blocks
// the server the way KEYS would.
func (b *RedisBackend) deleteMatching(ctx context.Context, pattern string) error {
	iter := b.client.Scan(ctx, 0, pattern, 100).Iterator()
	batch := make([]string, 0, 100)
	for iter.Next(ctx) {
		batch = append(batch, iter.Val())
		if len(batch) == cap(batch) {
			if err := b.client.Del(ctx, batch...).Err(); err != nil {
				return err
			}
			batch = batch[:0]
		}
	}
	if err := iter.Err(); err != nil {
		return err
	}
	if len(batch) > 0 {
		return b.client.Del(ctx, batch...).Err()
	}
	return nil
}

func (b *RedisBackend) Close() error {
	return b.client.Close()
}
