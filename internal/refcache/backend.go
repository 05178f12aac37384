// Package refcache memoizes aggregate reference reads (active cards, active
// categories, per-card statistics) in named slots. It is read-through: slots
// fill on first miss and empty on explicit eviction or the daily sweep.
package refcache

import (
	"context"
	"errors"
	"strconv"
)

const (
	SlotNearbyMerchants   = "nearbyMerchants"
	SlotActiveCards       = "activeCards"
	SlotActiveCategories  = "activeCategories"
	SlotCardStatistics    = "cardStatistics"
	SlotPopularCategories = "popularCategories"
)

var ErrUnknownSlot = errors.New("unknown cache slot")

// Slots lists every slot the service knows.
var Slots = []string{
	SlotNearbyMerchants,
	SlotActiveCards,
	SlotActiveCategories,
	SlotCardStatistics,
	SlotPopularCategories,
}

// SweptSlots are the unparameterized slots cleared by the daily sweep.
var SweptSlots = []string{SlotNearbyMerchants, SlotActiveCards, SlotActiveCategories}

func IsKnownSlot(slot string) bool {
	for _, s := range Slots {
		if s == slot {
			return true
		}
	}
	return false
}

// Key renders an id parameter as a slot key.
func Key(id int64) string {
	return strconv.FormatInt(id, 10)
}

// Backend stores encoded values by slot and key. Unparameterized slots use
// the empty key. Implementations are safe for concurrent use.
type Backend interface {
	Get(ctx context.Context, slot, key string) ([]byte, bool, error)
	Put(ctx context.Context, slot, key string, value []byte) error
	Evict(ctx context.Context, slot string) error
	EvictKey(ctx context.Context, slot, key string) error
	EvictAll(ctx context.Context) error
	Close() error
}

// Evictor is the invalidation side of the cache, as used by write paths.
type Evictor interface {
	Evict(ctx context.Context, slot string) error
	EvictKey(ctx context.Context, slot, key string) error
	EvictAll(ctx context.Context) error
}
