package reference

import (
	"context"

	"github.com/fekuna/cardmap-service/internal/model"
)

// UseCase serves the cached, position-independent reference reads and the
// cache administration behind them.
type UseCase interface {
	GetActiveCards(ctx context.Context) ([]model.Card, error)
	GetActiveCategories(ctx context.Context) ([]model.Category, error)
	GetCardStatistics(ctx context.Context, cardID int64) (*model.CardStatistics, error)
	GetPopularCategories(ctx context.Context, cardID int64) ([]model.CategoryCount, error)

	// Evict and EvictKey reject slot names the service does not use with
	// refcache.ErrUnknownSlot.
	Evict(ctx context.Context, slot string) error
	EvictKey(ctx context.Context, slot, key string) error
	EvictAll(ctx context.Context) error
}
