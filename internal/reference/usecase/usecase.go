package usecase

import (
	"context"
	"fmt"

	"github.com/fekuna/cardmap-service/internal/card"
	"github.com/fekuna/cardmap-service/internal/category"
	"github.com/fekuna/cardmap-service/internal/model"
	"github.com/fekuna/cardmap-service/internal/refcache"
	"github.com/fekuna/cardmap-service/internal/reference"
	"github.com/fekuna/cardmap-service/pkg/logger"
	"go.uber.org/zap"
)

type referenceUseCase struct {
	cardRepo     card.Repository
	categoryRepo category.Repository
	cache        *refcache.Cache
	logger       logger.ZapLogger
}

func NewReferenceUseCase(cardRepo card.Repository, categoryRepo category.Repository, cache *refcache.Cache, log logger.ZapLogger) reference.UseCase {
	return &referenceUseCase{
		cardRepo:     cardRepo,
		categoryRepo: categoryRepo,
		cache:        cache,
		logger:       log,
	}
}

func (uc *referenceUseCase) GetActiveCards(ctx context.Context) ([]model.Card, error) {
	return refcache.Fetch(ctx, uc.cache, refcache.SlotActiveCards, "", uc.cardRepo.FindActive)
}

func (uc *referenceUseCase) GetActiveCategories(ctx context.Context) ([]model.Category, error) {
	return refcache.Fetch(ctx, uc.cache, refcache.SlotActiveCategories, "", uc.categoryRepo.FindActive)
}

func (uc *referenceUseCase) GetCardStatistics(ctx context.Context, cardID int64) (*model.CardStatistics, error) {
	return refcache.Fetch(ctx, uc.cache, refcache.SlotCardStatistics, refcache.Key(cardID),
		func(ctx context.Context) (*model.CardStatistics, error) {
			c, err := uc.findCard(ctx, cardID)
			if err != nil {
				return nil, err
			}
			n, err := uc.cardRepo.CountMerchants(ctx, cardID)
			if err != nil {
				return nil, err
			}
			return &model.CardStatistics{Card: *c, MerchantCount: n, IsActive: n > 0}, nil
		})
}

func (uc *referenceUseCase) GetPopularCategories(ctx context.Context, cardID int64) ([]model.CategoryCount, error) {
	return refcache.Fetch(ctx, uc.cache, refcache.SlotPopularCategories, refcache.Key(cardID),
		func(ctx context.Context) ([]model.CategoryCount, error) {
			if _, err := uc.findCard(ctx, cardID); err != nil {
				return nil, err
			}
			return uc.categoryRepo.FindPopularByCard(ctx, cardID)
		})
}

func (uc *referenceUseCase) findCard(ctx context.Context, cardID int64) (*model.Card, error) {
	c, err := uc.cardRepo.FindByID(ctx, cardID)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, model.ErrCardNotFound
	}
	return c, nil
}

func (uc *referenceUseCase) Evict(ctx context.Context, slot string) error {
	if !refcache.IsKnownSlot(slot) {
		return fmt.Errorf("%w: %q", refcache.ErrUnknownSlot, slot)
	}
	uc.logger.Info("evicting cache slot", zap.String("slot", slot))
	return uc.cache.Evict(ctx, slot)
}

func (uc *referenceUseCase) EvictKey(ctx context.Context, slot, key string) error {
	if !refcache.IsKnownSlot(slot) {
		return fmt.Errorf("%w: %q", refcache.ErrUnknownSlot, slot)
	}
	uc.logger.Info("evicting cache key", zap.String("slot", slot), zap.String("key", key))
	return uc.cache.EvictKey(ctx, slot, key)
}

func (uc *referenceUseCase) EvictAll(ctx context.Context) error {
	uc.logger.Info("evicting all cache slots")
	return uc.cache.EvictAll(ctx)
}
