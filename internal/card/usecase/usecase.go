package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/fekuna/cardmap-service/internal/card"
	"github.com/fekuna/cardmap-service/internal/card/dto"
	"github.com/fekuna/cardmap-service/internal/model"
	"github.com/fekuna/cardmap-service/internal/refcache"
	"github.com/fekuna/cardmap-service/pkg/logger"
	"go.uber.org/zap"
)

type cardUseCase struct {
	repo   card.Repository
	cache  refcache.Evictor
	logger logger.ZapLogger
}

func NewCardUseCase(repo card.Repository, cache refcache.Evictor, log logger.ZapLogger) card.UseCase {
	return &cardUseCase{
		repo:   repo,
		cache:  cache,
		logger: log,
	}
}

func (uc *cardUseCase) CreateCard(ctx context.Context, input *dto.CreateCardInput) (*model.Card, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: card name is required", model.ErrInvalidInput)
	}

	existing, err := uc.repo.FindByName(ctx, name)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, model.ErrCardAlreadyExists
	}

	c := &model.Card{
		Name:     name,
		ColorHex: input.ColorHex,
		Issuer:   input.Issuer,
	}
	if err := uc.repo.Create(ctx, c); err != nil {
		return nil, err
	}

	if err := uc.cache.Evict(ctx, refcache.SlotActiveCards); err != nil {
		uc.logger.Warn("cache eviction failed", zap.String("slot", refcache.SlotActiveCards), zap.Error(err))
	}
	uc.logger.Info("card created", zap.Int64("card_id", c.ID), zap.String("name", c.Name))
	return c, nil
}

func (uc *cardUseCase) GetCard(ctx context.Context, id int64) (*model.Card, error) {
	c, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, model.ErrCardNotFound
	}
	return c, nil
}

func (uc *cardUseCase) SearchCards(ctx context.Context, keyword string) ([]model.Card, error) {
	return uc.repo.Search(ctx, keyword)
}
