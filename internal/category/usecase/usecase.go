package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/fekuna/cardmap-service/internal/category"
	"github.com/fekuna/cardmap-service/internal/category/dto"
	"github.com/fekuna/cardmap-service/internal/model"
	"github.com/fekuna/cardmap-service/internal/refcache"
	"github.com/fekuna/cardmap-service/pkg/logger"
	"go.uber.org/zap"
)

type categoryUseCase struct {
	repo   category.Repository
	cache  refcache.Evictor
	logger logger.ZapLogger
}

func NewCategoryUseCase(repo category.Repository, cache refcache.Evictor, log logger.ZapLogger) category.UseCase {
	return &categoryUseCase{
		repo:   repo,
		cache:  cache,
		logger: log,
	}
}

func (uc *categoryUseCase) CreateCategory(ctx context.Context, input *dto.CreateCategoryInput) (*model.Category, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: category name is required", model.ErrInvalidInput)
	}

	existing, err := uc.repo.FindByName(ctx, name)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, model.ErrCategoryAlreadyExists
	}

	cat := &model.Category{Name: name}
	if err := uc.repo.Create(ctx, cat); err != nil {
		return nil, err
	}

	if err := uc.cache.Evict(ctx, refcache.SlotActiveCategories); err != nil {
		uc.logger.Warn("cache eviction failed", zap.String("slot", refcache.SlotActiveCategories), zap.Error(err))
	}
	uc.logger.Info("category created", zap.Int64("category_id", cat.ID), zap.String("name", cat.Name))
	return cat, nil
}

func (uc *categoryUseCase) GetCategory(ctx context.Context, id int64) (*model.Category, error) {
	cat, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if cat == nil {
		return nil, model.ErrCategoryNotFound
	}
	return cat, nil
}
