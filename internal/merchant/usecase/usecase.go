package usecase

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/fekuna/cardmap-service/config"
	"github.com/fekuna/cardmap-service/internal/card"
	"github.com/fekuna/cardmap-service/internal/category"
	"github.com/fekuna/cardmap-service/internal/geo"
	"github.com/fekuna/cardmap-service/internal/merchant"
	"github.com/fekuna/cardmap-service/internal/merchant/dto"
	"github.com/fekuna/cardmap-service/internal/model"
	"github.com/fekuna/cardmap-service/internal/refcache"
	"github.com/fekuna/cardmap-service/pkg/logger"
	"go.uber.org/zap"
)

type merchantUseCase struct {
	repo         merchant.Repository
	cardRepo     card.Repository
	categoryRepo category.Repository
	cache        refcache.Evictor
	cfg          config.DiscoveryConfig
	logger       logger.ZapLogger
}

func NewMerchantUseCase(
	repo merchant.Repository,
	cardRepo card.Repository,
	categoryRepo category.Repository,
	cache refcache.Evictor,
	cfg config.DiscoveryConfig,
	log logger.ZapLogger,
) merchant.UseCase {
	return &merchantUseCase{
		repo:         repo,
		cardRepo:     cardRepo,
		categoryRepo: categoryRepo,
		cache:        cache,
		cfg:          cfg,
		logger:       log,
	}
}

func (uc *merchantUseCase) Nearby(ctx context.Context, lat, lng, radiusMeters float64, cardNames []string) ([]dto.SearchResult, error) {
	if err := validateRadius(radiusMeters); err != nil {
		return nil, err
	}
	center, err := geo.PointFromLngLat(lng, lat)
	if err != nil {
		return nil, err
	}

	var rows []model.MerchantDistance
	if names := nonBlank(cardNames); len(names) > 0 {
		rows, err = uc.repo.FindWithinRadiusForCards(ctx, center, radiusMeters, names)
	} else {
		// An empty card filter means no card filter.
		rows, err = uc.repo.FindWithinRadius(ctx, center, radiusMeters)
	}
	if err != nil {
		return nil, err
	}
	return rankedResults(rows), nil
}

func (uc *merchantUseCase) Search(ctx context.Context, filters *dto.SearchFilters) (*dto.Page[dto.SearchResult], error) {
	f := dto.SearchFilters{}
	if filters != nil {
		f = *filters
	}
	f.Page, f.PageSize = uc.normalizePage(f.Page, f.PageSize)

	merchants, total, err := uc.repo.FindByMultipleFilters(ctx, &f)
	if err != nil {
		return nil, err
	}

	items := make([]dto.SearchResult, len(merchants))
	for i := range merchants {
		items[i] = dto.NewSearchResult(&merchants[i], nil)
	}
	return dto.NewPage(items, f.Page, f.PageSize, total), nil
}

// List pages over every merchant, including ones without a location or
// accepted cards.
func (uc *merchantUseCase) List(ctx context.Context, page, pageSize int) (*dto.Page[dto.SearchResult], error) {
	page, pageSize = uc.normalizePage(page, pageSize)

	merchants, total, err := uc.repo.FindAll(ctx, page, pageSize)
	if err != nil {
		return nil, err
	}

	items := make([]dto.SearchResult, len(merchants))
	for i := range merchants {
		items[i] = dto.NewSearchResult(&merchants[i], nil)
	}
	return dto.NewPage(items, page, pageSize, total), nil
}

func (uc *merchantUseCase) Detail(ctx context.Context, merchantID int64, userLat, userLng *float64) (*dto.MerchantDetail, error) {
	m, err := uc.repo.FindByID(ctx, merchantID)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, model.ErrMerchantNotFound
	}

	cards, err := uc.repo.FindCardsByMerchantID(ctx, merchantID)
	if err != nil {
		return nil, err
	}

	var distance *float64
	if userLat != nil && userLng != nil && m.Location != nil {
		user, err := geo.PointFromLngLat(*userLng, *userLat)
		if err != nil {
			return nil, err
		}
		d := geo.DistanceMeters(user, *m.Location)
		distance = &d
	}
	return dto.NewMerchantDetail(m, cards, distance), nil
}

func (uc *merchantUseCase) ByCard(ctx context.Context, cardID int64, center *geo.Point, radiusMeters *float64) ([]dto.SearchResult, error) {
	c, err := uc.cardRepo.FindByID(ctx, cardID)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, model.ErrCardNotFound
	}

	if center == nil {
		merchants, err := uc.repo.FindAllByCardID(ctx, cardID)
		if err != nil {
			return nil, err
		}
		items := make([]dto.SearchResult, len(merchants))
		for i := range merchants {
			items[i] = dto.NewSearchResult(&merchants[i], nil)
		}
		return items, nil
	}

	if center.IsZero() {
		return nil, fmt.Errorf("%w: center not set", geo.ErrInvalidCoordinate)
	}
	radius := uc.cfg.CardMerchantsRadius
	if radiusMeters != nil {
		radius = *radiusMeters
	}
	if err := validateRadius(radius); err != nil {
		return nil, err
	}

	rows, err := uc.repo.FindWithinRadiusForCards(ctx, *center, radius, []string{c.Name})
	if err != nil {
		return nil, err
	}
	return rankedResults(rows), nil
}

func (uc *merchantUseCase) CreateMerchant(ctx context.Context, input *dto.CreateMerchantInput) (*model.Merchant, error) {
	name, address := strings.TrimSpace(input.Name), strings.TrimSpace(input.Address)
	if name == "" || address == "" {
		return nil, fmt.Errorf("%w: name and address are required", model.ErrInvalidInput)
	}

	m := &model.Merchant{
		Name:          name,
		Address:       address,
		Phone:         input.Phone,
		BusinessHours: input.BusinessHours,
		CategoryID:    input.CategoryID,
	}

	switch {
	case input.Lat != nil && input.Lng != nil:
		p, err := geo.PointFromLngLat(*input.Lng, *input.Lat)
		if err != nil {
			return nil, err
		}
		m.Location = &p
	case input.Lat != nil || input.Lng != nil:
		return nil, fmt.Errorf("%w: latitude and longitude must be given together", geo.ErrInvalidCoordinate)
	}

	if input.CategoryID != nil {
		cat, err := uc.categoryRepo.FindByID(ctx, *input.CategoryID)
		if err != nil {
			return nil, err
		}
		if cat == nil {
			return nil, model.ErrCategoryNotFound
		}
	}
	for _, id := range input.CardIDs {
		c, err := uc.cardRepo.FindByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if c == nil {
			return nil, fmt.Errorf("%w: id %d", model.ErrCardNotFound, id)
		}
	}

	cardIDs := input.CardIDs
	if cardIDs == nil {
		cardIDs = []int64{}
	}
	saved, err := uc.repo.Save(ctx, m, cardIDs)
	if err != nil {
		return nil, err
	}

	uc.evictAfterWrite(ctx, input.CardIDs)
	uc.logger.Info("merchant created",
		zap.Int64("merchant_id", saved.ID),
		zap.Bool("geocoded", saved.Location != nil),
		zap.Int("cards", len(input.CardIDs)),
	)
	return saved, nil
}

// evictAfterWrite drops the aggregate reads a new merchant can change.
// Failures are logged; the daily sweep bounds any staleness left behind.
func (uc *merchantUseCase) evictAfterWrite(ctx context.Context, cardIDs []int64) {
	evict := func(err error, slot string) {
		if err != nil {
			uc.logger.Warn("cache eviction failed", zap.String("slot", slot), zap.Error(err))
		}
	}
	for _, slot := range []string{refcache.SlotNearbyMerchants, refcache.SlotActiveCards, refcache.SlotActiveCategories} {
		evict(uc.cache.Evict(ctx, slot), slot)
	}
	for _, id := range cardIDs {
		key := refcache.Key(id)
		evict(uc.cache.EvictKey(ctx, refcache.SlotCardStatistics, key), refcache.SlotCardStatistics)
		evict(uc.cache.EvictKey(ctx, refcache.SlotPopularCategories, key), refcache.SlotPopularCategories)
	}
}

func (uc *merchantUseCase) GeocodingStatus(ctx context.Context) (*model.GeocodingStatus, error) {
	total, err := uc.repo.CountTotal(ctx)
	if err != nil {
		return nil, err
	}
	geocoded, err := uc.repo.CountGeocoded(ctx)
	if err != nil {
		return nil, err
	}
	return model.NewGeocodingStatus(total, geocoded), nil
}

// normalizePage applies the zero-based paging rules: negative pages become
// the first page and sizes fall back to the default or clamp to the max.
func (uc *merchantUseCase) normalizePage(page, pageSize int) (int, int) {
	if page < 0 {
		page = 0
	}
	if pageSize <= 0 {
		pageSize = uc.cfg.DefaultPageSize
	}
	if uc.cfg.MaxPageSize > 0 && pageSize > uc.cfg.MaxPageSize {
		pageSize = uc.cfg.MaxPageSize
	}
	return page, pageSize
}

func validateRadius(r float64) error {
	if math.IsNaN(r) || math.IsInf(r, 0) || r <= 0 {
		return fmt.Errorf("%w: %v", model.ErrInvalidRadius, r)
	}
	return nil
}

func nonBlank(names []string) []string {
	out := make([]string, 0, len(names))
	for _, n := range names {
		if n = strings.TrimSpace(n); n != "" {
			out = append(out, n)
		}
	}
	return out
}

// rankedResults keeps the store's order and its computed distance.
func rankedResults(rows []model.MerchantDistance) []dto.SearchResult {
	items := make([]dto.SearchResult, len(rows))
	for i := range rows {
		d := rows[i].Distance
		items[i] = dto.NewSearchResult(&rows[i].Merchant, &d)
	}
	return items
}
