package merchant

import (
	"context"

	"github.com/fekuna/cardmap-service/internal/geo"
	"github.com/fekuna/cardmap-service/internal/merchant/dto"
	"github.com/fekuna/cardmap-service/internal/model"
)

type UseCase interface {
	Nearby(ctx context.Context, lat, lng, radiusMeters float64, cardNames []string) ([]dto.SearchResult, error)
	Search(ctx context.Context, filters *dto.SearchFilters) (*dto.Page[dto.SearchResult], error)
	List(ctx context.Context, page, pageSize int) (*dto.Page[dto.SearchResult], error)
	Detail(ctx context.Context, merchantID int64, userLat, userLng *float64) (*dto.MerchantDetail, error)
	ByCard(ctx context.Context, cardID int64, center *geo.Point, radiusMeters *float64) ([]dto.SearchResult, error)

	CreateMerchant(ctx context.Context, input *dto.CreateMerchantInput) (*model.Merchant, error)
	GeocodingStatus(ctx context.Context) (*model.GeocodingStatus, error)
}
