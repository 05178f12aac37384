package merchant

import (
	"context"

	"github.com/fekuna/cardmap-service/internal/geo"
	"github.com/fekuna/cardmap-service/internal/merchant/dto"
	"github.com/fekuna/cardmap-service/internal/model"
)

// Repository is the merchant store. Failures of the underlying store are
// reported as errors wrapping model.ErrStoreUnavailable.
type Repository interface {
	// Radius reads return geocoded merchants within radiusMeters, nearest
	// first, ties broken by id.
	FindWithinRadius(ctx context.Context, center geo.Point, radiusMeters float64) ([]model.MerchantDistance, error)
	// An empty cardNames matches no merchant.
	FindWithinRadiusForCards(ctx context.Context, center geo.Point, radiusMeters float64, cardNames []string) ([]model.MerchantDistance, error)
	FindByCategoryAndRadius(ctx context.Context, categoryID int64, center geo.Point, radiusMeters float64) ([]model.MerchantDistance, error)

	// Paged reads cover active merchants only, in id order, and return the
	// total count alongside the page.
	FindByMultipleFilters(ctx context.Context, filters *dto.SearchFilters) ([]model.Merchant, int, error)
	FindByCardID(ctx context.Context, cardID int64, page, pageSize int) ([]model.Merchant, int, error)
	// FindAll pages over every merchant, active or not, in id order.
	FindAll(ctx context.Context, page, pageSize int) ([]model.Merchant, int, error)
	FindAllByCardID(ctx context.Context, cardID int64) ([]model.Merchant, error)

	FindByID(ctx context.Context, id int64) (*model.Merchant, error)
	FindCardsByMerchantID(ctx context.Context, merchantID int64) ([]model.Card, error)

	CountGeocoded(ctx context.Context) (int, error)
	CountTotal(ctx context.Context) (int, error)
	CountActive(ctx context.Context) (int, error)

	// Save inserts when m.ID is zero and updates otherwise. A non-nil
	// cardIDs replaces the merchant's card associations.
	Save(ctx context.Context, m *model.Merchant, cardIDs []int64) (*model.Merchant, error)
}
