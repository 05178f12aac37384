package memory

import (
	"context"
	"slices"

	"github.com/fekuna/cardmap-service/internal/geo"
	"github.com/fekuna/cardmap-service/internal/merchant/criteria"
	"github.com/fekuna/cardmap-service/internal/merchant/dto"
	"github.com/fekuna/cardmap-service/internal/model"
)

// MerchantRepository is the merchant view of a Store.
type MerchantRepository struct {
	s *Store
}

func (r *MerchantRepository) FindWithinRadius(ctx context.Context, center geo.Point, radiusMeters float64) ([]model.MerchantDistance, error) {
	return r.s.match(criteria.New().Near(center, radiusMeters)), nil
}

func (r *MerchantRepository) FindWithinRadiusForCards(ctx context.Context, center geo.Point, radiusMeters float64, cardNames []string) ([]model.MerchantDistance, error) {
	return r.s.match(criteria.New().Near(center, radiusMeters).AcceptingCardNames(cardNames)), nil
}

func (r *MerchantRepository) FindByCategoryAndRadius(ctx context.Context, categoryID int64, center geo.Point, radiusMeters float64) ([]model.MerchantDistance, error) {
	return r.s.match(criteria.New().Near(center, radiusMeters).InCategory(categoryID)), nil
}

func (r *MerchantRepository) FindByMultipleFilters(ctx context.Context, f *dto.SearchFilters) ([]model.Merchant, int, error) {
	page, pageSize := 0, 0
	if f != nil {
		page, pageSize = f.Page, f.PageSize
	}
	merchants, total := paginate(r.s.match(criteria.FromSearchFilters(f)), page, pageSize)
	return merchants, total, nil
}

func (r *MerchantRepository) FindByCardID(ctx context.Context, cardID int64, page, pageSize int) ([]model.Merchant, int, error) {
	merchants, total := paginate(r.s.match(criteria.New().OnlyActive().AcceptingCard(cardID)), page, pageSize)
	return merchants, total, nil
}

// FindAll pages over every merchant, geocoded or not, with or without cards.
func (r *MerchantRepository) FindAll(ctx context.Context, page, pageSize int) ([]model.Merchant, int, error) {
	merchants, total := paginate(r.s.match(criteria.New()), page, pageSize)
	return merchants, total, nil
}

func (r *MerchantRepository) FindAllByCardID(ctx context.Context, cardID int64) ([]model.Merchant, error) {
	merchants, _ := paginate(r.s.match(criteria.New().AcceptingCard(cardID)), 0, 0)
	return merchants, nil
}

// paginate slices a zero-based page. A pageSize of zero returns everything.
func paginate(rows []model.MerchantDistance, page, pageSize int) ([]model.Merchant, int) {
	total := len(rows)
	start, end := dto.Bounds(page, pageSize, total)
	out := make([]model.Merchant, 0, end-start)
	for _, row := range rows[start:end] {
		out = append(out, row.Merchant)
	}
	return out, total
}

func (r *MerchantRepository) FindByID(ctx context.Context, id int64) (*model.Merchant, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	m, ok := r.s.merchants[id]
	if !ok {
		return nil, nil
	}
	m = r.s.hydrate(m)
	return &m, nil
}

func (r *MerchantRepository) FindCardsByMerchantID(ctx context.Context, merchantID int64) ([]model.Card, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	cards := []model.Card{}
	for _, cid := range r.s.merchantCards[merchantID] {
		if c, ok := r.s.cards[cid]; ok {
			cards = append(cards, c)
		}
	}
	return cards, nil
}

func (r *MerchantRepository) CountGeocoded(ctx context.Context) (int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return len(r.s.entries), nil
}

func (r *MerchantRepository) CountTotal(ctx context.Context) (int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return len(r.s.merchants), nil
}

func (r *MerchantRepository) CountActive(ctx context.Context) (int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	n := 0
	for id := range r.s.merchants {
		if r.s.isActiveMerchant(id) {
			n++
		}
	}
	return n, nil
}

func (r *MerchantRepository) Save(ctx context.Context, m *model.Merchant, cardIDs []int64) (*model.Merchant, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	saved := *m
	saved.Category = nil
	saved.Cards = nil
	now := r.s.now()

	if saved.ID == 0 {
		r.s.nextMerchantID++
		saved.ID = r.s.nextMerchantID
		saved.CreatedAt = now
	} else {
		existing, ok := r.s.merchants[saved.ID]
		if !ok {
			return nil, model.ErrMerchantNotFound
		}
		saved.CreatedAt = existing.CreatedAt
	}
	saved.UpdatedAt = now

	r.s.merchants[saved.ID] = saved
	r.s.index(saved.ID, saved.Location)

	if cardIDs != nil {
		ids := slices.Clone(cardIDs)
		slices.Sort(ids)
		r.s.merchantCards[saved.ID] = slices.Compact(ids)
	}

	out := r.s.hydrate(saved)
	return &out, nil
}
