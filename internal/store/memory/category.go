package memory

import (
	"context"
	"sort"

	"github.com/fekuna/cardmap-service/internal/model"
)

// CategoryRepository is the category view of a Store.
type CategoryRepository struct {
	s *Store
}

func (r *CategoryRepository) Create(ctx context.Context, c *model.Category) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, existing := range r.s.categories {
		if existing.Name == c.Name {
			return model.ErrCategoryAlreadyExists
		}
	}
	r.s.nextCategoryID++
	c.ID = r.s.nextCategoryID
	r.s.categories[c.ID] = *c
	return nil
}

func (r *CategoryRepository) FindByID(ctx context.Context, id int64) (*model.Category, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	c, ok := r.s.categories[id]
	if !ok {
		return nil, nil
	}
	return &c, nil
}

func (r *CategoryRepository) FindByName(ctx context.Context, name string) (*model.Category, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, c := range r.s.categories {
		if c.Name == name {
			return &c, nil
		}
	}
	return nil, nil
}

func (r *CategoryRepository) FindActive(ctx context.Context) ([]model.Category, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	active := map[int64]bool{}
	for id, m := range r.s.merchants {
		if m.CategoryID != nil && r.s.isActiveMerchant(id) {
			active[*m.CategoryID] = true
		}
	}
	out := []model.Category{}
	for id := range active {
		if c, ok := r.s.categories[id]; ok {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *CategoryRepository) FindPopularByCard(ctx context.Context, cardID int64) ([]model.CategoryCount, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	counts := map[int64]int{}
	for id, m := range r.s.merchants {
		if m.CategoryID == nil {
			continue
		}
		for _, cid := range r.s.merchantCards[id] {
			if cid == cardID {
				counts[*m.CategoryID]++
				break
			}
		}
	}

	out := []model.CategoryCount{}
	for id, n := range counts {
		if c, ok := r.s.categories[id]; ok {
			out = append(out, model.CategoryCount{Category: c, MerchantCount: n})
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].MerchantCount != out[j].MerchantCount {
			return out[i].MerchantCount > out[j].MerchantCount
		}
		return out[i].Category.ID < out[j].Category.ID
	})
	return out, nil
}
