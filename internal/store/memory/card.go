package memory

import (
	"context"
	"sort"
	"strings"

	"github.com/fekuna/cardmap-service/internal/model"
)

// CardRepository is the card view of a Store.
type CardRepository struct {
	s *Store
}

func (r *CardRepository) Create(ctx context.Context, c *model.Card) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, existing := range r.s.cards {
		if existing.Name == c.Name {
			return model.ErrCardAlreadyExists
		}
	}
	r.s.nextCardID++
	c.ID = r.s.nextCardID
	r.s.cards[c.ID] = *c
	return nil
}

func (r *CardRepository) FindByID(ctx context.Context, id int64) (*model.Card, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	c, ok := r.s.cards[id]
	if !ok {
		return nil, nil
	}
	return &c, nil
}

func (r *CardRepository) FindByName(ctx context.Context, name string) (*model.Card, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, c := range r.s.cards {
		if c.Name == name {
			return &c, nil
		}
	}
	return nil, nil
}

func (r *CardRepository) Search(ctx context.Context, keyword string) ([]model.Card, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	kw := strings.ToLower(strings.TrimSpace(keyword))
	cards := []model.Card{}
	for _, c := range r.s.cards {
		if kw == "" || strings.Contains(strings.ToLower(c.Name), kw) {
			cards = append(cards, c)
		}
	}
	sort.Slice(cards, func(i, j int) bool {
		if cards[i].Name != cards[j].Name {
			return cards[i].Name < cards[j].Name
		}
		return cards[i].ID < cards[j].ID
	})
	return cards, nil
}

func (r *CardRepository) FindActive(ctx context.Context) ([]model.Card, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	used := map[int64]bool{}
	for _, ids := range r.s.merchantCards {
		for _, id := range ids {
			used[id] = true
		}
	}
	cards := []model.Card{}
	for id := range used {
		if c, ok := r.s.cards[id]; ok {
			cards = append(cards, c)
		}
	}
	sort.Slice(cards, func(i, j int) bool { return cards[i].ID < cards[j].ID })
	return cards, nil
}

func (r *CardRepository) CountMerchants(ctx context.Context, cardID int64) (int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	n := 0
	for mid, ids := range r.s.merchantCards {
		if _, ok := r.s.merchants[mid]; !ok {
			continue
		}
		for _, id := range ids {
			if id == cardID {
				n++
				break
			}
		}
	}
	return n, nil
}
