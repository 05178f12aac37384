// Package memory is an in-process merchant, card and category store. Geocoded
// merchants are indexed in an R-tree over (longitude, latitude) that serves
// as the bounding-box prefilter for radius queries.
package memory

import (
	"sort"
	"sync"
	"time"

	"github.com/dhconnelly/rtreego"
	"github.com/fekuna/cardmap-service/internal/geo"
	"github.com/fekuna/cardmap-service/internal/merchant/criteria"
	"github.com/fekuna/cardmap-service/internal/model"
)

const (
	dimensions  = 2
	minChildren = 25
	maxChildren = 50
	tolerance   = 1e-9
)

// indexed is a geocoded merchant as stored in the R-tree.
type indexed struct {
	id   int64
	rect *rtreego.Rect
}

func (i *indexed) Bounds() *rtreego.Rect {
	return i.rect
}

type Store struct {
	mu sync.RWMutex

	tree    *rtreego.Rtree
	entries map[int64]*indexed

	merchants     map[int64]model.Merchant
	merchantCards map[int64][]int64
	cards         map[int64]model.Card
	categories    map[int64]model.Category

	nextMerchantID int64
	nextCardID     int64
	nextCategoryID int64

	now func() time.Time
}

func NewStore() *Store {
	return &Store{
		tree:          rtreego.NewTree(dimensions, minChildren, maxChildren),
		entries:       map[int64]*indexed{},
		merchants:     map[int64]model.Merchant{},
		merchantCards: map[int64][]int64{},
		cards:         map[int64]model.Card{},
		categories:    map[int64]model.Category{},
		now:           time.Now,
	}
}

func (s *Store) Merchants() *MerchantRepository {
	return &MerchantRepository{s: s}
}

func (s *Store) Cards() *CardRepository {
	return &CardRepository{s: s}
}

func (s *Store) Categories() *CategoryRepository {
	return &CategoryRepository{s: s}
}

// index replaces the R-tree entry of merchant id. Caller holds the write lock.
func (s *Store) index(id int64, loc *geo.Point) {
	if old, ok := s.entries[id]; ok {
		s.tree.Delete(old)
		delete(s.entries, id)
	}
	if loc == nil {
		return
	}
	entry := &indexed{id: id, rect: rtreego.Point{loc.Lng(), loc.Lat()}.ToRect(tolerance)}
	s.tree.Insert(entry)
	s.entries[id] = entry
}

// candidateIDs narrows the scan for crit. Spatial criteria only look at
// merchants whose point falls in the radius bounding box. Caller holds a
// read lock.
func (s *Store) candidateIDs(crit criteria.Criteria) []int64 {
	center, radius, ok := crit.Center()
	if !ok {
		return s.allMerchantIDs()
	}

	box := geo.BoundingBox(center, radius)
	bounds, err := rtreego.NewRect(
		rtreego.Point{box.MinLng, box.MinLat},
		[]float64{box.MaxLng - box.MinLng, box.MaxLat - box.MinLat},
	)
	if err != nil {
		// Degenerate box, fall back to the exact filter over everything.
		return s.allMerchantIDs()
	}

	hits := s.tree.SearchIntersect(bounds)
	ids := make([]int64, 0, len(hits))
	for _, h := range hits {
		if e, ok := h.(*indexed); ok {
			ids = append(ids, e.id)
		}
	}
	return ids
}

func (s *Store) allMerchantIDs() []int64 {
	ids := make([]int64, 0, len(s.merchants))
	for id := range s.merchants {
		ids = append(ids, id)
	}
	return ids
}

// candidate assembles what criteria need about merchant id. Caller holds a
// read lock.
func (s *Store) candidate(id int64) criteria.Candidate {
	m := s.hydrate(s.merchants[id])
	cardIDs := s.merchantCards[id]
	names := make([]string, 0, len(cardIDs))
	for _, cid := range cardIDs {
		if c, ok := s.cards[cid]; ok {
			names = append(names, c.Name)
		}
	}
	return criteria.Candidate{Merchant: &m, CardIDs: cardIDs, CardNames: names}
}

// hydrate attaches the category record. Caller holds a read lock.
func (s *Store) hydrate(m model.Merchant) model.Merchant {
	if m.CategoryID != nil {
		if c, ok := s.categories[*m.CategoryID]; ok {
			m.Category = &c
		}
	}
	return m
}

// match evaluates crit over the store. Results are in id order, or nearest
// first with ties by id when crit is spatial.
func (s *Store) match(crit criteria.Criteria) []model.MerchantDistance {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []model.MerchantDistance
	for _, id := range s.candidateIDs(crit) {
		cand := s.candidate(id)
		d, ok := crit.Matches(cand)
		if !ok {
			continue
		}
		out = append(out, model.MerchantDistance{Merchant: *cand.Merchant, Distance: d})
	}

	if crit.Spatial() {
		sort.Slice(out, func(i, j int) bool {
			if out[i].Distance != out[j].Distance {
				return out[i].Distance < out[j].Distance
			}
			return out[i].Merchant.ID < out[j].Merchant.ID
		})
	} else {
		sort.Slice(out, func(i, j int) bool { return out[i].Merchant.ID < out[j].Merchant.ID })
	}
	return out
}

func (s *Store) isActiveMerchant(id int64) bool {
	return len(s.merchantCards[id]) > 0
}
