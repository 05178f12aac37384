// Package criteria composes the optional merchant filters (position and
// radius, card names, card id, category, keyword) into one predicate.
//
// Every criterion is either present or absent. Absent criteria impose no
// constraint; present ones combine with AND. The predicate is evaluated in
// memory by Matches and rendered to SQL by the PostGIS repository.
package criteria

import (
	"slices"
	"strings"

	"github.com/fekuna/cardmap-service/internal/geo"
	"github.com/fekuna/cardmap-service/internal/merchant/dto"
	"github.com/fekuna/cardmap-service/internal/model"
)

type Criteria struct {
	center     *geo.Point
	radius     float64
	cardNames  []string
	byNames    bool
	cardID     *int64
	categoryID *int64
	keyword    *string
	onlyActive bool
}

// New returns criteria with nothing constrained.
func New() Criteria {
	return Criteria{}
}

// Near keeps geocoded merchants within radiusMeters of center.
func (c Criteria) Near(center geo.Point, radiusMeters float64) Criteria {
	c.center = &center
	c.radius = radiusMeters
	return c
}

// AcceptingCardNames keeps merchants that accept at least one of names.
// Blank names are dropped. An empty set is still a present criterion and
// matches nothing; callers wanting "any card" must not call this.
func (c Criteria) AcceptingCardNames(names []string) Criteria {
	c.cardNames = normalizeNames(names)
	c.byNames = true
	return c
}

func (c Criteria) AcceptingCard(cardID int64) Criteria {
	c.cardID = &cardID
	return c
}

func (c Criteria) InCategory(categoryID int64) Criteria {
	c.categoryID = &categoryID
	return c
}

// MatchingKeyword keeps merchants whose name or address contains keyword,
// case-insensitively. A blank keyword leaves the criterion absent.
func (c Criteria) MatchingKeyword(keyword string) Criteria {
	kw := strings.TrimSpace(keyword)
	if kw == "" {
		c.keyword = nil
		return c
	}
	c.keyword = &kw
	return c
}

// OnlyActive keeps merchants that accept at least one card.
func (c Criteria) OnlyActive() Criteria {
	c.onlyActive = true
	return c
}

// FromSearchFilters builds the search predicate. Search always runs over
// active merchants.
func FromSearchFilters(f *dto.SearchFilters) Criteria {
	c := New().OnlyActive()
	if f == nil {
		return c
	}
	if f.CardID != nil {
		c = c.AcceptingCard(*f.CardID)
	}
	if f.CategoryID != nil {
		c = c.InCategory(*f.CategoryID)
	}
	if f.Keyword != nil {
		c = c.MatchingKeyword(*f.Keyword)
	}
	return c
}

func (c Criteria) Center() (geo.Point, float64, bool) {
	if c.center == nil {
		return geo.Point{}, 0, false
	}
	return *c.center, c.radius, true
}

func (c Criteria) CardNames() ([]string, bool) {
	if !c.byNames {
		return nil, false
	}
	out := make([]string, len(c.cardNames))
	copy(out, c.cardNames)
	return out, true
}

func (c Criteria) CardID() (int64, bool) {
	if c.cardID == nil {
		return 0, false
	}
	return *c.cardID, true
}

func (c Criteria) CategoryID() (int64, bool) {
	if c.categoryID == nil {
		return 0, false
	}
	return *c.categoryID, true
}

func (c Criteria) Keyword() (string, bool) {
	if c.keyword == nil {
		return "", false
	}
	return *c.keyword, true
}

func (c Criteria) RequiresActive() bool {
	return c.onlyActive
}

// Spatial reports whether results carry a distance and rank by it.
func (c Criteria) Spatial() bool {
	return c.center != nil
}

// Candidate is what the in-memory evaluation needs to know about a merchant.
type Candidate struct {
	Merchant  *model.Merchant
	CardIDs   []int64
	CardNames []string
}

// Matches evaluates the predicate against a candidate. For spatial criteria
// it also returns the distance from the center in meters.
func (c Criteria) Matches(cand Candidate) (float64, bool) {
	m := cand.Merchant
	if m == nil {
		return 0, false
	}

	if c.onlyActive && len(cand.CardIDs) == 0 {
		return 0, false
	}
	if c.cardID != nil && !slices.Contains(cand.CardIDs, *c.cardID) {
		return 0, false
	}
	if c.byNames && !containsAnyName(cand.CardNames, c.cardNames) {
		return 0, false
	}
	if c.categoryID != nil && (m.CategoryID == nil || *m.CategoryID != *c.categoryID) {
		return 0, false
	}
	if c.keyword != nil {
		kw := strings.ToLower(*c.keyword)
		if !strings.Contains(strings.ToLower(m.Name), kw) &&
			!strings.Contains(strings.ToLower(m.Address), kw) {
			return 0, false
		}
	}

	if c.center == nil {
		return 0, true
	}
	if m.Location == nil {
		return 0, false
	}
	d := geo.DistanceMeters(*c.center, *m.Location)
	if d > c.radius {
		return 0, false
	}
	return d, true
}

func normalizeNames(names []string) []string {
	seen := make(map[string]struct{}, len(names))
	out := make([]string, 0, len(names))
	for _, n := range names {
		n = strings.TrimSpace(n)
		if n == "" {
			continue
		}
		if _, ok := seen[n]; ok {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, n)
	}
	return out
}

func containsAnyName(have, want []string) bool {
	return slices.ContainsFunc(want, func(w string) bool {
		return slices.Contains(have, w)
	})
}
