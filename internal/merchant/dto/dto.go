package dto

import "github.com/fekuna/cardmap-service/internal/model"

type CategoryDTO struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type CardDTO struct {
	ID       int64   `json:"id"`
	Name     string  `json:"name"`
	ColorHex *string `json:"color_hex,omitempty"`
	Issuer   *string `json:"issuer,omitempty"`
}

// SearchResult is a merchant as returned by discovery reads. Distance is
// nil when the query carried no position.
type SearchResult struct {
	ID            int64        `json:"id"`
	Name          string       `json:"name"`
	Address       string       `json:"address"`
	Latitude      *float64     `json:"latitude"`
	Longitude     *float64     `json:"longitude"`
	Phone         *string      `json:"phone,omitempty"`
	BusinessHours *string      `json:"business_hours,omitempty"`
	Category      *CategoryDTO `json:"category"`
	Distance      *float64     `json:"distance,omitempty"`
}

type MerchantDetail struct {
	ID             int64        `json:"id"`
	Name           string       `json:"name"`
	Address        string       `json:"address"`
	Latitude       *float64     `json:"latitude"`
	Longitude      *float64     `json:"longitude"`
	Phone          *string      `json:"phone,omitempty"`
	BusinessHours  *string      `json:"business_hours,omitempty"`
	Category       *CategoryDTO `json:"category"`
	AvailableCards []CardDTO    `json:"available_cards"`
	Distance       *float64     `json:"distance,omitempty"`
}

func NewSearchResult(m *model.Merchant, distance *float64) SearchResult {
	r := SearchResult{
		ID:            m.ID,
		Name:          m.Name,
		Address:       m.Address,
		Phone:         m.Phone,
		BusinessHours: m.BusinessHours,
		Category:      newCategoryDTO(m.Category),
		Distance:      distance,
	}
	if m.Location != nil {
		lat, lng := m.Location.Lat(), m.Location.Lng()
		r.Latitude, r.Longitude = &lat, &lng
	}
	return r
}

func NewMerchantDetail(m *model.Merchant, cards []model.Card, distance *float64) *MerchantDetail {
	d := &MerchantDetail{
		ID:             m.ID,
		Name:           m.Name,
		Address:        m.Address,
		Phone:          m.Phone,
		BusinessHours:  m.BusinessHours,
		Category:       newCategoryDTO(m.Category),
		AvailableCards: make([]CardDTO, len(cards)),
		Distance:       distance,
	}
	if m.Location != nil {
		lat, lng := m.Location.Lat(), m.Location.Lng()
		d.Latitude, d.Longitude = &lat, &lng
	}
	for i, c := range cards {
		d.AvailableCards[i] = CardDTO{ID: c.ID, Name: c.Name, ColorHex: c.ColorHex, Issuer: c.Issuer}
	}
	return d
}

func newCategoryDTO(c *model.Category) *CategoryDTO {
	if c == nil {
		return nil
	}
	return &CategoryDTO{ID: c.ID, Name: c.Name}
}
