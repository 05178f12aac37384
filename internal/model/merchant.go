package model

import (
	"time"

	"github.com/fekuna/cardmap-service/internal/geo"
)

type Merchant struct {
	ID            int64      `db:"id" json:"id"`
	Name          string     `db:"name" json:"name"`
	Address       string     `db:"address" json:"address"`
	Location      *geo.Point `db:"-" json:"-"` // Nil until geocoded
	Phone         *string    `db:"phone" json:"phone"`
	BusinessHours *string    `db:"business_hours" json:"business_hours"`
	CategoryID    *int64     `db:"category_id" json:"category_id"`
	Category      *Category  `db:"-" json:"category"` // Joined data
	Cards         []Card     `db:"-" json:"cards"`    // Filled on detail reads
	CreatedAt     time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time  `db:"updated_at" json:"updated_at"`
}

// MerchantDistance is a merchant ranked by a radius query, with the
// distance the store computed in meters.
type MerchantDistance struct {
	Merchant Merchant
	Distance float64
}

type MerchantCard struct {
	MerchantID int64 `db:"merchant_id"`
	CardID     int64 `db:"card_id"`
}

type GeocodingStatus struct {
	Total              int     `json:"total"`
	WithCoordinates    int     `json:"with_coordinates"`
	WithoutCoordinates int     `json:"without_coordinates"`
	Percentage         float64 `json:"percentage"`
}

func NewGeocodingStatus(total, geocoded int) *GeocodingStatus {
	s := &GeocodingStatus{
		Total:              total,
		WithCoordinates:    geocoded,
		WithoutCoordinates: total - geocoded,
	}
	if total > 0 {
		s.Percentage = float64(geocoded) * 100 / float64(total)
	}
	return s
}
