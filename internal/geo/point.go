// Package geo holds the WGS84 point type and the great-circle distance used
// for ranking and reporting merchant distances.
package geo

import (
	"errors"
	"fmt"
	"math"
	"strconv"
)

// SRID of every Point: WGS84 longitude/latitude.
const SRID = 4326

var ErrInvalidCoordinate = errors.New("invalid coordinate")

// Point is an immutable longitude/latitude pair. The zero value is not a
// valid location; build points with PointFromLngLat.
type Point struct {
	lng   float64
	lat   float64
	valid bool
}

// PointFromLngLat takes longitude first, matching the x/y order PostGIS uses.
func PointFromLngLat(lng, lat float64) (Point, error) {
	if math.IsNaN(lat) || math.IsInf(lat, 0) || lat < -90 || lat > 90 {
		return Point{}, fmt.Errorf("%w: latitude %v out of range [-90, 90]", ErrInvalidCoordinate, lat)
	}
	if math.IsNaN(lng) || math.IsInf(lng, 0) || lng < -180 || lng > 180 {
		return Point{}, fmt.Errorf("%w: longitude %v out of range [-180, 180]", ErrInvalidCoordinate, lng)
	}
	return Point{lng: lng, lat: lat, valid: true}, nil
}

func (p Point) Lng() float64 { return p.lng }
func (p Point) Lat() float64 { return p.lat }
func (p Point) SRID() int    { return SRID }

// IsZero reports whether p was not built through PointFromLngLat.
func (p Point) IsZero() bool { return !p.valid }

// String returns EWKT, e.g. SRID=4326;POINT(126.978 37.5665).
func (p Point) String() string {
	return fmt.Sprintf("SRID=%d;POINT(%s %s)", SRID,
		strconv.FormatFloat(p.lng, 'f', -1, 64), strconv.FormatFloat(p.lat, 'f', -1, 64))
}
