package geo

import "math"

const earthRadiusKm = 6371.0

// DistanceMeters is the haversine distance between a and b in meters,
// rounded to two decimals.
func DistanceMeters(a, b Point) float64 {
	lat1 := toRadians(a.lat)
	lat2 := toRadians(b.lat)
	dLat := toRadians(b.lat - a.lat)
	dLng := toRadians(b.lng - a.lng)

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLng/2)*math.Sin(dLng/2)
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))

	d := earthRadiusKm * c * 1000
	return math.Round(d*100) / 100
}

// Box is a lng/lat rectangle, inclusive on all sides.
type Box struct {
	MinLng, MinLat float64
	MaxLng, MaxLat float64
}

// BoundingBox returns a box that contains every point within radiusMeters of
// center. It is a prefilter only: corners lie farther than the radius.
// Circles that reach a pole or cross the antimeridian get the full
// longitude range.
func BoundingBox(center Point, radiusMeters float64) Box {
	dLat := radiusMeters / (earthRadiusKm * 1000) * (180 / math.Pi)

	cosLat := math.Cos(toRadians(center.lat))
	dLng := 180.0
	if cosLat > 1e-9 {
		dLng = dLat / cosLat
	}

	box := Box{
		MinLng: center.lng - dLng,
		MaxLng: center.lng + dLng,
		MinLat: math.Max(-90, center.lat-dLat),
		MaxLat: math.Min(90, center.lat+dLat),
	}
	if box.MinLng < -180 || box.MaxLng > 180 || box.MinLat <= -90 || box.MaxLat >= 90 {
		box.MinLng, box.MaxLng = -180, 180
	}
	return box
}

func toRadians(deg float64) float64 {
	return deg * math.Pi / 180.0
}
