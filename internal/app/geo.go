package app

import (
	"math"

	"stayhub/internal/domain"
)

const earthRadiusKm = 6371

// haversineKm returns the great-circle distance between two points in
// kilometres, rounded to one decimal place.
func haversineKm(from, to domain.Location) float64 {
	dLat := rad(to.Lat - from.Lat)
	dLng := rad(to.Lng - from.Lng)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(rad(from.Lat))*math.Cos(rad(to.Lat))*
			math.Sin(dLng/2)*math.Sin(dLng/2)

	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return math.Round(earthRadiusKm*c*10) / 10
}

func rad(degrees float64) float64 { return degrees * math.Pi / 180 }
