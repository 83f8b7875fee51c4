package pricing

import (
	"math"

	"github.com/example/carpool-matching/internal/location"
)

// FarePerKm is the flat intercity rate in rupees.
const FarePerKm = 4

// DefaultSpeedKmh approximates intercity driving speed for the duration
// estimate shown alongside a route.
const DefaultSpeedKmh = 60.0

// Fare returns the rupee fare for a distance in kilometers.
func Fare(distanceKm float64) float64 {
	return distanceKm * FarePerKm
}

// FarePaise returns the fare in paise, the unit Stripe charges INR in.
func FarePaise(distanceKm float64) int64 {
	return int64(math.Round(Fare(distanceKm) * 100))
}

// EstimateHours returns the approximate driving time for a distance.
func EstimateHours(distanceKm float64) float64 {
	if distanceKm <= 0 {
		return 0
	}
	return distanceKm / DefaultSpeedKmh
}

// Route is a precomputed popular intercity route with fare and duration.
type Route struct {
	From       string  `json:"from"`
	To         string  `json:"to"`
	DistanceKm float64 `json:"distance_km"`
	Fare       float64 `json:"fare"`
	Hours      float64 `json:"hours"`
}

var popularPairs = [][2]string{
	{"Mumbai", "Pune"},
	{"Delhi", "Jaipur"},
	{"Bangalore", "Chennai"},
	{"Mumbai", "Ahmedabad"},
	{"Delhi", "Lucknow"},
	{"Hyderabad", "Bangalore"},
}

// PopularRoutes computes the standing list of promoted intercity routes
// from the city catalog.
func PopularRoutes() []Route {
	out := make([]Route, 0, len(popularPairs))
	for _, p := range popularPairs {
		d := location.CityDistance(p[0], p[1])
		out = append(out, Route{
			From:       p[0],
			To:         p[1],
			DistanceKm: d,
			Fare:       Fare(d),
			Hours:      math.Round(EstimateHours(d)),
		})
	}
	return out
}
