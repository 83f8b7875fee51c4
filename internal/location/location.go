package location

import (
	"math"
	"regexp"
	"strings"
)

var separators = regexp.MustCompile(`[,.\s]+`)

// Normalize lowercases, trims, and collapses runs of commas, periods and
// whitespace into single spaces so free-text place names compare cleanly.
// Idempotent: Normalize(Normalize(s)) == Normalize(s).
func Normalize(s string) string {
	return strings.TrimSpace(separators.ReplaceAllString(strings.ToLower(s), " "))
}

// SameLocation reports whether two free-text locations denote the same
// place. Besides normalized equality, a substring either way counts, so
// "Pune" matches "Pune, Maharashtra". The substring rule is deliberately
// permissive and can false-positive on short names ("Pune" also matches
// "Puneet Nagar"); that trade-off is accepted product behavior.
func SameLocation(a, b string) bool {
	na, nb := Normalize(a), Normalize(b)
	if na == "" || nb == "" {
		return false
	}
	if na == nb {
		return true
	}
	return strings.Contains(na, nb) || strings.Contains(nb, na)
}

// Haversine returns the great-circle distance in kilometers.
func Haversine(lat1, lon1, lat2, lon2 float64) float64 {
	const earthRadiusKm = 6371.0
	dLat := (lat2 - lat1) * math.Pi / 180
	dLon := (lon2 - lon1) * math.Pi / 180
	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1*math.Pi/180)*math.Cos(lat2*math.Pi/180)*math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return earthRadiusKm * c
}

// CityDistance resolves both names against the city catalog and returns
// the haversine distance in whole kilometers. A name the catalog does not
// know resolves to the default anchor city, which keeps scoring total but
// makes distances for out-of-catalog inputs meaningless; callers treat the
// catalog as a closed lookup table, not a geocoder.
func CityDistance(from, to string) float64 {
	a := findCityOrAnchor(from)
	b := findCityOrAnchor(to)
	return math.Round(Haversine(a.Lat, a.Lng, b.Lat, b.Lng))
}

func findCityOrAnchor(name string) City {
	if c, ok := FindCity(name); ok {
		return c
	}
	return anchorCity
}
