package location

import (
	"sort"
	"strings"
)

// City is one entry of the coordinate catalog.
type City struct {
	Name string
	Lat  float64
	Lng  float64
}

// catalog is the fixed city -> coordinate table the distance fallback uses
// when two locations are not the same place. Read-only after init; extend
// by adding rows, never by mutating at runtime.
var catalog = map[string]City{
	"mumbai":        {Name: "Mumbai", Lat: 19.0760, Lng: 72.8777},
	"delhi":         {Name: "Delhi", Lat: 28.6139, Lng: 77.2090},
	"bangalore":     {Name: "Bangalore", Lat: 12.9716, Lng: 77.5946},
	"hyderabad":     {Name: "Hyderabad", Lat: 17.3850, Lng: 78.4867},
	"chennai":       {Name: "Chennai", Lat: 13.0827, Lng: 80.2707},
	"kolkata":       {Name: "Kolkata", Lat: 22.5726, Lng: 88.3639},
	"pune":          {Name: "Pune", Lat: 18.5204, Lng: 73.8567},
	"ahmedabad":     {Name: "Ahmedabad", Lat: 23.0225, Lng: 72.5714},
	"jaipur":        {Name: "Jaipur", Lat: 26.9124, Lng: 75.7873},
	"surat":         {Name: "Surat", Lat: 21.1702, Lng: 72.8311},
	"lucknow":       {Name: "Lucknow", Lat: 26.8467, Lng: 80.9462},
	"kanpur":        {Name: "Kanpur", Lat: 26.4499, Lng: 80.3319},
	"nagpur":        {Name: "Nagpur", Lat: 21.1458, Lng: 79.0882},
	"patna":         {Name: "Patna", Lat: 25.5941, Lng: 85.1376},
	"indore":        {Name: "Indore", Lat: 22.7196, Lng: 75.8577},
	"thane":         {Name: "Thane", Lat: 19.2183, Lng: 72.9781},
	"bhopal":        {Name: "Bhopal", Lat: 23.2599, Lng: 77.4126},
	"visakhapatnam": {Name: "Visakhapatnam", Lat: 17.6868, Lng: 83.2185},
	"vadodara":      {Name: "Vadodara", Lat: 22.3072, Lng: 73.1812},
	"firozabad":     {Name: "Firozabad", Lat: 27.1592, Lng: 78.3957},
}

// anchorCity is substituted for any name the catalog cannot resolve.
var anchorCity = catalog["mumbai"]

// catalogKeys keeps partial-match resolution deterministic; map iteration
// order would make ambiguous names resolve differently across calls.
var catalogKeys = func() []string {
	keys := make([]string, 0, len(catalog))
	for k := range catalog {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}()

// FindCity resolves a free-text name against the catalog: exact key match
// first, then a partial match where either the key contains the name or
// the name contains the key ("navi mumbai" resolves to mumbai).
func FindCity(name string) (City, bool) {
	n := strings.ToLower(strings.TrimSpace(name))
	if n == "" {
		return City{}, false
	}
	if c, ok := catalog[n]; ok {
		return c, true
	}
	for _, key := range catalogKeys {
		if strings.Contains(key, n) || strings.Contains(n, key) {
			return catalog[key], true
		}
	}
	return City{}, false
}
