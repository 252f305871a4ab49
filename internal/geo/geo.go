// Package geo resolves event coordinates to a city name through a reverse
// geocoding provider.
package geo

import "context"

// LocalityType is the classification of a result that names a city.
const LocalityType = "locality"

// Result is one reverse geocoding match. Types are ordered by relevance, the
// first one being the primary classification.
type Result struct {
	Types     []string
	ShortName string
}

// Geocoder is a reverse geocoding provider.
type Geocoder interface {
	ReverseGeocode(ctx context.Context, lat, lng float64) ([]Result, error)
}

// GeocoderFunc adapts a function to the Geocoder interface.
type GeocoderFunc func(ctx context.Context, lat, lng float64) ([]Result, error)

func (f GeocoderFunc) ReverseGeocode(ctx context.Context, lat, lng float64) ([]Result, error) {
	return f(ctx, lat, lng)
}

// firstLocality returns the short name of the first result whose primary
// type is locality.
func firstLocality(results []Result) (string, bool) {
	for _, r := range results {
		if len(r.Types) > 0 && r.Types[0] == LocalityType {
			return r.ShortName, true
		}
	}
	return "", false
}
