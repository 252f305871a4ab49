package geo

import (
	"context"
	"fmt"
	"net/http"

	"googlemaps.github.io/maps"
)

// GoogleGeocoder implements Geocoder using the Google Maps Geocoding API.
type GoogleGeocoder struct {
	client *maps.Client
}

// NewGoogleGeocoder creates a geocoder authenticated with apiKey. A non-empty
// baseURL replaces the API host.
func NewGoogleGeocoder(apiKey, baseURL string, httpClient *http.Client) (*GoogleGeocoder, error) {
	opts := []maps.ClientOption{maps.WithAPIKey(apiKey)}
	if baseURL != "" {
		opts = append(opts, maps.WithBaseURL(baseURL))
	}
	if httpClient != nil {
		opts = append(opts, maps.WithHTTPClient(httpClient))
	}

	client, err := maps.NewClient(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create maps client: %w", err)
	}
	return &GoogleGeocoder{client: client}, nil
}

// ReverseGeocode returns the provider results in order. Each result carries
// the short name of its first address component.
func (g *GoogleGeocoder) ReverseGeocode(ctx context.Context, lat, lng float64) ([]Result, error) {
	resp, err := g.client.ReverseGeocode(ctx, &maps.GeocodingRequest{
		LatLng: &maps.LatLng{Lat: lat, Lng: lng},
	})
	if err != nil {
		return nil, fmt.Errorf("reverse geocode failed: %w", err)
	}

	results := make([]Result, 0, len(resp))
	for _, r := range resp {
		res := Result{Types: r.Types}
		if len(r.AddressComponents) > 0 {
			res.ShortName = r.AddressComponents[0].ShortName
		}
		results = append(results, res)
	}
	return results, nil
}
