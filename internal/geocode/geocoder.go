// Package geocode resolves free-text addresses against an external places
// service. The service is optional: every caller must degrade to the plain
// text address when lookups fail.
package geocode

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

// Result is one resolved place.
type Result struct {
	Address string
	Lat     float64
	Lng     float64
	PlaceID string
}

// ErrUnavailable is returned when the places service cannot be reached or
// returns no usable result. Callers fall back to the raw text input.
var ErrUnavailable = errors.New("geocoding service unavailable")

// Geocoder resolves free-text queries to places.
type Geocoder interface {
	Search(ctx context.Context, query string) (*Result, error)
}

// HTTPGeocoder performs lookups against a Nominatim-style HTTP endpoint.
type HTTPGeocoder struct {
	endpoint string
	client   *http.Client
}

// NewHTTPGeocoder creates a geocoder for the given endpoint.
func NewHTTPGeocoder(endpoint string) *HTTPGeocoder {
	return &HTTPGeocoder{
		endpoint: endpoint,
		client:   &http.Client{Timeout: 2 * time.Second},
	}
}

// Search returns the best match for the query, or ErrUnavailable when the
// service fails or finds nothing.
func (g *HTTPGeocoder) Search(ctx context.Context, query string) (*Result, error) {
	u := fmt.Sprintf("%s/search?format=json&limit=1&q=%s", g.endpoint, url.QueryEscape(query))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d", ErrUnavailable, resp.StatusCode)
	}

	var out []struct {
		DisplayName string `json:"display_name"`
		Lat         string `json:"lat"`
		Lon         string `json:"lon"`
		PlaceID     int64  `json:"place_id"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if len(out) == 0 {
		return nil, ErrUnavailable
	}

	var lat, lng float64
	if _, err := fmt.Sscanf(out[0].Lat, "%f", &lat); err != nil {
		return nil, fmt.Errorf("%w: bad latitude", ErrUnavailable)
	}
	if _, err := fmt.Sscanf(out[0].Lon, "%f", &lng); err != nil {
		return nil, fmt.Errorf("%w: bad longitude", ErrUnavailable)
	}

	return &Result{
		Address: out[0].DisplayName,
		Lat:     lat,
		Lng:     lng,
		PlaceID: fmt.Sprintf("%d", out[0].PlaceID),
	}, nil
}

var _ Geocoder = (*HTTPGeocoder)(nil)
