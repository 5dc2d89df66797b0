package domain

import "context"

type Coords struct{ Lat, Lon float64 }

// Geocoder resolves free-text locations to coordinates. A nil result with a
// nil error means the provider had no match.
type Geocoder interface {
	Geocode(ctx context.Context, location string) (*Coords, error)
}

// POIClient executes an Overpass QL query and returns the decoded response,
// a mapping whose "elements" key holds the raw tagged elements.
type POIClient interface {
	Query(ctx context.Context, ql string) (map[string]any, error)
}
