package app

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/llSiddharthll/Leads-Generator/internal/adapters/observability"
	"github.com/llSiddharthll/Leads-Generator/internal/domain"
)

// ErrInvalidArgument marks request validation failures. These surface to the
// caller; upstream fetch failures never do.
var ErrInvalidArgument = errors.New("invalid argument")

const maxRadiusKm = 50

// SearchResult is the inbound API envelope.
type SearchResult struct {
	Count      int               `json:"count"`
	Businesses []domain.Business `json:"businesses"`
}

type SearchService struct {
	geocoder  domain.Geocoder
	poi       domain.POIClient
	synonyms  map[string]string
	defaultCC string
}

// NewSearchService wires the search flow. synonyms maps common search terms
// to OSM category vocabulary and defaultCC is the country code assumed for
// bare local phone numbers.
func NewSearchService(g domain.Geocoder, p domain.POIClient, synonyms map[string]string, defaultCC string) *SearchService {
	if synonyms == nil {
		synonyms = DefaultSynonyms()
	}
	return &SearchService{geocoder: g, poi: p, synonyms: synonyms, defaultCC: defaultCC}
}

// FindBusinesses geocodes location and searches around it. A location the
// geocoder cannot resolve yields an empty result, not an error.
func (s *SearchService) FindBusinesses(ctx context.Context, category, location string, radiusKm float64) (SearchResult, error) {
	if strings.TrimSpace(location) == "" {
		return SearchResult{}, fmt.Errorf("%w: location is required", ErrInvalidArgument)
	}
	if err := validateSearch(0, 0, radiusKm, category); err != nil {
		return SearchResult{}, err
	}

	coords, err := s.geocoder.Geocode(ctx, location)
	if err != nil {
		log.Warn().Err(err).Str("location", location).Msg("geocoding failed")
		coords = nil
	}
	if coords == nil {
		return SearchResult{Businesses: []domain.Business{}}, nil
	}

	businesses, err := s.SearchNear(ctx, coords.Lat, coords.Lon, radiusKm, category)
	if err != nil {
		return SearchResult{}, err
	}
	return SearchResult{Count: len(businesses), Businesses: businesses}, nil
}

// SearchNear runs the full fetch → extract → dedup → sort cycle around a
// center point. An unrecoverable fetch failure degrades to an empty list so
// an upstream outage never becomes a hard error for the caller.
func (s *SearchService) SearchNear(ctx context.Context, lat, lon, radiusKm float64, category string) ([]domain.Business, error) {
	if err := validateSearch(lat, lon, radiusKm, category); err != nil {
		return nil, err
	}

	resolved := s.resolveCategory(category)
	ql := buildOverpassQL(lat, lon, int(radiusKm*1000), resolved)

	data, err := s.poi.Query(ctx, ql)
	if err != nil {
		log.Error().Err(err).Str("category", resolved).Msg("overpass fetch failed, returning empty result")
		return []domain.Business{}, nil
	}

	elements, _ := data["elements"].([]any)
	candidates := make([]domain.Business, 0, len(elements))
	for _, raw := range elements {
		el, ok := raw.(map[string]any)
		if !ok {
			continue
		}
		if b := ExtractBusiness(el, resolved, s.defaultCC); b != nil {
			candidates = append(candidates, *b)
		}
	}

	observability.ObservePipeline("extracted", len(candidates))

	unique := Deduplicate(candidates)
	observability.ObservePipeline("deduplicated", len(unique))

	// stable so records sharing a name keep their first-extracted order
	sort.SliceStable(unique, func(i, j int) bool {
		return strings.ToLower(unique[i].Name) < strings.ToLower(unique[j].Name)
	})

	log.Info().
		Str("category", resolved).
		Int("raw", len(candidates)).
		Int("unique", len(unique)).
		Msg("search completed")

	return unique, nil
}

func (s *SearchService) resolveCategory(category string) string {
	c := strings.ToLower(strings.TrimSpace(category))
	if mapped, ok := s.synonyms[c]; ok {
		return mapped
	}
	return c
}

func validateSearch(lat, lon, radiusKm float64, category string) error {
	for _, v := range []float64{lat, lon, radiusKm} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: coordinates and radius must be finite numbers", ErrInvalidArgument)
		}
	}
	if strings.TrimSpace(category) == "" {
		return fmt.Errorf("%w: category is required", ErrInvalidArgument)
	}
	if radiusKm <= 0 || radiusKm > maxRadiusKm {
		return fmt.Errorf("%w: radius_km must be within (0, %d]", ErrInvalidArgument, maxRadiusKm)
	}
	return nil
}

// buildOverpassQL requests nodes, ways and relations within radiusM meters
// whose amenity, shop or tourism tag matches filter case-insensitively.
// "out center" adds a computed center point for ways and relations.
func buildOverpassQL(lat, lon float64, radiusM int, filter string) string {
	// the filter lands inside a quoted regex; strip characters that could
	// break out of it
	filter = strings.NewReplacer(`"`, "", `\`, "").Replace(filter)

	var b strings.Builder
	b.WriteString("[out:json][timeout:90];\n(\n")
	for _, tag := range []string{"amenity", "shop", "tourism"} {
		for _, kind := range []string{"node", "way", "relation"} {
			fmt.Fprintf(&b, "  %s[\"%s\"~\"%s\", i](around:%d,%f,%f);\n",
				kind, tag, filter, radiusM, lat, lon)
		}
	}
	b.WriteString(");\nout center tags;\n")
	return b.String()
}

// DefaultSynonyms maps common search terms to the OSM category vocabulary.
// Unknown terms pass through unchanged.
func DefaultSynonyms() map[string]string {
	return map[string]string{
		"restaurant":  "restaurant",
		"cafe":        "cafe",
		"coffee":      "cafe",
		"coffee shop": "cafe",
		"hotel":       "hotel",
		"motel":       "motel",
		"pharmacy":    "pharmacy",
		"drugstore":   "pharmacy",
		"hospital":    "hospital",
		"clinic":      "clinic",
		"bank":        "bank",
		"atm":         "atm",
		"supermarket": "supermarket",
		"grocery":     "supermarket",
		"mall":        "mall",
		"shopping":    "shop",
		"store":       "shop",
		"gas":         "fuel",
		"gas station": "fuel",
		"petrol":      "fuel",
		"petrol pump": "fuel",
		"school":      "school",
		"university":  "university",
		"college":     "college",
	}
}
