package nominatim

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"golang.org/x/time/rate"

	"github.com/llSiddharthll/Leads-Generator/internal/adapters/observability"
	"github.com/llSiddharthll/Leads-Generator/internal/domain"
)

// Client geocodes free-text locations through Nominatim. Single attempt per
// call: the provider is rate-limited and the caller treats a miss and a
// failure the same way. The client-side limiter keeps us inside the usage
// policy (1 req/s for the public instance).
type Client struct {
	base string
	ua   string
	hc   *http.Client
	rl   *rate.Limiter
}

func New(base, userAgent string, rps int) *Client {
	if rps <= 0 {
		rps = 1
	}
	return &Client{
		base: base,
		ua:   userAgent,
		hc:   &http.Client{Timeout: 20 * time.Second},
		rl:   rate.NewLimiter(rate.Limit(rps), rps),
	}
}

type searchHit struct {
	Lat string `json:"lat"`
	Lon string `json:"lon"`
}

func (c *Client) Geocode(ctx context.Context, location string) (*domain.Coords, error) {
	if err := c.rl.Wait(ctx); err != nil {
		return nil, err
	}

	q := url.Values{"q": {location}, "format": {"json"}, "limit": {"1"}}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.base+"?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", c.ua)
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.hc.Do(req)
	if err != nil {
		observability.ObserveExternal("nominatim", "search", 0, time.Since(start))
		return nil, err
	}
	defer resp.Body.Close()
	observability.ObserveExternal("nominatim", "search", resp.StatusCode, time.Since(start))

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("nominatim: status %d", resp.StatusCode)
	}

	var hits []searchHit
	if err := json.NewDecoder(resp.Body).Decode(&hits); err != nil {
		return nil, fmt.Errorf("nominatim: decode: %w", err)
	}
	if len(hits) == 0 {
		return nil, nil
	}

	lat, latErr := strconv.ParseFloat(hits[0].Lat, 64)
	lon, lonErr := strconv.ParseFloat(hits[0].Lon, 64)
	if latErr != nil || lonErr != nil {
		return nil, fmt.Errorf("nominatim: malformed coordinates %q/%q", hits[0].Lat, hits[0].Lon)
	}
	return &domain.Coords{Lat: lat, Lon: lon}, nil
}
