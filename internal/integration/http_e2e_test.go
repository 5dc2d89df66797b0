package integration

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	server "github.com/llSiddharthll/Leads-Generator/internal/adapters/http_server"
	"github.com/llSiddharthll/Leads-Generator/internal/adapters/nominatim"
	"github.com/llSiddharthll/Leads-Generator/internal/adapters/overpass"
	"github.com/llSiddharthll/Leads-Generator/internal/app"
	"github.com/llSiddharthll/Leads-Generator/internal/domain"
)

// fake upstream payloads; the phone-bearing Central Bank comes first so the
// dedup pipeline keeps the more complete record
var overpassPayload = map[string]any{
	"elements": []any{
		map[string]any{
			"type": "node", "id": 1.0, "lat": 19.07, "lon": 72.87,
			"tags": map[string]any{
				"name": "Central Bank", "amenity": "bank",
				"phone":     "9876543210",
				"addr:street": "MG Road", "addr:city": "Mumbai",
			},
		},
		map[string]any{
			"type": "node", "id": 2.0, "lat": 19.08, "lon": 72.88,
			"tags": map[string]any{
				"name": "Central Bank", "amenity": "bank",
				"addr:street": "MG Road", "addr:city": "Mumbai",
			},
		},
		map[string]any{
			"type": "node", "id": 3.0, "lat": 19.09, "lon": 72.89,
			"tags": map[string]any{"name": "shop", "amenity": "bank"},
		},
		map[string]any{
			"type": "way", "id": 4.0,
			"center": map[string]any{"lat": 19.1, "lon": 72.9},
			"tags":   map[string]any{"name": "Axis Bank (HQ)", "amenity": "bank"},
		},
	},
}

func newTestAPI(t *testing.T, geocodeBody string) *httptest.Server {
	t.Helper()

	nomSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(geocodeBody))
	}))
	t.Cleanup(nomSrv.Close)

	poiSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(overpassPayload)
	}))
	t.Cleanup(poiSrv.Close)

	geocoder := nominatim.New(nomSrv.URL, "e2e-test", 100)
	poi := overpass.New(poiSrv.URL, "e2e-test", 5*time.Second, 1, 100)
	search := app.NewSearchService(geocoder, poi, app.DefaultSynonyms(), "+91")

	srv := server.New()
	srv.MountHandlers(&server.Handlers{S: search})

	api := httptest.NewServer(srv.Mux())
	t.Cleanup(api.Close)
	return api
}

func get(t *testing.T, url string) (*http.Response, []byte) {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("GET %s: %v", url, err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return resp, body
}

func TestFindBusinesses_E2E(t *testing.T) {
	api := newTestAPI(t, `[{"lat":"19.0760","lon":"72.8777"}]`)

	resp, body := get(t, api.URL+"/v1/businesses?category=bank&location=Mumbai&radius_km=2")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status %d: %s", resp.StatusCode, body)
	}

	var out struct {
		Count      int               `json:"count"`
		Businesses []domain.Business `json:"businesses"`
	}
	if err := json.Unmarshal(body, &out); err != nil {
		t.Fatalf("decode: %v", err)
	}

	// placeholder-named element excluded, duplicate collapsed, sorted by name
	if out.Count != 2 || len(out.Businesses) != 2 {
		t.Fatalf("unexpected result: %s", body)
	}
	if out.Businesses[0].Name != "Axis Bank" || out.Businesses[1].Name != "Central Bank" {
		t.Fatalf("unexpected order: %s", body)
	}
	// the surviving Central Bank is the one with the phone number
	cb := out.Businesses[1]
	if cb.Contact == nil || cb.Contact["phone"] != "+919876543210" {
		t.Fatalf("expected phone-bearing duplicate to survive: %s", body)
	}
	// way element got its coordinates from the center point
	ab := out.Businesses[0]
	if ab.Latitude == nil || *ab.Latitude != 19.1 {
		t.Fatalf("expected center coordinates for the way element: %s", body)
	}
	if ab.SourceID != "way_4" {
		t.Fatalf("source id: %q", ab.SourceID)
	}
}

func TestFindBusinesses_E2E_InvalidRadius(t *testing.T) {
	api := newTestAPI(t, `[{"lat":"19.0760","lon":"72.8777"}]`)

	resp, _ := get(t, api.URL+"/v1/businesses?category=bank&location=Mumbai&radius_km=60")
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "application/problem+json" {
		t.Fatalf("content type: %q", ct)
	}
}

func TestFindBusinesses_E2E_GeocodeMiss(t *testing.T) {
	api := newTestAPI(t, `[]`)

	resp, body := get(t, api.URL+"/v1/businesses?category=bank&location=Atlantis&radius_km=2")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status %d", resp.StatusCode)
	}
	var out struct {
		Count      int   `json:"count"`
		Businesses []any `json:"businesses"`
	}
	if err := json.Unmarshal(body, &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out.Count != 0 || out.Businesses == nil || len(out.Businesses) != 0 {
		t.Fatalf("expected zero-count empty list, got %s", body)
	}
}

func TestFindBusinesses_E2E_MissingRadius(t *testing.T) {
	api := newTestAPI(t, `[]`)
	resp, _ := get(t, api.URL+"/v1/businesses?category=bank&location=Mumbai")
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}
