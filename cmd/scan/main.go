// scan runs the same search pipeline as the API across a batch of locations
// and prints one JSON document with the results per location.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"os"
	"strings"
	"sync"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/semaphore"

	"github.com/llSiddharthll/Leads-Generator/internal/adapters/nominatim"
	"github.com/llSiddharthll/Leads-Generator/internal/adapters/observability"
	"github.com/llSiddharthll/Leads-Generator/internal/adapters/overpass"
	"github.com/llSiddharthll/Leads-Generator/internal/app"
	"github.com/llSiddharthll/Leads-Generator/internal/shared"
)

func main() {
	category := flag.String("category", "", "business category to search for")
	locations := flag.String("locations", "", "comma-separated list of locations")
	radius := flag.Float64("radius", 5, "search radius in km")
	workers := flag.Int("workers", 2, "concurrent locations")
	flag.Parse()

	_ = godotenv.Load()
	cfg := shared.Load()
	log.Logger = observability.NewLogger(cfg.AppEnv)

	var locs []string
	for _, l := range strings.Split(*locations, ",") {
		if l = strings.TrimSpace(l); l != "" {
			locs = append(locs, l)
		}
	}
	if *category == "" || len(locs) == 0 {
		log.Fatal().Msg("-category and -locations are required")
	}

	geocoder := nominatim.New(cfg.NominatimURL, cfg.UserAgent, cfg.NominatimRPS)
	poi := overpass.New(cfg.OverpassURL, cfg.UserAgent, cfg.FetchTimeout, cfg.FetchRetries, cfg.OverpassRPS)
	search := app.NewSearchService(geocoder, poi, app.DefaultSynonyms(), cfg.DefaultPhoneCC)

	ctx := context.Background()
	sem := semaphore.NewWeighted(int64(*workers))

	var (
		mu      sync.Mutex
		wg      sync.WaitGroup
		results = make(map[string]app.SearchResult, len(locs))
	)

	for _, loc := range locs {
		// acquire before launching the goroutine; release inside it
		if err := sem.Acquire(ctx, 1); err != nil {
			log.Fatal().Err(err).Msg("semaphore acquire failed")
		}

		wg.Add(1)
		go func(location string) {
			defer wg.Done()
			defer sem.Release(1)

			out, err := search.FindBusinesses(ctx, *category, location, *radius)
			if err != nil {
				log.Warn().Str("location", location).Err(err).Msg("scan failed")
				return
			}
			log.Info().Str("location", location).Int("count", out.Count).Msg("scan ok")

			mu.Lock()
			results[location] = out
			mu.Unlock()
		}(loc)
	}

	wg.Wait()

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(results); err != nil {
		log.Fatal().Err(err).Msg("encode results failed")
	}
}
