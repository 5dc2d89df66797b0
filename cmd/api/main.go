package main

import (
	"net/http"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	server "github.com/llSiddharthll/Leads-Generator/internal/adapters/http_server"
	"github.com/llSiddharthll/Leads-Generator/internal/adapters/nominatim"
	"github.com/llSiddharthll/Leads-Generator/internal/adapters/observability"
	"github.com/llSiddharthll/Leads-Generator/internal/adapters/overpass"
	"github.com/llSiddharthll/Leads-Generator/internal/app"
	"github.com/llSiddharthll/Leads-Generator/internal/shared"
)

func main() {
	_ = godotenv.Load() // optional .env, same keys as the environment

	cfg := shared.Load()

	// set global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv)

	observability.Serve()

	geocoder := nominatim.New(cfg.NominatimURL, cfg.UserAgent, cfg.NominatimRPS)
	poi := overpass.New(cfg.OverpassURL, cfg.UserAgent, cfg.FetchTimeout, cfg.FetchRetries, cfg.OverpassRPS)
	search := app.NewSearchService(geocoder, poi, app.DefaultSynonyms(), cfg.DefaultPhoneCC)

	srv := server.New()
	reg := observability.InitRegistry()
	srv.Mount("/metrics", observability.MetricsHandler(reg))
	srv.MountHandlers(&server.Handlers{S: search})

	log.Info().Str("addr", cfg.HTTPAddr).Msg("API listening")
	httpSrv := &http.Server{Addr: cfg.HTTPAddr, Handler: srv.Mux()}

	if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal().Err(err).Msg("http server failed")
	}
}
