package shared

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	AppEnv         string
	HTTPAddr       string
	MetricsAddr    string
	OverpassURL    string
	NominatimURL   string
	UserAgent      string
	FetchTimeout   time.Duration
	FetchRetries   int
	OverpassRPS    int
	NominatimRPS   int
	DefaultPhoneCC string
}

func Load() Config {
	atoi := func(k string, def int) int {
		if v := os.Getenv(k); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				return n
			}
		}
		return def
	}
	return Config{
		AppEnv:         env("APP_ENV", "prod"),
		HTTPAddr:       env("HTTP_ADDR", ":8080"),
		MetricsAddr:    env("METRICS_ADDR", ":9100"),
		OverpassURL:    env("OVERPASS_URL", "https://overpass-api.de/api/interpreter"),
		NominatimURL:   env("NOMINATIM_URL", "https://nominatim.openstreetmap.org/search"),
		UserAgent:      env("USER_AGENT", "business-finder/1.0"),
		FetchTimeout:   time.Duration(atoi("FETCH_TIMEOUT_SECONDS", 30)) * time.Second,
		FetchRetries:   atoi("FETCH_MAX_RETRIES", 3),
		OverpassRPS:    atoi("OVERPASS_RPS", 1),
		NominatimRPS:   atoi("NOMINATIM_RPS", 1),
		DefaultPhoneCC: env("DEFAULT_PHONE_CC", "+91"),
	}
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
