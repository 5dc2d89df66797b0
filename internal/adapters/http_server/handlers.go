package httpserver

import (
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/llSiddharthll/Leads-Generator/internal/app"
)

type Handlers struct{ S *app.SearchService }

type problem struct {
	Type   string `json:"type"`
	Title  string `json:"title"`
	Status int    `json:"status"`
	Detail string `json:"detail,omitempty"`
}

func (s *Server) MountHandlers(h *Handlers) {
	s.mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); _, _ = w.Write([]byte("ok")) })
	s.mux.Get("/v1/businesses", h.findBusinesses)
}

func writeProblem(w http.ResponseWriter, status int, title, detail string) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(problem{Type: "about:blank", Title: title, Status: status, Detail: detail}); err != nil {
		log.Error().Err(err).Msg("write JSON problem response failed")
	}
}

// calcETagAndBody marshals once and hashes once, returning both ETag and body.
func calcETagAndBody(v any) (string, []byte) {
	body, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Msg("failed to marshal object for ETag/body")
		return "", nil
	}
	sum := sha1.Sum(body)
	etag := `W/"` + hex.EncodeToString(sum[:]) + `"`
	return etag, body
}

func (h *Handlers) findBusinesses(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	category := q.Get("category")
	if category == "" {
		category = q.Get("niche") // legacy parameter name
	}
	location := q.Get("location")

	radiusStr := q.Get("radius_km")
	radius, err := strconv.ParseFloat(strings.TrimSpace(radiusStr), 64)
	if err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid radius", "radius_km must be a number")
		return
	}

	out, err := h.S.FindBusinesses(r.Context(), category, location, radius)
	if err != nil {
		if errors.Is(err, app.ErrInvalidArgument) {
			writeProblem(w, http.StatusBadRequest, "Invalid argument", err.Error())
			return
		}
		// upstream problems degrade to empty results inside the service, so
		// anything else here is unexpected
		log.Error().Err(err).Msg("search failed")
		writeProblem(w, http.StatusInternalServerError, "Internal error", "")
		return
	}

	etag, body := calcETagAndBody(out)
	if inm := r.Header.Get("If-None-Match"); inm != "" && inm == etag {
		w.Header().Set("ETag", etag)
		w.WriteHeader(http.StatusNotModified)
		return
	}

	w.Header().Set("ETag", etag)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		log.Error().Err(err).Msg("failed to write findBusinesses body")
	}
}
