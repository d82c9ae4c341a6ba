package handlers

import (
	"context"
	"net/http"

	"github.com/geoproc/internal/geocode"
)

// Geocoder resolves a free-form address query into location candidates
type Geocoder interface {
	Geocode(ctx context.Context, query string) ([]geocode.Candidate, error)
}

// SearchHandler proxies address searches to the geocoding service
type SearchHandler struct {
	Geocoder Geocoder
	Config   *Config
}

// SearchResponse is the body of GET /api/search
type SearchResponse struct {
	Query      string              `json:"query"`
	Candidates []geocode.Candidate `json:"candidates"`
}

// Search handles GET /api/search?q=
func (h *SearchHandler) Search(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	if query == "" {
		writeError(w, http.StatusBadRequest, KindInvalidRequest, "missing q parameter")
		return
	}

	candidates, err := h.Geocoder.Geocode(r.Context(), query)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if len(candidates) == 0 {
		writeError(w, http.StatusNotFound, KindNotFound, "no locations matched the query")
		return
	}

	writeJSON(w, http.StatusOK, SearchResponse{Query: query, Candidates: candidates})
}
