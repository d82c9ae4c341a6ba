package handlers

import (
	"net/http"

	"github.com/geoproc/internal/classify"
)

// APIHandler handles general API endpoints
type APIHandler struct {
	Session *Session
	Config  *Config
}

// StatsResponse represents overall dataset statistics
type StatsResponse struct {
	TotalRecords int            `json:"total_records"`
	NeedsFix     int            `json:"needs_fix"`
	FixRate      float64        `json:"fix_rate"`
	ByStatus     map[string]int `json:"by_status"`
}

// GetStats returns counts per classification for the loaded dataset
func (h *APIHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	defer h.Session.Lock()()

	stats := StatsResponse{ByStatus: map[string]int{}}
	for _, rec := range h.Session.Store.Records() {
		c := classify.Classify(rec)
		stats.TotalRecords++
		stats.ByStatus[c.String()]++
		if classify.NeedsFix(c) {
			stats.NeedsFix++
		}
	}

	if stats.TotalRecords > 0 {
		fixed := stats.TotalRecords - stats.NeedsFix
		stats.FixRate = float64(fixed) / float64(stats.TotalRecords) * 100
	}

	writeJSON(w, http.StatusOK, stats)
}
