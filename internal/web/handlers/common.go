package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"sync"

	"github.com/gorilla/mux"

	"github.com/geoproc/internal/dataset"
	"github.com/geoproc/internal/export"
	"github.com/geoproc/internal/geocode"
	"github.com/geoproc/internal/relay"
	"github.com/geoproc/internal/workflow"
)

// Config represents the web server configuration (simplified)
type Config struct {
	Features struct {
		ExportEnabled         bool `json:"export_enabled"`
		ManualOverrideEnabled bool `json:"manual_override_enabled"`
	} `json:"features"`
}

// Error kinds surfaced in the JSON error envelope
const (
	KindEmptyDataset        = "EmptyDataset"
	KindEmptyExportResult   = "EmptyExportResult"
	KindIndexOutOfRange     = "IndexOutOfRange"
	KindUpstreamUnavailable = "UpstreamUnavailable"
	KindMalformedResponse   = "MalformedResponse"
	KindInvalidRequest      = "InvalidRequest"
	KindNotFound            = "NotFound"
	KindStaleResult         = "StaleResult"
	KindInternalError       = "InternalError"
)

// Session owns the mutable dataset state shared by all handlers. Handlers
// take the lock for the duration of each request so that every operation
// sees a consistent dataset, matching the one-at-a-time editing model.
type Session struct {
	mu       sync.Mutex
	Store    *dataset.Store
	Workflow *workflow.Workflow
}

// Lock acquires the session lock and returns the unlock function
func (s *Session) Lock() func() {
	s.mu.Lock()
	return s.mu.Unlock
}

// errorEnvelope is the JSON body of every error response
type errorEnvelope struct {
	Error string `json:"error"`
	Kind  string `json:"kind"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		// Headers are already gone, nothing left to do
		return
	}
}

func writeError(w http.ResponseWriter, status int, kind, message string) {
	writeJSON(w, status, errorEnvelope{Error: message, Kind: kind})
}

// writeDomainError maps well-known domain errors to their HTTP status and
// error kind, falling back to 500 for anything unrecognised
func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, dataset.ErrEmptyDataset):
		writeError(w, http.StatusConflict, KindEmptyDataset, err.Error())
	case errors.Is(err, export.ErrEmptyExport):
		writeError(w, http.StatusConflict, KindEmptyExportResult, err.Error())
	case errors.Is(err, dataset.ErrOutOfRange):
		writeError(w, http.StatusConflict, KindIndexOutOfRange, err.Error())
	case errors.Is(err, geocode.ErrUnavailable), errors.Is(err, relay.ErrUnavailable):
		writeError(w, http.StatusBadGateway, KindUpstreamUnavailable, err.Error())
	case errors.Is(err, relay.ErrMalformed):
		writeError(w, http.StatusBadGateway, KindMalformedResponse, err.Error())
	case errors.Is(err, workflow.ErrStaleResponse):
		writeError(w, http.StatusConflict, KindStaleResult, err.Error())
	case errors.Is(err, workflow.ErrNoCandidates):
		writeError(w, http.StatusNotFound, KindNotFound, err.Error())
	case errors.Is(err, workflow.ErrInvalidState):
		writeError(w, http.StatusConflict, KindInvalidRequest, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, KindInternalError, err.Error())
	}
}

// indexParam extracts the {index} route variable
func indexParam(r *http.Request) (int, error) {
	raw := mux.Vars(r)["index"]
	return strconv.Atoi(raw)
}
