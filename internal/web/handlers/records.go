package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/geoproc/internal/classify"
	"github.com/geoproc/internal/dataset"
)

// RecordsHandler serves the dataset listing and record mutations
type RecordsHandler struct {
	Session *Session
	Config  *Config
}

// RecordView is a single dataset record with its derived status
type RecordView struct {
	Index          int            `json:"index"`
	Classification string         `json:"classification"`
	NeedsFix       bool           `json:"needs_fix"`
	Fields         dataset.Record `json:"fields"`
}

// ListResponse is the body of GET /api/records
type ListResponse struct {
	Filename   string       `json:"filename"`
	Generation string       `json:"generation"`
	Columns    []string     `json:"columns"`
	Total      int          `json:"total"`
	Records    []RecordView `json:"records"`
}

// ListRecords handles GET /api/records
func (h *RecordsHandler) ListRecords(w http.ResponseWriter, r *http.Request) {
	defer h.Session.Lock()()

	store := h.Session.Store
	records := store.Records()
	views := make([]RecordView, len(records))
	for i, rec := range records {
		c := classify.Classify(rec)
		views[i] = RecordView{
			Index:          i,
			Classification: c.String(),
			NeedsFix:       classify.NeedsFix(c),
			Fields:         rec,
		}
	}

	writeJSON(w, http.StatusOK, ListResponse{
		Filename:   store.SourceName(),
		Generation: store.Generation().String(),
		Columns:    store.Columns(),
		Total:      len(views),
		Records:    views,
	})
}

// UpdateRecord handles PATCH /api/records/{index}. The body is a JSON
// object of field names to new values, merged into the record.
func (h *RecordsHandler) UpdateRecord(w http.ResponseWriter, r *http.Request) {
	index, err := indexParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, KindInvalidRequest, "invalid record index")
		return
	}

	var patch dataset.Record
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		writeError(w, http.StatusBadRequest, KindInvalidRequest, "invalid JSON body")
		return
	}
	if len(patch) == 0 {
		writeError(w, http.StatusBadRequest, KindInvalidRequest, "empty patch")
		return
	}

	defer h.Session.Lock()()

	if err := h.Session.Store.UpdateAt(index, patch); err != nil {
		writeDomainError(w, err)
		return
	}

	rec, _ := h.Session.Store.At(index)
	c := classify.Classify(rec)
	writeJSON(w, http.StatusOK, RecordView{
		Index:          index,
		Classification: c.String(),
		NeedsFix:       classify.NeedsFix(c),
		Fields:         rec,
	})
}

// DeleteRecord handles DELETE /api/records/{index}
func (h *RecordsHandler) DeleteRecord(w http.ResponseWriter, r *http.Request) {
	index, err := indexParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, KindInvalidRequest, "invalid record index")
		return
	}

	defer h.Session.Lock()()

	if err := h.Session.Store.DeleteAt(index); err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"deleted":   index,
		"remaining": h.Session.Store.Len(),
	})
}

// FixRequest carries either an explicit location or a search query for
// the correction workflow. Coordinates are pointers so an absent field
// is distinguishable from a literal zero.
type FixRequest struct {
	Latitude  *float64 `json:"lat"`
	Longitude *float64 `json:"lng"`
	Query     string   `json:"query"`
}

// FixRecord handles POST /api/records/{index}/fix. It runs the full
// correction workflow for one record: begin editing, resolve a location
// and commit the coordinate patch.
func (h *RecordsHandler) FixRecord(w http.ResponseWriter, r *http.Request) {
	index, err := indexParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, KindInvalidRequest, "invalid record index")
		return
	}

	var req FixRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, KindInvalidRequest, "invalid JSON body")
		return
	}
	if req.Query == "" && (req.Latitude == nil || req.Longitude == nil) {
		writeError(w, http.StatusBadRequest, KindInvalidRequest, "either query or coordinates are required")
		return
	}

	defer h.Session.Lock()()

	wf := h.Session.Workflow
	if err := wf.Begin(index); err != nil {
		writeDomainError(w, err)
		return
	}

	if req.Query != "" {
		if _, err := wf.Search(r.Context(), req.Query); err != nil {
			wf.Cancel()
			writeDomainError(w, err)
			return
		}
	} else {
		if err := wf.SelectLocation(*req.Latitude, *req.Longitude); err != nil {
			wf.Cancel()
			writeDomainError(w, err)
			return
		}
	}

	if err := wf.Commit(r.Context()); err != nil {
		wf.Cancel()
		writeDomainError(w, err)
		return
	}

	rec, err := h.Session.Store.At(index)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	c := classify.Classify(rec)
	writeJSON(w, http.StatusOK, RecordView{
		Index:          index,
		Classification: c.String(),
		NeedsFix:       classify.NeedsFix(c),
		Fields:         rec,
	})
}
