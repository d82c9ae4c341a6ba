package handlers

import (
	"bytes"
	"fmt"
	"net/http"

	"github.com/geoproc/internal/dataset"
	"github.com/geoproc/internal/export"
)

// ExportHandler serves the circuit CSV and workbook downloads
type ExportHandler struct {
	Session *Session
	Config  *Config
}

// ExportCircuit handles GET /api/export/circuit
func (h *ExportHandler) ExportCircuit(w http.ResponseWriter, r *http.Request) {
	defer h.Session.Lock()()

	store := h.Session.Store
	if store.Len() == 0 {
		writeDomainError(w, dataset.ErrEmptyDataset)
		return
	}

	rows := export.GroupCircuit(store.Records())

	var buf bytes.Buffer
	if err := export.WriteCircuitCSV(&buf, rows); err != nil {
		writeDomainError(w, err)
		return
	}

	filename := export.CircuitFilename(store.SourceName())
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}

// ExportWorkbook handles GET /api/export/workbook
func (h *ExportHandler) ExportWorkbook(w http.ResponseWriter, r *http.Request) {
	defer h.Session.Lock()()

	store := h.Session.Store
	if store.Len() == 0 {
		writeDomainError(w, dataset.ErrEmptyDataset)
		return
	}

	f, err := export.BuildWorkbook(store.Records(), store.Columns())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	defer f.Close()

	filename := export.WorkbookFilename(store.SourceName())
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	if err := f.Write(w); err != nil {
		// Response is already streaming, log is all that is left
		return
	}
}
