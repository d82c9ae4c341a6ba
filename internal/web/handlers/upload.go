package handlers

import (
	"context"
	"io"
	"net/http"
	"sync/atomic"

	"github.com/geoproc/internal/relay"
)

// RelayClient is the subset of the relay client used by the upload handler
type RelayClient interface {
	Upload(ctx context.Context, filename string, file io.Reader) (*relay.Response, error)
}

// UploadHandler accepts spreadsheet uploads and loads the relay result
// into the shared dataset
type UploadHandler struct {
	Session *Session
	Relay   RelayClient
	Config  *Config

	// seq orders concurrent uploads so only the latest one lands
	seq uint64
}

// UploadResponse describes a successfully loaded dataset
type UploadResponse struct {
	Filename   string `json:"filename"`
	Rows       int    `json:"rows"`
	Generation string `json:"generation"`
}

// Upload handles POST /api/upload
func (h *UploadHandler) Upload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(64 << 20); err != nil {
		writeError(w, http.StatusBadRequest, KindInvalidRequest, "invalid multipart body")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, KindInvalidRequest, "missing file field")
		return
	}
	defer file.Close()

	ticket := atomic.AddUint64(&h.seq, 1)

	resp, err := h.Relay.Upload(r.Context(), header.Filename, file)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	defer h.Session.Lock()()

	// A later upload started while this one was in flight; drop this result
	if ticket != atomic.LoadUint64(&h.seq) {
		writeError(w, http.StatusConflict, KindStaleResult, "superseded by a newer upload")
		return
	}

	h.Session.Store.Load(resp.Data)
	h.Session.Store.SetSourceName(header.Filename)

	writeJSON(w, http.StatusOK, UploadResponse{
		Filename:   header.Filename,
		Rows:       h.Session.Store.Len(),
		Generation: h.Session.Store.Generation().String(),
	})
}
