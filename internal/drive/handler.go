package drive

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"
)

type Handler struct {
	ingestService *IngestService
}

func NewHandler(ingestService *IngestService) *Handler {
	return &Handler{ingestService: ingestService}
}

func (h *Handler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/drive/files", h.ListFiles).Methods(http.MethodGet)
	router.HandleFunc("/drive/ingest", h.Ingest).Methods(http.MethodPost)
}

func (h *Handler) ListFiles(w http.ResponseWriter, r *http.Request) {
	files, err := h.ingestService.Files(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, files)
}

// Ingest loads the file named by the fileId query parameter, or the newest snapshot.
func (h *Handler) Ingest(w http.ResponseWriter, r *http.Request) {
	var (
		result *IngestResult
		err    error
	)
	if fileID := r.URL.Query().Get("fileId"); fileID != "" {
		result, err = h.ingestService.IngestByID(r.Context(), fileID)
	} else {
		result, err = h.ingestService.IngestLatest(r.Context())
	}
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, ErrFileNotFound), errors.Is(err, ErrNoSnapshot):
		status = http.StatusNotFound
	case errors.Is(err, ErrUnsupportedFile), errors.Is(err, ErrEmptySnapshot):
		status = http.StatusUnprocessableEntity
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
