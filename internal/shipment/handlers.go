package shipment

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"
)

// maxUploadSize caps picture uploads (10 MB).
const maxUploadSize = 10 << 20

// Handler exposes the shipment CRUD and picture endpoints.
type Handler struct {
	service *Service
}

// NewHandler creates a Handler over the given service.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Register attaches all shipment routes to the mux.
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("/api/shipment", h.handleCollection)
	mux.HandleFunc("/api/shipment/", h.handleItem)
}

// handleCollection serves GET (list) and POST (save) on /api/shipment.
func (h *Handler) handleCollection(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		shipments, err := h.service.List(r.Context())
		if err != nil {
			log.Error().Err(err).Msg("Failed to list shipments")
			http.Error(w, "failed to list shipments", http.StatusInternalServerError)
			return
		}
		writeJSON(w, shipments)

	case http.MethodPost:
		var sh Shipment
		if err := json.NewDecoder(io.LimitReader(r.Body, maxUploadSize)).Decode(&sh); err != nil {
			http.Error(w, "invalid shipment payload", http.StatusBadRequest)
			return
		}
		if err := h.service.Save(r.Context(), &sh); err != nil {
			log.Error().Err(err).Msg("Failed to save shipment")
			http.Error(w, "failed to save shipment", http.StatusInternalServerError)
			return
		}
		writeJSON(w, sh)

	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

// handleItem routes /api/shipment/{id} and /api/shipment/{id}/image/...
func (h *Handler) handleItem(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/api/shipment/")
	parts := strings.Split(rest, "/")
	id := parts[0]
	if id == "" {
		http.Error(w, "missing shipment id", http.StatusBadRequest)
		return
	}

	switch {
	case len(parts) == 1 && r.Method == http.MethodDelete:
		if err := h.service.Delete(r.Context(), id); err != nil {
			log.Error().Err(err).Str("shipmentId", id).Msg("Failed to delete shipment")
			http.Error(w, "failed to delete shipment", http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusOK)

	case len(parts) == 3 && parts[1] == "image" && parts[2] == "upload" && r.Method == http.MethodPost:
		h.handleUpload(w, r, id)

	case len(parts) == 3 && parts[1] == "image" && parts[2] == "download" && r.Method == http.MethodGet:
		h.handleDownload(w, r, id)

	default:
		http.NotFound(w, r)
	}
}

func (h *Handler) handleUpload(w http.ResponseWriter, r *http.Request, id string) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		http.Error(w, "invalid multipart form", http.StatusBadRequest)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "missing file field", http.StatusBadRequest)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		http.Error(w, "failed to read upload", http.StatusBadRequest)
		return
	}

	key, err := h.service.UploadImage(r.Context(), id, header.Filename, data)
	if err != nil {
		log.Error().Err(err).Str("shipmentId", id).Msg("Picture upload failed")
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	writeJSON(w, map[string]string{"key": key})
}

func (h *Handler) handleDownload(w http.ResponseWriter, r *http.Request, id string) {
	data, contentType, err := h.service.DownloadImage(r.Context(), id)
	if err != nil {
		log.Warn().Err(err).Str("shipmentId", id).Msg("Picture download failed")
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	if contentType == "" {
		contentType = "image/jpeg"
	}
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("Failed to encode response")
	}
}
