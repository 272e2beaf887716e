package document

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/frahmantamala/incident-management/internal/transport"
	"github.com/frahmantamala/incident-management/internal/useraccess"
	"github.com/frahmantamala/incident-management/pkg/logger"
	"github.com/go-chi/chi"
)

type Handler struct {
	*transport.BaseHandler
	Storage *Storage
}

func NewHandler(storage *Storage) *Handler {
	lg := logger.LoggerWrapper()
	if lg == nil {
		lg = slog.Default()
	}
	return &Handler{
		BaseHandler: transport.NewBaseHandler(lg),
		Storage:     storage,
	}
}

// PresignUpload issues a PUT URL for an incident attachment.
// GET /incidents/{id}/attachments/upload-url?filename=photo.jpg
func (h *Handler) PresignUpload(w http.ResponseWriter, r *http.Request) {
	if useraccess.RecordFromContext(r.Context()) == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	idStr := chi.URLParam(r, "id")
	incidentID, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid incident id")
		return
	}

	filename := r.URL.Query().Get("filename")
	if filename == "" {
		h.WriteError(w, http.StatusBadRequest, "filename query parameter is required")
		return
	}

	presigned, err := h.Storage.PresignUpload(r.Context(), incidentID, filename)
	if err != nil {
		h.WriteError(w, http.StatusInternalServerError, "failed to create upload URL")
		return
	}

	h.WriteJSON(w, http.StatusOK, presigned)
}

// PresignDownload issues a GET URL for a stored attachment key.
// GET /attachments/download-url?key=incidents/42/...
func (h *Handler) PresignDownload(w http.ResponseWriter, r *http.Request) {
	if useraccess.RecordFromContext(r.Context()) == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	key := r.URL.Query().Get("key")
	if key == "" {
		h.WriteError(w, http.StatusBadRequest, "key query parameter is required")
		return
	}

	presigned, err := h.Storage.PresignDownload(r.Context(), key)
	if err != nil {
		h.WriteError(w, http.StatusInternalServerError, "failed to create download URL")
		return
	}

	h.WriteJSON(w, http.StatusOK, presigned)
}
