package incident

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/frahmantamala/incident-management/internal/transport"
	"github.com/frahmantamala/incident-management/internal/useraccess"
	"github.com/frahmantamala/incident-management/pkg/logger"
	"github.com/go-chi/chi"
)

type ServiceAPI interface {
	CreateIncident(user *useraccess.Record, dto CreateIncidentDTO) (*Incident, error)
	GetIncident(ctx context.Context, id int64, user *useraccess.Record) (*Incident, error)
	ListIncidents(user *useraccess.Record, limit, offset int) ([]*Incident, error)
	MyIncidents(user *useraccess.Record, limit, offset int) ([]*Incident, error)
	SubmitIncident(ctx context.Context, id int64, user *useraccess.Record) (*Incident, error)
	UpdateRCA(id int64, user *useraccess.Record, dto UpdateRCADTO) (*Incident, error)
	CloseIncident(ctx context.Context, id int64, user *useraccess.Record) (*Incident, error)
	DeleteIncident(id int64, user *useraccess.Record) error
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(service ServiceAPI) *Handler {
	lg := logger.LoggerWrapper()
	if lg == nil {
		lg = slog.Default()
	}
	return &Handler{
		BaseHandler: transport.NewBaseHandler(lg),
		Service:     service,
	}
}

func (h *Handler) CreateIncident(w http.ResponseWriter, r *http.Request) {
	user := useraccess.RecordFromContext(r.Context())
	if user == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var dto CreateIncidentDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.Logger.Error("CreateIncident: invalid request body", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	inc, err := h.Service.CreateIncident(user, dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusCreated, inc)
}

func (h *Handler) GetIncident(w http.ResponseWriter, r *http.Request) {
	id, ok := h.incidentID(w, r)
	if !ok {
		return
	}

	inc, err := h.Service.GetIncident(r.Context(), id, useraccess.RecordFromContext(r.Context()))
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, inc)
}

func (h *Handler) ListIncidents(w http.ResponseWriter, r *http.Request) {
	limit, offset := pagination(r)

	incidents, err := h.Service.ListIncidents(useraccess.RecordFromContext(r.Context()), limit, offset)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"incidents": incidents,
		"count":     len(incidents),
	})
}

func (h *Handler) MyIncidents(w http.ResponseWriter, r *http.Request) {
	user := useraccess.RecordFromContext(r.Context())
	if user == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	limit, offset := pagination(r)

	incidents, err := h.Service.MyIncidents(user, limit, offset)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"incidents": incidents,
		"count":     len(incidents),
	})
}

func (h *Handler) SubmitIncident(w http.ResponseWriter, r *http.Request) {
	id, ok := h.incidentID(w, r)
	if !ok {
		return
	}

	inc, err := h.Service.SubmitIncident(r.Context(), id, useraccess.RecordFromContext(r.Context()))
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, inc)
}

func (h *Handler) UpdateRCA(w http.ResponseWriter, r *http.Request) {
	id, ok := h.incidentID(w, r)
	if !ok {
		return
	}

	var dto UpdateRCADTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	inc, err := h.Service.UpdateRCA(id, useraccess.RecordFromContext(r.Context()), dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, inc)
}

func (h *Handler) CloseIncident(w http.ResponseWriter, r *http.Request) {
	id, ok := h.incidentID(w, r)
	if !ok {
		return
	}

	inc, err := h.Service.CloseIncident(r.Context(), id, useraccess.RecordFromContext(r.Context()))
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, inc)
}

func (h *Handler) DeleteIncident(w http.ResponseWriter, r *http.Request) {
	id, ok := h.incidentID(w, r)
	if !ok {
		return
	}

	if err := h.Service.DeleteIncident(id, useraccess.RecordFromContext(r.Context())); err != nil {
		h.HandleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) incidentID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	idStr := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid incident id")
		return 0, false
	}
	return id, true
}

func pagination(r *http.Request) (limit, offset int) {
	limit = 50
	offset = 0
	if v := r.URL.Query().Get("limit"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 && parsed <= 200 {
			limit = parsed
		}
	}
	if v := r.URL.Query().Get("offset"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed >= 0 {
			offset = parsed
		}
	}
	return limit, offset
}
