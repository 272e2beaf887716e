package observation

import (
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
	CreateObservation(user *useraccess.Record, dto CreateObservationDTO) (*Observation, error)
	GetObservation(id int64, user *useraccess.Record) (*Observation, error)
	ListObservations(user *useraccess.Record, limit, offset int) ([]*Observation, error)
	ResolveObservation(id int64, user *useraccess.Record) (*Observation, error)
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

func (h *Handler) CreateObservation(w http.ResponseWriter, r *http.Request) {
	user := useraccess.RecordFromContext(r.Context())
	if user == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var dto CreateObservationDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.Logger.Error("CreateObservation: invalid request body", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	obs, err := h.Service.CreateObservation(user, dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusCreated, obs)
}

func (h *Handler) GetObservation(w http.ResponseWriter, r *http.Request) {
	id, ok := h.observationID(w, r)
	if !ok {
		return
	}

	obs, err := h.Service.GetObservation(id, useraccess.RecordFromContext(r.Context()))
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, obs)
}

func (h *Handler) ListObservations(w http.ResponseWriter, r *http.Request) {
	limit, offset := pagination(r)

	observations, err := h.Service.ListObservations(useraccess.RecordFromContext(r.Context()), limit, offset)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"observations": observations,
		"count":        len(observations),
	})
}

func (h *Handler) ResolveObservation(w http.ResponseWriter, r *http.Request) {
	id, ok := h.observationID(w, r)
	if !ok {
		return
	}

	obs, err := h.Service.ResolveObservation(id, useraccess.RecordFromContext(r.Context()))
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, obs)
}

func (h *Handler) observationID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	idStr := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid observation id")
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
