package lessons

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
	CreateLesson(user *useraccess.Record, dto CreateLessonDTO) (*Lesson, error)
	GetLesson(id int64, user *useraccess.Record) (*Lesson, error)
	ListLessons(user *useraccess.Record, limit, offset int) ([]*Lesson, error)
	ApproveLesson(ctx context.Context, id int64, user *useraccess.Record) (*Lesson, error)
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

func (h *Handler) CreateLesson(w http.ResponseWriter, r *http.Request) {
	user := useraccess.RecordFromContext(r.Context())
	if user == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var dto CreateLessonDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.Logger.Error("CreateLesson: invalid request body", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	lesson, err := h.Service.CreateLesson(user, dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusCreated, lesson)
}

func (h *Handler) GetLesson(w http.ResponseWriter, r *http.Request) {
	id, ok := h.lessonID(w, r)
	if !ok {
		return
	}

	lesson, err := h.Service.GetLesson(id, useraccess.RecordFromContext(r.Context()))
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, lesson)
}

func (h *Handler) ListLessons(w http.ResponseWriter, r *http.Request) {
	limit, offset := pagination(r)

	lessonsList, err := h.Service.ListLessons(useraccess.RecordFromContext(r.Context()), limit, offset)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"lessons": lessonsList,
		"count":   len(lessonsList),
	})
}

func (h *Handler) ApproveLesson(w http.ResponseWriter, r *http.Request) {
	id, ok := h.lessonID(w, r)
	if !ok {
		return
	}

	lesson, err := h.Service.ApproveLesson(r.Context(), id, useraccess.RecordFromContext(r.Context()))
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, lesson)
}

func (h *Handler) lessonID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	idStr := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid lesson id")
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
