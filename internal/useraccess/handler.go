package useraccess

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/frahmantamala/incident-management/internal/transport"
	"github.com/frahmantamala/incident-management/pkg/logger"
)

type ResolverAPI interface {
	Resolve(ctx context.Context, email string) (*Record, *Diagnostics, error)
}

type Handler struct {
	*transport.BaseHandler
	Resolver ResolverAPI
}

func NewHandler(resolver ResolverAPI) *Handler {
	lg := logger.LoggerWrapper()
	if lg == nil {
		lg = slog.Default()
	}
	return &Handler{
		BaseHandler: transport.NewBaseHandler(lg),
		Resolver:    resolver,
	}
}

// lookupResponse is the wire shape of GET /user-access. Diagnostics ride
// along on misses so a 404 can say which stores were probed.
type lookupResponse struct {
	OK          bool         `json:"ok"`
	ModelUsed   string       `json:"model_used,omitempty"`
	User        *Record      `json:"user,omitempty"`
	Error       string       `json:"error,omitempty"`
	Diagnostics *Diagnostics `json:"diagnostics,omitempty"`
}

// Lookup handles GET /user-access?email=. Without an email parameter it falls
// back to the signed-in principal from the request context.
func (h *Handler) Lookup(w http.ResponseWriter, r *http.Request) {
	email := r.URL.Query().Get("email")
	if email == "" {
		if u := RecordFromContext(r.Context()); u != nil {
			email = u.Email
		}
	}

	rec, diag, err := h.Resolver.Resolve(r.Context(), email)
	if err != nil {
		switch {
		case errors.Is(err, ErrEmailRequired):
			h.WriteJSON(w, http.StatusBadRequest, lookupResponse{OK: false, Error: "no email resolvable from query or session"})
		case errors.Is(err, ErrUserNotFound):
			h.Logger.Warn("user access lookup miss", "email", email)
			h.WriteJSON(w, http.StatusNotFound, lookupResponse{OK: false, Error: err.Error(), Diagnostics: diag})
		default:
			h.Logger.Error("user access lookup failed", "email", email, "error", err)
			h.WriteJSON(w, http.StatusInternalServerError, lookupResponse{OK: false, Error: err.Error()})
		}
		return
	}

	h.WriteJSON(w, http.StatusOK, lookupResponse{
		OK:        true,
		ModelUsed: diag.ModelUsed,
		User:      rec,
	})
}

// Me handles GET /users/me: the session's own resolved record.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	u := RecordFromContext(r.Context())
	if u == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	h.WriteJSON(w, http.StatusOK, u)
}
