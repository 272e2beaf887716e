package lessons

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/frahmantamala/incident-management/internal/core/events"
)

// EventHandler drafts lessons learned from incident closures.
type EventHandler struct {
	service *Service
	logger  *slog.Logger
}

func NewEventHandler(service *Service, logger *slog.Logger) *EventHandler {
	return &EventHandler{service: service, logger: logger}
}

// RegisterHandlers subscribes to the incident closure topic.
func (h *EventHandler) RegisterHandlers(bus *events.EventBus) {
	bus.Subscribe(events.EventTypeIncidentClosed, h.handleIncidentClosed)
}

func (h *EventHandler) handleIncidentClosed(ctx context.Context, event events.Event) error {
	closed, ok := event.(*events.IncidentClosedEvent)
	if !ok {
		return fmt.Errorf("unexpected event payload for %s", event.EventType())
	}

	summary := closed.RootCause
	if summary == "" {
		summary = "Root cause analysis pending. Drafted automatically on incident closure."
	}

	lesson, err := h.service.DraftFromClosure(
		closed.IncidentID,
		"Lessons from: "+closed.Title,
		summary,
		closed.HierarchyString,
		closed.ClosedByEmail,
	)
	if err != nil {
		h.logger.Error("failed to draft lesson from closure",
			"incident_id", closed.IncidentID, "error", err)
		return err
	}

	h.logger.Info("drafted lesson from incident closure",
		"incident_id", closed.IncidentID, "lesson_id", lesson.ID)
	return nil
}
