package notification

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/frahmantamala/incident-management/internal/core/events"
)

// EventHandler turns incident lifecycle events into safety-team emails.
type EventHandler struct {
	mailer *Mailer
	logger *slog.Logger
}

func NewEventHandler(mailer *Mailer, logger *slog.Logger) *EventHandler {
	return &EventHandler{mailer: mailer, logger: logger}
}

// RegisterHandlers subscribes to the incident and lesson topics.
func (h *EventHandler) RegisterHandlers(bus *events.EventBus) {
	bus.Subscribe(events.EventTypeIncidentSubmitted, h.handleIncidentSubmitted)
	bus.Subscribe(events.EventTypeIncidentClosed, h.handleIncidentClosed)
	bus.Subscribe(events.EventTypeLessonPublished, h.handleLessonPublished)
}

func (h *EventHandler) handleIncidentSubmitted(ctx context.Context, event events.Event) error {
	submitted, ok := event.(*events.IncidentSubmittedEvent)
	if !ok {
		return fmt.Errorf("unexpected event payload for %s", event.EventType())
	}

	subject := fmt.Sprintf("[%s] Incident submitted for review: %s", submitted.Severity, submitted.Title)
	body := fmt.Sprintf(
		"Incident #%d was submitted for review.\n\nTitle: %s\nSeverity: %s\nLocation: %s\nReported by: %s\n",
		submitted.IncidentID, submitted.Title, submitted.Severity,
		submitted.HierarchyString, submitted.ReporterEmail)

	h.mailer.NotifySafetyTeam(subject, body)
	return nil
}

func (h *EventHandler) handleIncidentClosed(ctx context.Context, event events.Event) error {
	closed, ok := event.(*events.IncidentClosedEvent)
	if !ok {
		return fmt.Errorf("unexpected event payload for %s", event.EventType())
	}

	subject := "Incident closed: " + closed.Title
	body := fmt.Sprintf(
		"Incident #%d was approved and closed by %s.\n\nLocation: %s\nRoot cause: %s\n",
		closed.IncidentID, closed.ClosedByEmail, closed.HierarchyString, closed.RootCause)

	h.mailer.NotifySafetyTeam(subject, body)
	return nil
}

func (h *EventHandler) handleLessonPublished(ctx context.Context, event events.Event) error {
	published, ok := event.(*events.LessonPublishedEvent)
	if !ok {
		return fmt.Errorf("unexpected event payload for %s", event.EventType())
	}

	subject := "Lesson learned published: " + published.Title
	body := fmt.Sprintf(
		"A new lesson learned is available.\n\nTitle: %s\nLocation: %s\nApproved by: %s\n",
		published.Title, published.HierarchyString, published.ApprovedByEmail)

	h.mailer.NotifySafetyTeam(subject, body)
	return nil
}
