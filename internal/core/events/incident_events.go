package events

import (
	"time"

	"github.com/google/uuid"
)

const (
	EventTypeIncidentSubmitted = "incident.submitted"
	EventTypeIncidentClosed    = "incident.closed"
	EventTypeLessonPublished   = "lesson.published"
)

// IncidentSubmittedEvent fires when a draft report moves to pending review.
type IncidentSubmittedEvent struct {
	BaseEvent
	IncidentID      int64
	Title           string
	Severity        string
	HierarchyString string
	ReporterEmail   string
}

func NewIncidentSubmittedEvent(incidentID int64, title, severity, hierarchy, reporterEmail string) *IncidentSubmittedEvent {
	return &IncidentSubmittedEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.NewString(),
			Type:      EventTypeIncidentSubmitted,
			Timestamp: time.Now(),
		},
		IncidentID:      incidentID,
		Title:           title,
		Severity:        severity,
		HierarchyString: hierarchy,
		ReporterEmail:   reporterEmail,
	}
}

// IncidentClosedEvent fires on approval/closure; the lessons subscriber
// drafts a lesson learned from it.
type IncidentClosedEvent struct {
	BaseEvent
	IncidentID      int64
	Title           string
	RootCause       string
	HierarchyString string
	ClosedByEmail   string
}

func NewIncidentClosedEvent(incidentID int64, title, rootCause, hierarchy, closedBy string) *IncidentClosedEvent {
	return &IncidentClosedEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.NewString(),
			Type:      EventTypeIncidentClosed,
			Timestamp: time.Now(),
		},
		IncidentID:      incidentID,
		Title:           title,
		RootCause:       rootCause,
		HierarchyString: hierarchy,
		ClosedByEmail:   closedBy,
	}
}

// LessonPublishedEvent fires when a lesson learned is approved for the whole
// organization to see.
type LessonPublishedEvent struct {
	BaseEvent
	LessonID        int64
	Title           string
	HierarchyString string
	ApprovedByEmail string
}

func NewLessonPublishedEvent(lessonID int64, title, hierarchy, approvedBy string) *LessonPublishedEvent {
	return &LessonPublishedEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.NewString(),
			Type:      EventTypeLessonPublished,
			Timestamp: time.Now(),
		},
		LessonID:        lessonID,
		Title:           title,
		HierarchyString: hierarchy,
		ApprovedByEmail: approvedBy,
	}
}
