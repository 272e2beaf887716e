package lessons

import (
	"context"
	"log/slog"

	"github.com/frahmantamala/incident-management/internal"
	"github.com/frahmantamala/incident-management/internal/core/events"
	"github.com/frahmantamala/incident-management/internal/useraccess"
)

// Repository defines the data access methods for lessons learned
type Repository interface {
	Create(l *Lesson) error
	GetByID(id int64) (*Lesson, error)
	GetAll(limit, offset int) ([]*Lesson, error)
	Update(l *Lesson) error
}

type Service struct {
	repo     Repository
	gate     *useraccess.Gate
	eventBus *events.EventBus
	logger   *slog.Logger
}

func NewService(repo Repository, gate *useraccess.Gate, eventBus *events.EventBus, logger *slog.Logger) *Service {
	return &Service{
		repo:     repo,
		gate:     gate,
		eventBus: eventBus,
		logger:   logger,
	}
}

// CreateLesson drafts a lesson learned awaiting approval.
func (s *Service) CreateLesson(user *useraccess.Record, dto CreateLessonDTO) (*Lesson, error) {
	if user == nil {
		return nil, internal.ErrUnauthorizedAccess
	}
	if err := dto.Validate(); err != nil {
		return nil, err
	}
	if dto.HierarchyString == "" {
		dto.HierarchyString = user.HierarchyString
	}
	if !useraccess.MatchesScope(user, dto.HierarchyString) {
		s.logger.Warn("create lesson denied: hierarchy outside caller scope",
			"email", user.Email, "hierarchy", dto.HierarchyString)
		return nil, internal.ErrUnauthorizedAccess
	}

	lesson := NewLesson(user.Email, dto)
	if err := s.repo.Create(lesson); err != nil {
		s.logger.Error("failed to create lesson", "error", err, "email", user.Email)
		return nil, err
	}

	s.logger.Info("lesson learned drafted", "lesson_id", lesson.ID, "email", user.Email)
	return lesson, nil
}

// DraftFromClosure records a pending lesson learned from an incident closure.
// Called by the event subscriber, so there is no acting user to gate on.
func (s *Service) DraftFromClosure(incidentID int64, title, summary, hierarchy, authorEmail string) (*Lesson, error) {
	lesson := NewLesson(authorEmail, CreateLessonDTO{
		IncidentID:      &incidentID,
		Title:           title,
		Summary:         summary,
		HierarchyString: hierarchy,
	})
	if err := s.repo.Create(lesson); err != nil {
		return nil, err
	}

	s.logger.Info("lesson learned drafted from incident closure",
		"lesson_id", lesson.ID, "incident_id", incidentID)
	return lesson, nil
}

// GetLesson returns one lesson. Pending lessons are visible only to their
// author and to approvers; published ones to anyone whose scope covers them.
func (s *Service) GetLesson(id int64, user *useraccess.Record) (*Lesson, error) {
	lesson, err := s.repo.GetByID(id)
	if err != nil {
		return nil, internal.ErrLessonNotFound
	}

	if user != nil && lesson.AuthorEmail == user.Email {
		return lesson, nil
	}
	if !lesson.IsPublished() {
		if !s.gate.Allow(user, useraccess.Criteria{
			Permission: useraccess.PermApproveLessonsLearned,
			Hierarchy:  &lesson.HierarchyString,
			RequireAll: true,
		}) {
			return nil, internal.ErrUnauthorizedAccess
		}
		return lesson, nil
	}
	if !s.gate.Allow(user, useraccess.Criteria{
		Permission: useraccess.PermViewLessonsLearned,
		Hierarchy:  &lesson.HierarchyString,
		RequireAll: true,
	}) {
		s.logger.Warn("lesson view denied", "lesson_id", id)
		return nil, internal.ErrUnauthorizedAccess
	}
	return lesson, nil
}

// ListLessons applies the scope filter, then hides pending drafts from
// everyone but approvers and their authors.
func (s *Service) ListLessons(user *useraccess.Record, limit, offset int) ([]*Lesson, error) {
	all, err := s.repo.GetAll(limit, offset)
	if err != nil {
		s.logger.Error("failed to list lessons", "error", err)
		return nil, err
	}

	inScope := useraccess.FilterByScope(all, user)
	canSeePending := user != nil && user.Permissions.CanApproveLessonsLearned

	visible := make([]*Lesson, 0, len(inScope))
	for _, lesson := range inScope {
		if lesson.IsPublished() || canSeePending || (user != nil && lesson.AuthorEmail == user.Email) {
			visible = append(visible, lesson)
		}
	}
	return visible, nil
}

// ApproveLesson publishes a pending lesson and announces it on the bus.
func (s *Service) ApproveLesson(ctx context.Context, id int64, user *useraccess.Record) (*Lesson, error) {
	lesson, err := s.repo.GetByID(id)
	if err != nil {
		return nil, internal.ErrLessonNotFound
	}

	if !s.gate.Allow(user, useraccess.Criteria{
		Permission: useraccess.PermApproveLessonsLearned,
		Hierarchy:  &lesson.HierarchyString,
		RequireAll: true,
	}) {
		s.logger.Warn("lesson approval denied", "lesson_id", id)
		return nil, internal.ErrUnauthorizedAccess
	}
	if lesson.IsPublished() {
		return lesson, nil
	}

	lesson.Publish(user.Email)
	if err := s.repo.Update(lesson); err != nil {
		s.logger.Error("failed to publish lesson", "error", err, "lesson_id", id)
		return nil, err
	}

	s.eventBus.Publish(ctx, events.NewLessonPublishedEvent(
		lesson.ID, lesson.Title, lesson.HierarchyString, user.Email))

	s.logger.Info("lesson learned published", "lesson_id", lesson.ID, "approved_by", user.Email)
	return lesson, nil
}
