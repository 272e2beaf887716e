package incident

import (
	"context"
	"log/slog"

	"github.com/frahmantamala/incident-management/internal"
	"github.com/frahmantamala/incident-management/internal/core/events"
	"github.com/frahmantamala/incident-management/internal/useraccess"
)

// Repository defines the data access methods for incidents
type Repository interface {
	Create(inc *Incident) error
	GetByID(id int64) (*Incident, error)
	GetByReporter(email string, limit, offset int) ([]*Incident, error)
	GetAll(limit, offset int) ([]*Incident, error)
	Update(inc *Incident) error
	Delete(id int64) error
}

// Service handles incident business logic. Every operation takes the
// caller's resolved access record: lists are scope-filtered, item actions go
// through the gate.
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

// CreateIncident files a new draft report under the reporter's own hierarchy
// unless the DTO pins a narrower one.
func (s *Service) CreateIncident(user *useraccess.Record, dto CreateIncidentDTO) (*Incident, error) {
	if user == nil {
		return nil, internal.ErrUnauthorizedAccess
	}
	if !user.Permissions.CanReportInjury && !user.Permissions.CanTakeFirstReportActions {
		s.logger.Warn("create incident denied", "email", user.Email, "role_title", user.RoleTitle)
		return nil, internal.ErrUnauthorizedAccess
	}

	if err := dto.Validate(); err != nil {
		s.logger.Error("incident validation failed", "error", err, "email", user.Email)
		return nil, err
	}
	if dto.HierarchyString == "" {
		dto.HierarchyString = user.HierarchyString
	}
	if !useraccess.MatchesScope(user, dto.HierarchyString) {
		s.logger.Warn("create incident denied: hierarchy outside caller scope",
			"email", user.Email, "hierarchy", dto.HierarchyString)
		return nil, internal.ErrUnauthorizedAccess
	}

	inc := NewIncident(user.Email, dto)
	if err := s.repo.Create(inc); err != nil {
		s.logger.Error("failed to create incident", "error", err, "email", user.Email)
		return nil, err
	}

	s.logger.Info("incident created",
		"incident_id", inc.ID,
		"email", user.Email,
		"severity", inc.Severity,
		"hierarchy", inc.HierarchyString)

	return inc, nil
}

// GetIncident returns one record. Reporters always see their own reports;
// everyone else needs view access through the gate.
func (s *Service) GetIncident(ctx context.Context, id int64, user *useraccess.Record) (*Incident, error) {
	inc, err := s.repo.GetByID(id)
	if err != nil {
		s.logger.Error("failed to get incident", "error", err, "incident_id", id)
		return nil, internal.ErrIncidentNotFound
	}

	if user != nil && inc.ReporterEmail == user.Email {
		return inc, nil
	}
	if !s.gate.Allow(user, useraccess.Criteria{
		Record: &useraccess.RecordRef{Hierarchy: inc.HierarchyString, Status: inc.Status},
		Action: useraccess.ActionView,
	}) {
		s.logger.Warn("incident view denied", "incident_id", id, "email", userEmail(user))
		return nil, internal.ErrUnauthorizedAccess
	}

	return redactPII(inc, user), nil
}

// ListIncidents applies the hierarchical scope filter to whatever the store
// returns. The filter is a pure projection, so re-listing after a user or
// data change is just a re-run.
func (s *Service) ListIncidents(user *useraccess.Record, limit, offset int) ([]*Incident, error) {
	all, err := s.repo.GetAll(limit, offset)
	if err != nil {
		s.logger.Error("failed to list incidents", "error", err)
		return nil, err
	}

	visible := useraccess.FilterByScope(all, user)
	out := make([]*Incident, len(visible))
	for i, inc := range visible {
		out[i] = redactPII(inc, user)
	}
	return out, nil
}

// MyIncidents lists the caller's own reports regardless of scope.
func (s *Service) MyIncidents(user *useraccess.Record, limit, offset int) ([]*Incident, error) {
	if user == nil {
		return nil, internal.ErrUnauthorizedAccess
	}
	return s.repo.GetByReporter(user.Email, limit, offset)
}

// SubmitIncident moves a draft into review and notifies subscribers.
func (s *Service) SubmitIncident(ctx context.Context, id int64, user *useraccess.Record) (*Incident, error) {
	inc, err := s.repo.GetByID(id)
	if err != nil {
		return nil, internal.ErrIncidentNotFound
	}

	isReporter := user != nil && inc.ReporterEmail == user.Email
	if !isReporter && !s.gate.Allow(user, useraccess.Criteria{Permission: useraccess.PermFirstReportActions}) {
		s.logger.Warn("submit incident denied", "incident_id", id, "email", userEmail(user))
		return nil, internal.ErrUnauthorizedAccess
	}
	if !inc.CanBeSubmitted() {
		return nil, internal.ErrInvalidIncidentStatus
	}

	inc.Submit()
	if err := s.repo.Update(inc); err != nil {
		s.logger.Error("failed to submit incident", "error", err, "incident_id", id)
		return nil, err
	}

	s.eventBus.Publish(ctx, events.NewIncidentSubmittedEvent(
		inc.ID, inc.Title, inc.Severity, inc.HierarchyString, inc.ReporterEmail))

	s.logger.Info("incident submitted for review", "incident_id", inc.ID, "email", userEmail(user))
	return inc, nil
}

// UpdateRCA records root cause analysis on a report under review.
func (s *Service) UpdateRCA(id int64, user *useraccess.Record, dto UpdateRCADTO) (*Incident, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	inc, err := s.repo.GetByID(id)
	if err != nil {
		return nil, internal.ErrIncidentNotFound
	}

	if !s.gate.Allow(user, useraccess.Criteria{
		Record: &useraccess.RecordRef{Hierarchy: inc.HierarchyString, Status: inc.Status},
		Action: useraccess.ActionEdit,
	}) {
		s.logger.Warn("incident RCA update denied", "incident_id", id, "email", userEmail(user))
		return nil, internal.ErrUnauthorizedAccess
	}
	if inc.IsClosed() {
		return nil, internal.ErrCannotModifyIncident
	}

	if dto.RootCause != "" {
		inc.RootCause = dto.RootCause
	}
	if dto.CorrectiveActions != "" {
		inc.CorrectiveActions = dto.CorrectiveActions
	}
	if err := s.repo.Update(inc); err != nil {
		s.logger.Error("failed to update incident RCA", "error", err, "incident_id", id)
		return nil, err
	}

	s.logger.Info("incident RCA updated", "incident_id", inc.ID, "email", userEmail(user))
	return inc, nil
}

// CloseIncident approves and closes a report under review, publishing the
// closure event the lessons and notification subscribers consume.
func (s *Service) CloseIncident(ctx context.Context, id int64, user *useraccess.Record) (*Incident, error) {
	inc, err := s.repo.GetByID(id)
	if err != nil {
		return nil, internal.ErrIncidentNotFound
	}

	if !s.gate.Allow(user, useraccess.Criteria{
		Record: &useraccess.RecordRef{Hierarchy: inc.HierarchyString, Status: inc.Status},
		Action: useraccess.ActionApprove,
	}) {
		s.logger.Warn("incident closure denied", "incident_id", id, "email", userEmail(user))
		return nil, internal.ErrUnauthorizedAccess
	}
	if !inc.CanBeClosed() {
		return nil, internal.ErrInvalidIncidentStatus
	}

	inc.Close(user.Email)
	if err := s.repo.Update(inc); err != nil {
		s.logger.Error("failed to close incident", "error", err, "incident_id", id)
		return nil, err
	}

	s.eventBus.Publish(ctx, events.NewIncidentClosedEvent(
		inc.ID, inc.Title, inc.RootCause, inc.HierarchyString, user.Email))

	s.logger.Info("incident closed", "incident_id", inc.ID, "closed_by", user.Email)
	return inc, nil
}

// DeleteIncident removes a draft. Enterprise scope only, per the gate rule.
func (s *Service) DeleteIncident(id int64, user *useraccess.Record) error {
	inc, err := s.repo.GetByID(id)
	if err != nil {
		return internal.ErrIncidentNotFound
	}

	if !s.gate.Allow(user, useraccess.Criteria{
		Record: &useraccess.RecordRef{Hierarchy: inc.HierarchyString, Status: inc.Status},
		Action: useraccess.ActionDelete,
	}) {
		s.logger.Warn("incident delete denied", "incident_id", id, "email", userEmail(user))
		return internal.ErrUnauthorizedAccess
	}

	if err := s.repo.Delete(id); err != nil {
		s.logger.Error("failed to delete incident", "error", err, "incident_id", id)
		return err
	}

	s.logger.Info("incident deleted", "incident_id", id, "email", userEmail(user))
	return nil
}

// redactPII masks the reporter's identity on injury reports unless the viewer
// is the reporter, holds the PII permission, or sits in the HR group. Returns
// a copy so stored records are never mutated.
func redactPII(inc *Incident, u *useraccess.Record) *Incident {
	if u != nil {
		if inc.ReporterEmail == u.Email || u.Permissions.CanViewPII || u.HasGroup(useraccess.GroupHR) {
			return inc
		}
	}
	masked := *inc
	masked.ReporterEmail = ""
	return &masked
}

func userEmail(u *useraccess.Record) string {
	if u == nil {
		return ""
	}
	return u.Email
}
