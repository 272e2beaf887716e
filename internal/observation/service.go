package observation

import (
	"log/slog"

	"github.com/frahmantamala/incident-management/internal"
	"github.com/frahmantamala/incident-management/internal/useraccess"
)

// Repository defines the data access methods for observations
type Repository interface {
	Create(o *Observation) error
	GetByID(id int64) (*Observation, error)
	GetAll(limit, offset int) ([]*Observation, error)
	Update(o *Observation) error
}

type Service struct {
	repo   Repository
	gate   *useraccess.Gate
	logger *slog.Logger
}

func NewService(repo Repository, gate *useraccess.Gate, logger *slog.Logger) *Service {
	return &Service{repo: repo, gate: gate, logger: logger}
}

// CreateObservation files a safety observation under the caller's hierarchy
// unless the DTO pins one inside the caller's scope.
func (s *Service) CreateObservation(user *useraccess.Record, dto CreateObservationDTO) (*Observation, error) {
	if user == nil {
		return nil, internal.ErrUnauthorizedAccess
	}
	if !s.gate.Allow(user, useraccess.Criteria{Permission: useraccess.PermReportObservation}) {
		s.logger.Warn("create observation denied", "email", user.Email, "role_title", user.RoleTitle)
		return nil, internal.ErrUnauthorizedAccess
	}

	if err := dto.Validate(); err != nil {
		return nil, err
	}
	if dto.HierarchyString == "" {
		dto.HierarchyString = user.HierarchyString
	}
	if !useraccess.MatchesScope(user, dto.HierarchyString) {
		s.logger.Warn("create observation denied: hierarchy outside caller scope",
			"email", user.Email, "hierarchy", dto.HierarchyString)
		return nil, internal.ErrUnauthorizedAccess
	}

	obs := NewObservation(user.Email, dto)
	if err := s.repo.Create(obs); err != nil {
		s.logger.Error("failed to create observation", "error", err, "email", user.Email)
		return nil, err
	}

	s.logger.Info("observation created",
		"observation_id", obs.ID,
		"email", user.Email,
		"category", obs.Category,
		"hierarchy", obs.HierarchyString)
	return obs, nil
}

// GetObservation returns one record if it falls within the caller's scope.
func (s *Service) GetObservation(id int64, user *useraccess.Record) (*Observation, error) {
	obs, err := s.repo.GetByID(id)
	if err != nil {
		return nil, internal.ErrObservationNotFound
	}

	if user != nil && obs.ReporterEmail == user.Email {
		return obs, nil
	}
	if !useraccess.MatchesScope(user, obs.HierarchyString) {
		s.logger.Warn("observation view denied", "observation_id", id)
		return nil, internal.ErrUnauthorizedAccess
	}
	return obs, nil
}

// ListObservations scope-filters whatever the store returns.
func (s *Service) ListObservations(user *useraccess.Record, limit, offset int) ([]*Observation, error) {
	all, err := s.repo.GetAll(limit, offset)
	if err != nil {
		s.logger.Error("failed to list observations", "error", err)
		return nil, err
	}
	return useraccess.FilterByScope(all, user), nil
}

// ResolveObservation closes out an open observation. Reporters may resolve
// their own; otherwise first-report duty is required.
func (s *Service) ResolveObservation(id int64, user *useraccess.Record) (*Observation, error) {
	obs, err := s.repo.GetByID(id)
	if err != nil {
		return nil, internal.ErrObservationNotFound
	}

	isReporter := user != nil && obs.ReporterEmail == user.Email
	if !isReporter && !s.gate.Allow(user, useraccess.Criteria{
		Permission: useraccess.PermFirstReportActions,
		Hierarchy:  &obs.HierarchyString,
		RequireAll: true,
	}) {
		s.logger.Warn("resolve observation denied", "observation_id", id)
		return nil, internal.ErrUnauthorizedAccess
	}
	if obs.Status == StatusResolved {
		return obs, nil
	}

	obs.Resolve()
	if err := s.repo.Update(obs); err != nil {
		s.logger.Error("failed to resolve observation", "error", err, "observation_id", id)
		return nil, err
	}

	s.logger.Info("observation resolved", "observation_id", obs.ID)
	return obs, nil
}
