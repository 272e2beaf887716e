package incident

import (
	"time"

	"github.com/frahmantamala/incident-management/internal"
)

type CreateIncidentDTO struct {
	Title           string    `json:"title"`
	Description     string    `json:"description"`
	Severity        string    `json:"severity"`
	HierarchyString string    `json:"hierarchy_string"`
	OccurredAt      time.Time `json:"occurred_at"`
}

var validSeverities = map[string]bool{
	SeverityLow:      true,
	SeverityMedium:   true,
	SeverityHigh:     true,
	SeverityCritical: true,
}

func (d *CreateIncidentDTO) Validate() error {
	if d.Title == "" {
		return internal.NewValidationFieldError("title", "title is required", internal.ErrCodeValidationFailed)
	}
	if len(d.Title) > 200 {
		return internal.NewValidationFieldError("title", "title must be at most 200 characters", internal.ErrCodeValidationFailed)
	}
	if !validSeverities[d.Severity] {
		return internal.NewValidationFieldError("severity", "severity must be one of low, medium, high, critical", internal.ErrCodeInvalidSeverity)
	}
	if d.OccurredAt.IsZero() {
		return internal.NewValidationFieldError("occurred_at", "occurred_at is required", internal.ErrCodeInvalidDate)
	}
	if d.OccurredAt.After(time.Now()) {
		return internal.NewValidationFieldError("occurred_at", "occurred_at cannot be in the future", internal.ErrCodeInvalidDate)
	}
	return nil
}

type UpdateRCADTO struct {
	RootCause         string `json:"root_cause"`
	CorrectiveActions string `json:"corrective_actions"`
}

func (d *UpdateRCADTO) Validate() error {
	if d.RootCause == "" && d.CorrectiveActions == "" {
		return internal.NewValidationError("at least one of root_cause or corrective_actions is required", internal.ErrCodeValidationFailed)
	}
	return nil
}
