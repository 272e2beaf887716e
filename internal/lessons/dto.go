package lessons

import (
	"github.com/frahmantamala/incident-management/internal"
)

type CreateLessonDTO struct {
	IncidentID      *int64 `json:"incident_id,omitempty"`
	Title           string `json:"title"`
	Summary         string `json:"summary"`
	HierarchyString string `json:"hierarchy_string"`
}

func (d *CreateLessonDTO) Validate() error {
	if d.Title == "" {
		return internal.NewValidationFieldError("title", "title is required", internal.ErrCodeValidationFailed)
	}
	if len(d.Title) > 200 {
		return internal.NewValidationFieldError("title", "title must be at most 200 characters", internal.ErrCodeValidationFailed)
	}
	if d.Summary == "" {
		return internal.NewValidationFieldError("summary", "summary is required", internal.ErrCodeValidationFailed)
	}
	return nil
}
