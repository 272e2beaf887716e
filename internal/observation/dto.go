package observation

import (
	"github.com/frahmantamala/incident-management/internal"
)

type CreateObservationDTO struct {
	Category        string `json:"category"`
	Description     string `json:"description"`
	HierarchyString string `json:"hierarchy_string"`
}

var validCategories = map[string]bool{
	CategoryUnsafeCondition: true,
	CategoryUnsafeBehavior:  true,
	CategoryNearMiss:        true,
	CategoryGoodPractice:    true,
}

func (d *CreateObservationDTO) Validate() error {
	if !validCategories[d.Category] {
		return internal.NewValidationFieldError("category",
			"category must be one of unsafe_condition, unsafe_behavior, near_miss, good_practice",
			internal.ErrCodeValidationFailed)
	}
	if d.Description == "" {
		return internal.NewValidationFieldError("description", "description is required", internal.ErrCodeValidationFailed)
	}
	if len(d.Description) > 2000 {
		return internal.NewValidationFieldError("description", "description must be at most 2000 characters", internal.ErrCodeValidationFailed)
	}
	return nil
}
