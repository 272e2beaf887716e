package observation

import (
	"time"

	observationDatamodel "github.com/frahmantamala/incident-management/internal/core/datamodel/observation"
)

const (
	StatusOpen     = "open"
	StatusResolved = "resolved"
)

const (
	CategoryUnsafeCondition = "unsafe_condition"
	CategoryUnsafeBehavior  = "unsafe_behavior"
	CategoryNearMiss        = "near_miss"
	CategoryGoodPractice    = "good_practice"
)

type Observation struct {
	ID              int64     `json:"id"`
	ReporterEmail   string    `json:"reporter_email"`
	Category        string    `json:"category"`
	Description     string    `json:"description"`
	HierarchyString string    `json:"hierarchy_string"`
	Status          string    `json:"status"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// Hierarchy satisfies the scope filter's record interface.
func (o *Observation) Hierarchy() string { return o.HierarchyString }

func (o *Observation) Resolve() {
	o.Status = StatusResolved
	o.UpdatedAt = time.Now()
}

func NewObservation(reporterEmail string, dto CreateObservationDTO) *Observation {
	now := time.Now()
	return &Observation{
		ReporterEmail:   reporterEmail,
		Category:        dto.Category,
		Description:     dto.Description,
		HierarchyString: dto.HierarchyString,
		Status:          StatusOpen,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}

func ToDataModel(o *Observation) *observationDatamodel.Observation {
	return &observationDatamodel.Observation{
		ID:              o.ID,
		ReporterEmail:   o.ReporterEmail,
		Category:        o.Category,
		Description:     o.Description,
		HierarchyString: o.HierarchyString,
		Status:          o.Status,
		CreatedAt:       o.CreatedAt,
		UpdatedAt:       o.UpdatedAt,
	}
}

func FromDataModel(o *observationDatamodel.Observation) *Observation {
	return &Observation{
		ID:              o.ID,
		ReporterEmail:   o.ReporterEmail,
		Category:        o.Category,
		Description:     o.Description,
		HierarchyString: o.HierarchyString,
		Status:          o.Status,
		CreatedAt:       o.CreatedAt,
		UpdatedAt:       o.UpdatedAt,
	}
}
