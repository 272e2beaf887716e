package incident

import (
	"time"

	incidentDatamodel "github.com/frahmantamala/incident-management/internal/core/datamodel/incident"
	"github.com/frahmantamala/incident-management/internal/useraccess"
)

// Status values share their wire form with the access gate's record rules.
const (
	StatusDraft         = useraccess.StatusDraft
	StatusPendingReview = useraccess.StatusPendingReview
	StatusClosed        = useraccess.StatusClosed
)

const (
	SeverityLow      = "low"
	SeverityMedium   = "medium"
	SeverityHigh     = "high"
	SeverityCritical = "critical"
)

type Incident struct {
	ID                int64      `json:"id"`
	ReporterEmail     string     `json:"reporter_email"`
	Title             string     `json:"title"`
	Description       string     `json:"description"`
	Severity          string     `json:"severity"`
	HierarchyString   string     `json:"hierarchy_string"`
	Status            string     `json:"status"`
	RootCause         string     `json:"root_cause,omitempty"`
	CorrectiveActions string     `json:"corrective_actions,omitempty"`
	AttachmentKey     *string    `json:"attachment_key,omitempty"`
	OccurredAt        time.Time  `json:"occurred_at"`
	SubmittedAt       *time.Time `json:"submitted_at,omitempty"`
	ClosedAt          *time.Time `json:"closed_at,omitempty"`
	ClosedByEmail     *string    `json:"closed_by_email,omitempty"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
}

// Hierarchy satisfies the scope filter's record interface.
func (i *Incident) Hierarchy() string { return i.HierarchyString }

func (i *Incident) IsDraft() bool   { return i.Status == StatusDraft }
func (i *Incident) IsPending() bool { return i.Status == StatusPendingReview }
func (i *Incident) IsClosed() bool  { return i.Status == StatusClosed }

func (i *Incident) CanBeSubmitted() bool { return i.Status == StatusDraft }
func (i *Incident) CanBeClosed() bool    { return i.Status == StatusPendingReview }

func (i *Incident) Submit() {
	now := time.Now()
	i.Status = StatusPendingReview
	i.SubmittedAt = &now
	i.UpdatedAt = now
}

func (i *Incident) Close(byEmail string) {
	now := time.Now()
	i.Status = StatusClosed
	i.ClosedAt = &now
	i.ClosedByEmail = &byEmail
	i.UpdatedAt = now
}

func NewIncident(reporterEmail string, dto CreateIncidentDTO) *Incident {
	now := time.Now()
	return &Incident{
		ReporterEmail:   reporterEmail,
		Title:           dto.Title,
		Description:     dto.Description,
		Severity:        dto.Severity,
		HierarchyString: dto.HierarchyString,
		Status:          StatusDraft,
		OccurredAt:      dto.OccurredAt,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}

func ToDataModel(i *Incident) *incidentDatamodel.Incident {
	return &incidentDatamodel.Incident{
		ID:                i.ID,
		ReporterEmail:     i.ReporterEmail,
		Title:             i.Title,
		Description:       i.Description,
		Severity:          i.Severity,
		HierarchyString:   i.HierarchyString,
		Status:            i.Status,
		RootCause:         i.RootCause,
		CorrectiveActions: i.CorrectiveActions,
		AttachmentKey:     i.AttachmentKey,
		OccurredAt:        i.OccurredAt,
		SubmittedAt:       i.SubmittedAt,
		ClosedAt:          i.ClosedAt,
		ClosedByEmail:     i.ClosedByEmail,
		CreatedAt:         i.CreatedAt,
		UpdatedAt:         i.UpdatedAt,
	}
}

func FromDataModel(i *incidentDatamodel.Incident) *Incident {
	return &Incident{
		ID:                i.ID,
		ReporterEmail:     i.ReporterEmail,
		Title:             i.Title,
		Description:       i.Description,
		Severity:          i.Severity,
		HierarchyString:   i.HierarchyString,
		Status:            i.Status,
		RootCause:         i.RootCause,
		CorrectiveActions: i.CorrectiveActions,
		AttachmentKey:     i.AttachmentKey,
		OccurredAt:        i.OccurredAt,
		SubmittedAt:       i.SubmittedAt,
		ClosedAt:          i.ClosedAt,
		ClosedByEmail:     i.ClosedByEmail,
		CreatedAt:         i.CreatedAt,
		UpdatedAt:         i.UpdatedAt,
	}
}

func FromDataModelSlice(rows []*incidentDatamodel.Incident) []*Incident {
	result := make([]*Incident, len(rows))
	for i, row := range rows {
		result[i] = FromDataModel(row)
	}
	return result
}
