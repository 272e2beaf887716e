package lessons

import (
	"time"

	lessonDatamodel "github.com/frahmantamala/incident-management/internal/core/datamodel/lesson"
)

const (
	StatusPendingApproval = "pending_approval"
	StatusPublished       = "published"
)

// Lesson is a lesson learned distilled from a closed incident (or written
// standalone). It stays pending until an approver publishes it.
type Lesson struct {
	ID              int64      `json:"id"`
	IncidentID      *int64     `json:"incident_id,omitempty"`
	Title           string     `json:"title"`
	Summary         string     `json:"summary"`
	HierarchyString string     `json:"hierarchy_string"`
	Status          string     `json:"status"`
	AuthorEmail     string     `json:"author_email"`
	ApprovedByEmail *string    `json:"approved_by_email,omitempty"`
	PublishedAt     *time.Time `json:"published_at,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// Hierarchy satisfies the scope filter's record interface.
func (l *Lesson) Hierarchy() string { return l.HierarchyString }

func (l *Lesson) IsPublished() bool { return l.Status == StatusPublished }

func (l *Lesson) Publish(approverEmail string) {
	now := time.Now()
	l.Status = StatusPublished
	l.ApprovedByEmail = &approverEmail
	l.PublishedAt = &now
	l.UpdatedAt = now
}

func NewLesson(authorEmail string, dto CreateLessonDTO) *Lesson {
	now := time.Now()
	return &Lesson{
		IncidentID:      dto.IncidentID,
		Title:           dto.Title,
		Summary:         dto.Summary,
		HierarchyString: dto.HierarchyString,
		Status:          StatusPendingApproval,
		AuthorEmail:     authorEmail,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}

func ToDataModel(l *Lesson) *lessonDatamodel.Lesson {
	return &lessonDatamodel.Lesson{
		ID:              l.ID,
		IncidentID:      l.IncidentID,
		Title:           l.Title,
		Summary:         l.Summary,
		HierarchyString: l.HierarchyString,
		Status:          l.Status,
		AuthorEmail:     l.AuthorEmail,
		ApprovedByEmail: l.ApprovedByEmail,
		PublishedAt:     l.PublishedAt,
		CreatedAt:       l.CreatedAt,
		UpdatedAt:       l.UpdatedAt,
	}
}

func FromDataModel(l *lessonDatamodel.Lesson) *Lesson {
	return &Lesson{
		ID:              l.ID,
		IncidentID:      l.IncidentID,
		Title:           l.Title,
		Summary:         l.Summary,
		HierarchyString: l.HierarchyString,
		Status:          l.Status,
		AuthorEmail:     l.AuthorEmail,
		ApprovedByEmail: l.ApprovedByEmail,
		PublishedAt:     l.PublishedAt,
		CreatedAt:       l.CreatedAt,
		UpdatedAt:       l.UpdatedAt,
	}
}

func FromDataModelSlice(rows []*lessonDatamodel.Lesson) []*Lesson {
	result := make([]*Lesson, 0, len(rows))
	for _, row := range rows {
		result = append(result, FromDataModel(row))
	}
	return result
}
