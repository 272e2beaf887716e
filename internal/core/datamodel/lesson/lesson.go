package lesson

import "time"

type Lesson struct {
	ID              int64      `gorm:"primaryKey"`
	IncidentID      *int64     `gorm:"column:incident_id;index"`
	Title           string     `gorm:"column:title;not null"`
	Summary         string     `gorm:"column:summary;not null"`
	HierarchyString string     `gorm:"column:hierarchy_string;index"`
	Status          string     `gorm:"column:status;not null;default:pending_approval"`
	AuthorEmail     string     `gorm:"column:author_email;not null"`
	ApprovedByEmail *string    `gorm:"column:approved_by_email"`
	PublishedAt     *time.Time `gorm:"column:published_at"`
	CreatedAt       time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}

func (Lesson) TableName() string { return "lessons_learned" }
