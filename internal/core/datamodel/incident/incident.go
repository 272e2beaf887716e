package incident

import "time"

type Incident struct {
	ID                int64      `gorm:"primaryKey"`
	ReporterEmail     string     `gorm:"column:reporter_email;index;not null"`
	Title             string     `gorm:"column:title;not null"`
	Description       string     `gorm:"column:description"`
	Severity          string     `gorm:"column:severity;not null"`
	HierarchyString   string     `gorm:"column:hierarchy_string;index"`
	Status            string     `gorm:"column:status;not null"`
	RootCause         string     `gorm:"column:root_cause"`
	CorrectiveActions string     `gorm:"column:corrective_actions"`
	AttachmentKey     *string    `gorm:"column:attachment_key"`
	OccurredAt        time.Time  `gorm:"column:occurred_at"`
	SubmittedAt       *time.Time `gorm:"column:submitted_at"`
	ClosedAt          *time.Time `gorm:"column:closed_at"`
	ClosedByEmail     *string    `gorm:"column:closed_by_email"`
	CreatedAt         time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt         time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}

func (Incident) TableName() string { return "incidents" }
