package observation

import "time"

type Observation struct {
	ID              int64     `gorm:"primaryKey"`
	ReporterEmail   string    `gorm:"column:reporter_email;index;not null"`
	Category        string    `gorm:"column:category;not null"`
	Description     string    `gorm:"column:description;not null"`
	HierarchyString string    `gorm:"column:hierarchy_string;index"`
	Status          string    `gorm:"column:status;not null;default:open"`
	CreatedAt       time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (Observation) TableName() string { return "observations" }
