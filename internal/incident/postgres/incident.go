package postgres

import (
	"errors"
	"time"

	"github.com/frahmantamala/incident-management/internal"
	incidentDatamodel "github.com/frahmantamala/incident-management/internal/core/datamodel/incident"
	"github.com/frahmantamala/incident-management/internal/incident"
	"gorm.io/gorm"
)

// IncidentRepository implements the incident.Repository interface using GORM
type IncidentRepository struct {
	db *gorm.DB
}

func NewIncidentRepository(db *gorm.DB) incident.Repository {
	return &IncidentRepository{db: db}
}

func (r *IncidentRepository) Create(inc *incident.Incident) error {
	row := incident.ToDataModel(inc)
	if err := r.db.Create(row).Error; err != nil {
		return err
	}
	inc.ID = row.ID
	inc.CreatedAt = row.CreatedAt
	inc.UpdatedAt = row.UpdatedAt
	return nil
}

func (r *IncidentRepository) GetByID(id int64) (*incident.Incident, error) {
	var row incidentDatamodel.Incident
	err := r.db.Where("id = ?", id).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, internal.ErrIncidentNotFound
		}
		return nil, err
	}
	return incident.FromDataModel(&row), nil
}

func (r *IncidentRepository) GetByReporter(email string, limit, offset int) ([]*incident.Incident, error) {
	var rows []*incidentDatamodel.Incident
	err := r.db.Where("reporter_email = ?", email).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return incident.FromDataModelSlice(rows), nil
}

func (r *IncidentRepository) GetAll(limit, offset int) ([]*incident.Incident, error) {
	var rows []*incidentDatamodel.Incident
	err := r.db.
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return incident.FromDataModelSlice(rows), nil
}

func (r *IncidentRepository) Update(inc *incident.Incident) error {
	inc.UpdatedAt = time.Now()
	return r.db.Save(incident.ToDataModel(inc)).Error
}

func (r *IncidentRepository) Delete(id int64) error {
	return r.db.Delete(&incidentDatamodel.Incident{}, id).Error
}
