package postgres

import (
	"errors"
	"time"

	"github.com/frahmantamala/incident-management/internal"
	observationDatamodel "github.com/frahmantamala/incident-management/internal/core/datamodel/observation"
	"github.com/frahmantamala/incident-management/internal/observation"
	"gorm.io/gorm"
)

// ObservationRepository implements the observation.Repository interface using GORM
type ObservationRepository struct {
	db *gorm.DB
}

func NewObservationRepository(db *gorm.DB) observation.Repository {
	return &ObservationRepository{db: db}
}

func (r *ObservationRepository) Create(o *observation.Observation) error {
	row := observation.ToDataModel(o)
	if err := r.db.Create(row).Error; err != nil {
		return err
	}
	o.ID = row.ID
	o.CreatedAt = row.CreatedAt
	o.UpdatedAt = row.UpdatedAt
	return nil
}

func (r *ObservationRepository) GetByID(id int64) (*observation.Observation, error) {
	var row observationDatamodel.Observation
	err := r.db.Where("id = ?", id).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, internal.ErrObservationNotFound
		}
		return nil, err
	}
	return observation.FromDataModel(&row), nil
}

func (r *ObservationRepository) GetAll(limit, offset int) ([]*observation.Observation, error) {
	var rows []*observationDatamodel.Observation
	err := r.db.
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	result := make([]*observation.Observation, 0, len(rows))
	for _, row := range rows {
		result = append(result, observation.FromDataModel(row))
	}
	return result, nil
}

func (r *ObservationRepository) Update(o *observation.Observation) error {
	o.UpdatedAt = time.Now()
	return r.db.Save(observation.ToDataModel(o)).Error
}
