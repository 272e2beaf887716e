package postgres

import (
	"errors"
	"time"

	"github.com/frahmantamala/incident-management/internal"
	lessonDatamodel "github.com/frahmantamala/incident-management/internal/core/datamodel/lesson"
	"github.com/frahmantamala/incident-management/internal/lessons"
	"gorm.io/gorm"
)

// LessonRepository implements the lessons.Repository interface using GORM
type LessonRepository struct {
	db *gorm.DB
}

func NewLessonRepository(db *gorm.DB) lessons.Repository {
	return &LessonRepository{db: db}
}

func (r *LessonRepository) Create(l *lessons.Lesson) error {
	row := lessons.ToDataModel(l)
	if err := r.db.Create(row).Error; err != nil {
		return err
	}
	l.ID = row.ID
	l.CreatedAt = row.CreatedAt
	l.UpdatedAt = row.UpdatedAt
	return nil
}

func (r *LessonRepository) GetByID(id int64) (*lessons.Lesson, error) {
	var row lessonDatamodel.Lesson
	err := r.db.Where("id = ?", id).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, internal.ErrLessonNotFound
		}
		return nil, err
	}
	return lessons.FromDataModel(&row), nil
}

func (r *LessonRepository) GetAll(limit, offset int) ([]*lessons.Lesson, error) {
	var rows []*lessonDatamodel.Lesson
	err := r.db.
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return lessons.FromDataModelSlice(rows), nil
}

func (r *LessonRepository) Update(l *lessons.Lesson) error {
	l.UpdatedAt = time.Now()
	return r.db.Save(lessons.ToDataModel(l)).Error
}
