package auth

import (
	"errors"
	"fmt"
	"strconv"

	userDatamodel "github.com/frahmantamala/incident-management/internal/core/datamodel/user"
	"gorm.io/gorm"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		db: db,
	}
}

func (r *Repository) GetCredentials(email string) (string, string, bool, error) {
	var row userDatamodel.User
	err := r.db.Where("lower(email) = lower(?)", email).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", "", false, fmt.Errorf("user not found")
		}
		return "", "", false, err
	}
	return row.PasswordHash, strconv.FormatInt(row.ID, 10), row.IsActive, nil
}
