package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/examcell/results-api/internal/models"
)

// AdminRepository provides access to administrator accounts.
type AdminRepository interface {
	GetByEmail(ctx context.Context, email string) (models.Admin, error)
}

type adminRepository struct {
	db *gorm.DB
}

// NewAdminRepository constructs an admin repository.
func NewAdminRepository(db *gorm.DB) AdminRepository {
	return &adminRepository{db: db}
}

func (r *adminRepository) GetByEmail(ctx context.Context, email string) (models.Admin, error) {
	var admin models.Admin
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&admin).Error; err != nil {
		return models.Admin{}, err
	}

	return admin, nil
}
