package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/examcell/results-api/internal/models"
)

// UploadRepository is the append-mostly ledger of ingestion attempts. Its
// writes run on the root connection so a terminal status survives a rollback
// of the result rows written by the same ingestion.
type UploadRepository interface {
	Create(ctx context.Context, upload *models.Upload) error
	Finalize(ctx context.Context, id string, status string, records int) error
	Recent(ctx context.Context, limit int) ([]models.Upload, error)
}

type uploadRepository struct {
	db *gorm.DB
}

// NewUploadRepository constructs a repository for upload ledger entries.
func NewUploadRepository(db *gorm.DB) UploadRepository {
	return &uploadRepository{db: db}
}

func (r *uploadRepository) Create(ctx context.Context, upload *models.Upload) error {
	return r.db.WithContext(ctx).Create(upload).Error
}

func (r *uploadRepository) Finalize(ctx context.Context, id string, status string, records int) error {
	result := r.db.WithContext(ctx).Model(&models.Upload{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{"status": status, "records": records})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

func (r *uploadRepository) Recent(ctx context.Context, limit int) ([]models.Upload, error) {
	if limit < 1 {
		limit = 1
	}

	var uploads []models.Upload
	err := r.db.WithContext(ctx).
		Order("created_at desc").
		Limit(limit).
		Find(&uploads).Error
	if err != nil {
		return nil, err
	}

	return uploads, nil
}
