package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/examcell/results-api/internal/models"
)

// ResultRepository persists individual result rows. Transaction rebinds the
// repository to a single unit of work so that batch inserts performed inside
// the callback commit or roll back together.
type ResultRepository interface {
	List(ctx context.Context) ([]models.Result, error)
	GetByID(ctx context.Context, id uint) (models.Result, error)
	ListByStudent(ctx context.Context, studentID string) ([]models.Result, error)
	ListBySemester(ctx context.Context, semester string) ([]models.Result, error)
	Create(ctx context.Context, result *models.Result) error
	InsertBatch(ctx context.Context, results []models.Result) error
	Save(ctx context.Context, result *models.Result) error
	Delete(ctx context.Context, id uint) error
	Transaction(ctx context.Context, fn func(ResultRepository) error) error
}

type resultRepository struct {
	db *gorm.DB
}

// NewResultRepository constructs a result repository.
func NewResultRepository(db *gorm.DB) ResultRepository {
	return &resultRepository{db: db}
}

func (r *resultRepository) List(ctx context.Context) ([]models.Result, error) {
	var results []models.Result
	if err := r.db.WithContext(ctx).Order("id asc").Find(&results).Error; err != nil {
		return nil, err
	}

	return results, nil
}

func (r *resultRepository) GetByID(ctx context.Context, id uint) (models.Result, error) {
	var result models.Result
	if err := r.db.WithContext(ctx).First(&result, id).Error; err != nil {
		return models.Result{}, err
	}

	return result, nil
}

func (r *resultRepository) ListByStudent(ctx context.Context, studentID string) ([]models.Result, error) {
	var results []models.Result
	err := r.db.WithContext(ctx).
		Where("student_id = ?", studentID).
		Order("semester desc").
		Order("subject_name asc").
		Find(&results).Error
	if err != nil {
		return nil, err
	}

	return results, nil
}

func (r *resultRepository) ListBySemester(ctx context.Context, semester string) ([]models.Result, error) {
	var results []models.Result
	err := r.db.WithContext(ctx).
		Where("semester = ?", semester).
		Order("student_id asc").
		Order("subject_name asc").
		Find(&results).Error
	if err != nil {
		return nil, err
	}

	return results, nil
}

func (r *resultRepository) Create(ctx context.Context, result *models.Result) error {
	return r.db.WithContext(ctx).Create(result).Error
}

func (r *resultRepository) InsertBatch(ctx context.Context, results []models.Result) error {
	if len(results) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&results).Error
}

func (r *resultRepository) Save(ctx context.Context, result *models.Result) error {
	return r.db.WithContext(ctx).Save(result).Error
}

func (r *resultRepository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&models.Result{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

func (r *resultRepository) Transaction(ctx context.Context, fn func(ResultRepository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&resultRepository{db: tx})
	})
}
