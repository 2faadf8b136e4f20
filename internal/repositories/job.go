package repositories

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"alfredoptarigan/idea-evaluator/internal/models"
)

type JobRepository interface {
	Create(job *models.EvaluationJob) error
	FindByID(id uuid.UUID) (*models.EvaluationJob, error)
	UpdateStatus(id uuid.UUID, status models.JobStatus) error
	UpdateProgress(id uuid.UUID, processed, total int) error
	UpdateError(id uuid.UUID, errorMsg string) error
}

type jobRepository struct {
	db *gorm.DB
}

func NewJobRepository(db *gorm.DB) JobRepository {
	return &jobRepository{db: db}
}

func (r *jobRepository) Create(job *models.EvaluationJob) error {
	if err := r.db.Create(job).Error; err != nil {
		return fmt.Errorf("failed to create job: %w", err)
	}
	return nil
}

func (r *jobRepository) FindByID(id uuid.UUID) (*models.EvaluationJob, error) {
	var job models.EvaluationJob
	if err := r.db.Where("id = ?", id).First(&job).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("job not found")
		}
		return nil, fmt.Errorf("failed to find job: %w", err)
	}
	return &job, nil
}

func (r *jobRepository) UpdateStatus(id uuid.UUID, status models.JobStatus) error {
	result := r.db.Model(&models.EvaluationJob{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":     status,
			"updated_at": time.Now(),
		})

	if result.Error != nil {
		return fmt.Errorf("failed to update status: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		return fmt.Errorf("job not found")
	}

	return nil
}

func (r *jobRepository) UpdateProgress(id uuid.UUID, processed, total int) error {
	result := r.db.Model(&models.EvaluationJob{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"processed_count": processed,
			"total_count":     total,
			"updated_at":      time.Now(),
		})

	if result.Error != nil {
		return fmt.Errorf("failed to update progress: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		return fmt.Errorf("job not found")
	}

	return nil
}

func (r *jobRepository) UpdateError(id uuid.UUID, errorMsg string) error {
	result := r.db.Model(&models.EvaluationJob{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":        models.JobFailed,
			"error_message": errorMsg,
			"updated_at":    time.Now(),
		})

	if result.Error != nil {
		return fmt.Errorf("failed to update error: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		return fmt.Errorf("job not found")
	}

	return nil
}
