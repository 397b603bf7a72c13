package repository

import (
	"time"

	"github.com/minaharu/timebank-api/internal/models"
	"gorm.io/gorm"
)

// GormTaskRepository is a GORM implementation of TaskRepository
type GormTaskRepository struct {
	db *gorm.DB
}

// NewTaskRepository creates a new TaskRepository
func NewTaskRepository(db *gorm.DB) TaskRepository {
	return &GormTaskRepository{db: db}
}

// WithTx returns a copy of the repository bound to the given transaction
func (r *GormTaskRepository) WithTx(tx *gorm.DB) TaskRepository {
	return &GormTaskRepository{db: tx}
}

// Create inserts a new task
func (r *GormTaskRepository) Create(task *models.Task) error {
	return r.db.Create(task).Error
}

// FindByID finds a task by ID
func (r *GormTaskRepository) FindByID(id string) (*models.Task, error) {
	var task models.Task
	if err := r.db.First(&task, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &task, nil
}

// List retrieves tasks matching the filter
func (r *GormTaskRepository) List(filter TaskFilter) ([]models.Task, error) {
	var tasks []models.Task

	query := r.db.Model(&models.Task{})

	if filter.PostedByID != nil {
		query = query.Where("posted_by_id = ?", *filter.PostedByID)
	}
	if filter.TakenBy != nil {
		query = query.Where("taken_by = ?", *filter.TakenBy)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}

	if err := query.Find(&tasks).Error; err != nil {
		return nil, err
	}

	return tasks, nil
}

// Update saves all fields of a task
func (r *GormTaskRepository) Update(task *models.Task) error {
	return r.db.Save(task).Error
}

// Reserve marks an available task as taken by the given user
func (r *GormTaskRepository) Reserve(id, takenBy string) (bool, error) {
	res := r.db.Model(&models.Task{}).
		Where("id = ? AND status = ?", id, models.TaskStatusAvailable).
		Updates(map[string]interface{}{
			"status":   models.TaskStatusTaken,
			"taken_by": takenBy,
		})
	return res.RowsAffected > 0, res.Error
}

// Complete marks a taken task completed
func (r *GormTaskRepository) Complete(id, takenBy string, completedAt time.Time) (bool, error) {
	res := r.db.Model(&models.Task{}).
		Where("id = ? AND status = ? AND taken_by = ?", id, models.TaskStatusTaken, takenBy).
		Updates(map[string]interface{}{
			"status":       models.TaskStatusCompleted,
			"completed_at": completedAt,
		})
	return res.RowsAffected > 0, res.Error
}

// Delete removes a task unconditionally
func (r *GormTaskRepository) Delete(id string) error {
	return r.db.Delete(&models.Task{}, "id = ?", id).Error
}
