package repository

import (
	"time"

	"github.com/minaharu/timebank-api/internal/models"
	"gorm.io/gorm"
)

// TaskRepository defines the interface for task data access
type TaskRepository interface {
	// Create inserts a new task
	Create(task *models.Task) error

	// FindByID finds a task by ID
	FindByID(id string) (*models.Task, error)

	// List retrieves tasks matching the filter; store-defined order, no pagination
	List(filter TaskFilter) ([]models.Task, error)

	// Update saves all fields of a task
	Update(task *models.Task) error

	// Reserve marks an available task as taken by the given user. The
	// status guard is part of the write, so a task that stopped being
	// available since it was read changes no row; the return value reports
	// whether a row changed.
	Reserve(id, takenBy string) (bool, error)

	// Complete marks a task completed, guarded on the task still being
	// taken by the given user; reports whether a row changed.
	Complete(id, takenBy string, completedAt time.Time) (bool, error)

	// Delete removes a task unconditionally
	Delete(id string) error

	// WithTx returns a copy of the repository bound to the given transaction
	WithTx(tx *gorm.DB) TaskRepository
}

// TaskFilter holds filtering options for listing tasks
type TaskFilter struct {
	PostedByID *string
	TakenBy    *string
	Status     *models.TaskStatus
}

// CreditRepository defines the interface for time-credit data access
type CreditRepository interface {
	// FindByUserID finds a credit record by user ID
	FindByUserID(userID string) (*models.UserCredit, error)

	// Init creates the credit record if it does not exist yet
	Init(credit *models.UserCredit) error

	// UpdateBalance overwrites a user's balance; no concurrency check
	UpdateBalance(userID string, minutes int) error

	// WithTx returns a copy of the repository bound to the given transaction
	WithTx(tx *gorm.DB) CreditRepository
}
