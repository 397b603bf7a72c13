package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/minaharu/timebank-api/internal/constants"
	"github.com/minaharu/timebank-api/internal/identity"
	"github.com/minaharu/timebank-api/internal/models"
	"github.com/minaharu/timebank-api/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrTaskNotFound       = errors.New("task not found")
	ErrTitleRequired      = errors.New("title is required")
	ErrTitleTooLong       = errors.New("title must be at most 50 characters")
	ErrDescriptionTooLong = errors.New("description must be at most 200 characters")
	ErrInvalidDuration    = errors.New("duration must be a positive number of hours")
)

// TaskService handles task CRUD business logic
type TaskService struct {
	taskRepo repository.TaskRepository
}

// NewTaskService creates a new TaskService
func NewTaskService(taskRepo repository.TaskRepository) *TaskService {
	return &TaskService{
		taskRepo: taskRepo,
	}
}

// ListTasksInput represents filters for listing tasks
type ListTasksInput struct {
	PostedByID *string
	TakenBy    *string
	Status     *models.TaskStatus
}

// CreateTaskInput represents input for creating a task
type CreateTaskInput struct {
	Title       string
	Description string
	Duration    int
}

// UpdateTaskInput represents input for updating a task. Status, taker and
// completion time are not updatable here; the only writers of those fields
// are the take and complete operations.
type UpdateTaskInput struct {
	Title       *string
	Description *string
	Duration    *int
}

// ListTasks returns tasks matching the filters, in store-defined order.
func (s *TaskService) ListTasks(input ListTasksInput) ([]models.Task, error) {
	filter := repository.TaskFilter{
		PostedByID: input.PostedByID,
		TakenBy:    input.TakenBy,
		Status:     input.Status,
	}

	tasks, err := s.taskRepo.List(filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}

	return tasks, nil
}

// GetTask returns a task by ID
func (s *TaskService) GetTask(taskID string) (*models.Task, error) {
	task, err := s.taskRepo.FindByID(taskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}

	return task, nil
}

// CreateTask validates the input, stamps the creator's identity snapshot,
// and persists the task as available. The returned record is re-read so
// server-assigned fields are resolved.
func (s *TaskService) CreateTask(input CreateTaskInput, creator identity.Identity) (*models.Task, error) {
	if err := validateTaskFields(input.Title, input.Description, input.Duration); err != nil {
		return nil, err
	}

	task := &models.Task{
		Title:       input.Title,
		Description: input.Description,
		Duration:    input.Duration,
		Status:      models.TaskStatusAvailable,
		PostedBy:    creator.DisplayName,
		PostedByID:  creator.UID,
		PosterEmail: creator.Email,
	}

	if err := s.taskRepo.Create(task); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	return s.taskRepo.FindByID(task.ID)
}

// UpdateTask merges the given fields into an existing task. It does not
// check status or ownership; callers are expected to prevent illegal edits.
func (s *TaskService) UpdateTask(taskID string, input UpdateTaskInput) (*models.Task, error) {
	task, err := s.taskRepo.FindByID(taskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}

	if input.Title != nil {
		if strings.TrimSpace(*input.Title) == "" {
			return nil, ErrTitleRequired
		}
		if len(*input.Title) > constants.MaxTitleLength {
			return nil, ErrTitleTooLong
		}
		task.Title = *input.Title
	}
	if input.Description != nil {
		if len(*input.Description) > constants.MaxDescriptionLength {
			return nil, ErrDescriptionTooLong
		}
		task.Description = *input.Description
	}
	if input.Duration != nil {
		if *input.Duration <= 0 {
			return nil, ErrInvalidDuration
		}
		task.Duration = *input.Duration
	}

	if err := s.taskRepo.Update(task); err != nil {
		return nil, fmt.Errorf("failed to update task: %w", err)
	}

	return s.taskRepo.FindByID(task.ID)
}

// DeleteTask removes a task unconditionally: no status check, and an
// absent id is a silent success, matching the store's document removal.
func (s *TaskService) DeleteTask(taskID string) error {
	if err := s.taskRepo.Delete(taskID); err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}

	return nil
}

func validateTaskFields(title, description string, duration int) error {
	if strings.TrimSpace(title) == "" {
		return ErrTitleRequired
	}
	if len(title) > constants.MaxTitleLength {
		return ErrTitleTooLong
	}
	if len(description) > constants.MaxDescriptionLength {
		return ErrDescriptionTooLong
	}
	if duration <= 0 {
		return ErrInvalidDuration
	}
	return nil
}
