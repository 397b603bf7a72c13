package dto

import (
	"time"

	"github.com/minaharu/timebank-api/internal/models"
)

// TaskDTO represents a task in API responses
type TaskDTO struct {
	ID          string            `json:"id"`
	Title       string            `json:"title"`
	Description string            `json:"description"`
	Duration    int               `json:"duration"`
	Status      models.TaskStatus `json:"status"`
	PostedBy    string            `json:"posted_by"`
	PostedByID  string            `json:"posted_by_id"`
	PosterEmail string            `json:"poster_email"`
	TakenBy     *string           `json:"taken_by,omitempty"`
	CreatedAt   time.Time         `json:"created_at"`
	CompletedAt *time.Time        `json:"completed_at,omitempty"`
}

// TaskListResponse represents a list of tasks
type TaskListResponse struct {
	Tasks []TaskDTO `json:"tasks"`
	Total int       `json:"total"`
}

// ToTaskDTO converts a Task model to TaskDTO
func ToTaskDTO(task models.Task) TaskDTO {
	return TaskDTO{
		ID:          task.ID,
		Title:       task.Title,
		Description: task.Description,
		Duration:    task.Duration,
		Status:      task.Status,
		PostedBy:    task.PostedBy,
		PostedByID:  task.PostedByID,
		PosterEmail: task.PosterEmail,
		TakenBy:     task.TakenBy,
		CreatedAt:   task.CreatedAt,
		CompletedAt: task.CompletedAt,
	}
}

// ToTaskListResponse converts a slice of tasks to TaskListResponse
func ToTaskListResponse(tasks []models.Task) TaskListResponse {
	items := make([]TaskDTO, len(tasks))
	for i, task := range tasks {
		items[i] = ToTaskDTO(task)
	}

	return TaskListResponse{
		Tasks: items,
		Total: len(items),
	}
}
