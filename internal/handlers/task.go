package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/minaharu/timebank-api/internal/dto"
	apierrors "github.com/minaharu/timebank-api/internal/errors"
	"github.com/minaharu/timebank-api/internal/middleware"
	"github.com/minaharu/timebank-api/internal/models"
	"github.com/minaharu/timebank-api/internal/services"
)

// TaskHandler exposes task CRUD and the take/complete lifecycle transitions.
type TaskHandler struct {
	taskService *services.TaskService
	ledger      *services.LedgerService
}

// NewTaskHandler creates a new TaskHandler
func NewTaskHandler(taskService *services.TaskService, ledger *services.LedgerService) *TaskHandler {
	return &TaskHandler{
		taskService: taskService,
		ledger:      ledger,
	}
}

// ListTasks returns tasks, optionally filtered to the caller's posted or
// taken tasks, or by status.
func (h *TaskHandler) ListTasks(c *gin.Context) {
	ident, exists := middleware.GetIdentity(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	input := services.ListTasksInput{}

	if c.Query("mine") == "1" || c.Query("mine") == "true" {
		input.PostedByID = &ident.UID
	}
	if c.Query("taken") == "1" || c.Query("taken") == "true" {
		input.TakenBy = &ident.UID
	}
	if statusStr := c.Query("status"); statusStr != "" {
		status := models.TaskStatus(statusStr)
		switch status {
		case models.TaskStatusAvailable, models.TaskStatusTaken, models.TaskStatusCompleted:
			input.Status = &status
		default:
			apierrors.BadRequest(c, "Invalid status filter")
			return
		}
	}

	tasks, err := h.taskService.ListTasks(input)
	if err != nil {
		apierrors.InternalError(c, "Failed to fetch tasks")
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskListResponse(tasks))
}

// GetTask returns a specific task by ID
func (h *TaskHandler) GetTask(c *gin.Context) {
	task, err := h.taskService.GetTask(c.Param("id"))
	if err != nil {
		if errors.Is(err, services.ErrTaskNotFound) {
			apierrors.NotFound(c, "Task not found")
			return
		}
		apierrors.InternalError(c, "Failed to fetch task")
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTO(*task))
}

// CreateTask creates a new available task stamped with the caller's identity.
func (h *TaskHandler) CreateTask(c *gin.Context) {
	ident, exists := middleware.GetIdentity(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	type CreateTaskRequest struct {
		Title       string `json:"title" binding:"required"`
		Description string `json:"description"`
		Duration    int    `json:"duration" binding:"required"`
	}

	var req CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	task, err := h.taskService.CreateTask(services.CreateTaskInput{
		Title:       req.Title,
		Description: req.Description,
		Duration:    req.Duration,
	}, ident)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToTaskDTO(*task))
}

// UpdateTask merges the given fields into an existing task.
func (h *TaskHandler) UpdateTask(c *gin.Context) {
	type UpdateTaskRequest struct {
		Title       *string `json:"title"`
		Description *string `json:"description"`
		Duration    *int    `json:"duration"`
	}

	var req UpdateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	task, err := h.taskService.UpdateTask(c.Param("id"), services.UpdateTaskInput{
		Title:       req.Title,
		Description: req.Description,
		Duration:    req.Duration,
	})
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTO(*task))
}

// DeleteTask removes a task unconditionally.
func (h *TaskHandler) DeleteTask(c *gin.Context) {
	if err := h.taskService.DeleteTask(c.Param("id")); err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Task deleted successfully",
	})
}

// TakeTask reserves an available task for the caller, debiting its cost.
func (h *TaskHandler) TakeTask(c *gin.Context) {
	ident, exists := middleware.GetIdentity(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	task, err := h.ledger.TakeTask(c.Param("id"), ident.UID)
	if err != nil {
		respondLedgerError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTO(*task))
}

// CompleteTask marks a task the caller holds as completed and credits the reward.
func (h *TaskHandler) CompleteTask(c *gin.Context) {
	ident, exists := middleware.GetIdentity(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	task, err := h.ledger.CompleteTask(c.Param("id"), ident.UID)
	if err != nil {
		respondLedgerError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTO(*task))
}

func respondTaskError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrTaskNotFound):
		apierrors.NotFound(c, "Task not found")
	case errors.Is(err, services.ErrTitleRequired),
		errors.Is(err, services.ErrTitleTooLong),
		errors.Is(err, services.ErrDescriptionTooLong),
		errors.Is(err, services.ErrInvalidDuration):
		apierrors.BadRequest(c, err.Error())
	default:
		apierrors.InternalError(c, "")
	}
}

func respondLedgerError(c *gin.Context, err error) {
	var insufficient *services.InsufficientCreditsError

	switch {
	case errors.Is(err, services.ErrTaskNotFound):
		apierrors.NotFound(c, "Task not found")
	case errors.Is(err, services.ErrCreditsNotFound):
		apierrors.NotFound(c, "Credit record not found")
	case errors.As(err, &insufficient):
		apierrors.InsufficientCredits(c, err.Error(), insufficient.Required, insufficient.Available)
	case errors.Is(err, services.ErrTaskNotAvailable),
		errors.Is(err, services.ErrTaskNotTaken),
		errors.Is(err, services.ErrNotTaskTaker):
		apierrors.Conflict(c, err.Error())
	case errors.Is(err, services.ErrInvalidTakeRequest):
		apierrors.BadRequest(c, err.Error())
	default:
		apierrors.InternalError(c, "")
	}
}
