package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/ymezzour/plant-task-api/internal/dto"
	apierrors "github.com/ymezzour/plant-task-api/internal/errors"
	"github.com/ymezzour/plant-task-api/internal/models"
	"github.com/ymezzour/plant-task-api/internal/services"
	"go.uber.org/zap"
)

// TaskHandler coordinates task HTTP handlers.
type TaskHandler struct {
	taskService *services.TaskService
	logger      *zap.Logger
}

// NewTaskHandler creates a new TaskHandler.
func NewTaskHandler(taskService *services.TaskService, logger *zap.Logger) *TaskHandler {
	return &TaskHandler{
		taskService: taskService,
		logger:      logger,
	}
}

// ListTasks returns all tasks, newest created first, with the overdue
// derivation applied. Supports optional department, category, priority,
// status and assigned_to query filters.
func (h *TaskHandler) ListTasks(c *gin.Context) {
	var input services.ListTasksInput

	if v := c.Query("department"); v != "" {
		d := models.Department(v)
		input.Department = &d
	}
	if v := c.Query("category"); v != "" {
		cat := models.Category(v)
		input.Category = &cat
	}
	if v := c.Query("priority"); v != "" {
		p := models.Priority(v)
		input.Priority = &p
	}
	if v := c.Query("status"); v != "" {
		s := models.Status(v)
		input.Status = &s
	}
	if v := c.Query("assigned_to"); v != "" {
		input.AssignedTo = &v
	}

	tasks, err := h.taskService.ListTasks(input)
	if err != nil {
		h.respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskListItemDTOs(tasks, time.Now()))
}

// GetTask returns one task with assignees, comments and history populated.
func (h *TaskHandler) GetTask(c *gin.Context) {
	task, err := h.taskService.GetTask(c.Param("id"))
	if err != nil {
		h.respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTO(*task, time.Now()))
}

// GetStats returns the dashboard aggregation over the filtered task set.
func (h *TaskHandler) GetStats(c *gin.Context) {
	var input services.ListTasksInput

	if v := c.Query("department"); v != "" {
		d := models.Department(v)
		input.Department = &d
	}
	if v := c.Query("category"); v != "" {
		cat := models.Category(v)
		input.Category = &cat
	}
	if v := c.Query("priority"); v != "" {
		p := models.Priority(v)
		input.Priority = &p
	}

	stats, err := h.taskService.DashboardStats(input)
	if err != nil {
		h.respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, stats)
}

// CreateTask creates a new task. The server assigns the id and creation
// timestamp, forces the initial status, and writes the first audit entry.
func (h *TaskHandler) CreateTask(c *gin.Context) {
	type CreateTaskRequest struct {
		Title          string            `json:"title" binding:"required"`
		Description    string            `json:"description"`
		Priority       models.Priority   `json:"priority" binding:"required"`
		Category       models.Category   `json:"category" binding:"required"`
		DueDate        time.Time         `json:"dueDate" binding:"required"`
		Department     models.Department `json:"department" binding:"required"`
		CreatedBy      string            `json:"createdBy" binding:"required"`
		AssignedTo     []string          `json:"assignedTo" binding:"required"`
		BeforeImageURL *string           `json:"beforeImageUrl"`
	}

	var req CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	task, err := h.taskService.CreateTask(services.CreateTaskInput{
		Title:          req.Title,
		Description:    req.Description,
		Priority:       req.Priority,
		Category:       req.Category,
		DueDate:        req.DueDate,
		Department:     req.Department,
		CreatedBy:      req.CreatedBy,
		AssignedTo:     req.AssignedTo,
		BeforeImageURL: req.BeforeImageURL,
	})
	if err != nil {
		h.respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToTaskDTO(*task, time.Now()))
}

// UpdateTask applies a partial update. Absent fields are untouched; the id,
// creation timestamp and creator cannot be changed regardless of payload.
// Exactly one history entry is appended, attributed to userId.
func (h *TaskHandler) UpdateTask(c *gin.Context) {
	type UpdateTaskRequest struct {
		Title          *string            `json:"title"`
		Description    *string            `json:"description"`
		Priority       *models.Priority   `json:"priority"`
		Status         *models.Status     `json:"status"`
		Category       *models.Category   `json:"category"`
		DueDate        *time.Time         `json:"dueDate"`
		Department     *models.Department `json:"department"`
		AssignedTo     *[]string          `json:"assignedTo"`
		BeforeImageURL *string            `json:"beforeImageUrl"`
		AfterImageURL  *string            `json:"afterImageUrl"`
		CompletedAt    *time.Time         `json:"completedAt"`
		ActingUserID   string             `json:"userId" binding:"required"`
	}

	var req UpdateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	task, err := h.taskService.UpdateTask(c.Param("id"), services.UpdateTaskInput{
		Title:          req.Title,
		Description:    req.Description,
		Priority:       req.Priority,
		Status:         req.Status,
		Category:       req.Category,
		DueDate:        req.DueDate,
		Department:     req.Department,
		AssignedTo:     req.AssignedTo,
		BeforeImageURL: req.BeforeImageURL,
		AfterImageURL:  req.AfterImageURL,
		CompletedAt:    req.CompletedAt,
		ActingUserID:   req.ActingUserID,
	})
	if err != nil {
		h.respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTO(*task, time.Now()))
}

// AddComment appends a comment and its audit entry, returning the updated
// task.
func (h *TaskHandler) AddComment(c *gin.Context) {
	type AddCommentRequest struct {
		UserID string `json:"userId" binding:"required"`
		Text   string `json:"text" binding:"required"`
	}

	var req AddCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	task, err := h.taskService.AddComment(c.Param("id"), req.UserID, req.Text)
	if err != nil {
		h.respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToTaskDTO(*task, time.Now()))
}

func (h *TaskHandler) respondTaskError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrTaskNotFound):
		apierrors.NotFound(c, "Task not found")
	case errors.Is(err, services.ErrTitleRequired),
		errors.Is(err, services.ErrDueDateRequired),
		errors.Is(err, services.ErrNoAssignees),
		errors.Is(err, services.ErrUnknownAssignee),
		errors.Is(err, services.ErrUnknownActor),
		errors.Is(err, services.ErrInvalidPriority),
		errors.Is(err, services.ErrInvalidStatus),
		errors.Is(err, services.ErrStatusNotStorable),
		errors.Is(err, services.ErrInvalidCategory),
		errors.Is(err, services.ErrInvalidDepartment),
		errors.Is(err, services.ErrCommentTextRequired):
		apierrors.BadRequest(c, err.Error())
	default:
		h.logger.Error("task operation failed", zap.Error(err))
		apierrors.InternalError(c, "")
	}
}
