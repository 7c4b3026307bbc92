package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ymezzour/plant-task-api/internal/constants"
	"github.com/ymezzour/plant-task-api/internal/models"
	"github.com/ymezzour/plant-task-api/internal/repository"
	"github.com/ymezzour/plant-task-api/internal/utils"
	"gorm.io/gorm"
)

var (
	ErrTaskNotFound        = errors.New("task not found")
	ErrTitleRequired       = errors.New("title is required")
	ErrDueDateRequired     = errors.New("a valid due date is required")
	ErrNoAssignees         = errors.New("at least one assignee is required")
	ErrUnknownAssignee     = errors.New("one or more assigned users do not exist")
	ErrUnknownActor        = errors.New("acting user does not exist")
	ErrInvalidPriority     = errors.New("invalid priority")
	ErrInvalidStatus       = errors.New("invalid status")
	ErrStatusNotStorable   = errors.New("status cannot be stored; it is derived from the due date")
	ErrInvalidCategory     = errors.New("invalid category")
	ErrInvalidDepartment   = errors.New("invalid department")
	ErrCommentTextRequired = errors.New("comment text is required")
)

// TaskService handles task business logic: validation, the audit trail, and
// the overdue derivation rule.
type TaskService struct {
	taskRepo repository.TaskRepository
	userRepo repository.UserRepository
}

// NewTaskService creates a new TaskService
func NewTaskService(taskRepo repository.TaskRepository, userRepo repository.UserRepository) *TaskService {
	return &TaskService{
		taskRepo: taskRepo,
		userRepo: userRepo,
	}
}

// CreateTaskInput represents input for creating a task
type CreateTaskInput struct {
	Title          string
	Description    string
	Priority       models.Priority
	Category       models.Category
	DueDate        time.Time
	Department     models.Department
	CreatedBy      string
	AssignedTo     []string
	BeforeImageURL *string
}

// UpdateTaskInput represents a partial update. Nil fields stay untouched.
// AssignedTo, when present, replaces the assignment set wholesale.
type UpdateTaskInput struct {
	Title          *string
	Description    *string
	Priority       *models.Priority
	Status         *models.Status
	Category       *models.Category
	DueDate        *time.Time
	Department     *models.Department
	AssignedTo     *[]string
	BeforeImageURL *string
	AfterImageURL  *string
	CompletedAt    *time.Time
	ActingUserID   string
}

// ListTasksInput represents filters for listing tasks
type ListTasksInput struct {
	Department *models.Department
	Category   *models.Category
	Priority   *models.Priority
	Status     *models.Status
	AssignedTo *string
}

// CreateTask validates the input and creates a task together with its
// assignment rows and the initial audit entry. New tasks always start in
// StatusTodo with exactly one history entry and no comments.
func (s *TaskService) CreateTask(input CreateTaskInput) (*models.Task, error) {
	if strings.TrimSpace(input.Title) == "" {
		return nil, ErrTitleRequired
	}
	if input.DueDate.IsZero() {
		return nil, ErrDueDateRequired
	}
	if !input.Priority.Valid() {
		return nil, ErrInvalidPriority
	}
	if !input.Category.Valid() {
		return nil, ErrInvalidCategory
	}
	if !input.Department.Valid() {
		return nil, ErrInvalidDepartment
	}

	if err := s.ensureUserExists(input.CreatedBy); err != nil {
		return nil, err
	}

	assigneeIDs, err := s.validateAssignees(input.AssignedTo)
	if err != nil {
		return nil, err
	}

	task := &models.Task{
		ID:             utils.NewID(utils.PrefixTask),
		Title:          input.Title,
		Description:    input.Description,
		Priority:       input.Priority,
		Status:         models.StatusTodo,
		Category:       input.Category,
		DueDate:        input.DueDate,
		Department:     input.Department,
		CreatedBy:      input.CreatedBy,
		BeforeImageURL: input.BeforeImageURL,
	}

	initial := s.newHistoryItem(task.ID, input.CreatedBy, constants.HistoryActionCreated)

	if err := s.taskRepo.Create(task, assigneeIDs, initial); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	return s.taskRepo.FindWithDetails(task.ID)
}

// GetTask returns a task with assignments, comments and history loaded
func (s *TaskService) GetTask(taskID string) (*models.Task, error) {
	task, err := s.taskRepo.FindWithDetails(taskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}
	return task, nil
}

// ListTasks returns tasks matching the filters, newest created first. The
// status filter matches against the effective (overdue-derived) status, so
// filtering on StatusDelayed finds overdue tasks even though that value is
// never stored.
func (s *TaskService) ListTasks(input ListTasksInput) ([]models.Task, error) {
	if input.Department != nil && !input.Department.Valid() {
		return nil, ErrInvalidDepartment
	}
	if input.Category != nil && !input.Category.Valid() {
		return nil, ErrInvalidCategory
	}
	if input.Priority != nil && !input.Priority.Valid() {
		return nil, ErrInvalidPriority
	}
	if input.Status != nil && !input.Status.Valid() {
		return nil, ErrInvalidStatus
	}

	filter := repository.TaskFilter{
		Department:     input.Department,
		Category:       input.Category,
		Priority:       input.Priority,
		AssignedUserID: input.AssignedTo,
	}

	tasks, err := s.taskRepo.List(filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}

	if input.Status == nil {
		return tasks, nil
	}

	now := time.Now()
	filtered := make([]models.Task, 0, len(tasks))
	for _, task := range tasks {
		if task.EffectiveStatus(now) == *input.Status {
			filtered = append(filtered, task)
		}
	}
	return filtered, nil
}

// UpdateTask applies a partial update, appends one audit entry attributed to
// the acting user, and optionally replaces the assignment set. The id,
// creation timestamp and creator are immutable and cannot be touched here.
func (s *TaskService) UpdateTask(taskID string, input UpdateTaskInput) (*models.Task, error) {
	if err := s.ensureUserExists(input.ActingUserID); err != nil {
		return nil, err
	}

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
		task.Title = *input.Title
	}
	if input.Description != nil {
		task.Description = *input.Description
	}
	if input.Priority != nil {
		if !input.Priority.Valid() {
			return nil, ErrInvalidPriority
		}
		task.Priority = *input.Priority
	}
	if input.Category != nil {
		if !input.Category.Valid() {
			return nil, ErrInvalidCategory
		}
		task.Category = *input.Category
	}
	if input.Department != nil {
		if !input.Department.Valid() {
			return nil, ErrInvalidDepartment
		}
		task.Department = *input.Department
	}
	if input.DueDate != nil {
		if input.DueDate.IsZero() {
			return nil, ErrDueDateRequired
		}
		task.DueDate = *input.DueDate
	}
	if input.BeforeImageURL != nil {
		task.BeforeImageURL = normalizeImageURL(input.BeforeImageURL)
	}
	if input.AfterImageURL != nil {
		task.AfterImageURL = normalizeImageURL(input.AfterImageURL)
	}

	if input.Status != nil {
		if !input.Status.Storable() {
			if *input.Status == models.StatusDelayed {
				return nil, ErrStatusNotStorable
			}
			return nil, ErrInvalidStatus
		}

		switch {
		case *input.Status == models.StatusDone:
			if input.CompletedAt != nil {
				task.CompletedAt = input.CompletedAt
			} else if task.Status != models.StatusDone {
				now := time.Now()
				task.CompletedAt = &now
			}
		default:
			task.CompletedAt = nil
		}
		task.Status = *input.Status
	} else if input.CompletedAt != nil && task.Status == models.StatusDone {
		task.CompletedAt = input.CompletedAt
	}

	var assigneeIDs []string
	if input.AssignedTo != nil {
		assigneeIDs, err = s.validateAssignees(*input.AssignedTo)
		if err != nil {
			return nil, err
		}
	}

	entry := s.newHistoryItem(task.ID, input.ActingUserID, constants.HistoryActionUpdated)

	if err := s.taskRepo.Update(task, assigneeIDs, entry); err != nil {
		return nil, fmt.Errorf("failed to update task: %w", err)
	}

	return s.taskRepo.FindWithDetails(task.ID)
}

// AddComment appends a comment and its audit entry to a task and returns the
// updated task so the caller sees both new records in one consistent view.
func (s *TaskService) AddComment(taskID, userID, text string) (*models.Task, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrCommentTextRequired
	}

	if err := s.ensureUserExists(userID); err != nil {
		return nil, err
	}

	if _, err := s.taskRepo.FindByID(taskID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}

	comment := &models.Comment{
		ID:        utils.NewID(utils.PrefixComment),
		TaskID:    taskID,
		UserID:    userID,
		Text:      text,
		Timestamp: time.Now(),
	}
	entry := s.newHistoryItem(taskID, userID, constants.HistoryActionCommentAdded)

	if err := s.taskRepo.AddComment(comment, entry); err != nil {
		return nil, fmt.Errorf("failed to add comment: %w", err)
	}

	return s.taskRepo.FindWithDetails(taskID)
}

// validateAssignees deduplicates the ids, rejects an empty set, and checks
// every id against the users table.
func (s *TaskService) validateAssignees(ids []string) ([]string, error) {
	unique := uniqueStrings(ids)
	if len(unique) == 0 {
		return nil, ErrNoAssignees
	}

	count, err := s.userRepo.CountByIDs(unique)
	if err != nil {
		return nil, fmt.Errorf("failed to verify assignees: %w", err)
	}
	if int(count) != len(unique) {
		return nil, ErrUnknownAssignee
	}

	return unique, nil
}

func (s *TaskService) ensureUserExists(userID string) error {
	if userID == "" {
		return ErrUnknownActor
	}
	if _, err := s.userRepo.FindByID(userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUnknownActor
		}
		return fmt.Errorf("failed to verify user: %w", err)
	}
	return nil
}

func (s *TaskService) newHistoryItem(taskID, userID, action string) *models.HistoryItem {
	return &models.HistoryItem{
		ID:        utils.NewID(utils.PrefixHistory),
		TaskID:    taskID,
		UserID:    userID,
		Action:    action,
		Timestamp: time.Now(),
	}
}

// normalizeImageURL maps an explicit empty string to nil so callers can clear
// a previously attached photo.
func normalizeImageURL(url *string) *string {
	if url == nil || *url == "" {
		return nil
	}
	return url
}

// uniqueStrings removes duplicate values, preserving first-seen order
func uniqueStrings(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	result := make([]string, 0, len(values))

	for _, v := range values {
		if _, exists := seen[v]; exists {
			continue
		}
		seen[v] = struct{}{}
		result = append(result, v)
	}

	return result
}
