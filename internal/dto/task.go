package dto

import (
	"time"

	"github.com/ymezzour/plant-task-api/internal/models"
)

// CommentDTO represents a comment in API responses
type CommentDTO struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	UserID    string    `json:"userId"`
	Text      string    `json:"text"`
}

// HistoryItemDTO represents an audit trail entry in API responses
type HistoryItemDTO struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	UserID    string    `json:"userId"`
	Action    string    `json:"action"`
}

// TaskDTO represents a task in API responses. Status carries the effective
// (overdue-derived) value, never the raw stored one.
type TaskDTO struct {
	ID             string            `json:"id"`
	Title          string            `json:"title"`
	Description    string            `json:"description"`
	Priority       models.Priority   `json:"priority"`
	Status         models.Status     `json:"status"`
	Category       models.Category   `json:"category"`
	DueDate        time.Time         `json:"dueDate"`
	Department     models.Department `json:"department"`
	CreatedBy      string            `json:"createdBy"`
	AssignedTo     []string          `json:"assignedTo"`
	BeforeImageURL *string           `json:"beforeImageUrl"`
	AfterImageURL  *string           `json:"afterImageUrl"`
	CompletedAt    *time.Time        `json:"completedAt"`
	CreatedAt      time.Time         `json:"createdAt"`
	Comments       []CommentDTO      `json:"comments"`
	History        []HistoryItemDTO  `json:"history"`
}

// TaskListItemDTO represents a task in list responses. The per-task logs are
// only populated on the detail endpoint.
type TaskListItemDTO struct {
	ID             string            `json:"id"`
	Title          string            `json:"title"`
	Description    string            `json:"description"`
	Priority       models.Priority   `json:"priority"`
	Status         models.Status     `json:"status"`
	Category       models.Category   `json:"category"`
	DueDate        time.Time         `json:"dueDate"`
	Department     models.Department `json:"department"`
	CreatedBy      string            `json:"createdBy"`
	AssignedTo     []string          `json:"assignedTo"`
	BeforeImageURL *string           `json:"beforeImageUrl"`
	AfterImageURL  *string           `json:"afterImageUrl"`
	CompletedAt    *time.Time        `json:"completedAt"`
	CreatedAt      time.Time         `json:"createdAt"`
}

// Conversion functions. Every conversion takes now so the overdue derivation
// is applied uniformly on each read path; the stored status never reaches a
// response unfiltered.

// ToTaskDTO converts a Task model with its logs to TaskDTO
func ToTaskDTO(task models.Task, now time.Time) TaskDTO {
	comments := make([]CommentDTO, len(task.Comments))
	for i, c := range task.Comments {
		comments[i] = CommentDTO{
			ID:        c.ID,
			Timestamp: c.Timestamp,
			UserID:    c.UserID,
			Text:      c.Text,
		}
	}

	history := make([]HistoryItemDTO, len(task.History))
	for i, h := range task.History {
		history[i] = HistoryItemDTO{
			ID:        h.ID,
			Timestamp: h.Timestamp,
			UserID:    h.UserID,
			Action:    h.Action,
		}
	}

	return TaskDTO{
		ID:             task.ID,
		Title:          task.Title,
		Description:    task.Description,
		Priority:       task.Priority,
		Status:         task.EffectiveStatus(now),
		Category:       task.Category,
		DueDate:        task.DueDate,
		Department:     task.Department,
		CreatedBy:      task.CreatedBy,
		AssignedTo:     task.AssigneeIDs(),
		BeforeImageURL: task.BeforeImageURL,
		AfterImageURL:  task.AfterImageURL,
		CompletedAt:    task.CompletedAt,
		CreatedAt:      task.CreatedAt,
		Comments:       comments,
		History:        history,
	}
}

// ToTaskListItemDTO converts a Task model to TaskListItemDTO
func ToTaskListItemDTO(task models.Task, now time.Time) TaskListItemDTO {
	return TaskListItemDTO{
		ID:             task.ID,
		Title:          task.Title,
		Description:    task.Description,
		Priority:       task.Priority,
		Status:         task.EffectiveStatus(now),
		Category:       task.Category,
		DueDate:        task.DueDate,
		Department:     task.Department,
		CreatedBy:      task.CreatedBy,
		AssignedTo:     task.AssigneeIDs(),
		BeforeImageURL: task.BeforeImageURL,
		AfterImageURL:  task.AfterImageURL,
		CompletedAt:    task.CompletedAt,
		CreatedAt:      task.CreatedAt,
	}
}

// ToTaskListItemDTOs converts a slice of tasks, deriving every status against
// the same instant
func ToTaskListItemDTOs(tasks []models.Task, now time.Time) []TaskListItemDTO {
	items := make([]TaskListItemDTO, len(tasks))
	for i, task := range tasks {
		items[i] = ToTaskListItemDTO(task, now)
	}
	return items
}
