package repository

import (
	"github.com/ymezzour/plant-task-api/internal/models"
)

// TaskRepository defines the interface for task data access.
//
// Every mutating method that touches more than one table runs in a single
// database transaction, so a task change can never land without its audit
// entry (and vice versa).
type TaskRepository interface {
	// Create inserts a task, its assignment rows, and the initial history
	// entry atomically.
	Create(task *models.Task, assigneeIDs []string, initial *models.HistoryItem) error

	// FindByID finds a task with its assignments loaded.
	FindByID(id string) (*models.Task, error)

	// FindWithDetails finds a task with assignments, comments (oldest first)
	// and history loaded.
	FindWithDetails(id string) (*models.Task, error)

	// List retrieves tasks with assignments loaded, newest created first.
	List(filter TaskFilter) ([]models.Task, error)

	// Update saves the task's fields, optionally replaces the assignment set
	// wholesale (nil keeps the current set), and appends a history entry,
	// all atomically.
	Update(task *models.Task, assigneeIDs []string, entry *models.HistoryItem) error

	// AddComment appends a comment and its history entry atomically.
	AddComment(comment *models.Comment, entry *models.HistoryItem) error

	// AppendHistory appends a single history entry.
	AppendHistory(entry *models.HistoryItem) error
}

// TaskFilter holds filtering options for listing tasks. Status is absent on
// purpose: effective status is derived from the due date at read time, so
// status filtering happens after the rows are loaded.
type TaskFilter struct {
	Department     *models.Department
	Category       *models.Category
	Priority       *models.Priority
	AssignedUserID *string
}

// UserRepository defines the interface for user data access. Users are
// created by the seed process and read-only afterwards.
type UserRepository interface {
	// Create inserts a user.
	Create(user *models.User) error

	// FindByID finds a user by ID.
	FindByID(id string) (*models.User, error)

	// FindByEmail finds a user by email, the login key.
	FindByEmail(email string) (*models.User, error)

	// List returns all users.
	List() ([]models.User, error)

	// CountByIDs counts how many of the given user IDs exist.
	CountByIDs(ids []string) (int64, error)
}
