package repository

import (
	"github.com/ymezzour/plant-task-api/internal/models"
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

// Create inserts the task, its assignments and the initial history entry in
// one transaction.
func (r *GormTaskRepository) Create(task *models.Task, assigneeIDs []string, initial *models.HistoryItem) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(task).Error; err != nil {
			return err
		}

		assignments := make([]models.TaskAssignment, len(assigneeIDs))
		for i, userID := range assigneeIDs {
			assignments[i] = models.TaskAssignment{
				TaskID: task.ID,
				UserID: userID,
			}
		}
		if err := tx.Create(&assignments).Error; err != nil {
			return err
		}

		return tx.Create(initial).Error
	})
}

// FindByID finds a task with its assignments loaded
func (r *GormTaskRepository) FindByID(id string) (*models.Task, error) {
	var task models.Task
	if err := r.db.Preload("Assignments").
		First(&task, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &task, nil
}

// FindWithDetails finds a task with assignments, comments and history loaded.
// Comments and history come back oldest first, the order they were appended.
func (r *GormTaskRepository) FindWithDetails(id string) (*models.Task, error) {
	var task models.Task
	err := r.db.
		Preload("Assignments").
		Preload("Comments", func(db *gorm.DB) *gorm.DB {
			return db.Order("comments.timestamp ASC")
		}).
		Preload("History", func(db *gorm.DB) *gorm.DB {
			return db.Order("task_history.timestamp ASC")
		}).
		First(&task, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &task, nil
}

// List retrieves tasks with assignments loaded, newest created first
func (r *GormTaskRepository) List(filter TaskFilter) ([]models.Task, error) {
	var tasks []models.Task

	query := r.db.Model(&models.Task{})

	if filter.Department != nil {
		query = query.Where("tasks.department = ?", *filter.Department)
	}
	if filter.Category != nil {
		query = query.Where("tasks.category = ?", *filter.Category)
	}
	if filter.Priority != nil {
		query = query.Where("tasks.priority = ?", *filter.Priority)
	}
	if filter.AssignedUserID != nil {
		assignmentSubQuery := r.db.Model(&models.TaskAssignment{}).
			Select("1").
			Where("task_assignments.task_id = tasks.id").
			Where("task_assignments.user_id = ?", *filter.AssignedUserID)
		query = query.Where("EXISTS (?)", assignmentSubQuery)
	}

	if err := query.
		Order("tasks.created_at DESC").
		Preload("Assignments").
		Find(&tasks).Error; err != nil {
		return nil, err
	}

	return tasks, nil
}

// Update saves the task, optionally replaces its assignment set, and appends
// the history entry, all in one transaction. A nil assigneeIDs keeps the
// current set; replacement is delete-and-reinsert.
func (r *GormTaskRepository) Update(task *models.Task, assigneeIDs []string, entry *models.HistoryItem) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(task).Error; err != nil {
			return err
		}

		if assigneeIDs != nil {
			if err := tx.Where("task_id = ?", task.ID).
				Delete(&models.TaskAssignment{}).Error; err != nil {
				return err
			}

			assignments := make([]models.TaskAssignment, len(assigneeIDs))
			for i, userID := range assigneeIDs {
				assignments[i] = models.TaskAssignment{
					TaskID: task.ID,
					UserID: userID,
				}
			}
			if err := tx.Create(&assignments).Error; err != nil {
				return err
			}
		}

		return tx.Create(entry).Error
	})
}

// AddComment appends the comment and its history entry in one transaction
func (r *GormTaskRepository) AddComment(comment *models.Comment, entry *models.HistoryItem) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(comment).Error; err != nil {
			return err
		}
		return tx.Create(entry).Error
	})
}

// AppendHistory appends a single history entry
func (r *GormTaskRepository) AppendHistory(entry *models.HistoryItem) error {
	return r.db.Create(entry).Error
}
