package database

import (
	"fmt"

	"gorm.io/gorm"
)

// AddIndexes adds the indexes the list and detail queries lean on. Postgres
// only; pg_indexes has no MySQL equivalent and AutoMigrate already covers the
// unique constraints.
func AddIndexes(db *gorm.DB) error {
	indexes := []struct {
		table   string
		name    string
		columns string
	}{
		// Task list ordering and dashboard filters
		{"tasks", "idx_tasks_created_at", "created_at"},
		{"tasks", "idx_tasks_due_date", "due_date"},
		{"tasks", "idx_tasks_department", "department"},
		{"tasks", "idx_tasks_created_by", "created_by"},

		// Assignment lookups in both directions
		{"task_assignments", "idx_task_assignments_task_id", "task_id"},
		{"task_assignments", "idx_task_assignments_user_id", "user_id"},

		// Per-task log reads, ordered by timestamp
		{"comments", "idx_comments_task_id_timestamp", "task_id, timestamp"},
		{"task_history", "idx_task_history_task_id_timestamp", "task_id, timestamp"},
	}

	for _, idx := range indexes {
		var count int64
		err := db.Raw(`
			SELECT COUNT(*)
			FROM pg_indexes
			WHERE tablename = ? AND indexname = ?
		`, idx.table, idx.name).Count(&count).Error

		if err != nil {
			return fmt.Errorf("failed to check index %s: %w", idx.name, err)
		}

		if count > 0 {
			continue
		}

		sql := fmt.Sprintf("CREATE INDEX %s ON %s (%s)", idx.name, idx.table, idx.columns)
		if err := db.Exec(sql).Error; err != nil {
			return fmt.Errorf("failed to create index %s: %w", idx.name, err)
		}
	}

	return nil
}
