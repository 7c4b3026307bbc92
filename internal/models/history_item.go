package models

import "time"

// HistoryItem is one entry of a task's audit trail. Every mutation of a task
// appends exactly one entry; entries are never edited or removed.
type HistoryItem struct {
	ID        string    `gorm:"primarykey;type:varchar(64)" json:"id"`
	TaskID    string    `gorm:"column:task_id;type:varchar(64);not null;index" json:"-"`
	UserID    string    `gorm:"type:varchar(64);not null" json:"userId"`
	Action    string    `gorm:"type:varchar(255);not null" json:"action"`
	Timestamp time.Time `gorm:"not null" json:"timestamp"`

	// Relations
	Task Task `gorm:"foreignKey:TaskID" json:"-"`
	User User `gorm:"foreignKey:UserID" json:"-"`
}

// TableName keeps the audit log in the task_history table.
func (HistoryItem) TableName() string {
	return "task_history"
}
