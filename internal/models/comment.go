package models

import "time"

// Comment is an immutable note attached to a task. Comments are append-only:
// there is no update or delete path.
type Comment struct {
	ID        string    `gorm:"primarykey;type:varchar(64)" json:"id"`
	TaskID    string    `gorm:"type:varchar(64);not null;index" json:"-"`
	UserID    string    `gorm:"type:varchar(64);not null" json:"userId"`
	Text      string    `gorm:"type:text;not null" json:"text"`
	Timestamp time.Time `gorm:"not null" json:"timestamp"`

	// Relations
	Task Task `gorm:"foreignKey:TaskID" json:"-"`
	User User `gorm:"foreignKey:UserID" json:"-"`
}
