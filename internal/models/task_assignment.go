package models

import "time"

type TaskAssignment struct {
	TaskID    string    `gorm:"primarykey;type:varchar(64)" json:"task_id"`
	UserID    string    `gorm:"primarykey;type:varchar(64)" json:"user_id"`
	CreatedAt time.Time `json:"created_at"`

	// Relations
	Task Task `gorm:"foreignKey:TaskID" json:"-"`
	User User `gorm:"foreignKey:UserID" json:"-"`
}
