package models

import "time"

type User struct {
	ID           string     `gorm:"primarykey;type:varchar(64)" json:"id"`
	FirstName    string     `gorm:"type:varchar(100);not null" json:"firstName"`
	LastName     string     `gorm:"type:varchar(100);not null" json:"lastName"`
	Email        string     `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	Role         Role       `gorm:"type:varchar(50);not null" json:"role"`
	Department   Department `gorm:"type:varchar(100);not null" json:"department"`
	AvatarURL    string     `gorm:"type:text" json:"avatarUrl,omitempty"`
	Phone        string     `gorm:"type:varchar(50)" json:"phone,omitempty"`
	PasswordHash string     `gorm:"type:varchar(255);not null" json:"-"`
	CreatedAt    time.Time  `json:"-"`
	UpdatedAt    time.Time  `json:"-"`

	// Relations
	CreatedTasks []Task           `gorm:"foreignKey:CreatedBy" json:"-"`
	Assignments  []TaskAssignment `gorm:"foreignKey:UserID" json:"-"`
}
