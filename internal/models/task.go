package models

import "time"

type Task struct {
	ID             string     `gorm:"primarykey;type:varchar(64)" json:"id"`
	Title          string     `gorm:"type:varchar(255);not null" json:"title"`
	Description    string     `gorm:"type:text" json:"description"`
	Priority       Priority   `gorm:"type:varchar(20);not null" json:"priority"`
	Status         Status     `gorm:"type:varchar(40);not null" json:"status"`
	Category       Category   `gorm:"type:varchar(50);not null" json:"category"`
	DueDate        time.Time  `gorm:"not null" json:"dueDate"`
	Department     Department `gorm:"type:varchar(100);not null" json:"department"`
	CreatedBy      string     `gorm:"type:varchar(64);not null" json:"createdBy"`
	BeforeImageURL *string    `gorm:"type:text" json:"beforeImageUrl"`
	AfterImageURL  *string    `gorm:"type:text" json:"afterImageUrl"`
	CompletedAt    *time.Time `json:"completedAt"`
	CreatedAt      time.Time  `json:"createdAt"`
	UpdatedAt      time.Time  `json:"-"`

	// Relations
	Creator     User             `gorm:"foreignKey:CreatedBy" json:"-"`
	Assignments []TaskAssignment `gorm:"foreignKey:TaskID" json:"-"`
	Comments    []Comment        `gorm:"foreignKey:TaskID" json:"-"`
	History     []HistoryItem    `gorm:"foreignKey:TaskID" json:"-"`
}

// EffectiveStatus derives the status visible to callers. A task past its due
// date reads as StatusDelayed unless it is done. The stored status is never
// rewritten; the rule is re-evaluated on every read.
func (t *Task) EffectiveStatus(now time.Time) Status {
	if t.Status == StatusDone {
		return StatusDone
	}
	if now.After(t.DueDate) {
		return StatusDelayed
	}
	return t.Status
}

// AssigneeIDs returns the user ids from the loaded assignments.
func (t *Task) AssigneeIDs() []string {
	ids := make([]string, len(t.Assignments))
	for i, a := range t.Assignments {
		ids[i] = a.UserID
	}
	return ids
}
