package services

import (
	"time"

	"github.com/ymezzour/plant-task-api/internal/models"
)

// DashboardStats is the read-only aggregation behind the dashboard. It is
// computed from the task list on every call and never cached, so it always
// agrees with what the list endpoint reports.
type DashboardStats struct {
	TotalTasks     int                       `json:"totalTasks"`
	CompletedTasks int                       `json:"completedTasks"`
	DelayedTasks   int                       `json:"delayedTasks"`
	CompletionRate int                       `json:"completionRate"`
	ByStatus       map[models.Status]int     `json:"byStatus"`
	ByDepartment   map[models.Department]int `json:"byDepartment"`
	ByPriority     map[models.Priority]int   `json:"byPriority"`
}

// DashboardStats aggregates the tasks matching the filters. Counts use the
// effective status, so a task past its due date lands in the StatusDelayed
// bucket exactly as the list endpoint would report it.
func (s *TaskService) DashboardStats(input ListTasksInput) (*DashboardStats, error) {
	tasks, err := s.ListTasks(input)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	stats := &DashboardStats{
		ByStatus:     make(map[models.Status]int),
		ByDepartment: make(map[models.Department]int),
		ByPriority:   make(map[models.Priority]int),
	}

	for _, task := range tasks {
		status := task.EffectiveStatus(now)

		stats.TotalTasks++
		stats.ByStatus[status]++
		stats.ByDepartment[task.Department]++
		stats.ByPriority[task.Priority]++

		switch status {
		case models.StatusDone:
			stats.CompletedTasks++
		case models.StatusDelayed:
			stats.DelayedTasks++
		}
	}

	if stats.TotalTasks > 0 {
		stats.CompletionRate = stats.CompletedTasks * 100 / stats.TotalTasks
	}

	return stats, nil
}
