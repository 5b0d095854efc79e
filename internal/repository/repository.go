package repository

import (
	"github.com/yukikurage/taskbot/internal/models"
)

// TaskRepository defines the interface for task data access.
// Every call reads or replaces the whole list; there is no partial update.
type TaskRepository interface {
	// Load returns all tasks in insertion order
	Load() ([]models.Task, error)

	// Save replaces the stored list with tasks
	Save(tasks []models.Task) error
}

// DashboardRepository defines the interface for the dashboard pointer
type DashboardRepository interface {
	// Load returns the stored pointer, zero value if none was saved yet
	Load() (models.DashboardPointer, error)

	// Save replaces the stored pointer
	Save(pointer models.DashboardPointer) error
}
