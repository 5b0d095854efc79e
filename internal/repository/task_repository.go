package repository

import (
	"github.com/yukikurage/taskbot/internal/models"
)

// FileTaskRepository stores tasks as a pretty-printed JSON array in a single file
type FileTaskRepository struct {
	path string
}

// NewTaskRepository creates a new TaskRepository backed by path
func NewTaskRepository(path string) TaskRepository {
	return &FileTaskRepository{path: path}
}

// Load reads all tasks. A missing file is created as an empty array.
func (r *FileTaskRepository) Load() ([]models.Task, error) {
	var tasks []models.Task
	if err := readJSONFile(r.path, []byte("[]"), &tasks); err != nil {
		return nil, err
	}
	if tasks == nil {
		tasks = []models.Task{}
	}
	return tasks, nil
}

// Save overwrites the file with tasks
func (r *FileTaskRepository) Save(tasks []models.Task) error {
	if tasks == nil {
		tasks = []models.Task{}
	}
	return writeJSONFile(r.path, tasks)
}
