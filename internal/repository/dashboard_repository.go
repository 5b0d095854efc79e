package repository

import (
	"github.com/yukikurage/taskbot/internal/models"
)

// FileDashboardRepository stores the dashboard pointer as a JSON object
type FileDashboardRepository struct {
	path string
}

// NewDashboardRepository creates a new DashboardRepository backed by path
func NewDashboardRepository(path string) DashboardRepository {
	return &FileDashboardRepository{path: path}
}

// Load reads the pointer. A missing file is created as an empty object.
func (r *FileDashboardRepository) Load() (models.DashboardPointer, error) {
	var pointer models.DashboardPointer
	if err := readJSONFile(r.path, []byte("{}"), &pointer); err != nil {
		return models.DashboardPointer{}, err
	}
	return pointer, nil
}

// Save overwrites the file with pointer
func (r *FileDashboardRepository) Save(pointer models.DashboardPointer) error {
	return writeJSONFile(r.path, pointer)
}
