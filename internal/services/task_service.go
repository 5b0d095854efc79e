package services

import (
	"fmt"
	"sync"
	"time"

	"github.com/yukikurage/taskbot/internal/models"
	"github.com/yukikurage/taskbot/internal/repository"
)

// TaskService handles task business logic
type TaskService struct {
	taskRepo repository.TaskRepository
	now      func() time.Time

	// guards load-modify-save; interactions arrive on separate goroutines
	mu sync.Mutex
}

// NewTaskService creates a new TaskService
func NewTaskService(taskRepo repository.TaskRepository) *TaskService {
	return &TaskService{
		taskRepo: taskRepo,
		now:      time.Now,
	}
}

// SetClock overrides the creation timestamp source (used for testing)
func (s *TaskService) SetClock(now func() time.Time) {
	s.now = now
}

// List returns every task in insertion order. It holds the mutation lock
// because the first load of a missing store creates the file.
func (s *TaskService) List() ([]models.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tasks, err := s.taskRepo.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	return tasks, nil
}

// Create appends a new todo task. The title is stored as given, even when empty.
func (s *TaskService) Create(title, createdBy string) (*models.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tasks, err := s.taskRepo.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load tasks: %w", err)
	}

	task := models.Task{
		ID:        nextID(tasks),
		Title:     title,
		Status:    models.TaskStatusTodo,
		CreatedBy: createdBy,
		CreatedAt: s.now().UTC(),
	}
	tasks = append(tasks, task)

	if err := s.taskRepo.Save(tasks); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	return &task, nil
}

// Complete marks the task done. found is false when no task has that id,
// in which case nothing is written. Completing a done task succeeds without a write.
func (s *TaskService) Complete(id int) (task *models.Task, found bool, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tasks, err := s.taskRepo.Load()
	if err != nil {
		return nil, false, fmt.Errorf("failed to load tasks: %w", err)
	}

	idx := -1
	for i := range tasks {
		if tasks[i].ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, false, nil
	}

	if tasks[idx].IsDone() {
		done := tasks[idx]
		return &done, true, nil
	}

	tasks[idx].Status = models.TaskStatusDone
	if err := s.taskRepo.Save(tasks); err != nil {
		return nil, false, fmt.Errorf("failed to complete task: %w", err)
	}

	done := tasks[idx]
	return &done, true, nil
}

func nextID(tasks []models.Task) int {
	maxID := 0
	for _, t := range tasks {
		if t.ID > maxID {
			maxID = t.ID
		}
	}
	return maxID + 1
}
