package store

import (
	"context"
	"sync"

	"todos/internal/models"
	"todos/internal/todo"
)

// MemoryStore implements the Store interface on top of todo.Store.
// A single lock guards the whole list.
type MemoryStore struct {
	mu    sync.RWMutex
	tasks *todo.Store
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore(opts ...todo.Option) *MemoryStore {
	return &MemoryStore{tasks: todo.New(opts...)}
}

// CreateTask appends a new task.
func (s *MemoryStore) CreateTask(_ context.Context, title string, description *string, priority models.Priority) (models.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.tasks.Create(title, description, priority), nil
}

// GetTask retrieves a task by ID.
func (s *MemoryStore) GetTask(_ context.Context, id int64) (models.Task, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	task, ok := s.tasks.Get(id)
	return task, ok, nil
}

// ListTasks returns the tasks matching filter in creation order.
func (s *MemoryStore) ListTasks(_ context.Context, filter models.TaskFilter) ([]models.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	switch {
	case filter.Priority != "" && filter.Status == models.StatusAll:
		return s.tasks.ByPriority(filter.Priority), nil
	case filter.Priority != "":
		return s.tasks.Find(filter), nil
	case filter.Status == models.StatusCompleted:
		return s.tasks.Completed(), nil
	case filter.Status == models.StatusIncomplete:
		return s.tasks.Incomplete(), nil
	default:
		return s.tasks.All(), nil
	}
}

// UpdateTask applies a partial update.
func (s *MemoryStore) UpdateTask(_ context.Context, id int64, u models.TaskUpdate) (models.Task, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	task, ok := s.tasks.Update(id, u)
	return task, ok, nil
}

// CompleteTask marks a task as completed.
func (s *MemoryStore) CompleteTask(_ context.Context, id int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.tasks.Complete(id), nil
}

// DeleteTask deletes a task by ID.
func (s *MemoryStore) DeleteTask(_ context.Context, id int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.tasks.Delete(id), nil
}

// CompleteAll marks every task as completed.
func (s *MemoryStore) CompleteAll(_ context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.tasks.CompleteAll(), nil
}

// ClearCompleted removes all completed tasks.
func (s *MemoryStore) ClearCompleted(_ context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.tasks.ClearCompleted(), nil
}

// Close is a no-op; the tasks live only as long as the process.
func (s *MemoryStore) Close() error {
	return nil
}
