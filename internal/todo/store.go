// Package todo holds the in-memory task store: an ordered collection of tasks
// with sequential id assignment and CRUD/query operations.
//
// A Store is not safe for concurrent use. Hosts that share one across
// goroutines must guard the whole instance with a lock.
package todo

import (
	"time"

	"todos/internal/models"
)

// Store owns a collection of tasks in creation order.
type Store struct {
	tasks  []models.Task
	nextID int64
	now    func() time.Time
}

// Option configures a Store.
type Option func(*Store)

// WithClock sets the function used to stamp CreatedAt.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

// New creates an empty store whose first task gets id 1.
func New(opts ...Option) *Store {
	s := &Store{
		nextID: 1,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create appends a new task and returns a snapshot of it. An empty or
// unknown priority means medium. The title is stored as given.
func (s *Store) Create(title string, description *string, priority models.Priority) models.Task {
	id := s.nextID
	s.nextID++

	task := models.Task{
		ID:          id,
		Title:       title,
		Description: description,
		Completed:   false,
		CreatedAt:   s.now(),
		Priority:    priority.Normalize(),
	}
	task = task.Clone()

	s.tasks = append(s.tasks, task)
	return task.Clone()
}

// All returns every task in creation order.
func (s *Store) All() []models.Task {
	return s.filter(func(models.Task) bool { return true })
}

// Get returns the task with the given id.
func (s *Store) Get(id int64) (models.Task, bool) {
	i := s.index(id)
	if i < 0 {
		return models.Task{}, false
	}
	return s.tasks[i].Clone(), true
}

// Complete marks the task as completed. It reports whether the task exists.
func (s *Store) Complete(id int64) bool {
	i := s.index(id)
	if i < 0 {
		return false
	}
	s.tasks[i].Completed = true
	return true
}

// Delete removes the task permanently. It reports whether the task existed.
func (s *Store) Delete(id int64) bool {
	i := s.index(id)
	if i < 0 {
		return false
	}
	s.tasks = append(s.tasks[:i], s.tasks[i+1:]...)
	return true
}

// Incomplete returns the tasks not yet completed.
func (s *Store) Incomplete() []models.Task {
	return s.filter(func(t models.Task) bool { return !t.Completed })
}

// Completed returns the completed tasks.
func (s *Store) Completed() []models.Task {
	return s.filter(func(t models.Task) bool { return t.Completed })
}

// CompleteAll marks every task completed and returns how many changed state.
func (s *Store) CompleteAll() int {
	changed := 0
	for i := range s.tasks {
		if !s.tasks[i].Completed {
			s.tasks[i].Completed = true
			changed++
		}
	}
	return changed
}

// ByPriority returns the tasks with the given priority.
func (s *Store) ByPriority(p models.Priority) []models.Task {
	return s.filter(func(t models.Task) bool { return t.Priority == p })
}

// Find returns the tasks matching f.
func (s *Store) Find(f models.TaskFilter) []models.Task {
	return s.filter(f.Match)
}

// Update applies a partial update and returns the resulting task.
func (s *Store) Update(id int64, u models.TaskUpdate) (models.Task, bool) {
	i := s.index(id)
	if i < 0 {
		return models.Task{}, false
	}
	u.Apply(&s.tasks[i])
	return s.tasks[i].Clone(), true
}

// ClearCompleted removes every completed task and returns the number removed.
func (s *Store) ClearCompleted() int {
	kept := s.tasks[:0]
	for _, t := range s.tasks {
		if !t.Completed {
			kept = append(kept, t)
		}
	}
	removed := len(s.tasks) - len(kept)
	clear(s.tasks[len(kept):])
	s.tasks = kept
	return removed
}

// Len returns the number of tasks currently held.
func (s *Store) Len() int {
	return len(s.tasks)
}

func (s *Store) index(id int64) int {
	for i := range s.tasks {
		if s.tasks[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) filter(keep func(models.Task) bool) []models.Task {
	out := make([]models.Task, 0, len(s.tasks))
	for _, t := range s.tasks {
		if keep(t) {
			out = append(out, t.Clone())
		}
	}
	return out
}
