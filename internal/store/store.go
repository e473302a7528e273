package store

import (
	"context"

	"todos/internal/models"
)

// Store defines the task operations exposed to the HTTP layer and the CLI.
// A missing task is reported through the ok/bool results; errors are
// reserved for backend failures.
type Store interface {
	CreateTask(ctx context.Context, title string, description *string, priority models.Priority) (models.Task, error)
	GetTask(ctx context.Context, id int64) (models.Task, bool, error)
	ListTasks(ctx context.Context, filter models.TaskFilter) ([]models.Task, error)
	UpdateTask(ctx context.Context, id int64, u models.TaskUpdate) (models.Task, bool, error)
	CompleteTask(ctx context.Context, id int64) (bool, error)
	DeleteTask(ctx context.Context, id int64) (bool, error)

	// Bulk operations
	CompleteAll(ctx context.Context) (int, error)
	ClearCompleted(ctx context.Context) (int, error)

	// Lifecycle
	Close() error
}
