package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"todos/internal/models"
)

// SQLiteStore implements the Store interface using SQLite.
type SQLiteStore struct {
	db      *sql.DB
	now     func() time.Time
	applied []int
}

// NewSQLiteStore opens the database at dsn and applies pending migrations.
// Use ":memory:" for a database that lives only as long as the store.
func NewSQLiteStore(ctx context.Context, dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Every pooled connection to ":memory:" would get its own empty database.
	db.SetMaxOpenConns(1)

	applied, err := runMigrations(ctx, db)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return &SQLiteStore{db: db, now: time.Now, applied: applied}, nil
}

// AppliedMigrations reports the schema versions applied when the store was
// opened. It is empty when the database was already up to date.
func (s *SQLiteStore) AppliedMigrations() []int {
	return append([]int(nil), s.applied...)
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

const taskColumns = `id, title, description, completed, priority, created_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTask(row rowScanner) (models.Task, error) {
	var (
		task        models.Task
		description sql.NullString
		priority    string
	)

	err := row.Scan(
		&task.ID,
		&task.Title,
		&description,
		&task.Completed,
		&priority,
		&task.CreatedAt,
	)
	if err != nil {
		return models.Task{}, err
	}

	if description.Valid {
		d := description.String
		task.Description = &d
	}
	task.Priority = models.Priority(priority)

	return task, nil
}

func nullableString(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}

// CreateTask inserts a new task. AUTOINCREMENT keeps ids from ever being reused.
// A priority outside the enum is stored as medium.
func (s *SQLiteStore) CreateTask(ctx context.Context, title string, description *string, priority models.Priority) (models.Task, error) {
	task := models.Task{
		Title:     title,
		Completed: false,
		CreatedAt: s.now().UTC(),
		Priority:  priority.Normalize(),
	}
	if description != nil {
		d := *description
		task.Description = &d
	}

	result, err := s.db.ExecContext(ctx, `
		INSERT INTO tasks (title, description, completed, priority, created_at)
		VALUES (?, ?, ?, ?, ?)
	`, task.Title, nullableString(task.Description), task.Completed, string(task.Priority), task.CreatedAt)
	if err != nil {
		return models.Task{}, fmt.Errorf("failed to create task: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return models.Task{}, fmt.Errorf("failed to get last insert id: %w", err)
	}
	task.ID = id

	return task, nil
}

// GetTask retrieves a task by ID.
func (s *SQLiteStore) GetTask(ctx context.Context, id int64) (models.Task, bool, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+taskColumns+` FROM tasks WHERE id = ?`, id)

	task, err := scanTask(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Task{}, false, nil
		}
		return models.Task{}, false, fmt.Errorf("failed to get task: %w", err)
	}

	return task, true, nil
}

// ListTasks retrieves the tasks matching filter ordered by id, which is
// creation order.
func (s *SQLiteStore) ListTasks(ctx context.Context, filter models.TaskFilter) ([]models.Task, error) {
	var (
		where []string
		args  []any
	)

	switch filter.Status {
	case models.StatusCompleted:
		where = append(where, "completed = ?")
		args = append(args, true)
	case models.StatusIncomplete:
		where = append(where, "completed = ?")
		args = append(args, false)
	}

	if filter.Priority != "" {
		where = append(where, "priority = ?")
		args = append(args, string(filter.Priority))
	}

	query := `SELECT ` + taskColumns + ` FROM tasks`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY id ASC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	defer rows.Close()

	tasks := []models.Task{}
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan task: %w", err)
		}
		tasks = append(tasks, task)
	}

	return tasks, rows.Err()
}

// UpdateTask applies a partial update inside a transaction.
func (s *SQLiteStore) UpdateTask(ctx context.Context, id int64, u models.TaskUpdate) (models.Task, bool, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return models.Task{}, false, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	task, err := scanTask(tx.QueryRowContext(ctx, `SELECT `+taskColumns+` FROM tasks WHERE id = ?`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Task{}, false, nil
		}
		return models.Task{}, false, fmt.Errorf("failed to get task: %w", err)
	}

	u.Apply(&task)

	_, err = tx.ExecContext(ctx, `
		UPDATE tasks
		SET title = ?, description = ?, completed = ?, priority = ?
		WHERE id = ?
	`, task.Title, nullableString(task.Description), task.Completed, string(task.Priority), task.ID)
	if err != nil {
		return models.Task{}, false, fmt.Errorf("failed to update task: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return models.Task{}, false, fmt.Errorf("failed to commit task update: %w", err)
	}

	return task, true, nil
}

// CompleteTask marks a task as completed.
func (s *SQLiteStore) CompleteTask(ctx context.Context, id int64) (bool, error) {
	n, err := s.exec(ctx, `UPDATE tasks SET completed = ? WHERE id = ?`, true, id)
	if err != nil {
		return false, fmt.Errorf("failed to complete task: %w", err)
	}
	return n > 0, nil
}

// DeleteTask deletes a task by ID.
func (s *SQLiteStore) DeleteTask(ctx context.Context, id int64) (bool, error) {
	n, err := s.exec(ctx, `DELETE FROM tasks WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete task: %w", err)
	}
	return n > 0, nil
}

// CompleteAll marks every open task completed and returns how many changed.
func (s *SQLiteStore) CompleteAll(ctx context.Context) (int, error) {
	n, err := s.exec(ctx, `UPDATE tasks SET completed = ? WHERE completed = ?`, true, false)
	if err != nil {
		return 0, fmt.Errorf("failed to complete all tasks: %w", err)
	}
	return int(n), nil
}

// ClearCompleted deletes every completed task.
func (s *SQLiteStore) ClearCompleted(ctx context.Context) (int, error) {
	n, err := s.exec(ctx, `DELETE FROM tasks WHERE completed = ?`, true)
	if err != nil {
		return 0, fmt.Errorf("failed to clear completed tasks: %w", err)
	}
	return int(n), nil
}

func (s *SQLiteStore) exec(ctx context.Context, query string, args ...any) (int64, error) {
	result, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
