package models

import (
	"errors"
	"sort"
	"strings"
	"time"
)

// Priority is the urgency tag attached to a task.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// ParsePriority converts a string into a Priority, ignoring case and
// surrounding spaces. Blank and unknown values are reported with ok == false.
func ParsePriority(s string) (Priority, bool) {
	switch Priority(strings.ToLower(strings.TrimSpace(s))) {
	case PriorityLow:
		return PriorityLow, true
	case PriorityMedium:
		return PriorityMedium, true
	case PriorityHigh:
		return PriorityHigh, true
	default:
		return "", false
	}
}

// Valid reports whether p is one of the known priorities.
func (p Priority) Valid() bool {
	return p == PriorityLow || p == PriorityMedium || p == PriorityHigh
}

// Normalize returns p when it is a known priority and PriorityMedium otherwise.
func (p Priority) Normalize() Priority {
	if p.Valid() {
		return p
	}
	return PriorityMedium
}

// Task represents a single to-do record.
type Task struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description *string   `json:"description,omitempty"`
	Completed   bool      `json:"completed"`
	CreatedAt   time.Time `json:"created_at"`
	Priority    Priority  `json:"priority"`
}

// Clone returns a copy of the task that shares no memory with t.
func (t Task) Clone() Task {
	if t.Description != nil {
		d := *t.Description
		t.Description = &d
	}
	return t
}

// Validate checks the fields a caller supplies when creating a task.
func (t *Task) Validate() error {
	if strings.TrimSpace(t.Title) == "" {
		return errors.New("title is required")
	}

	if !t.Priority.Valid() {
		return errors.New("priority must be 'high', 'medium', or 'low'")
	}

	return nil
}

// PriorityOrder returns a numeric value for sorting by priority.
// Lower numbers indicate higher priority.
func (t *Task) PriorityOrder() int {
	switch t.Priority {
	case PriorityHigh:
		return 1
	case PriorityMedium:
		return 2
	case PriorityLow:
		return 3
	default:
		return 99
	}
}

// SortByPriority orders tasks high, medium, low. Tasks of equal priority
// keep their relative order.
func SortByPriority(tasks []Task) {
	sort.SliceStable(tasks, func(i, j int) bool {
		return tasks[i].PriorityOrder() < tasks[j].PriorityOrder()
	})
}

// TaskUpdate is a partial set of changes. Nil fields are left unchanged.
type TaskUpdate struct {
	Title       *string   `json:"title,omitempty"`
	Description *string   `json:"description,omitempty"`
	Priority    *Priority `json:"priority,omitempty"`
	Completed   *bool     `json:"completed,omitempty"`
}

// Validate checks the fields present in the update.
func (u TaskUpdate) Validate() error {
	if u.Title != nil && strings.TrimSpace(*u.Title) == "" {
		return errors.New("title cannot be empty")
	}

	if u.Priority != nil && !u.Priority.Valid() {
		return errors.New("priority must be 'high', 'medium', or 'low'")
	}

	return nil
}

// Apply writes the present fields of u onto t. ID and CreatedAt are never
// touched, and a priority outside the enum is applied as medium.
func (u TaskUpdate) Apply(t *Task) {
	if u.Title != nil {
		t.Title = *u.Title
	}
	if u.Description != nil {
		d := *u.Description
		t.Description = &d
	}
	if u.Priority != nil {
		t.Priority = u.Priority.Normalize()
	}
	if u.Completed != nil {
		t.Completed = *u.Completed
	}
}

// Status selects tasks by completion state.
type Status string

const (
	StatusAll        Status = ""
	StatusCompleted  Status = "completed"
	StatusIncomplete Status = "incomplete"
)

// TaskFilter narrows a task listing. The zero value matches every task.
type TaskFilter struct {
	Status   Status
	Priority Priority
}

// Match reports whether t passes the filter.
func (f TaskFilter) Match(t Task) bool {
	switch f.Status {
	case StatusCompleted:
		if !t.Completed {
			return false
		}
	case StatusIncomplete:
		if t.Completed {
			return false
		}
	}

	if f.Priority != "" && t.Priority != f.Priority {
		return false
	}

	return true
}
