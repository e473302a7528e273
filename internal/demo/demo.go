// Package demo seeds a store with sample tasks and walks through the task
// operations, reporting each step through the logger.
package demo

import (
	"context"
	"fmt"
	"log/slog"

	"todos/internal/models"
	"todos/internal/store"
)

type sample struct {
	title       string
	description string
	priority    models.Priority
}

var samples = []sample{
	{"Fix TypeError bug", "In the users API", models.PriorityHigh},
	{"Add unit tests", "For math utilities", models.PriorityMedium},
	{"Update dependencies", "Security vulnerabilities", models.PriorityHigh},
	{"Add documentation", "Missing doc comments", models.PriorityLow},
}

// Summary is what Run observed after each step.
type Summary struct {
	Created        int
	Remaining      int
	HighPriority   int
	CompletedByAll int
	Cleared        int
}

// Run seeds s, completes the first task, then completes and clears the rest.
func Run(ctx context.Context, s store.Store, logger *slog.Logger) (Summary, error) {
	var sum Summary

	for _, smp := range samples {
		desc := smp.description
		if _, err := s.CreateTask(ctx, smp.title, &desc, smp.priority); err != nil {
			return sum, fmt.Errorf("failed to seed %q: %w", smp.title, err)
		}
	}

	all, err := s.ListTasks(ctx, models.TaskFilter{})
	if err != nil {
		return sum, err
	}
	sum.Created = len(all)
	logger.Info("created tasks", "count", sum.Created)

	if ok, err := s.CompleteTask(ctx, all[0].ID); err != nil {
		return sum, err
	} else if !ok {
		logger.Warn("task vanished before completion", "id", all[0].ID)
	}

	incomplete, err := s.ListTasks(ctx, models.TaskFilter{Status: models.StatusIncomplete})
	if err != nil {
		return sum, err
	}
	sum.Remaining = len(incomplete)
	logger.Info("tasks remaining", "count", sum.Remaining)

	high, err := s.ListTasks(ctx, models.TaskFilter{Priority: models.PriorityHigh})
	if err != nil {
		return sum, err
	}
	sum.HighPriority = len(high)
	for _, t := range high {
		logger.Debug("high priority task", "id", t.ID, "title", t.Title, "completed", t.Completed)
	}

	if sum.CompletedByAll, err = s.CompleteAll(ctx); err != nil {
		return sum, err
	}
	logger.Info("completed remaining tasks", "changed", sum.CompletedByAll)

	if sum.Cleared, err = s.ClearCompleted(ctx); err != nil {
		return sum, err
	}
	logger.Info("cleared completed tasks", "removed", sum.Cleared)

	return sum, nil
}
