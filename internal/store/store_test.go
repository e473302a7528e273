package store

import (
	"context"
	"testing"

	"todos/internal/models"
)

// backends returns one fresh store per backend. Every test below runs against each.
func backends(t *testing.T) map[string]Store {
	t.Helper()

	sqliteStore, err := NewSQLiteStore(context.Background(), ":memory:")
	if err != nil {
		t.Fatalf("failed to create sqlite store: %v", err)
	}
	memStore := NewMemoryStore()

	t.Cleanup(func() {
		sqliteStore.Close()
		memStore.Close()
	})

	return map[string]Store{
		BackendMemory: memStore,
		BackendSQLite: sqliteStore,
	}
}

func forEachBackend(t *testing.T, fn func(t *testing.T, s Store)) {
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			fn(t, s)
		})
	}
}

func strPtr(s string) *string { return &s }

func mustCreate(t *testing.T, s Store, title string, priority models.Priority) models.Task {
	t.Helper()
	task, err := s.CreateTask(context.Background(), title, nil, priority)
	if err != nil {
		t.Fatalf("CreateTask failed: %v", err)
	}
	return task
}

func mustList(t *testing.T, s Store, filter models.TaskFilter) []models.Task {
	t.Helper()
	tasks, err := s.ListTasks(context.Background(), filter)
	if err != nil {
		t.Fatalf("ListTasks failed: %v", err)
	}
	return tasks
}

func assertIDs(t *testing.T, tasks []models.Task, want ...int64) {
	t.Helper()
	if len(tasks) != len(want) {
		t.Fatalf("expected %d tasks, got %d", len(want), len(tasks))
	}
	for i, id := range want {
		if tasks[i].ID != id {
			t.Errorf("position %d: expected id %d, got %d", i, id, tasks[i].ID)
		}
	}
}

func TestCreateTask(t *testing.T) {
	forEachBackend(t, func(t *testing.T, s Store) {
		ctx := context.Background()

		task, err := s.CreateTask(ctx, "Fix TypeError bug", strPtr("In the users API"), models.PriorityHigh)
		if err != nil {
			t.Fatalf("CreateTask failed: %v", err)
		}

		if task.ID != 1 {
			t.Errorf("expected id 1, got %d", task.ID)
		}
		if task.CreatedAt.IsZero() {
			t.Error("expected created_at to be set")
		}
		if task.Completed {
			t.Error("expected task to be incomplete")
		}
		if task.Description == nil || *task.Description != "In the users API" {
			t.Errorf("unexpected description: %v", task.Description)
		}
	})
}

func TestCreateTask_DefaultPriority(t *testing.T) {
	forEachBackend(t, func(t *testing.T, s Store) {
		task := mustCreate(t, s, "A", "")
		if task.Priority != models.PriorityMedium {
			t.Errorf("expected medium priority, got %q", task.Priority)
		}
	})
}

func TestCreateTask_UnknownPriorityBecomesMedium(t *testing.T) {
	forEachBackend(t, func(t *testing.T, s Store) {
		ctx := context.Background()

		task, err := s.CreateTask(ctx, "x", nil, models.Priority("urgent"))
		if err != nil {
			t.Fatalf("CreateTask failed: %v", err)
		}
		if task.Priority != models.PriorityMedium {
			t.Errorf("expected medium priority, got %q", task.Priority)
		}

		stored, _, err := s.GetTask(ctx, task.ID)
		if err != nil {
			t.Fatalf("GetTask failed: %v", err)
		}
		if stored.Priority != models.PriorityMedium {
			t.Errorf("expected stored priority medium, got %q", stored.Priority)
		}
	})
}

func TestGetTask(t *testing.T) {
	forEachBackend(t, func(t *testing.T, s Store) {
		ctx := context.Background()
		created, _ := s.CreateTask(ctx, "Add unit tests", strPtr("For math utilities"), models.PriorityMedium)

		got, ok, err := s.GetTask(ctx, created.ID)
		if err != nil {
			t.Fatalf("GetTask failed: %v", err)
		}
		if !ok {
			t.Fatal("expected task to be found")
		}

		if got.Title != created.Title {
			t.Errorf("expected title %q, got %q", created.Title, got.Title)
		}
		if got.Description == nil || *got.Description != "For math utilities" {
			t.Errorf("unexpected description: %v", got.Description)
		}
		if got.Priority != models.PriorityMedium {
			t.Errorf("expected priority medium, got %q", got.Priority)
		}
		if !got.CreatedAt.Equal(created.CreatedAt) {
			t.Errorf("expected created_at %v, got %v", created.CreatedAt, got.CreatedAt)
		}
	})
}

func TestGetTask_NotFound(t *testing.T) {
	forEachBackend(t, func(t *testing.T, s Store) {
		_, ok, err := s.GetTask(context.Background(), 999)
		if err != nil {
			t.Fatalf("GetTask failed: %v", err)
		}
		if ok {
			t.Error("expected task 999 to be absent")
		}
	})
}

func TestListTasks_CreationOrder(t *testing.T) {
	forEachBackend(t, func(t *testing.T, s Store) {
		mustCreate(t, s, "A", "")
		mustCreate(t, s, "B", "")
		mustCreate(t, s, "C", "")

		got := mustList(t, s, models.TaskFilter{})
		assertIDs(t, got, 1, 2, 3)
		for i, title := range []string{"A", "B", "C"} {
			if got[i].Title != title {
				t.Errorf("position %d: expected %q, got %q", i, title, got[i].Title)
			}
		}
	})
}

func TestListTasks_Empty(t *testing.T) {
	forEachBackend(t, func(t *testing.T, s Store) {
		got := mustList(t, s, models.TaskFilter{})
		if got == nil || len(got) != 0 {
			t.Errorf("expected empty non-nil slice, got %#v", got)
		}
	})
}

func TestListTasks_Filters(t *testing.T) {
	forEachBackend(t, func(t *testing.T, s Store) {
		ctx := context.Background()
		mustCreate(t, s, "A", models.PriorityHigh)
		mustCreate(t, s, "B", models.PriorityLow)
		mustCreate(t, s, "C", models.PriorityHigh)
		mustCreate(t, s, "D", models.PriorityMedium)
		s.CompleteTask(ctx, 2)
		s.CompleteTask(ctx, 3)

		assertIDs(t, mustList(t, s, models.TaskFilter{Status: models.StatusCompleted}), 2, 3)
		assertIDs(t, mustList(t, s, models.TaskFilter{Status: models.StatusIncomplete}), 1, 4)
		assertIDs(t, mustList(t, s, models.TaskFilter{Priority: models.PriorityHigh}), 1, 3)
		assertIDs(t, mustList(t, s, models.TaskFilter{Status: models.StatusIncomplete, Priority: models.PriorityHigh}), 1)
		assertIDs(t, mustList(t, s, models.TaskFilter{Priority: models.PriorityLow, Status: models.StatusIncomplete}))
	})
}

func TestUpdateTask(t *testing.T) {
	forEachBackend(t, func(t *testing.T, s Store) {
		ctx := context.Background()
		created, _ := s.CreateTask(ctx, "Original", strPtr("keep"), models.PriorityLow)

		title := "Updated"
		prio := models.PriorityHigh
		got, ok, err := s.UpdateTask(ctx, created.ID, models.TaskUpdate{Title: &title, Priority: &prio})
		if err != nil {
			t.Fatalf("UpdateTask failed: %v", err)
		}
		if !ok {
			t.Fatal("expected task to be found")
		}
		if got.Title != "Updated" || got.Priority != models.PriorityHigh {
			t.Errorf("unexpected task after update: %+v", got)
		}

		stored, _, _ := s.GetTask(ctx, created.ID)
		if stored.Title != "Updated" {
			t.Errorf("expected stored title %q, got %q", "Updated", stored.Title)
		}
		if stored.Description == nil || *stored.Description != "keep" {
			t.Errorf("expected description to be unchanged, got %v", stored.Description)
		}
		if !stored.CreatedAt.Equal(created.CreatedAt) {
			t.Error("expected created_at to be unchanged")
		}
	})
}

func TestUpdateTask_UnknownPriorityBecomesMedium(t *testing.T) {
	forEachBackend(t, func(t *testing.T, s Store) {
		ctx := context.Background()
		task := mustCreate(t, s, "A", models.PriorityHigh)

		bad := models.Priority("urgent")
		got, ok, err := s.UpdateTask(ctx, task.ID, models.TaskUpdate{Priority: &bad})
		if err != nil || !ok {
			t.Fatalf("UpdateTask failed: ok=%v err=%v", ok, err)
		}
		if got.Priority != models.PriorityMedium {
			t.Errorf("expected medium priority, got %q", got.Priority)
		}

		stored, _, _ := s.GetTask(ctx, task.ID)
		if stored.Priority != models.PriorityMedium {
			t.Errorf("expected stored priority medium, got %q", stored.Priority)
		}
	})
}

func TestUpdateTask_Uncomplete(t *testing.T) {
	forEachBackend(t, func(t *testing.T, s Store) {
		ctx := context.Background()
		task := mustCreate(t, s, "A", "")
		s.CompleteTask(ctx, task.ID)

		open := false
		got, ok, err := s.UpdateTask(ctx, task.ID, models.TaskUpdate{Completed: &open})
		if err != nil || !ok {
			t.Fatalf("UpdateTask failed: ok=%v err=%v", ok, err)
		}
		if got.Completed {
			t.Error("expected task to be reopened")
		}
	})
}

func TestUpdateTask_NotFound(t *testing.T) {
	forEachBackend(t, func(t *testing.T, s Store) {
		title := "x"
		_, ok, err := s.UpdateTask(context.Background(), 42, models.TaskUpdate{Title: &title})
		if err != nil {
			t.Fatalf("UpdateTask failed: %v", err)
		}
		if ok {
			t.Error("expected task 42 to be absent")
		}
	})
}

func TestCompleteTask(t *testing.T) {
	forEachBackend(t, func(t *testing.T, s Store) {
		ctx := context.Background()
		task := mustCreate(t, s, "Complete me", "")

		for i := 0; i < 2; i++ {
			ok, err := s.CompleteTask(ctx, task.ID)
			if err != nil {
				t.Fatalf("CompleteTask failed: %v", err)
			}
			if !ok {
				t.Errorf("call %d: expected CompleteTask to return true", i+1)
			}
		}

		got, _, _ := s.GetTask(ctx, task.ID)
		if !got.Completed {
			t.Error("expected task to be completed")
		}
	})
}

func TestCompleteTask_NotFound(t *testing.T) {
	forEachBackend(t, func(t *testing.T, s Store) {
		mustCreate(t, s, "A", "")

		ok, err := s.CompleteTask(context.Background(), 999)
		if err != nil {
			t.Fatalf("CompleteTask failed: %v", err)
		}
		if ok {
			t.Error("expected CompleteTask(999) to return false")
		}
		assertIDs(t, mustList(t, s, models.TaskFilter{Status: models.StatusIncomplete}), 1)
	})
}

func TestDeleteTask(t *testing.T) {
	forEachBackend(t, func(t *testing.T, s Store) {
		ctx := context.Background()
		mustCreate(t, s, "A", "")
		mustCreate(t, s, "B", "")
		mustCreate(t, s, "C", "")

		ok, err := s.DeleteTask(ctx, 2)
		if err != nil {
			t.Fatalf("DeleteTask failed: %v", err)
		}
		if !ok {
			t.Fatal("expected DeleteTask(2) to return true")
		}

		if _, found, _ := s.GetTask(ctx, 2); found {
			t.Error("expected task 2 to be deleted")
		}
		assertIDs(t, mustList(t, s, models.TaskFilter{}), 1, 3)

		ok, _ = s.DeleteTask(ctx, 999)
		if ok {
			t.Error("expected DeleteTask(999) to return false")
		}
	})
}

func TestDeleteTask_IDsNotReused(t *testing.T) {
	forEachBackend(t, func(t *testing.T, s Store) {
		ctx := context.Background()
		for _, title := range []string{"A", "B", "C"} {
			mustCreate(t, s, title, "")
		}
		for id := int64(1); id <= 3; id++ {
			s.DeleteTask(ctx, id)
		}

		if task := mustCreate(t, s, "New task", ""); task.ID != 4 {
			t.Errorf("expected id 4, got %d", task.ID)
		}
	})
}

func TestCompleteAll(t *testing.T) {
	forEachBackend(t, func(t *testing.T, s Store) {
		ctx := context.Background()
		mustCreate(t, s, "A", "")
		mustCreate(t, s, "B", "")
		mustCreate(t, s, "C", "")
		s.CompleteTask(ctx, 1)

		n, err := s.CompleteAll(ctx)
		if err != nil {
			t.Fatalf("CompleteAll failed: %v", err)
		}
		if n != 2 {
			t.Errorf("expected 2 changed, got %d", n)
		}

		n, _ = s.CompleteAll(ctx)
		if n != 0 {
			t.Errorf("expected second CompleteAll to change 0, got %d", n)
		}
		assertIDs(t, mustList(t, s, models.TaskFilter{Status: models.StatusCompleted}), 1, 2, 3)
	})
}

func TestClearCompleted(t *testing.T) {
	forEachBackend(t, func(t *testing.T, s Store) {
		ctx := context.Background()
		for _, title := range []string{"A", "B", "C", "D"} {
			mustCreate(t, s, title, "")
		}
		s.CompleteTask(ctx, 1)
		s.CompleteTask(ctx, 3)

		n, err := s.ClearCompleted(ctx)
		if err != nil {
			t.Fatalf("ClearCompleted failed: %v", err)
		}
		if n != 2 {
			t.Errorf("expected 2 removed, got %d", n)
		}
		assertIDs(t, mustList(t, s, models.TaskFilter{}), 2, 4)
	})
}

func TestOpen(t *testing.T) {
	tests := []struct {
		backend string
		wantErr bool
	}{
		{backend: "", wantErr: false},
		{backend: BackendMemory, wantErr: false},
		{backend: BackendSQLite, wantErr: false},
		{backend: "postgres", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.backend, func(t *testing.T) {
			s, err := Open(context.Background(), tt.backend, "")
			if tt.wantErr {
				if err == nil {
					t.Error("expected error but got none")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			s.Close()
		})
	}
}

func TestNewSQLiteStore_AppliedMigrations(t *testing.T) {
	s, err := NewSQLiteStore(context.Background(), ":memory:")
	if err != nil {
		t.Fatalf("NewSQLiteStore failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })

	want, err := newMigrator(nil, nil).load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	got := s.AppliedMigrations()
	if len(got) != len(want) {
		t.Fatalf("expected %d applied migrations, got %v", len(want), got)
	}
	for i, m := range want {
		if got[i] != m.version {
			t.Errorf("position %d: expected version %d, got %d", i, m.version, got[i])
		}
	}
}

func TestNewSQLiteStore_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := NewSQLiteStore(ctx, ":memory:"); err == nil {
		t.Fatal("expected error for canceled context")
	}
}
