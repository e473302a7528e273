package handlers

import (
	"encoding/json"
	"net/http"

	"todos/internal/models"
)

type createTaskRequest struct {
	Title       string  `json:"title"`
	Description *string `json:"description"`
	Priority    string  `json:"priority"`
}

const priorityError = "priority must be 'high', 'medium', or 'low'"

// ListTasks lists tasks in creation order, optionally narrowed by the
// status (completed, incomplete) and priority query parameters.
// sort=priority orders the result high to low, keeping creation order
// within a priority.
func (h *Handlers) ListTasks(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	q := r.URL.Query()

	var filter models.TaskFilter

	switch status := models.Status(q.Get("status")); status {
	case models.StatusAll, "all":
	case models.StatusCompleted, models.StatusIncomplete:
		filter.Status = status
	default:
		h.respondError(w, http.StatusBadRequest, "status must be 'completed' or 'incomplete'")
		return
	}

	if raw := q.Get("priority"); raw != "" {
		p, ok := models.ParsePriority(raw)
		if !ok {
			h.respondError(w, http.StatusBadRequest, priorityError)
			return
		}
		filter.Priority = p
	}

	var byPriority bool
	switch q.Get("sort") {
	case "", "created":
	case "priority":
		byPriority = true
	default:
		h.respondError(w, http.StatusBadRequest, "sort must be 'created' or 'priority'")
		return
	}

	tasks, err := h.store.ListTasks(ctx, filter)
	if err != nil {
		h.respondServerError(w, r, err)
		return
	}
	if byPriority {
		models.SortByPriority(tasks)
	}

	h.respondJSON(w, http.StatusOK, tasks)
}

// CreateTask creates a new task.
func (h *Handlers) CreateTask(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req createTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid json")
		return
	}

	priority := models.PriorityMedium
	if req.Priority != "" {
		p, ok := models.ParsePriority(req.Priority)
		if !ok {
			h.respondError(w, http.StatusBadRequest, priorityError)
			return
		}
		priority = p
	}

	candidate := models.Task{Title: req.Title, Description: req.Description, Priority: priority}
	if err := candidate.Validate(); err != nil {
		h.respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	task, err := h.store.CreateTask(ctx, req.Title, req.Description, priority)
	if err != nil {
		h.respondServerError(w, r, err)
		return
	}

	h.logger.Info("task created", "id", task.ID, "priority", task.Priority)
	h.respondJSON(w, http.StatusCreated, task)
}

// GetTask returns a single task.
func (h *Handlers) GetTask(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := parseID(r, "id")
	if err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid task id")
		return
	}

	task, ok, err := h.store.GetTask(ctx, id)
	if err != nil {
		h.respondServerError(w, r, err)
		return
	}
	if !ok {
		h.respondError(w, http.StatusNotFound, "task not found")
		return
	}

	h.respondJSON(w, http.StatusOK, task)
}

// UpdateTask applies a partial update. Fields missing from the body are left unchanged.
func (h *Handlers) UpdateTask(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := parseID(r, "id")
	if err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid task id")
		return
	}

	var u models.TaskUpdate
	if err := json.NewDecoder(r.Body).Decode(&u); err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid json")
		return
	}

	if u.Priority != nil {
		p, ok := models.ParsePriority(string(*u.Priority))
		if !ok {
			h.respondError(w, http.StatusBadRequest, priorityError)
			return
		}
		u.Priority = &p
	}

	if err := u.Validate(); err != nil {
		h.respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	task, ok, err := h.store.UpdateTask(ctx, id, u)
	if err != nil {
		h.respondServerError(w, r, err)
		return
	}
	if !ok {
		h.respondError(w, http.StatusNotFound, "task not found")
		return
	}

	h.logger.Info("task updated", "id", task.ID)
	h.respondJSON(w, http.StatusOK, task)
}

// CompleteTask marks a task as completed and returns it.
func (h *Handlers) CompleteTask(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := parseID(r, "id")
	if err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid task id")
		return
	}

	ok, err := h.store.CompleteTask(ctx, id)
	if err != nil {
		h.respondServerError(w, r, err)
		return
	}
	if !ok {
		h.respondError(w, http.StatusNotFound, "task not found")
		return
	}

	// Return the updated task
	task, _, err := h.store.GetTask(ctx, id)
	if err != nil {
		h.respondServerError(w, r, err)
		return
	}

	h.logger.Info("task completed", "id", id)
	h.respondJSON(w, http.StatusOK, task)
}

// DeleteTask deletes a task.
func (h *Handlers) DeleteTask(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := parseID(r, "id")
	if err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid task id")
		return
	}

	ok, err := h.store.DeleteTask(ctx, id)
	if err != nil {
		h.respondServerError(w, r, err)
		return
	}
	if !ok {
		h.respondError(w, http.StatusNotFound, "task not found")
		return
	}

	h.logger.Info("task deleted", "id", id)
	w.WriteHeader(http.StatusNoContent)
}

// CompleteAll marks every task as completed.
func (h *Handlers) CompleteAll(w http.ResponseWriter, r *http.Request) {
	n, err := h.store.CompleteAll(r.Context())
	if err != nil {
		h.respondServerError(w, r, err)
		return
	}

	h.logger.Info("completed all tasks", "changed", n)
	h.respondJSON(w, http.StatusOK, map[string]int{"changed": n})
}

// ClearCompleted removes every completed task.
func (h *Handlers) ClearCompleted(w http.ResponseWriter, r *http.Request) {
	n, err := h.store.ClearCompleted(r.Context())
	if err != nil {
		h.respondServerError(w, r, err)
		return
	}

	h.logger.Info("cleared completed tasks", "removed", n)
	h.respondJSON(w, http.StatusOK, map[string]int{"removed": n})
}
