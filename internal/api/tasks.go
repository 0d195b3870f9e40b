// ABOUTME: HTTP handlers for task CRUD, scoped to the authenticated owner
// ABOUTME: Store errors map to HTTP statuses; foreign tasks look like missing ones

package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/hivelabs/taskhive/internal/auth"
	"github.com/hivelabs/taskhive/internal/store"
)

// Pagination bounds for GET /tasks/
const (
	defaultPageLimit = 10
	maxPageLimit     = 100
)

// dueDateFormats are the accepted due_date encodings, tried in order
var dueDateFormats = []string{time.RFC3339, "2006-01-02"}

// createTaskRequest is the JSON request body for POST /tasks/.
type createTaskRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Status      string `json:"status"`
	DueDate     string `json:"due_date"`
}

// updateTaskRequest is the JSON request body for PUT /tasks/{id}.
// All fields are optional; absent fields are left unchanged.
type updateTaskRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Status      *string `json:"status"`
	DueDate     *string `json:"due_date"`
}

// taskResponse is the JSON body for task endpoints.
type taskResponse struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Status      string    `json:"status"`
	DueDate     time.Time `json:"due_date"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func toTaskResponse(t *store.Task) taskResponse {
	return taskResponse{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		Status:      string(t.Status),
		DueDate:     t.DueDate,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}

// parseDueDate accepts RFC 3339 timestamps and bare dates
func parseDueDate(value string) (time.Time, error) {
	var err error
	for _, format := range dueDateFormats {
		var t time.Time
		if t, err = time.Parse(format, value); err == nil {
			return t, nil
		}
	}
	return time.Time{}, err
}

// handleCreateTask handles POST /tasks/ requests. The owner is always the
// authenticated caller; it cannot be set from the body.
func (s *Server) handleCreateTask(w http.ResponseWriter, r *http.Request) {
	identity := auth.MustIdentityFromContext(r.Context())

	var req createTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusUnprocessableEntity, "invalid request body")
		return
	}

	fields := map[string]string{}
	if req.Title == "" {
		fields["title"] = "required"
	}
	status := store.TaskStatus(req.Status)
	if req.Status != "" && !status.Valid() {
		fields["status"] = "must be INCOMPLETE or COMPLETE"
	}
	var dueDate time.Time
	if req.DueDate == "" {
		fields["due_date"] = "required"
	} else {
		var err error
		if dueDate, err = parseDueDate(req.DueDate); err != nil {
			fields["due_date"] = "must be an RFC 3339 timestamp or YYYY-MM-DD date"
		}
	}
	if len(fields) > 0 {
		writeValidationError(w, fields)
		return
	}

	task, err := s.store.CreateTask(r.Context(), &store.Task{
		OwnerID:     identity.UserID,
		Title:       req.Title,
		Description: req.Description,
		Status:      status,
		DueDate:     dueDate,
	})
	if err != nil {
		s.logger.Error("creating task", "owner_id", identity.UserID, "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	writeJSON(w, http.StatusCreated, toTaskResponse(task))
}

// handleListTasks handles GET /tasks/?limit&skip requests. Results are the
// caller's own tasks in ascending id order.
func (s *Server) handleListTasks(w http.ResponseWriter, r *http.Request) {
	identity := auth.MustIdentityFromContext(r.Context())

	limit := defaultPageLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			limit = n
		}
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}

	skip := 0
	if raw := r.URL.Query().Get("skip"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			skip = n
		}
	}

	tasks, err := s.store.ListTasks(r.Context(), identity.UserID, skip, limit)
	if err != nil {
		s.logger.Error("listing tasks", "owner_id", identity.UserID, "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	response := make([]taskResponse, 0, len(tasks))
	for _, t := range tasks {
		response = append(response, toTaskResponse(t))
	}
	writeJSON(w, http.StatusOK, response)
}

// taskID parses the {id} route parameter. A non-numeric id behaves like a
// missing resource.
func taskID(r *http.Request) (int64, string, bool) {
	idParam := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(idParam, 10, 64)
	return id, idParam, err == nil
}

// handleGetTask handles GET /tasks/{id} requests.
func (s *Server) handleGetTask(w http.ResponseWriter, r *http.Request) {
	identity := auth.MustIdentityFromContext(r.Context())

	id, idParam, ok := taskID(r)
	if !ok {
		writeNotFound(w, idParam)
		return
	}

	task, err := s.store.GetTask(r.Context(), id, identity.UserID)
	if errors.Is(err, store.ErrNotFound) {
		writeNotFound(w, idParam)
		return
	}
	if err != nil {
		s.logger.Error("getting task", "task_id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	writeJSON(w, http.StatusOK, toTaskResponse(task))
}

// handleUpdateTask handles PUT /tasks/{id} requests with partial update
// semantics: only provided fields change, updated_at always advances.
func (s *Server) handleUpdateTask(w http.ResponseWriter, r *http.Request) {
	identity := auth.MustIdentityFromContext(r.Context())

	id, idParam, ok := taskID(r)
	if !ok {
		writeNotFound(w, idParam)
		return
	}

	var req updateTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusUnprocessableEntity, "invalid request body")
		return
	}

	fields := map[string]string{}
	update := store.TaskUpdate{
		Title:       req.Title,
		Description: req.Description,
	}
	if req.Title != nil && *req.Title == "" {
		fields["title"] = "must not be empty"
	}
	if req.Status != nil {
		status := store.TaskStatus(*req.Status)
		if !status.Valid() {
			fields["status"] = "must be INCOMPLETE or COMPLETE"
		}
		update.Status = &status
	}
	if req.DueDate != nil {
		dueDate, err := parseDueDate(*req.DueDate)
		if err != nil {
			fields["due_date"] = "must be an RFC 3339 timestamp or YYYY-MM-DD date"
		}
		update.DueDate = &dueDate
	}
	if len(fields) > 0 {
		writeValidationError(w, fields)
		return
	}

	task, err := s.store.UpdateTask(r.Context(), id, identity.UserID, update)
	if errors.Is(err, store.ErrNotFound) {
		writeNotFound(w, idParam)
		return
	}
	if err != nil {
		s.logger.Error("updating task", "task_id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	writeJSON(w, http.StatusOK, toTaskResponse(task))
}

// handleDeleteTask handles DELETE /tasks/{id} requests.
func (s *Server) handleDeleteTask(w http.ResponseWriter, r *http.Request) {
	identity := auth.MustIdentityFromContext(r.Context())

	id, idParam, ok := taskID(r)
	if !ok {
		writeNotFound(w, idParam)
		return
	}

	err := s.store.DeleteTask(r.Context(), id, identity.UserID)
	if errors.Is(err, store.ErrNotFound) {
		writeNotFound(w, idParam)
		return
	}
	if err != nil {
		s.logger.Error("deleting task", "task_id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
