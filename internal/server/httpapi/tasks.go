package httpapi

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/dmitrijs2005/smarttask/internal/models"
	"github.com/dmitrijs2005/smarttask/internal/services"
	"github.com/gorilla/mux"
)

type taskRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Category    string `json:"category"`
	Priority    string `json:"priority"`
	DueDate     string `json:"dueDate"`
	DueTime     string `json:"dueTime"`
}

type taskPatchRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Category    *string `json:"category"`
	Priority    *string `json:"priority"`
	DueDate     *string `json:"dueDate"`
	DueTime     *string `json:"dueTime"`
}

func (s *HTTPServer) views(ts []models.Task) []models.TaskView {
	now := s.tasks.Now()
	out := make([]models.TaskView, len(ts))
	for i, t := range ts {
		out[i] = t.View(now)
	}
	return out
}

func (s *HTTPServer) writeTask(w http.ResponseWriter, status int, t models.Task) {
	writeJSON(w, status, t.View(s.tasks.Now()))
}

func (s *HTTPServer) listTasks(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	status, err := services.ParseStatus(q.Get("status"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	order, err := services.ParseSortOrder(q.Get("sort"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	priority, err := services.ParsePriorityFilter(q.Get("priority"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	ts := s.tasks.Query(r.Context(), emailFrom(r.Context()), services.Filter{
		Category: q.Get("category"),
		Priority: priority,
		Status:   status,
		Term:     q.Get("q"),
		Sort:     order,
	})
	writeJSON(w, http.StatusOK, s.views(ts))
}

func (s *HTTPServer) createTask(w http.ResponseWriter, r *http.Request) {
	var req taskRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	dueAt, err := models.ParseDue(req.DueDate, req.DueTime)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	t, err := s.tasks.AddTask(r.Context(), services.NewTask{
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		Priority:    models.Priority(req.Priority),
		DueAt:       dueAt,
		OwnerEmail:  emailFrom(r.Context()),
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeTask(w, http.StatusCreated, t)
}

// ownedID resolves the {id} route variable to a task of the caller. Tasks of
// other accounts are reported as not found.
func (s *HTTPServer) ownedID(w http.ResponseWriter, r *http.Request) (models.Task, bool) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		s.writeError(w, r, errBadRequest)
		return models.Task{}, false
	}
	t, err := s.tasks.OwnedTask(r.Context(), emailFrom(r.Context()), id)
	if err != nil {
		s.writeError(w, r, err)
		return models.Task{}, false
	}
	return t, true
}

func (s *HTTPServer) getTask(w http.ResponseWriter, r *http.Request) {
	t, ok := s.ownedID(w, r)
	if !ok {
		return
	}
	s.writeTask(w, http.StatusOK, t)
}

func (s *HTTPServer) updateTask(w http.ResponseWriter, r *http.Request) {
	current, ok := s.ownedID(w, r)
	if !ok {
		return
	}

	var req taskPatchRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	patch := services.TaskPatch{
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
	}
	if req.Priority != nil {
		p := models.Priority(*req.Priority)
		patch.Priority = &p
	}
	if req.DueDate != nil {
		var clock string
		if req.DueTime != nil {
			clock = *req.DueTime
		}
		dueAt, err := models.ParseDue(*req.DueDate, clock)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		patch.DueAt = &dueAt
	} else if req.DueTime != nil {
		dueAt, err := models.ParseDue(current.DueAt.Format(time.DateOnly), *req.DueTime)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		patch.DueAt = &dueAt
	}

	t, err := s.tasks.UpdateTask(r.Context(), current.ID, patch)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeTask(w, http.StatusOK, t)
}

func (s *HTTPServer) deleteTask(w http.ResponseWriter, r *http.Request) {
	current, ok := s.ownedID(w, r)
	if !ok {
		return
	}
	if err := s.tasks.DeleteTask(r.Context(), current.ID); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *HTTPServer) completeTask(w http.ResponseWriter, r *http.Request) {
	s.transition(w, r, s.tasks.MarkCompleted)
}

func (s *HTTPServer) pendingTask(w http.ResponseWriter, r *http.Request) {
	s.transition(w, r, s.tasks.MarkPending)
}

func (s *HTTPServer) toggleTask(w http.ResponseWriter, r *http.Request) {
	s.transition(w, r, s.tasks.ToggleCompleted)
}

func (s *HTTPServer) transition(w http.ResponseWriter, r *http.Request, apply func(ctx context.Context, id int64) (models.Task, error)) {
	current, ok := s.ownedID(w, r)
	if !ok {
		return
	}
	t, err := apply(r.Context(), current.ID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeTask(w, http.StatusOK, t)
}

func (s *HTTPServer) stats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.tasks.Stats(r.Context(), emailFrom(r.Context())))
}
