package httpapi

import (
	"net/http"
	"testing"
	"time"

	"github.com/dmitrijs2005/smarttask/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTaskLifecycle(t *testing.T) {
	f := newAPI(t)
	token := f.signup(t, "ann@x.com")

	rec := f.do(t, http.MethodPost, "/api/tasks", token, map[string]string{
		"title": "Study", "description": "Chapter 4 | notes", "category": "study",
		"priority": "high", "dueDate": "2024-01-10",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := decode[models.TaskView](t, rec)
	assert.Equal(t, int64(1), created.ID)
	assert.Equal(t, "high", created.Priority)
	assert.Equal(t, "2024-01-10T23:59:59", created.DueDate)
	assert.Equal(t, "Chapter 4 | notes", created.Description)
	assert.Equal(t, "ann@x.com", created.OwnerEmail)
	assert.True(t, created.DueToday)
	assert.False(t, created.Overdue)
	assert.Nil(t, created.CompletedAt)

	rec = f.do(t, http.MethodGet, "/api/tasks/1", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, created, decode[models.TaskView](t, rec))

	rec = f.do(t, http.MethodPut, "/api/tasks/1", token, map[string]string{"title": "Revise", "dueTime": "09:30"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	updated := decode[models.TaskView](t, rec)
	assert.Equal(t, "Revise", updated.Title)
	assert.Equal(t, "2024-01-10T09:30:00", updated.DueDate)
	assert.True(t, updated.Overdue)

	rec = f.do(t, http.MethodPost, "/api/tasks/1/complete", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	done := decode[models.TaskView](t, rec)
	assert.True(t, done.Completed)
	require.NotNil(t, done.CompletedAt)
	assert.Equal(t, "2024-01-10T12:00:00", *done.CompletedAt)
	assert.False(t, done.Overdue)

	rec = f.do(t, http.MethodPost, "/api/tasks/1/toggle", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.False(t, decode[models.TaskView](t, rec).Completed)

	rec = f.do(t, http.MethodPost, "/api/tasks/1/complete", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	rec = f.do(t, http.MethodPost, "/api/tasks/1/pending", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Nil(t, decode[models.TaskView](t, rec).CompletedAt)

	rec = f.do(t, http.MethodDelete, "/api/tasks/1", token, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	rec = f.do(t, http.MethodGet, "/api/tasks/1", token, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCreateTaskValidation(t *testing.T) {
	f := newAPI(t)
	token := f.signup(t, "ann@x.com")

	tests := []struct {
		name string
		body map[string]string
	}{
		{"empty title", map[string]string{"title": " ", "dueDate": "2024-01-10"}},
		{"missing due date", map[string]string{"title": "x"}},
		{"bad due date", map[string]string{"title": "x", "dueDate": "10/01/2024"}},
		{"bad due time", map[string]string{"title": "x", "dueDate": "2024-01-10", "dueTime": "25:99"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := f.do(t, http.MethodPost, "/api/tasks", token, tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
		})
	}
}

func TestTasksOfOtherAccountsAreHidden(t *testing.T) {
	f := newAPI(t)
	ann := f.signup(t, "ann@x.com")
	bob := f.signup(t, "bob@x.com")

	rec := f.do(t, http.MethodPost, "/api/tasks", ann, map[string]string{"title": "Secret", "dueDate": "2024-02-01"})
	require.Equal(t, http.StatusCreated, rec.Code)

	for _, req := range []struct{ method, path string }{
		{http.MethodGet, "/api/tasks/1"},
		{http.MethodPut, "/api/tasks/1"},
		{http.MethodDelete, "/api/tasks/1"},
		{http.MethodPost, "/api/tasks/1/complete"},
	} {
		rec = f.do(t, req.method, req.path, bob, map[string]string{"title": "pwned"})
		assert.Equal(t, http.StatusNotFound, rec.Code, req.method+" "+req.path)
	}

	rec = f.do(t, http.MethodGet, "/api/tasks", bob, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, decode[[]models.TaskView](t, rec))

	rec = f.do(t, http.MethodGet, "/api/tasks/1", ann, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Secret", decode[models.TaskView](t, rec).Title)
}

func TestListTasksWithFilters(t *testing.T) {
	f := newAPI(t)
	token := f.signup(t, "ann@x.com")

	for _, body := range []map[string]string{
		{"title": "Read ch 1", "category": "reading", "priority": "low", "dueDate": "2024-01-09", "dueTime": "18:00"},
		{"title": "Essay", "category": "writing", "priority": "high", "dueDate": "2024-01-10", "dueTime": "18:00"},
		{"title": "Read ch 2", "category": "reading", "priority": "medium", "dueDate": "2024-01-11"},
	} {
		rec := f.do(t, http.MethodPost, "/api/tasks", token, body)
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	}

	titles := func(path string) []string {
		rec := f.do(t, http.MethodGet, path, token, nil)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		var out []string
		for _, v := range decode[[]models.TaskView](t, rec) {
			out = append(out, v.Title)
		}
		return out
	}

	assert.Equal(t, []string{"Read ch 1", "Essay", "Read ch 2"}, titles("/api/tasks"))
	assert.Equal(t, []string{"Read ch 1", "Read ch 2"}, titles("/api/tasks?category=Reading"))
	assert.Equal(t, []string{"Essay"}, titles("/api/tasks?priority=HIGH"))
	assert.Equal(t, []string{"Read ch 1"}, titles("/api/tasks?status=overdue"))
	assert.Equal(t, []string{"Essay"}, titles("/api/tasks?status=due-today"))
	assert.Equal(t, []string{"Read ch 2", "Read ch 1"}, titles("/api/tasks?q=read&sort=due-desc"))
	assert.Equal(t, []string{"Essay", "Read ch 2", "Read ch 1"}, titles("/api/tasks?sort=priority"))

	for _, bad := range []string{"/api/tasks?status=later", "/api/tasks?sort=random", "/api/tasks?priority=urgent"} {
		rec := f.do(t, http.MethodGet, bad, token, nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code, bad)
	}
}

func TestStats(t *testing.T) {
	f := newAPI(t)
	token := f.signup(t, "ann@x.com")

	for _, day := range []string{"2024-01-09", "2024-01-10", "2024-01-12"} {
		rec := f.do(t, http.MethodPost, "/api/tasks", token, map[string]string{"title": "t", "dueDate": day})
		require.Equal(t, http.StatusCreated, rec.Code)
	}
	rec := f.do(t, http.MethodPost, "/api/tasks/3/complete", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = f.do(t, http.MethodGet, "/api/stats", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, models.TaskStats{Total: 3, Completed: 1, Pending: 2, Overdue: 1, DueToday: 1}, decode[models.TaskStats](t, rec))

	f.clock.Advance(48 * time.Hour)
	rec = f.do(t, http.MethodGet, "/api/stats", token, nil)
	assert.Equal(t, 2, decode[models.TaskStats](t, rec).Overdue)
}

func TestProfileEndpoints(t *testing.T) {
	f := newAPI(t)
	token := f.signup(t, "ann@x.com")

	rec := f.do(t, http.MethodGet, "/api/profile", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "CS", decode[models.AccountView](t, rec).Major)

	rec = f.do(t, http.MethodPut, "/api/profile", token, map[string]string{"major": "Math", "firstName": ""})
	require.Equal(t, http.StatusOK, rec.Code)
	view := decode[models.AccountView](t, rec)
	assert.Equal(t, "Math", view.Major)
	assert.Equal(t, "Ann", view.FirstName)

	rec = f.do(t, http.MethodPost, "/api/profile/password", token, map[string]string{"oldPassword": "nope", "newPassword": "secret2"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	rec = f.do(t, http.MethodPost, "/api/profile/password", token, map[string]string{"oldPassword": "secret1", "newPassword": "123"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	rec = f.do(t, http.MethodPost, "/api/profile/password", token, map[string]string{"oldPassword": "secret1", "newPassword": "secret2"})
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = f.do(t, http.MethodPost, "/api/login", "", map[string]string{"email": "ann@x.com", "password": "secret2"})
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = f.do(t, http.MethodPost, "/api/profile/deactivate", token, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = f.do(t, http.MethodGet, "/api/profile", token, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code, "tokens of deactivated accounts stop working")

	rec = f.do(t, http.MethodPost, "/api/login", "", map[string]string{"email": "ann@x.com", "password": "secret2"})
	assert.Equal(t, http.StatusForbidden, rec.Code)
}
