package services

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/dmitrijs2005/smarttask/internal/common"
	"github.com/dmitrijs2005/smarttask/internal/logging"
	"github.com/dmitrijs2005/smarttask/internal/models"
	"github.com/dmitrijs2005/smarttask/internal/repositories/accounts"
	"github.com/dmitrijs2005/smarttask/internal/repositories/tasks"
	"github.com/dmitrijs2005/smarttask/internal/timex"
)

// NewTask carries the caller-supplied fields of a task. An empty Priority
// means MEDIUM.
type NewTask struct {
	Title       string
	Description string
	Category    string
	Priority    models.Priority
	DueAt       time.Time
	OwnerEmail  string
}

// TaskPatch holds optional new values. A nil field is left unchanged and a
// blank title is ignored.
type TaskPatch struct {
	Title       *string
	Description *string
	Category    *string
	Priority    *models.Priority
	DueAt       *time.Time
}

// TaskService implements task mutations and the owner-scoped queries. Every
// time-dependent predicate reads the injected clock at call time.
type TaskService struct {
	tasks    tasks.Repository
	accounts accounts.Repository
	clock    timex.Clock
	log      logging.Logger
}

func NewTaskService(tasks tasks.Repository, accounts accounts.Repository, clock timex.Clock, log logging.Logger) *TaskService {
	return &TaskService{
		tasks:    tasks,
		accounts: accounts,
		clock:    clock,
		log:      log.With("service", "tasks"),
	}
}

func (s *TaskService) Now() time.Time {
	return s.clock.Now()
}

// AddTask validates n and stores it as a pending task created now. The owner
// must be a registered account.
func (s *TaskService) AddTask(ctx context.Context, n NewTask) (models.Task, error) {
	title := strings.TrimSpace(n.Title)
	if title == "" {
		return models.Task{}, common.ErrEmptyTitle
	}
	owner := models.NormalizeEmail(n.OwnerEmail)
	if owner == "" {
		return models.Task{}, common.ErrEmptyOwner
	}
	if n.DueAt.IsZero() {
		return models.Task{}, common.ErrMissingDueDate
	}
	account, err := s.accounts.FindByEmail(ctx, owner)
	if err != nil {
		return models.Task{}, fmt.Errorf("%w: %s", common.ErrOwnerNotFound, owner)
	}

	task, err := s.tasks.Create(ctx, models.Task{
		Title:       title,
		Description: n.Description,
		Category:    strings.TrimSpace(n.Category),
		Priority:    models.ParsePriority(string(n.Priority)),
		DueAt:       models.Stamp(n.DueAt),
		CreatedAt:   models.Stamp(s.clock.Now()),
		OwnerEmail:  account.Email,
	})
	if err != nil {
		return models.Task{}, err
	}

	s.log.Debug(ctx, "task added", "id", task.ID, "owner", task.OwnerEmail)
	return task, nil
}

func (s *TaskService) UpdateTask(ctx context.Context, id int64, p TaskPatch) (models.Task, error) {
	return s.tasks.Update(ctx, id, func(t *models.Task) error {
		if p.Title != nil {
			if title := strings.TrimSpace(*p.Title); title != "" {
				t.Title = title
			}
		}
		if p.Description != nil {
			t.Description = *p.Description
		}
		if p.Category != nil {
			t.Category = strings.TrimSpace(*p.Category)
		}
		if p.Priority != nil {
			t.Priority = models.ParsePriority(string(*p.Priority))
		}
		if p.DueAt != nil && !p.DueAt.IsZero() {
			t.DueAt = models.Stamp(*p.DueAt)
		}
		return nil
	})
}

func (s *TaskService) DeleteTask(ctx context.Context, id int64) error {
	if err := s.tasks.Delete(ctx, id); err != nil {
		return err
	}
	s.log.Debug(ctx, "task deleted", "id", id)
	return nil
}

// SetCompleted moves the task between pending and completed. Completing an
// already completed task keeps its original completion time.
func (s *TaskService) SetCompleted(ctx context.Context, id int64, completed bool) (models.Task, error) {
	now := s.clock.Now()
	return s.tasks.Update(ctx, id, func(t *models.Task) error {
		t.SetCompleted(completed, now)
		return nil
	})
}

func (s *TaskService) ToggleCompleted(ctx context.Context, id int64) (models.Task, error) {
	now := s.clock.Now()
	return s.tasks.Update(ctx, id, func(t *models.Task) error {
		t.SetCompleted(!t.Completed, now)
		return nil
	})
}

func (s *TaskService) MarkCompleted(ctx context.Context, id int64) (models.Task, error) {
	return s.SetCompleted(ctx, id, true)
}

func (s *TaskService) MarkPending(ctx context.Context, id int64) (models.Task, error) {
	return s.SetCompleted(ctx, id, false)
}

func (s *TaskService) ByID(ctx context.Context, id int64) (models.Task, error) {
	return s.tasks.Get(ctx, id)
}

// OwnedTask returns the task only if owner owns it; otherwise it reports
// ErrorNotFound so other accounts' ids stay hidden.
func (s *TaskService) OwnedTask(ctx context.Context, owner string, id int64) (models.Task, error) {
	t, err := s.tasks.Get(ctx, id)
	if err != nil {
		return models.Task{}, err
	}
	if !t.OwnedBy(owner) {
		return models.Task{}, common.ErrorNotFound
	}
	return t, nil
}

// ByOwner returns the owner's tasks in collection order.
func (s *TaskService) ByOwner(ctx context.Context, owner string) []models.Task {
	return s.filter(ctx, owner, nil)
}

func (s *TaskService) ByCategory(ctx context.Context, owner, category string) []models.Task {
	category = strings.TrimSpace(category)
	return s.filter(ctx, owner, func(t models.Task) bool {
		return strings.EqualFold(t.Category, category)
	})
}

// ByPriority matches p case-insensitively. A value that names no priority
// matches nothing.
func (s *TaskService) ByPriority(ctx context.Context, owner string, p models.Priority) []models.Task {
	want := models.Priority(strings.ToUpper(strings.TrimSpace(string(p))))
	return s.filter(ctx, owner, func(t models.Task) bool { return t.Priority == want })
}

func (s *TaskService) Completed(ctx context.Context, owner string) []models.Task {
	return s.filter(ctx, owner, func(t models.Task) bool { return t.Completed })
}

func (s *TaskService) Pending(ctx context.Context, owner string) []models.Task {
	return s.filter(ctx, owner, func(t models.Task) bool { return !t.Completed })
}

func (s *TaskService) Overdue(ctx context.Context, owner string) []models.Task {
	now := s.clock.Now()
	return s.filter(ctx, owner, func(t models.Task) bool { return t.IsOverdue(now) })
}

// DueToday lists pending tasks due on the current calendar day.
func (s *TaskService) DueToday(ctx context.Context, owner string) []models.Task {
	now := s.clock.Now()
	return s.filter(ctx, owner, func(t models.Task) bool { return !t.Completed && t.IsDueToday(now) })
}

// SearchByTitle matches term as a case-insensitive substring of the title.
// An empty term matches every task.
func (s *TaskService) SearchByTitle(ctx context.Context, owner, term string) []models.Task {
	term = strings.ToLower(term)
	return s.filter(ctx, owner, func(t models.Task) bool {
		return strings.Contains(strings.ToLower(t.Title), term)
	})
}

func (s *TaskService) SortedByDueDate(ctx context.Context, owner string, ascending bool) []models.Task {
	out := s.ByOwner(ctx, owner)
	sortByDue(out, ascending)
	return out
}

// SortedByPriority orders HIGH before MEDIUM before LOW, keeping collection
// order within a priority.
func (s *TaskService) SortedByPriority(ctx context.Context, owner string) []models.Task {
	out := s.ByOwner(ctx, owner)
	sortByPriority(out)
	return out
}

// Stats counts the owner's tasks at the current instant.
func (s *TaskService) Stats(ctx context.Context, owner string) models.TaskStats {
	now := s.clock.Now()
	var st models.TaskStats
	for _, t := range s.ByOwner(ctx, owner) {
		st.Total++
		if t.Completed {
			st.Completed++
		}
		if t.IsOverdue(now) {
			st.Overdue++
		}
		if !t.Completed && t.IsDueToday(now) {
			st.DueToday++
		}
	}
	st.Pending = st.Total - st.Completed
	return st
}

func (s *TaskService) filter(ctx context.Context, owner string, keep func(models.Task) bool) []models.Task {
	all := s.tasks.List(ctx)
	out := make([]models.Task, 0, len(all))
	for _, t := range all {
		if !t.OwnedBy(owner) {
			continue
		}
		if keep != nil && !keep(t) {
			continue
		}
		out = append(out, t)
	}
	return out
}

func sortByDue(ts []models.Task, ascending bool) {
	slices.SortStableFunc(ts, func(a, b models.Task) int {
		c := a.DueAt.Compare(b.DueAt)
		if !ascending {
			c = -c
		}
		return c
	})
}

func sortByPriority(ts []models.Task) {
	slices.SortStableFunc(ts, func(a, b models.Task) int {
		return a.Priority.Rank() - b.Priority.Rank()
	})
}
