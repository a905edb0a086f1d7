package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/smarttask/internal/common"
	"github.com/dmitrijs2005/smarttask/internal/models"
)

// Status narrows a query by completion state or due time.
type Status string

const (
	StatusAll       Status = ""
	StatusPending   Status = "pending"
	StatusCompleted Status = "completed"
	StatusOverdue   Status = "overdue"
	StatusDueToday  Status = "due-today"
)

// SortOrder selects the order of query results. SortNone keeps collection
// order.
type SortOrder string

const (
	SortNone     SortOrder = ""
	SortDueAsc   SortOrder = "due"
	SortDueDesc  SortOrder = "due-desc"
	SortPriority SortOrder = "priority"
)

// Filter combines the single-purpose queries. Zero fields do not restrict.
type Filter struct {
	Category string
	Priority models.Priority
	Status   Status
	Term     string
	Sort     SortOrder
}

func ParseStatus(s string) (Status, error) {
	switch st := Status(strings.ToLower(strings.TrimSpace(s))); st {
	case StatusAll, StatusPending, StatusCompleted, StatusOverdue, StatusDueToday:
		return st, nil
	case "all":
		return StatusAll, nil
	case "today":
		return StatusDueToday, nil
	default:
		return "", fmt.Errorf("%w: status %q", common.ErrInvalidFilter, s)
	}
}

func ParseSortOrder(s string) (SortOrder, error) {
	switch so := SortOrder(strings.ToLower(strings.TrimSpace(s))); so {
	case SortNone, SortDueAsc, SortDueDesc, SortPriority:
		return so, nil
	case "due-asc":
		return SortDueAsc, nil
	default:
		return "", fmt.Errorf("%w: sort %q", common.ErrInvalidFilter, s)
	}
}

// ParsePriorityFilter is strict, unlike models.ParsePriority: an unknown
// label is an error rather than MEDIUM. Empty means any priority.
func ParsePriorityFilter(s string) (models.Priority, error) {
	switch p := models.Priority(strings.ToUpper(strings.TrimSpace(s))); p {
	case "", models.PriorityHigh, models.PriorityMedium, models.PriorityLow:
		return p, nil
	default:
		return "", fmt.Errorf("%w: priority %q", common.ErrInvalidFilter, s)
	}
}

// Query returns the owner's tasks matching every set field of f, in the
// requested order.
func (s *TaskService) Query(ctx context.Context, owner string, f Filter) []models.Task {
	now := s.clock.Now()
	category := strings.TrimSpace(f.Category)
	term := strings.ToLower(f.Term)

	out := s.filter(ctx, owner, func(t models.Task) bool {
		if category != "" && !strings.EqualFold(t.Category, category) {
			return false
		}
		if f.Priority != "" && t.Priority != f.Priority {
			return false
		}
		if term != "" && !strings.Contains(strings.ToLower(t.Title), term) {
			return false
		}
		switch f.Status {
		case StatusPending:
			return !t.Completed
		case StatusCompleted:
			return t.Completed
		case StatusOverdue:
			return t.IsOverdue(now)
		case StatusDueToday:
			return !t.Completed && t.IsDueToday(now)
		}
		return true
	})

	switch f.Sort {
	case SortDueAsc:
		sortByDue(out, true)
	case SortDueDesc:
		sortByDue(out, false)
	case SortPriority:
		sortByPriority(out)
	}
	return out
}
