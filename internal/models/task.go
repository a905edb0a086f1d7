package models

import (
	"strings"
	"time"
)

// Priority is one of HIGH, MEDIUM or LOW.
type Priority string

const (
	PriorityHigh   Priority = "HIGH"
	PriorityMedium Priority = "MEDIUM"
	PriorityLow    Priority = "LOW"
)

// ParsePriority maps a label to a Priority, case-insensitively. Empty or
// unknown labels become MEDIUM.
func ParsePriority(s string) Priority {
	switch Priority(strings.ToUpper(strings.TrimSpace(s))) {
	case PriorityHigh:
		return PriorityHigh
	case PriorityLow:
		return PriorityLow
	default:
		return PriorityMedium
	}
}

// Rank orders priorities: HIGH sorts before MEDIUM before LOW.
func (p Priority) Rank() int {
	switch p {
	case PriorityHigh:
		return 0
	case PriorityLow:
		return 2
	default:
		return 1
	}
}

// Value is the lower-case label stored on disk.
func (p Priority) Value() string {
	return strings.ToLower(string(ParsePriority(string(p))))
}

type Task struct {
	ID          int64
	Title       string
	Description string
	Category    string
	Priority    Priority
	DueAt       time.Time
	Completed   bool
	CreatedAt   time.Time
	CompletedAt *time.Time
	OwnerEmail  string
}

// SetCompleted applies the completion transition: false→true records now as
// the completion time unless one is already set, true→false clears it.
func (t *Task) SetCompleted(completed bool, now time.Time) {
	t.Completed = completed
	if completed {
		if t.CompletedAt == nil {
			stamp := Stamp(now)
			t.CompletedAt = &stamp
		}
		return
	}
	t.CompletedAt = nil
}

func (t Task) IsOverdue(now time.Time) bool {
	return !t.Completed && t.DueAt.Before(now)
}

func (t Task) IsDueToday(now time.Time) bool {
	dy, dm, dd := t.DueAt.In(now.Location()).Date()
	ny, nm, nd := now.Date()
	return dy == ny && dm == nm && dd == nd
}

// DaysUntilDue is the number of whole days from now to the due time,
// truncated toward zero; negative once the task is more than a day late.
func (t Task) DaysUntilDue(now time.Time) int64 {
	return int64(t.DueAt.Sub(now) / (24 * time.Hour))
}

func (t Task) OwnedBy(email string) bool {
	return SameEmail(t.OwnerEmail, email)
}

func (t Task) Clone() Task {
	if t.CompletedAt != nil {
		c := *t.CompletedAt
		t.CompletedAt = &c
	}
	return t
}

// TaskView is the transport representation of a Task, including the
// predicates derived from the clock at the moment it was built.
type TaskView struct {
	ID           int64   `json:"id"`
	Title        string  `json:"title"`
	Description  string  `json:"description"`
	Category     string  `json:"category"`
	Priority     string  `json:"priority"`
	DueDate      string  `json:"dueDate"`
	Completed    bool    `json:"completed"`
	CreatedAt    string  `json:"createdAt"`
	CompletedAt  *string `json:"completedAt"`
	OwnerEmail   string  `json:"studentEmail"`
	Overdue      bool    `json:"overdue"`
	DueToday     bool    `json:"dueToday"`
	DaysUntilDue int64   `json:"daysUntilDue"`
}

func (t Task) View(now time.Time) TaskView {
	return TaskView{
		ID:           t.ID,
		Title:        t.Title,
		Description:  t.Description,
		Category:     t.Category,
		Priority:     t.Priority.Value(),
		DueDate:      FormatTime(t.DueAt),
		Completed:    t.Completed,
		CreatedAt:    FormatTime(t.CreatedAt),
		CompletedAt:  formatOptional(t.CompletedAt),
		OwnerEmail:   t.OwnerEmail,
		Overdue:      t.IsOverdue(now),
		DueToday:     t.IsDueToday(now),
		DaysUntilDue: t.DaysUntilDue(now),
	}
}

// TaskStats summarises an owner's tasks at one instant.
type TaskStats struct {
	Total     int `json:"total"`
	Completed int `json:"completed"`
	Pending   int `json:"pending"`
	Overdue   int `json:"overdue"`
	DueToday  int `json:"dueToday"`
}

// UserStats counts registered accounts.
type UserStats struct {
	Total    int `json:"total"`
	Active   int `json:"active"`
	Inactive int `json:"inactive"`
}
