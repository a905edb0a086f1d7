package codec

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/smarttask/internal/models"
)

// TaskFields is the minimum number of fields in a task line:
//
//	id|title|description|category|priority|dueDate|completed|createdAt|completedAt|ownerEmail
const TaskFields = 10

func EncodeTask(t models.Task) string {
	return join(
		strconv.FormatInt(t.ID, 10),
		t.Title,
		t.Description,
		t.Category,
		t.Priority.Value(),
		formatTime(t.DueAt),
		formatBool(t.Completed),
		formatTime(t.CreatedAt),
		formatOptionalTime(t.CompletedAt),
		t.OwnerEmail,
	)
}

func DecodeTask(line string) (models.Task, error) {
	f, err := fieldsOf(line, TaskFields)
	if err != nil {
		return models.Task{}, err
	}

	id, err := strconv.ParseInt(strings.TrimSpace(f[0]), 10, 64)
	if err != nil {
		return models.Task{}, fmt.Errorf("id: %w", err)
	}
	if id <= 0 {
		return models.Task{}, fmt.Errorf("id: %d is not positive", id)
	}
	due, err := parseTime("dueDate", f[5])
	if err != nil {
		return models.Task{}, err
	}
	createdAt, err := parseTime("createdAt", f[7])
	if err != nil {
		return models.Task{}, err
	}
	completedAt, err := parseOptionalTime("completedAt", f[8])
	if err != nil {
		return models.Task{}, err
	}

	return models.Task{
		ID:          id,
		Title:       f[1],
		Description: f[2],
		Category:    f[3],
		Priority:    models.ParsePriority(f[4]),
		DueAt:       due,
		Completed:   parseBool(f[6]),
		CreatedAt:   createdAt,
		CompletedAt: completedAt,
		OwnerEmail:  f[9],
	}, nil
}

func EncodeTasks(tasks []models.Task) []string {
	lines := make([]string, 0, len(tasks))
	for _, t := range tasks {
		lines = append(lines, EncodeTask(t))
	}
	return lines
}

// DecodeTasks decodes every non-blank line, collecting the ones that fail.
func DecodeTasks(lines []string) ([]models.Task, []Corrupt) {
	tasks := make([]models.Task, 0, len(lines))
	var corrupt []Corrupt
	for i, line := range lines {
		if isBlank(line) {
			continue
		}
		t, err := DecodeTask(line)
		if err != nil {
			corrupt = append(corrupt, Corrupt{Line: i + 1, Raw: line, Err: err})
			continue
		}
		tasks = append(tasks, t)
	}
	return tasks, corrupt
}
