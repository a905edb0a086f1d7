package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/dmitrijs2005/smarttask/internal/models"
	"github.com/dmitrijs2005/smarttask/internal/services"
)

var errUsage = errors.New("missing argument, see 'help'")

func (a *App) List(ctx context.Context, args []string) error {
	status, err := services.ParseStatus(strings.Join(args, " "))
	if err != nil {
		return err
	}
	a.printTasks(a.tasks.Query(ctx, a.email, services.Filter{Status: status}))
	return nil
}

func (a *App) Add(ctx context.Context) error {
	title, err := a.ask("Title")
	if err != nil {
		return err
	}
	description, err := GetMultiline(a.reader, "Description", a.out)
	if err != nil {
		return err
	}
	category, err := a.ask("Category")
	if err != nil {
		return err
	}
	priority, err := a.ask("Priority (high, medium, low) [medium]")
	if err != nil {
		return err
	}
	date, err := a.ask("Due date (YYYY-MM-DD)")
	if err != nil {
		return err
	}
	clock, err := a.ask("Due time (HH:MM) [23:59:59]")
	if err != nil {
		return err
	}

	dueAt, err := models.ParseDue(date, clock)
	if err != nil {
		return err
	}

	t, err := a.tasks.AddTask(ctx, services.NewTask{
		Title:       title,
		Description: description,
		Category:    category,
		Priority:    models.Priority(priority),
		DueAt:       dueAt,
		OwnerEmail:  a.email,
	})
	if err != nil {
		return err
	}
	a.say("Added task #%d", t.ID)
	return nil
}

// Edit prompts for each field showing the current value; blank answers keep it.
func (a *App) Edit(ctx context.Context, args []string) error {
	current, err := a.ownedTask(ctx, args)
	if err != nil {
		return err
	}

	var patch services.TaskPatch
	for _, f := range []struct {
		prompt string
		dst    **string
	}{
		{fmt.Sprintf("Title [%s]", current.Title), &patch.Title},
		{fmt.Sprintf("Description [%s]", current.Description), &patch.Description},
		{fmt.Sprintf("Category [%s]", current.Category), &patch.Category},
	} {
		v, err := a.ask(f.prompt)
		if err != nil {
			return err
		}
		if v != "" {
			*f.dst = &v
		}
	}

	priority, err := a.ask(fmt.Sprintf("Priority [%s]", current.Priority.Value()))
	if err != nil {
		return err
	}
	if priority != "" {
		p := models.Priority(priority)
		patch.Priority = &p
	}

	date, err := a.ask(fmt.Sprintf("Due date [%s]", current.DueAt.Format(time.DateOnly)))
	if err != nil {
		return err
	}
	clock, err := a.ask(fmt.Sprintf("Due time [%s]", current.DueAt.Format(time.TimeOnly)))
	if err != nil {
		return err
	}
	if date != "" || clock != "" {
		if date == "" {
			date = current.DueAt.Format(time.DateOnly)
		}
		if clock == "" {
			clock = current.DueAt.Format(time.TimeOnly)
		}
		dueAt, err := models.ParseDue(date, clock)
		if err != nil {
			return err
		}
		patch.DueAt = &dueAt
	}

	if _, err := a.tasks.UpdateTask(ctx, current.ID, patch); err != nil {
		return err
	}
	a.say("Updated task #%d", current.ID)
	return nil
}

func (a *App) Delete(ctx context.Context, args []string) error {
	current, err := a.ownedTask(ctx, args)
	if err != nil {
		return err
	}
	answer, err := a.ask(fmt.Sprintf("Delete %q? (y/N)", current.Title))
	if err != nil {
		return err
	}
	if !strings.EqualFold(answer, "y") && !strings.EqualFold(answer, "yes") {
		a.say("Cancelled")
		return nil
	}
	if err := a.tasks.DeleteTask(ctx, current.ID); err != nil {
		return err
	}
	a.say("Deleted task #%d", current.ID)
	return nil
}

func (a *App) Complete(ctx context.Context, args []string) error {
	return a.transition(ctx, args, a.tasks.MarkCompleted)
}

func (a *App) Pending(ctx context.Context, args []string) error {
	return a.transition(ctx, args, a.tasks.MarkPending)
}

func (a *App) transition(ctx context.Context, args []string, apply func(context.Context, int64) (models.Task, error)) error {
	current, err := a.ownedTask(ctx, args)
	if err != nil {
		return err
	}
	t, err := apply(ctx, current.ID)
	if err != nil {
		return err
	}
	a.say("Task #%d is now %s", t.ID, a.state(t))
	return nil
}

func (a *App) Category(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errUsage
	}
	a.printTasks(a.tasks.ByCategory(ctx, a.email, strings.Join(args, " ")))
	return nil
}

func (a *App) Priority(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errUsage
	}
	p, err := services.ParsePriorityFilter(args[0])
	if err != nil {
		return err
	}
	a.printTasks(a.tasks.ByPriority(ctx, a.email, p))
	return nil
}

func (a *App) Overdue(ctx context.Context) error {
	a.printTasks(a.tasks.Overdue(ctx, a.email))
	return nil
}

func (a *App) Today(ctx context.Context) error {
	a.printTasks(a.tasks.DueToday(ctx, a.email))
	return nil
}

func (a *App) Search(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errUsage
	}
	a.printTasks(a.tasks.SearchByTitle(ctx, a.email, strings.Join(args, " ")))
	return nil
}

func (a *App) Sort(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errUsage
	}
	order, err := services.ParseSortOrder(args[0])
	if err != nil {
		return err
	}
	a.printTasks(a.tasks.Query(ctx, a.email, services.Filter{Sort: order}))
	return nil
}

func (a *App) Stats(ctx context.Context) error {
	st := a.tasks.Stats(ctx, a.email)
	a.say("Total:     %d", st.Total)
	a.say("Completed: %d", st.Completed)
	a.say("Pending:   %d", st.Pending)
	a.say("Overdue:   %d", st.Overdue)
	a.say("Due today: %d", st.DueToday)
	return nil
}

// ownedTask resolves the id argument to a task of the logged-in account.
func (a *App) ownedTask(ctx context.Context, args []string) (models.Task, error) {
	if len(args) == 0 {
		return models.Task{}, errUsage
	}
	id, err := strconv.ParseInt(strings.TrimPrefix(args[0], "#"), 10, 64)
	if err != nil {
		return models.Task{}, fmt.Errorf("invalid task id %q", args[0])
	}
	return a.tasks.OwnedTask(ctx, a.email, id)
}

func (a *App) state(t models.Task) string {
	now := a.tasks.Now()
	switch {
	case t.Completed:
		return "completed"
	case t.IsOverdue(now):
		return "overdue"
	case t.IsDueToday(now):
		return "due today"
	default:
		return "pending"
	}
}

func (a *App) printTasks(ts []models.Task) {
	if len(ts) == 0 {
		a.say("No tasks")
		return
	}
	w := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTITLE\tCATEGORY\tPRIORITY\tDUE\tSTATUS")
	for _, t := range ts {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\n",
			t.ID, t.Title, t.Category, t.Priority.Value(), models.FormatTime(t.DueAt), a.state(t))
	}
	w.Flush()
}
