package cli

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"todo-list/internal/domain"
	"todo-list/internal/errors"
)

// ListOptions holds the flags of the list command
type ListOptions struct {
	Filter string
	Format string
}

// ListCommand handles the list command
type ListCommand struct {
	app *App
}

// NewListCommand creates a new list command handler
func NewListCommand(app *App) *ListCommand {
	return &ListCommand{app: app}
}

// Execute prints the displayed list: the tasks matching the search text in
// args and the filter, followed by the total count.
func (c *ListCommand) Execute(ctx context.Context, args []string, opts ListOptions) error {
	mode, err := c.app.filterMode(opts.Filter)
	if err != nil {
		return err
	}
	format, err := c.app.listFormat(opts.Format)
	if err != nil {
		return err
	}

	if err := c.app.api.SetFilter(mode); err != nil {
		return err
	}
	c.app.api.SetSearchQuery(strings.Join(args, " "))

	view := c.app.api.Displayed()
	return c.app.printTasks(view.Tasks, format)
}

// filterMode parses the --filter flag, falling back to the configured default
func (a *App) filterMode(flag string) (domain.FilterMode, error) {
	if flag == "" {
		return a.config.DefaultFilterMode(), nil
	}
	mode, err := domain.ParseFilterMode(flag)
	if err != nil {
		return 0, errors.NewInvalidInputError("filter", flag, "must be one of all, completed, uncompleted")
	}
	return mode, nil
}

// listFormat resolves the --format flag of list and search
func (a *App) listFormat(flag string) (string, error) {
	if flag == "" {
		flag = a.config.Commands.ListDefaultFormat
	}
	switch flag {
	case "table", "plain":
		return flag, nil
	default:
		return "", errors.NewInvalidInputError("format", flag, "must be table or plain")
	}
}

// printTasks writes tasks in the given format followed by "Total: N"
func (a *App) printTasks(tasks []domain.Task, format string) error {
	if len(tasks) == 0 {
		a.printf("No tasks found\n")
	} else if format == "plain" {
		a.printPlain(a.out, tasks)
	} else {
		a.printf("%s\n", a.renderTable(tasks))
	}
	a.printf("Total: %d\n", len(tasks))
	return nil
}

// printPlain writes one line per task: "[x] 2  2024-03-10 14:00  Pay rent"
func (a *App) printPlain(w io.Writer, tasks []domain.Task) {
	for _, task := range tasks {
		line := fmt.Sprintf("%s %d  %s  %s", checkbox(task), task.ID, a.formatReminder(task.ReminderTime), task.Name)
		if a.config.Display.ShowNotes && task.Note != "" {
			line += " - " + oneLine(task.Note)
		}
		fmt.Fprintln(w, line)
	}
}

func (a *App) renderTable(tasks []domain.Task) string {
	headers := []string{"ID", "Done", "Reminder", "Name"}
	if a.config.Display.ShowNotes {
		headers = append(headers, "Note")
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderRow(false).
		Headers(headers...).
		StyleFunc(func(row, col int) lipgloss.Style {
			style := lipgloss.NewStyle().Padding(0, 1)
			if row == table.HeaderRow {
				return style.Bold(true)
			}
			return style
		})

	for _, task := range tasks {
		row := []string{
			strconv.FormatInt(task.ID, 10),
			checkbox(task),
			a.formatReminder(task.ReminderTime),
			task.Name,
		}
		if a.config.Display.ShowNotes {
			row = append(row, oneLine(task.Note))
		}
		t.Row(row...)
	}

	return t.String()
}

func checkbox(task domain.Task) string {
	if task.IsCompleted {
		return "[x]"
	}
	return "[ ]"
}

// oneLine collapses a multi-line note for single-row output
func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
