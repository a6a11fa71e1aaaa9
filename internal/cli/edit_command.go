package cli

import (
	"context"

	"todo-list/internal/api"
	"todo-list/internal/errors"
)

// EditOptions holds the flags of the edit command. Nil pointers are flags
// that were not given.
type EditOptions struct {
	Name      *string
	Note      *string
	At        string
	In        string
	Completed *bool
}

// EditCommand handles the edit command
type EditCommand struct {
	app *App
}

// NewEditCommand creates a new edit command handler
func NewEditCommand(app *App) *EditCommand {
	return &EditCommand{app: app}
}

// Execute changes the fields of one task
func (c *EditCommand) Execute(ctx context.Context, args []string, opts EditOptions) error {
	if len(args) != 1 {
		return errors.NewInvalidInputError("command", "edit", "usage: todo edit <id> [--name] [--note] [--at|--in] [--completed]")
	}
	id, err := api.ParseTaskID(args[0])
	if err != nil {
		return err
	}

	changes := api.TaskChanges{
		Name:      opts.Name,
		Note:      opts.Note,
		Completed: opts.Completed,
	}
	if opts.At != "" || opts.In != "" {
		reminder, err := c.app.parseReminder(opts.At, opts.In)
		if err != nil {
			return err
		}
		changes.Reminder = &reminder
	}

	task, err := c.app.api.EditTask(ctx, id, changes)
	if err != nil {
		return err
	}

	c.app.printf("Updated task %d: %s %s (reminder %s)\n",
		task.ID, checkbox(task), task.Name, c.app.formatReminder(task.ReminderTime))
	return nil
}
