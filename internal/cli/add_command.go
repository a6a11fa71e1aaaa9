package cli

import (
	"context"
	"strings"
)

// AddOptions holds the flags of the add command
type AddOptions struct {
	Note string
	At   string
	In   string
}

// AddCommand handles the add command
type AddCommand struct {
	app *App
}

// NewAddCommand creates a new add command handler
func NewAddCommand(app *App) *AddCommand {
	return &AddCommand{app: app}
}

// Execute creates a task named by args
func (c *AddCommand) Execute(ctx context.Context, args []string, opts AddOptions) error {
	reminder, err := c.app.parseReminder(opts.At, opts.In)
	if err != nil {
		return err
	}

	task, err := c.app.api.CreateTask(ctx, strings.Join(args, " "), opts.Note, reminder)
	if err != nil {
		return err
	}

	c.app.printf("Added task %d: %s (reminder %s)\n", task.ID, task.Name, c.app.formatReminder(task.ReminderTime))
	return nil
}
