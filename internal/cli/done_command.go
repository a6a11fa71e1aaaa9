package cli

import (
	"context"

	"todo-list/internal/api"
	"todo-list/internal/errors"
)

// DoneCommand handles the done command
type DoneCommand struct {
	app *App
}

// NewDoneCommand creates a new done command handler
func NewDoneCommand(app *App) *DoneCommand {
	return &DoneCommand{app: app}
}

// Execute flips the completion flag of each task named in args
func (c *DoneCommand) Execute(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errors.NewInvalidInputError("command", "done", "usage: todo done <id>...")
	}

	ids := make([]int64, 0, len(args))
	for _, arg := range args {
		id, err := api.ParseTaskID(arg)
		if err != nil {
			return err
		}
		ids = append(ids, id)
	}

	for _, id := range ids {
		task, err := c.app.api.ToggleTask(ctx, id)
		if err != nil {
			return err
		}
		if task.IsCompleted {
			c.app.printf("Completed task %d: %s\n", task.ID, task.Name)
		} else {
			c.app.printf("Reopened task %d: %s\n", task.ID, task.Name)
		}
	}
	return nil
}
