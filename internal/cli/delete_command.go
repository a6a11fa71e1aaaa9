package cli

import (
	"context"

	"todo-list/internal/api"
	"todo-list/internal/errors"
)

// DeleteCommand handles the delete command
type DeleteCommand struct {
	app *App
}

// NewDeleteCommand creates a new delete command handler
func NewDeleteCommand(app *App) *DeleteCommand {
	return &DeleteCommand{app: app}
}

// Execute deletes the task named in args
func (c *DeleteCommand) Execute(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errors.NewInvalidInputError("command", "delete", "usage: todo delete <id>")
	}
	id, err := api.ParseTaskID(args[0])
	if err != nil {
		return err
	}

	task, err := c.app.api.GetTask(ctx, id)
	if err != nil {
		return err
	}
	if err := c.app.api.DeleteTask(ctx, id); err != nil {
		return err
	}

	c.app.printf("Deleted task %d: %s\n", task.ID, task.Name)
	return nil
}
