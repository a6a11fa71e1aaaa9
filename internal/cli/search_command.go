package cli

import (
	"context"
	"strings"

	"todo-list/internal/errors"
)

// SearchCommand handles the search command
type SearchCommand struct {
	app *App
}

// NewSearchCommand creates a new search command handler
func NewSearchCommand(app *App) *SearchCommand {
	return &SearchCommand{app: app}
}

// Execute asks the store for tasks whose name or note contains the text in
// args, narrowed by the filter.
func (c *SearchCommand) Execute(ctx context.Context, args []string, opts ListOptions) error {
	query := strings.Join(args, " ")
	if strings.TrimSpace(query) == "" {
		return errors.NewInvalidInputError("query", query, "usage: todo search <text>")
	}

	mode, err := c.app.filterMode(opts.Filter)
	if err != nil {
		return err
	}
	format, err := c.app.listFormat(opts.Format)
	if err != nil {
		return err
	}

	tasks, err := c.app.api.SearchTasks(ctx, query, mode)
	if err != nil {
		return err
	}
	return c.app.printTasks(tasks, format)
}
