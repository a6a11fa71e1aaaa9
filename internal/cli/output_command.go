package cli

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/natefinch/atomic"

	"todo-list/internal/domain"
	"todo-list/internal/errors"
	"todo-list/internal/logging"
)

// OutputOptions holds the flags of the output command
type OutputOptions struct {
	File string
}

// OutputCommand handles the output command
type OutputCommand struct {
	app *App
}

// NewOutputCommand creates a new output command handler
func NewOutputCommand(app *App) *OutputCommand {
	return &OutputCommand{app: app}
}

// exportedTask is the JSON shape of one exported task
type exportedTask struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Completed bool   `json:"completed"`
	Reminder  string `json:"reminder"`
	Note      string `json:"note,omitempty"`
}

// Execute exports every task. args may hold "format=csv" or "format=json";
// without it the configured default format is used.
func (c *OutputCommand) Execute(ctx context.Context, args []string, opts OutputOptions) error {
	format, err := c.parseFormat(args)
	if err != nil {
		return err
	}

	tasks, err := c.app.api.ListTasks(ctx)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	switch format {
	case "csv":
		err = writeCSV(&buf, tasks)
	case "json":
		err = writeJSON(&buf, tasks)
	}
	if err != nil {
		return err
	}

	if opts.File == "" {
		_, err = io.Copy(c.app.out, &buf)
		return err
	}

	if err := atomic.WriteFile(opts.File, &buf); err != nil {
		return fmt.Errorf("failed to write %s: %w", opts.File, err)
	}
	logging.Debugf("output: wrote %d tasks to %s\n", len(tasks), opts.File)
	c.app.printf("Exported %d tasks to %s\n", len(tasks), opts.File)
	return nil
}

func (c *OutputCommand) parseFormat(args []string) (string, error) {
	if len(args) == 0 {
		return c.app.config.Commands.OutputDefaultFormat, nil
	}
	if len(args) > 1 {
		return "", errors.NewInvalidInputError("command", "output", "usage: todo output [format=csv|json] [--file path]")
	}

	if !strings.HasPrefix(args[0], "format=") {
		return "", errors.NewInvalidInputError("format", args[0], "invalid format option, expected format=csv or format=json")
	}
	format := strings.TrimPrefix(args[0], "format=")
	switch format {
	case "csv", "json":
		return format, nil
	default:
		return "", errors.NewInvalidInputError("format", format, "unsupported format")
	}
}

func writeCSV(w io.Writer, tasks []domain.Task) error {
	writer := csv.NewWriter(w)

	if err := writer.Write([]string{"ID", "Name", "Completed", "Reminder", "Note"}); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	for _, task := range tasks {
		row := []string{
			strconv.FormatInt(task.ID, 10),
			task.Name,
			strconv.FormatBool(task.IsCompleted),
			task.ReminderAt().Format(time.RFC3339),
			task.Note,
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	writer.Flush()
	return writer.Error()
}

func writeJSON(w io.Writer, tasks []domain.Task) error {
	out := make([]exportedTask, 0, len(tasks))
	for _, task := range tasks {
		out = append(out, exportedTask{
			ID:        task.ID,
			Name:      task.Name,
			Completed: task.IsCompleted,
			Reminder:  task.ReminderAt().Format(time.RFC3339),
			Note:      task.Note,
		})
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(out)
}
