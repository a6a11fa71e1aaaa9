package cli

import (
	"context"
	"io"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"todo-list/internal/api"
	"todo-list/internal/config"
	"todo-list/internal/logging"
	"todo-list/internal/ui"
)

// Opener builds the backend for a loaded configuration
type Opener func(ctx context.Context, cfg *config.Config) (api.API, error)

// RootCommand represents the base command when called without any subcommands
type RootCommand struct {
	cmd    *cobra.Command
	open   Opener
	config *config.Config
	api    api.API
	app    *App
}

// NewRootCommand creates the root cobra command with global flags.
// A nil opener means api.Open.
func NewRootCommand(open Opener) *RootCommand {
	if open == nil {
		open = api.Open
	}
	root := &RootCommand{open: open}

	root.cmd = &cobra.Command{
		Use:   "todo",
		Short: "A command-line to-do list",
		Long: `todo keeps a list of tasks, each with a reminder time and an optional note.

EXAMPLES:
  todo add Buy milk                        # Add a task reminding in an hour, on the hour
  todo add Pay rent --note urgent --in 2d  # Add a task with a note, reminding in two days
  todo list                                # Show every task and the total count
  todo list --filter completed             # Show completed tasks only
  todo list milk                           # Show tasks whose name or note contains "milk"
  todo search urg --filter uncompleted     # Search the store for open tasks mentioning "urg"
  todo done 3                              # Mark task 3 completed (again to reopen)
  todo edit 3 --name "Pay the rent"        # Rename task 3
  todo delete 3                            # Delete task 3
  todo output format=json --file todo.json # Export every task
  todo browse                              # Interactive browser

CONFIGURATION:
  Configuration follows this priority order:
  command-line flags > environment variables > config file > defaults

  The config file is JSON with comments, read from $TODO_CONFIG or
  $XDG_CONFIG_HOME/todo/config.json (~/.config/todo/config.json).

  Database Configuration:
    TODO_DB_DIR                            Database directory (default: ~/.todo)
    TODO_DB_FILENAME                       Database filename (default: todo.db)
    TODO_DB_QUERY_TIMEOUT                  Query timeout (default: 10s)
    TODO_DB_WRITE_TIMEOUT                  Write timeout (default: 5s)

  Time Configuration:
    TODO_TIME_DISPLAY_FORMAT               Reminder display format (default: 2006-01-02 15:04)
    TODO_TIME_INPUT_FORMAT                 Format accepted by --at (default: 2006-01-02 15:04)
    TODO_TIME_DEFAULT_REMINDER_OFFSET      Default reminder offset (default: 1h)

  Validation Configuration:
    TODO_VALIDATION_TASK_NAME_MIN          Min task name length (default: 1)
    TODO_VALIDATION_TASK_NAME_MAX          Max task name length (default: 255)
    TODO_VALIDATION_NOTE_MAX               Max note length (default: 2000)

  Display Configuration:
    TODO_DISPLAY_DEFAULT_FILTER            Default filter (default: all)
    TODO_DISPLAY_SHOW_NOTES                Show notes in lists (default: true)

  Application Configuration:
    TODO_APP_TIMEOUT                       Command timeout (default: 60s)
    TODO_APP_VERBOSE                       Enable verbose output (default: false)
    TODO_DEBUG                             Print debug output to stderr

  Command Configuration:
    TODO_LIST_DEFAULT_FORMAT               Default list format: table or plain (default: table)
    TODO_OUTPUT_DEFAULT_FORMAT             Default output format: csv or json (default: csv)

TIME FORMATS:
  --in accepts shorthands: 30m, 2h, 1d, 2w, 3mo, 1y

GETTING HELP:
  todo [command] --help                    # Get help for any specific command
  todo completion bash                     # Generate bash completion script`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return root.setup(cmd)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	root.addGlobalFlags()
	root.addSubcommands()

	return root
}

// SetOutput redirects command output, mainly for tests
func (r *RootCommand) SetOutput(w io.Writer) {
	r.cmd.SetOut(w)
	r.cmd.SetErr(w)
}

// Execute runs the command line in args and closes the backend afterwards.
// The returned error carries the user-facing message.
func (r *RootCommand) Execute(ctx context.Context, args []string) error {
	r.cmd.SetArgs(args)
	err := r.cmd.ExecuteContext(ctx)

	if r.api != nil {
		if closeErr := r.api.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
		r.api = nil
	}

	return NewErrorHandler().HandleSimple(err)
}

// setup loads configuration, applies flag overrides and opens the backend
func (r *RootCommand) setup(cmd *cobra.Command) error {
	if cmd == r.cmd || cmd.Name() == "help" || (cmd.HasParent() && cmd.Parent().Name() == "completion") {
		return nil
	}

	cfg, err := config.NewLoader().LoadWithOverrides(overridesFromFlags(cmd.Flags()))
	if err != nil {
		return err
	}
	r.config = cfg
	logging.Enable(cfg.Application.Verbose)

	ctx, cancel := context.WithTimeout(cmd.Context(), cfg.Application.Timeout)
	defer cancel()

	r.api, err = r.open(ctx, cfg)
	if err != nil {
		return err
	}

	r.app = NewAppWithConfig(r.api, cfg)
	r.app.SetOutput(cmd.OutOrStdout())
	return nil
}

// addGlobalFlags adds global configuration flags
func (r *RootCommand) addGlobalFlags() {
	flags := r.cmd.PersistentFlags()

	// Database configuration
	flags.String("db-dir", "", "Database directory (overrides TODO_DB_DIR)")
	flags.String("db-filename", "", "Database filename (overrides TODO_DB_FILENAME)")
	flags.Duration("db-query-timeout", 0, "Database query timeout (overrides TODO_DB_QUERY_TIMEOUT)")
	flags.Duration("db-write-timeout", 0, "Database write timeout (overrides TODO_DB_WRITE_TIMEOUT)")

	// Time configuration
	flags.String("time-format", "", "Reminder display format (overrides TODO_TIME_DISPLAY_FORMAT)")
	flags.String("input-format", "", "Format accepted by --at (overrides TODO_TIME_INPUT_FORMAT)")
	flags.Duration("reminder-offset", 0, "Default reminder offset (overrides TODO_TIME_DEFAULT_REMINDER_OFFSET)")

	// Validation configuration
	flags.Int("task-name-min-length", 0, "Minimum task name length (overrides TODO_VALIDATION_TASK_NAME_MIN)")
	flags.Int("task-name-max-length", 0, "Maximum task name length (overrides TODO_VALIDATION_TASK_NAME_MAX)")
	flags.Int("note-max-length", 0, "Maximum note length (overrides TODO_VALIDATION_NOTE_MAX)")

	// Display configuration
	flags.String("default-filter", "", "Default filter: all, completed or uncompleted (overrides TODO_DISPLAY_DEFAULT_FILTER)")
	flags.Bool("show-notes", true, "Show notes in lists (overrides TODO_DISPLAY_SHOW_NOTES)")

	// Application configuration
	flags.Duration("app-timeout", 0, "Command timeout (overrides TODO_APP_TIMEOUT)")
	flags.Bool("verbose", false, "Enable verbose output (overrides TODO_APP_VERBOSE)")
	flags.String("env", "", "Environment: production or testing (overrides TODO_ENV)")

	// Commands configuration
	flags.String("list-format", "", "Default list format (overrides TODO_LIST_DEFAULT_FORMAT)")
	flags.String("output-format", "", "Default output format (overrides TODO_OUTPUT_DEFAULT_FORMAT)")
}

// overridesFromFlags collects the global flags the user actually set
func overridesFromFlags(flags *pflag.FlagSet) *config.ConfigOverrides {
	o := &config.ConfigOverrides{}

	str := func(name string) *string {
		if !flags.Changed(name) {
			return nil
		}
		v, _ := flags.GetString(name)
		return &v
	}
	dur := func(name string) *time.Duration {
		if !flags.Changed(name) {
			return nil
		}
		v, _ := flags.GetDuration(name)
		return &v
	}
	num := func(name string) *int {
		if !flags.Changed(name) {
			return nil
		}
		v, _ := flags.GetInt(name)
		return &v
	}
	boolean := func(name string) *bool {
		if !flags.Changed(name) {
			return nil
		}
		v, _ := flags.GetBool(name)
		return &v
	}

	o.DBDir = str("db-dir")
	o.DBFilename = str("db-filename")
	o.DBQueryTimeout = dur("db-query-timeout")
	o.DBWriteTimeout = dur("db-write-timeout")
	o.TimeFormat = str("time-format")
	o.InputFormat = str("input-format")
	o.ReminderOffset = dur("reminder-offset")
	o.TaskNameMinLength = num("task-name-min-length")
	o.TaskNameMaxLength = num("task-name-max-length")
	o.NoteMaxLength = num("note-max-length")
	o.DefaultFilter = str("default-filter")
	o.ShowNotes = boolean("show-notes")
	o.Timeout = dur("app-timeout")
	o.Verbose = boolean("verbose")
	o.Environment = str("env")
	o.ListDefaultFormat = str("list-format")
	o.OutputDefaultFormat = str("output-format")

	return o
}

// commandContext bounds a non-interactive command by the configured timeout
func (r *RootCommand) commandContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	return context.WithTimeout(cmd.Context(), r.config.Application.Timeout)
}

// addSubcommands adds all CLI subcommands to the root command
func (r *RootCommand) addSubcommands() {
	var addOpts AddOptions
	addCmd := &cobra.Command{
		Use:   "add <name...>",
		Short: "Add a task",
		Long: `Add a task. The words of the name may be given without quotes.

Without --at or --in the reminder is one hour from now, on the hour.

Examples:
  todo add Buy milk
  todo add "Pay rent" --note "before the 5th" --at "2024-03-01 09:00"
  todo add Call mum --in 3h`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := r.commandContext(cmd)
			defer cancel()
			return NewAddCommand(r.app).Execute(ctx, args, addOpts)
		},
	}
	addCmd.Flags().StringVar(&addOpts.Note, "note", "", "Optional note")
	addCmd.Flags().StringVar(&addOpts.At, "at", "", `Reminder time, e.g. "2024-03-01 09:00"`)
	addCmd.Flags().StringVar(&addOpts.In, "in", "", "Reminder offset from now, e.g. 30m, 2h, 1d")

	var editOpts EditOptions
	var editName, editNote string
	var editCompleted bool
	editCmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Change a task",
		Long: `Change the name, note, reminder or completion of a task.
Only the flags given are changed.

Examples:
  todo edit 3 --name "Pay the rent"
  todo edit 3 --note "" --in 1d
  todo edit 3 --completed=false`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := r.commandContext(cmd)
			defer cancel()
			opts := editOpts
			if cmd.Flags().Changed("name") {
				opts.Name = &editName
			}
			if cmd.Flags().Changed("note") {
				opts.Note = &editNote
			}
			if cmd.Flags().Changed("completed") {
				opts.Completed = &editCompleted
			}
			return NewEditCommand(r.app).Execute(ctx, args, opts)
		},
	}
	editCmd.Flags().StringVar(&editName, "name", "", "New name")
	editCmd.Flags().StringVar(&editNote, "note", "", "New note (empty clears it)")
	editCmd.Flags().StringVar(&editOpts.At, "at", "", "New reminder time")
	editCmd.Flags().StringVar(&editOpts.In, "in", "", "New reminder offset from now")
	editCmd.Flags().BoolVar(&editCompleted, "completed", false, "Set the completion flag")

	doneCmd := &cobra.Command{
		Use:   "done <id>...",
		Short: "Toggle completion of tasks",
		Long:  "Mark tasks completed. Running it on a completed task reopens it.",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := r.commandContext(cmd)
			defer cancel()
			return NewDoneCommand(r.app).Execute(ctx, args)
		},
	}

	deleteCmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a task",
		Long:  "Delete a task. This cannot be undone.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := r.commandContext(cmd)
			defer cancel()
			return NewDeleteCommand(r.app).Execute(ctx, args)
		},
	}

	var listOpts ListOptions
	listCmd := &cobra.Command{
		Use:   "list [text...]",
		Short: "List tasks",
		Long: `List tasks, earliest reminder first, followed by the total count.

Text narrows the list to tasks whose name or note contains it
(case-insensitive). --filter picks all, completed or uncompleted tasks.

Examples:
  todo list
  todo list milk
  todo list --filter uncompleted --format plain`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := r.commandContext(cmd)
			defer cancel()
			return NewListCommand(r.app).Execute(ctx, args, listOpts)
		},
	}
	addListFlags(listCmd.Flags(), &listOpts)

	var searchOpts ListOptions
	searchCmd := &cobra.Command{
		Use:   "search <text...>",
		Short: "Search tasks",
		Long: `Search the store for tasks whose name or note contains the text.

Examples:
  todo search milk
  todo search urg --filter completed`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := r.commandContext(cmd)
			defer cancel()
			return NewSearchCommand(r.app).Execute(ctx, args, searchOpts)
		},
	}
	addListFlags(searchCmd.Flags(), &searchOpts)

	var outputOpts OutputOptions
	outputCmd := &cobra.Command{
		Use:   "output [format=csv|json]",
		Short: "Export every task",
		Long: `Export every task in the specified format.

Supported formats:
  csv  - Comma-separated values
  json - JSON array

With --file the export replaces the file atomically.

Examples:
  todo output format=csv > tasks.csv
  todo output format=json --file tasks.json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := r.commandContext(cmd)
			defer cancel()
			return NewOutputCommand(r.app).Execute(ctx, args, outputOpts)
		},
	}
	outputCmd.Flags().StringVarP(&outputOpts.File, "file", "o", "", "Write to this file instead of stdout")

	browseCmd := &cobra.Command{
		Use:   "browse",
		Short: "Browse tasks interactively",
		Long: `Open an interactive browser over the task list.

Keys: j/k move, space toggles completion, n adds, d deletes,
/ searches, f cycles the filter, q quits.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ui.Run(cmd.Context(), r.api, r.config)
		},
	}

	r.cmd.AddCommand(
		addCmd,
		editCmd,
		doneCmd,
		deleteCmd,
		listCmd,
		searchCmd,
		outputCmd,
		browseCmd,
	)
}

func addListFlags(flags *pflag.FlagSet, opts *ListOptions) {
	flags.StringVarP(&opts.Filter, "filter", "f", "", "all, completed or uncompleted (default from config)")
	flags.StringVar(&opts.Format, "format", "", "table or plain (default from config)")
}
