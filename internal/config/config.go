package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"todo-list/internal/domain"
)

// Environment names recognised by Application.Environment
const (
	EnvironmentProduction = "production"
	EnvironmentTesting    = "testing"
)

// Config holds all configuration options for the to-do application
type Config struct {
	Database    DatabaseConfig
	Time        TimeConfig
	Validation  ValidationConfig
	Display     DisplayConfig
	Application ApplicationConfig
	Commands    CommandsConfig
}

// DatabaseConfig holds database-related configuration
type DatabaseConfig struct {
	Dir            string        `env:"TODO_DB_DIR"`
	Filename       string        `env:"TODO_DB_FILENAME"`
	QueryTimeout   time.Duration `env:"TODO_DB_QUERY_TIMEOUT"`
	WriteTimeout   time.Duration `env:"TODO_DB_WRITE_TIMEOUT"`
	DirPermissions uint32        `env:"TODO_DB_DIR_PERMISSIONS"`
}

// TimeConfig holds time formatting configuration
type TimeConfig struct {
	DisplayFormat         string        `env:"TODO_TIME_DISPLAY_FORMAT"`
	InputFormat           string        `env:"TODO_TIME_INPUT_FORMAT"`
	DefaultReminderOffset time.Duration `env:"TODO_TIME_DEFAULT_REMINDER_OFFSET"`
}

// ValidationConfig holds validation rules configuration
type ValidationConfig struct {
	TaskNameMinLength int `env:"TODO_VALIDATION_TASK_NAME_MIN"`
	TaskNameMaxLength int `env:"TODO_VALIDATION_TASK_NAME_MAX"`
	NoteMaxLength     int `env:"TODO_VALIDATION_NOTE_MAX"`
}

// DisplayConfig holds display formatting configuration
type DisplayConfig struct {
	DefaultFilter string `env:"TODO_DISPLAY_DEFAULT_FILTER"`
	ShowNotes     bool   `env:"TODO_DISPLAY_SHOW_NOTES"`
}

// ApplicationConfig holds application-level configuration
type ApplicationConfig struct {
	Timeout     time.Duration `env:"TODO_APP_TIMEOUT"`
	Verbose     bool          `env:"TODO_APP_VERBOSE"`
	Environment string        `env:"TODO_ENV"`
}

// CommandsConfig holds command-specific defaults
type CommandsConfig struct {
	ListDefaultFormat   string `env:"TODO_LIST_DEFAULT_FORMAT"`
	OutputDefaultFormat string `env:"TODO_OUTPUT_DEFAULT_FORMAT"`
}

// NewConfig creates a new configuration with sensible defaults
func NewConfig() *Config {
	homeDir, _ := os.UserHomeDir()
	defaultDBDir := filepath.Join(homeDir, ".todo")

	return &Config{
		Database: DatabaseConfig{
			Dir:            defaultDBDir,
			Filename:       "todo.db",
			QueryTimeout:   10 * time.Second,
			WriteTimeout:   5 * time.Second,
			DirPermissions: 0755,
		},
		Time: TimeConfig{
			DisplayFormat:         "2006-01-02 15:04",
			InputFormat:           "2006-01-02 15:04",
			DefaultReminderOffset: time.Hour,
		},
		Validation: ValidationConfig{
			TaskNameMinLength: 1,
			TaskNameMaxLength: 255,
			NoteMaxLength:     2000,
		},
		Display: DisplayConfig{
			DefaultFilter: "all",
			ShowNotes:     true,
		},
		Application: ApplicationConfig{
			Timeout:     60 * time.Second,
			Verbose:     false,
			Environment: EnvironmentProduction,
		},
		Commands: CommandsConfig{
			ListDefaultFormat:   "table",
			OutputDefaultFormat: "csv",
		},
	}
}

// GetDatabasePath returns the full path to the database file
func (c *Config) GetDatabasePath() string {
	return filepath.Join(expandHome(c.Database.Dir), c.Database.Filename)
}

// GetQueryTimeout returns the database query timeout
func (c *Config) GetQueryTimeout() time.Duration {
	return c.Database.QueryTimeout
}

// GetWriteTimeout returns the database write timeout
func (c *Config) GetWriteTimeout() time.Duration {
	return c.Database.WriteTimeout
}

// IsTesting reports whether the in-memory database should be used
func (c *Config) IsTesting() bool {
	return c.Application.Environment == EnvironmentTesting
}

// DefaultFilterMode returns the configured default filter.
// Validate guarantees it parses.
func (c *Config) DefaultFilterMode() domain.FilterMode {
	mode, _ := domain.ParseFilterMode(c.Display.DefaultFilter)
	return mode
}

// LoadFromEnvironment loads configuration from environment variables
func (c *Config) LoadFromEnvironment() error {
	// Database configuration
	if dir := os.Getenv("TODO_DB_DIR"); dir != "" {
		c.Database.Dir = dir
	}
	if filename := os.Getenv("TODO_DB_FILENAME"); filename != "" {
		c.Database.Filename = filename
	}
	if timeout := os.Getenv("TODO_DB_QUERY_TIMEOUT"); timeout != "" {
		c.Database.QueryTimeout = ParseDurationWithFallback(timeout, c.Database.QueryTimeout)
	}
	if timeout := os.Getenv("TODO_DB_WRITE_TIMEOUT"); timeout != "" {
		c.Database.WriteTimeout = ParseDurationWithFallback(timeout, c.Database.WriteTimeout)
	}
	if perms := os.Getenv("TODO_DB_DIR_PERMISSIONS"); perms != "" {
		c.Database.DirPermissions = ParseUint32WithFallback(perms, 8, c.Database.DirPermissions)
	}

	// Time configuration
	if format := os.Getenv("TODO_TIME_DISPLAY_FORMAT"); format != "" {
		c.Time.DisplayFormat = format
	}
	if format := os.Getenv("TODO_TIME_INPUT_FORMAT"); format != "" {
		c.Time.InputFormat = format
	}
	if offset := os.Getenv("TODO_TIME_DEFAULT_REMINDER_OFFSET"); offset != "" {
		c.Time.DefaultReminderOffset = ParseDurationWithFallback(offset, c.Time.DefaultReminderOffset)
	}

	// Validation configuration
	if minLen := os.Getenv("TODO_VALIDATION_TASK_NAME_MIN"); minLen != "" {
		c.Validation.TaskNameMinLength = ParseIntWithFallback(minLen, c.Validation.TaskNameMinLength)
	}
	if maxLen := os.Getenv("TODO_VALIDATION_TASK_NAME_MAX"); maxLen != "" {
		c.Validation.TaskNameMaxLength = ParseIntWithFallback(maxLen, c.Validation.TaskNameMaxLength)
	}
	if noteMax := os.Getenv("TODO_VALIDATION_NOTE_MAX"); noteMax != "" {
		c.Validation.NoteMaxLength = ParseIntWithFallback(noteMax, c.Validation.NoteMaxLength)
	}

	// Display configuration
	if filter := os.Getenv("TODO_DISPLAY_DEFAULT_FILTER"); filter != "" {
		c.Display.DefaultFilter = filter
	}
	if show := os.Getenv("TODO_DISPLAY_SHOW_NOTES"); show != "" {
		c.Display.ShowNotes = ParseBoolWithFallback(show, c.Display.ShowNotes)
	}

	// Application configuration
	if timeout := os.Getenv("TODO_APP_TIMEOUT"); timeout != "" {
		c.Application.Timeout = ParseDurationWithFallback(timeout, c.Application.Timeout)
	}
	if verbose := os.Getenv("TODO_APP_VERBOSE"); verbose != "" {
		c.Application.Verbose = ParseBoolWithFallback(verbose, c.Application.Verbose)
	}
	if env := os.Getenv("TODO_ENV"); env != "" {
		c.Application.Environment = env
	}

	// Commands configuration
	if format := os.Getenv("TODO_LIST_DEFAULT_FORMAT"); format != "" {
		c.Commands.ListDefaultFormat = format
	}
	if format := os.Getenv("TODO_OUTPUT_DEFAULT_FORMAT"); format != "" {
		c.Commands.OutputDefaultFormat = format
	}

	return nil
}

// Validate validates the configuration and returns any errors
func (c *Config) Validate() error {
	// Validate database configuration
	if c.Database.Dir == "" {
		return &ConfigError{Field: "database.dir", Message: "database directory cannot be empty"}
	}
	if c.Database.Filename == "" {
		return &ConfigError{Field: "database.filename", Message: "database filename cannot be empty"}
	}
	if c.Database.QueryTimeout <= 0 {
		return &ConfigError{Field: "database.query_timeout", Message: "query timeout must be positive"}
	}
	if c.Database.WriteTimeout <= 0 {
		return &ConfigError{Field: "database.write_timeout", Message: "write timeout must be positive"}
	}

	// Validate time configuration
	if c.Time.DisplayFormat == "" {
		return &ConfigError{Field: "time.display_format", Message: "display format cannot be empty"}
	}
	if c.Time.InputFormat == "" {
		return &ConfigError{Field: "time.input_format", Message: "input format cannot be empty"}
	}
	if c.Time.DefaultReminderOffset < 0 {
		return &ConfigError{Field: "time.default_reminder_offset", Message: "default reminder offset cannot be negative"}
	}

	// Validate validation configuration
	if c.Validation.TaskNameMinLength < 1 {
		return &ConfigError{Field: "validation.task_name_min_length", Message: "task name minimum length must be at least 1"}
	}
	if c.Validation.TaskNameMaxLength < c.Validation.TaskNameMinLength {
		return &ConfigError{Field: "validation.task_name_max_length", Message: "task name maximum length must be greater than minimum length"}
	}
	if c.Validation.NoteMaxLength < 0 {
		return &ConfigError{Field: "validation.note_max_length", Message: "note maximum length cannot be negative"}
	}

	// Validate display configuration
	if _, err := domain.ParseFilterMode(c.Display.DefaultFilter); err != nil {
		return &ConfigError{Field: "display.default_filter", Message: err.Error()}
	}

	// Validate application configuration
	if c.Application.Timeout <= 0 {
		return &ConfigError{Field: "application.timeout", Message: "application timeout must be positive"}
	}
	if c.Application.Environment != EnvironmentProduction && c.Application.Environment != EnvironmentTesting {
		return &ConfigError{Field: "application.environment", Message: "environment must be production or testing"}
	}

	// Validate commands configuration
	if !oneOf(c.Commands.ListDefaultFormat, "table", "plain") {
		return &ConfigError{Field: "commands.list_default_format", Message: "list format must be table or plain"}
	}
	if !oneOf(c.Commands.OutputDefaultFormat, "csv", "json") {
		return &ConfigError{Field: "commands.output_default_format", Message: "output format must be csv or json"}
	}

	return nil
}

// ConfigError represents a configuration validation error
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return e.Field + ": " + e.Message
}

func oneOf(value string, allowed ...string) bool {
	for _, a := range allowed {
		if value == a {
			return true
		}
	}
	return false
}

// expandHome replaces a leading "~/" with the user's home directory
func expandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}

// ParseDurationWithFallback parses a duration string with a fallback value
func ParseDurationWithFallback(s string, fallback time.Duration) time.Duration {
	if d, err := time.ParseDuration(s); err == nil {
		return d
	}
	return fallback
}

// ParseIntWithFallback parses an integer string with a fallback value
func ParseIntWithFallback(s string, fallback int) int {
	if i, err := strconv.Atoi(s); err == nil {
		return i
	}
	return fallback
}

// ParseBoolWithFallback parses a boolean string with a fallback value
func ParseBoolWithFallback(s string, fallback bool) bool {
	if b, err := strconv.ParseBool(s); err == nil {
		return b
	}
	return fallback
}

// ParseUint32WithFallback parses a uint32 string with a fallback value
func ParseUint32WithFallback(s string, base int, fallback uint32) uint32 {
	if u, err := strconv.ParseUint(s, base, 32); err == nil {
		return uint32(u)
	}
	return fallback
}
