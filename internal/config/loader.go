package config

import (
	"time"

	"todo-list/internal/logging"
)

// Loader handles loading configuration from multiple sources
type Loader struct {
	config *Config
}

// NewLoader creates a new configuration loader
func NewLoader() *Loader {
	return &Loader{
		config: NewConfig(),
	}
}

// Load loads configuration using the cascading strategy:
// 1. Start with defaults
// 2. Override with the JSONC config file, if any
// 3. Override with environment variables
// 4. Override with command line flags (LoadWithOverrides)
func (l *Loader) Load() (*Config, error) {
	path, err := l.config.LoadFromFile()
	if err != nil {
		return nil, err
	}
	if path != "" {
		logging.Debugf("config: loaded %s\n", path)
	}

	if err := l.config.LoadFromEnvironment(); err != nil {
		return nil, err
	}

	if err := l.config.Validate(); err != nil {
		return nil, err
	}

	return l.config, nil
}

// LoadWithOverrides loads configuration and applies command line overrides
func (l *Loader) LoadWithOverrides(overrides *ConfigOverrides) (*Config, error) {
	config, err := l.Load()
	if err != nil {
		return nil, err
	}

	if overrides != nil {
		ApplyOverrides(config, overrides)
	}

	// Re-validate after applying overrides
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// ConfigOverrides holds command line flag overrides. Nil means "not given".
type ConfigOverrides struct {
	// Database overrides
	DBDir            *string
	DBFilename       *string
	DBQueryTimeout   *time.Duration
	DBWriteTimeout   *time.Duration
	DBDirPermissions *uint32

	// Time overrides
	TimeFormat     *string
	InputFormat    *string
	ReminderOffset *time.Duration

	// Validation overrides
	TaskNameMinLength *int
	TaskNameMaxLength *int
	NoteMaxLength     *int

	// Display overrides
	DefaultFilter *string
	ShowNotes     *bool

	// Application overrides
	Timeout     *time.Duration
	Verbose     *bool
	Environment *string

	// Commands overrides
	ListDefaultFormat   *string
	OutputDefaultFormat *string
}

// ApplyOverrides copies every non-nil override onto config
func ApplyOverrides(config *Config, overrides *ConfigOverrides) {
	// Database overrides
	if overrides.DBDir != nil {
		config.Database.Dir = *overrides.DBDir
	}
	if overrides.DBFilename != nil {
		config.Database.Filename = *overrides.DBFilename
	}
	if overrides.DBQueryTimeout != nil {
		config.Database.QueryTimeout = *overrides.DBQueryTimeout
	}
	if overrides.DBWriteTimeout != nil {
		config.Database.WriteTimeout = *overrides.DBWriteTimeout
	}
	if overrides.DBDirPermissions != nil {
		config.Database.DirPermissions = *overrides.DBDirPermissions
	}

	// Time overrides
	if overrides.TimeFormat != nil {
		config.Time.DisplayFormat = *overrides.TimeFormat
	}
	if overrides.InputFormat != nil {
		config.Time.InputFormat = *overrides.InputFormat
	}
	if overrides.ReminderOffset != nil {
		config.Time.DefaultReminderOffset = *overrides.ReminderOffset
	}

	// Validation overrides
	if overrides.TaskNameMinLength != nil {
		config.Validation.TaskNameMinLength = *overrides.TaskNameMinLength
	}
	if overrides.TaskNameMaxLength != nil {
		config.Validation.TaskNameMaxLength = *overrides.TaskNameMaxLength
	}
	if overrides.NoteMaxLength != nil {
		config.Validation.NoteMaxLength = *overrides.NoteMaxLength
	}

	// Display overrides
	if overrides.DefaultFilter != nil {
		config.Display.DefaultFilter = *overrides.DefaultFilter
	}
	if overrides.ShowNotes != nil {
		config.Display.ShowNotes = *overrides.ShowNotes
	}

	// Application overrides
	if overrides.Timeout != nil {
		config.Application.Timeout = *overrides.Timeout
	}
	if overrides.Verbose != nil {
		config.Application.Verbose = *overrides.Verbose
	}
	if overrides.Environment != nil {
		config.Application.Environment = *overrides.Environment
	}

	// Commands overrides
	if overrides.ListDefaultFormat != nil {
		config.Commands.ListDefaultFormat = *overrides.ListDefaultFormat
	}
	if overrides.OutputDefaultFormat != nil {
		config.Commands.OutputDefaultFormat = *overrides.OutputDefaultFormat
	}
}
