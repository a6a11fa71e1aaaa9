package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/tailscale/hujson"
)

// ConfigFileEnv names the variable that points at an explicit config file.
const ConfigFileEnv = "TODO_CONFIG"

// fileConfig mirrors Config for the JSONC config file. Pointer fields tell
// "absent" from "zero"; durations are Go duration strings ("5s").
type fileConfig struct {
	Database *struct {
		Dir            *string `json:"dir"`
		Filename       *string `json:"filename"`
		QueryTimeout   *string `json:"query_timeout"`
		WriteTimeout   *string `json:"write_timeout"`
		DirPermissions *string `json:"dir_permissions"`
	} `json:"database"`
	Time *struct {
		DisplayFormat         *string `json:"display_format"`
		InputFormat           *string `json:"input_format"`
		DefaultReminderOffset *string `json:"default_reminder_offset"`
	} `json:"time"`
	Validation *struct {
		TaskNameMinLength *int `json:"task_name_min_length"`
		TaskNameMaxLength *int `json:"task_name_max_length"`
		NoteMaxLength     *int `json:"note_max_length"`
	} `json:"validation"`
	Display *struct {
		DefaultFilter *string `json:"default_filter"`
		ShowNotes     *bool   `json:"show_notes"`
	} `json:"display"`
	Application *struct {
		Timeout     *string `json:"timeout"`
		Verbose     *bool   `json:"verbose"`
		Environment *string `json:"environment"`
	} `json:"application"`
	Commands *struct {
		ListDefaultFormat   *string `json:"list_default_format"`
		OutputDefaultFormat *string `json:"output_default_format"`
	} `json:"commands"`
}

// DefaultConfigPath returns where the config file is looked for when
// TODO_CONFIG is not set.
func DefaultConfigPath() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "todo", "config.json")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "todo", "config.json")
}

// LoadFromFile applies the config file on top of c. An explicit TODO_CONFIG
// path must exist; the default path is optional. Returns the path that was
// read, or "" when none was.
func (c *Config) LoadFromFile() (string, error) {
	path, mustExist := os.Getenv(ConfigFileEnv), true
	if path == "" {
		path, mustExist = DefaultConfigPath(), false
	}
	if path == "" {
		return "", nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && !mustExist {
			return "", nil
		}
		return "", &ConfigError{Field: "config_file", Message: fmt.Sprintf("cannot read %s: %v", path, err)}
	}

	if err := c.applyFileData(data); err != nil {
		return "", &ConfigError{Field: "config_file", Message: fmt.Sprintf("%s: %v", path, err)}
	}
	return path, nil
}

// applyFileData parses JSONC data and copies every present field onto c.
func (c *Config) applyFileData(data []byte) error {
	standardized, err := hujson.Standardize(data)
	if err != nil {
		return fmt.Errorf("invalid JSONC: %w", err)
	}

	var fc fileConfig
	if err := json.Unmarshal(standardized, &fc); err != nil {
		return fmt.Errorf("invalid JSON: %w", err)
	}

	if db := fc.Database; db != nil {
		setString(&c.Database.Dir, db.Dir)
		setString(&c.Database.Filename, db.Filename)
		if err := setDuration(&c.Database.QueryTimeout, db.QueryTimeout, "database.query_timeout"); err != nil {
			return err
		}
		if err := setDuration(&c.Database.WriteTimeout, db.WriteTimeout, "database.write_timeout"); err != nil {
			return err
		}
		if db.DirPermissions != nil {
			c.Database.DirPermissions = ParseUint32WithFallback(*db.DirPermissions, 8, c.Database.DirPermissions)
		}
	}

	if tc := fc.Time; tc != nil {
		setString(&c.Time.DisplayFormat, tc.DisplayFormat)
		setString(&c.Time.InputFormat, tc.InputFormat)
		if err := setDuration(&c.Time.DefaultReminderOffset, tc.DefaultReminderOffset, "time.default_reminder_offset"); err != nil {
			return err
		}
	}

	if vc := fc.Validation; vc != nil {
		setInt(&c.Validation.TaskNameMinLength, vc.TaskNameMinLength)
		setInt(&c.Validation.TaskNameMaxLength, vc.TaskNameMaxLength)
		setInt(&c.Validation.NoteMaxLength, vc.NoteMaxLength)
	}

	if dc := fc.Display; dc != nil {
		setString(&c.Display.DefaultFilter, dc.DefaultFilter)
		setBool(&c.Display.ShowNotes, dc.ShowNotes)
	}

	if ac := fc.Application; ac != nil {
		if err := setDuration(&c.Application.Timeout, ac.Timeout, "application.timeout"); err != nil {
			return err
		}
		setBool(&c.Application.Verbose, ac.Verbose)
		setString(&c.Application.Environment, ac.Environment)
	}

	if cc := fc.Commands; cc != nil {
		setString(&c.Commands.ListDefaultFormat, cc.ListDefaultFormat)
		setString(&c.Commands.OutputDefaultFormat, cc.OutputDefaultFormat)
	}

	return nil
}

func setString(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}

func setInt(dst *int, src *int) {
	if src != nil {
		*dst = *src
	}
}

func setBool(dst *bool, src *bool) {
	if src != nil {
		*dst = *src
	}
}

func setDuration(dst *time.Duration, src *string, field string) error {
	if src == nil {
		return nil
	}
	d, err := time.ParseDuration(*src)
	if err != nil {
		return fmt.Errorf("%s: %w", field, err)
	}
	*dst = d
	return nil
}
