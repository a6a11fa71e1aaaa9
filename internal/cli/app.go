package cli

import (
	"fmt"
	"io"
	"os"
	"time"

	"todo-list/internal/api"
	"todo-list/internal/config"
	"todo-list/internal/errors"
	"todo-list/internal/validation"
)

// timeNow is a variable that can be replaced in tests
var timeNow = time.Now

// App carries what every command handler needs
type App struct {
	api       api.API
	config    *config.Config
	validator *validation.Validator
	out       io.Writer
}

// NewAppWithConfig creates a CLI application around an open API
func NewAppWithConfig(apiInstance api.API, cfg *config.Config) *App {
	if cfg == nil {
		cfg = config.NewConfig()
	}
	return &App{
		api:       apiInstance,
		config:    cfg,
		validator: validation.NewValidatorWithConfig(cfg),
		out:       os.Stdout,
	}
}

// SetOutput redirects command output, mainly for tests
func (a *App) SetOutput(w io.Writer) {
	a.out = w
}

func (a *App) printf(format string, args ...interface{}) {
	fmt.Fprintf(a.out, format, args...)
}

// formatReminder renders a reminder with the configured display format
func (a *App) formatReminder(ms int64) string {
	return time.UnixMilli(ms).Format(a.config.Time.DisplayFormat)
}

// parseReminder resolves the --at and --in flags. Both empty means the zero
// time, which the API turns into the default reminder.
func (a *App) parseReminder(at, in string) (time.Time, error) {
	if at != "" && in != "" {
		return time.Time{}, errors.NewInvalidInputError("reminder", at+" / "+in, "use either --at or --in, not both")
	}
	if at != "" {
		t, err := time.ParseInLocation(a.config.Time.InputFormat, at, time.Local)
		if err != nil {
			return time.Time{}, errors.NewInvalidInputError("at", at,
				fmt.Sprintf("expected time like %q", a.config.Time.InputFormat))
		}
		return t, nil
	}
	if in != "" {
		d, err := a.parseTimeShorthand(in)
		if err != nil {
			return time.Time{}, err
		}
		return timeNow().Add(d).Truncate(time.Minute), nil
	}
	return time.Time{}, nil
}

// parseTimeShorthand parses shorthand like "30m", "2h" or "1d" for --in
func (a *App) parseTimeShorthand(shorthand string) (time.Duration, error) {
	d, err := a.validator.ParseTimeShorthand(shorthand)
	if ve, ok := err.(*validation.ValidationError); ok {
		return 0, errors.NewValidationError(ve.GetUserFriendlyMessage(), ve).WithContext("in", shorthand)
	}
	return d, err
}
