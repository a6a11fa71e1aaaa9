package validation

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"todo-list/internal/config"
)

// Validator provides common validation utilities
type Validator struct {
	timeShorthandRegex *regexp.Regexp
	config             *config.Config
	now                func() time.Time
}

// NewValidator creates a new validator instance
func NewValidator() *Validator {
	return NewValidatorWithConfig(nil)
}

// NewValidatorWithConfig creates a new validator instance with configuration.
// A nil cfg means defaults.
func NewValidatorWithConfig(cfg *config.Config) *Validator {
	return &Validator{
		timeShorthandRegex: regexp.MustCompile(`^(\d+)(m|h|d|w|mo|y)$`),
		config:             cfg,
		now:                time.Now,
	}
}

// IsNonEmptyString checks if a string is not empty after trimming whitespace
func (v *Validator) IsNonEmptyString(s string) bool {
	return strings.TrimSpace(s) != ""
}

// IsValidStringLength checks if the trimmed string has between min and max
// characters. Characters are counted as runes.
func (v *Validator) IsValidStringLength(s string, min, max int) bool {
	length := utf8.RuneCountInString(strings.TrimSpace(s))
	return length >= min && length <= max
}

// IsValidTaskNameLength checks if a task name length is within configured limits
func (v *Validator) IsValidTaskNameLength(name string) bool {
	return v.IsValidStringLength(name, v.getTaskNameMinLength(), v.getTaskNameMaxLength())
}

// IsValidNoteLength checks a note against the configured maximum
func (v *Validator) IsValidNoteLength(note string) bool {
	return v.IsValidStringLength(note, 0, v.getNoteMaxLength())
}

// IsValidTaskName rejects names containing control characters.
// Any printable text, including emoji and non-Latin scripts, is allowed.
func (v *Validator) IsValidTaskName(name string) bool {
	for _, r := range name {
		if unicode.IsControl(r) {
			return false
		}
	}
	return true
}

// IsValidNote is like IsValidTaskName but allows line breaks and tabs.
func (v *Validator) IsValidNote(note string) bool {
	for _, r := range note {
		if r == '\n' || r == '\r' || r == '\t' {
			continue
		}
		if unicode.IsControl(r) {
			return false
		}
	}
	return true
}

// IsValidTaskID checks if a task ID is valid (positive)
func (v *Validator) IsValidTaskID(id int64) bool {
	return id > 0
}

// IsValidReminderTime checks that a reminder in epoch milliseconds is set
// and falls within a reasonable window.
func (v *Validator) IsValidReminderTime(ms int64) bool {
	if ms <= 0 {
		return false
	}
	return v.IsReasonableDate(time.UnixMilli(ms))
}

var shorthandUnits = map[string]time.Duration{
	"m":  time.Minute,
	"h":  time.Hour,
	"d":  24 * time.Hour,
	"w":  7 * 24 * time.Hour,
	"mo": 30 * 24 * time.Hour,
	"y":  365 * 24 * time.Hour,
}

// ParseTimeShorthand converts shorthand like "30m", "2h", "1d", "2w", "3mo"
// or "1y" into a duration. A month is 30 days and a year 365.
func (v *Validator) ParseTimeShorthand(shorthand string) (time.Duration, error) {
	validationError := NewValidationError()

	matches := v.timeShorthandRegex.FindStringSubmatch(strings.TrimSpace(shorthand))
	if matches == nil {
		validationError.AddInvalidFormatError(FieldReminderOffset, shorthand, "a duration like 30m, 2h, 1d, 2w, 3mo or 1y")
		return 0, validationError
	}

	unit := shorthandUnits[matches[2]]
	value, err := strconv.ParseInt(matches[1], 10, 64)
	switch {
	case err != nil || value > math.MaxInt64/int64(unit):
		validationError.AddInvalidValueError(FieldReminderOffset, shorthand, "duration is too long")
	case value <= 0:
		validationError.AddInvalidValueError(FieldReminderOffset, shorthand, "duration must be positive")
	}
	if validationError.HasErrors() {
		return 0, validationError
	}

	return time.Duration(value) * unit, nil
}

// IsReasonableDate checks if a date is within ten years of now
func (v *Validator) IsReasonableDate(t time.Time) bool {
	now := v.now()
	tenYearsAgo := now.AddDate(-10, 0, 0)
	tenYearsAhead := now.AddDate(10, 0, 0)

	return t.After(tenYearsAgo) && t.Before(tenYearsAhead)
}

// TrimAndValidateString trims whitespace and returns the cleaned string
func (v *Validator) TrimAndValidateString(s string) string {
	return strings.TrimSpace(s)
}

// getTaskNameMinLength returns configured minimum task name length or default
func (v *Validator) getTaskNameMinLength() int {
	if v.config != nil {
		return v.config.Validation.TaskNameMinLength
	}
	return 1
}

// getTaskNameMaxLength returns configured maximum task name length or default
func (v *Validator) getTaskNameMaxLength() int {
	if v.config != nil {
		return v.config.Validation.TaskNameMaxLength
	}
	return 255
}

// getNoteMaxLength returns configured maximum note length or default
func (v *Validator) getNoteMaxLength() int {
	if v.config != nil {
		return v.config.Validation.NoteMaxLength
	}
	return 2000
}
