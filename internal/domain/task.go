package domain

import (
	"strings"
	"time"
)

// Task represents a to-do item in the domain model.
// Values are snapshots: mutating helpers return a copy with the same ID,
// which then replaces the stored record.
type Task struct {
	ID           int64
	Name         string
	IsCompleted  bool
	ReminderTime int64 // milliseconds since the Unix epoch
	Note         string
}

// NewTask creates an unsaved, uncompleted Task reminding at the given time.
func NewTask(name string, reminder time.Time) Task {
	return Task{
		Name:         name,
		ReminderTime: reminder.UnixMilli(),
	}
}

// DefaultReminder returns the reminder used when the user does not pick one:
// one hour from now, truncated to the hour.
func DefaultReminder(now time.Time) time.Time {
	next := now.Add(time.Hour)
	return time.Date(next.Year(), next.Month(), next.Day(), next.Hour(), 0, 0, 0, next.Location())
}

// IsValid checks if the task has the fields a stored task must carry.
func (t Task) IsValid() bool {
	return t.Name != "" && t.ReminderTime > 0
}

// IsPersisted reports whether the store has assigned an ID.
func (t Task) IsPersisted() bool {
	return t.ID > 0
}

// ReminderAt returns the reminder as a local time.Time.
func (t Task) ReminderAt() time.Time {
	return time.UnixMilli(t.ReminderTime)
}

// WithCompleted returns a copy with the completion flag set to done.
func (t Task) WithCompleted(done bool) Task {
	t.IsCompleted = done
	return t
}

// Toggled returns a copy with the completion flag flipped.
func (t Task) Toggled() Task {
	return t.WithCompleted(!t.IsCompleted)
}

// Matches reports whether query is a case-insensitive substring of the
// name or the note. The empty query matches every task.
func (t Task) Matches(query string) bool {
	if query == "" {
		return true
	}
	q := strings.ToLower(query)
	return strings.Contains(strings.ToLower(t.Name), q) ||
		strings.Contains(strings.ToLower(t.Note), q)
}

// String returns the task name for display purposes.
func (t Task) String() string {
	return t.Name
}
