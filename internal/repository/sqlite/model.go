package sqlite

// Task is a row of todo_table.
// ReminderTime is stored as milliseconds since the Unix epoch.
type Task struct {
	ID           int64
	Name         string
	IsCompleted  bool
	ReminderTime int64
	Note         string
}
