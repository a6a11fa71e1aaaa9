package sqlite

// Scanner interface defines the common scanning behavior for both sql.Row and sql.Rows
type Scanner interface {
	Scan(dest ...interface{}) error
}

// Rows interface defines the common behavior for sql.Rows
type Rows interface {
	Next() bool
	Scan(dest ...interface{}) error
	Err() error
}

// ScanTask scans a single task from a database row.
// Columns must be selected in taskColumns order.
func ScanTask(scanner Scanner) (*Task, error) {
	task := &Task{}
	var completed int64

	err := scanner.Scan(
		&task.ID,
		&task.Name,
		&completed,
		&task.ReminderTime,
		&task.Note,
	)
	if err != nil {
		return nil, err
	}

	task.IsCompleted = ParseBoolFromDB(completed)
	return task, nil
}

// ScanTasks scans multiple tasks from database rows
func ScanTasks(rows Rows) ([]*Task, error) {
	tasks := []*Task{}
	for rows.Next() {
		task, err := ScanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, task)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return tasks, nil
}
