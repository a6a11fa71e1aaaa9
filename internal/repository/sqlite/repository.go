package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"todo-list/internal/errors"
	"todo-list/internal/repository/sqlite/migrations"

	_ "modernc.org/sqlite"
)

// taskColumns is the select list ScanTask expects.
const taskColumns = `id, name, is_completed, reminder_time, note`

// Repository defines the interface for database operations
type Repository interface {
	// Create operations
	CreateTask(ctx context.Context, task *Task) error

	// Read operations
	GetTask(ctx context.Context, id int64) (*Task, error)
	ListTasks(ctx context.Context) ([]*Task, error)
	SearchTasks(ctx context.Context, query string) ([]*Task, error)

	// Update operations
	UpdateTask(ctx context.Context, task *Task) error

	// Delete operations
	DeleteTask(ctx context.Context, id int64) error

	// Utility
	Close() error
}

// SQLiteRepository implements the Repository interface
type SQLiteRepository struct {
	db *sql.DB
}

// New creates a new SQLite repository instance
func New(dbPath string) (*SQLiteRepository, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, errors.NewDatabaseError("open database", err)
	}

	// Every ":memory:" connection is its own database, and writes are
	// serialized by the store anyway.
	db.SetMaxOpenConns(1)

	if err := migrations.RunMigrations(db); err != nil {
		db.Close()
		return nil, errors.NewDatabaseError("run migrations", err)
	}

	return &SQLiteRepository{db: db}, nil
}

// Close closes the database connection
func (r *SQLiteRepository) Close() error {
	return r.db.Close()
}

// CreateTask inserts a task and sets its ID
func (r *SQLiteRepository) CreateTask(ctx context.Context, task *Task) error {
	query := `
	INSERT INTO todo_table (name, is_completed, reminder_time, note)
	VALUES (?, ?, ?, ?)`

	id, err := ExecuteWithLastInsertID(ctx, r.db, query, task.Name, FormatBoolForDB(task.IsCompleted), task.ReminderTime, task.Note)
	if err != nil {
		return err
	}

	task.ID = id
	return nil
}

// GetTask retrieves a task by ID
func (r *SQLiteRepository) GetTask(ctx context.Context, id int64) (*Task, error) {
	query := `SELECT ` + taskColumns + ` FROM todo_table WHERE id = ?`
	return QuerySingle(ctx, r.db, query, ScanTask, "task", fmt.Sprintf("%d", id), id)
}

// ListTasks retrieves all tasks, earliest reminder first
func (r *SQLiteRepository) ListTasks(ctx context.Context) ([]*Task, error) {
	query := `
	SELECT ` + taskColumns + `
	FROM todo_table
	ORDER BY reminder_time ASC, id ASC`

	return QueryMultiple(ctx, r.db, query, ScanTasks, "tasks")
}

// SearchTasks retrieves tasks whose name or note contains query, ignoring
// ASCII case. The empty query returns every task.
func (r *SQLiteRepository) SearchTasks(ctx context.Context, query string) ([]*Task, error) {
	if query == "" {
		return r.ListTasks(ctx)
	}

	stmt := `
	SELECT ` + taskColumns + `
	FROM todo_table
	WHERE name LIKE ? ESCAPE '\' OR note LIKE ? ESCAPE '\'
	ORDER BY reminder_time ASC, id ASC`

	pattern := FormatLikePattern(query)
	return QueryMultiple(ctx, r.db, stmt, ScanTasks, "tasks", pattern, pattern)
}

// UpdateTask replaces every field of the task with the same ID
func (r *SQLiteRepository) UpdateTask(ctx context.Context, task *Task) error {
	query := `
	UPDATE todo_table
	SET name = ?, is_completed = ?, reminder_time = ?, note = ?
	WHERE id = ?`

	return ExecuteWithRowsAffected(ctx, r.db, query, "task", fmt.Sprintf("%d", task.ID),
		task.Name, FormatBoolForDB(task.IsCompleted), task.ReminderTime, task.Note, task.ID)
}

// DeleteTask deletes a task by ID
func (r *SQLiteRepository) DeleteTask(ctx context.Context, id int64) error {
	query := `DELETE FROM todo_table WHERE id = ?`
	return ExecuteWithRowsAffected(ctx, r.db, query, "task", fmt.Sprintf("%d", id), id)
}
