package migrations

import (
	"database/sql"
	"fmt"
	"strings"
)

func init() {
	RegisterGoMigration(3, Up_000003_trim_task_text, Down_000003_trim_task_text)
}

// Up_000003_trim_task_text strips surrounding whitespace from task names and
// notes written before input was trimmed on entry. SQLite's trim() only
// removes ASCII spaces, so the rewrite is done with strings.TrimSpace.
// Rows whose name would become empty are left untouched.
func Up_000003_trim_task_text(tx *sql.Tx) error {
	type row struct {
		id   int64
		name string
		note string
	}
	var pending []row

	rows, err := tx.Query("SELECT id, name, note FROM todo_table")
	if err != nil {
		return fmt.Errorf("failed to query tasks: %w", err)
	}
	for rows.Next() {
		var r row
		if err := rows.Scan(&r.id, &r.name, &r.note); err != nil {
			rows.Close()
			return fmt.Errorf("failed to scan task: %w", err)
		}
		name, note := strings.TrimSpace(r.name), strings.TrimSpace(r.note)
		if name == "" || (name == r.name && note == r.note) {
			continue
		}
		pending = append(pending, row{id: r.id, name: name, note: note})
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return fmt.Errorf("error iterating tasks: %w", err)
	}
	rows.Close()

	if len(pending) == 0 {
		return nil
	}

	stmt, err := tx.Prepare("UPDATE todo_table SET name = ?, note = ? WHERE id = ?")
	if err != nil {
		return fmt.Errorf("failed to prepare task update: %w", err)
	}
	defer stmt.Close()

	for _, r := range pending {
		if _, err := stmt.Exec(r.name, r.note, r.id); err != nil {
			return fmt.Errorf("failed to update task %d: %w", r.id, err)
		}
	}
	return nil
}

// Down_000003_trim_task_text is a no-op: the original whitespace is not kept.
func Down_000003_trim_task_text(tx *sql.Tx) error {
	return nil
}
