package migrations

import (
	"database/sql"
	"path/filepath"
	"strings"
	"testing"

	"todo-list/internal/logging"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
)

func openMemoryDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestRunMigrations_CreatesSchema(t *testing.T) {
	db := openMemoryDB(t)

	require.NoError(t, RunMigrations(db))

	var count int
	err := db.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = 'todo_table'").Scan(&count)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	err = db.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE type = 'index' AND name = 'idx_todo_table_reminder_time'").Scan(&count)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	err = db.QueryRow("SELECT COUNT(*) FROM migrations").Scan(&count)
	require.NoError(t, err)
	assert.Equal(t, 3, count)
}

func TestRunMigrations_Idempotent(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "todo.db")
	db, err := sql.Open("sqlite", dbPath)
	require.NoError(t, err)
	defer db.Close()

	require.NoError(t, RunMigrations(db))
	_, err = db.Exec("INSERT INTO todo_table (name, reminder_time) VALUES ('Buy milk', 1)")
	require.NoError(t, err)

	require.NoError(t, RunMigrations(db))

	var name string
	require.NoError(t, db.QueryRow("SELECT name FROM todo_table").Scan(&name))
	assert.Equal(t, "Buy milk", name)
}

func TestTrimTaskTextMigration(t *testing.T) {
	db := openMemoryDB(t)

	_, err := db.Exec(`CREATE TABLE todo_table (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL,
		is_completed INTEGER NOT NULL DEFAULT 0,
		reminder_time INTEGER NOT NULL,
		note TEXT NOT NULL DEFAULT ''
	)`)
	require.NoError(t, err)

	_, err = db.Exec(`
		INSERT INTO todo_table (name, reminder_time, note) VALUES
		('  Buy milk ', 1, '	two liters
'),
		('Pay rent', 2, ''),
		('   ', 3, 'keep me')
	`)
	require.NoError(t, err)

	tx, err := db.Begin()
	require.NoError(t, err)
	defer tx.Rollback()

	require.NoError(t, Up_000003_trim_task_text(tx))
	require.NoError(t, tx.Commit())

	rows, err := db.Query("SELECT name, note FROM todo_table ORDER BY id")
	require.NoError(t, err)
	defer rows.Close()

	var got [][2]string
	for rows.Next() {
		var name, note string
		require.NoError(t, rows.Scan(&name, &note))
		logging.Debugf("  %q %q\n", name, note)
		got = append(got, [2]string{name, note})
	}
	require.NoError(t, rows.Err())

	assert.Equal(t, [][2]string{
		{"Buy milk", "two liters"},
		{"Pay rent", ""},
		{"   ", "keep me"},
	}, got)
}

func TestRunMigrations_DirtyDatabase(t *testing.T) {
	db := openMemoryDB(t)

	_, err := db.Exec(`
		CREATE TABLE migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			dirty BOOLEAN DEFAULT FALSE
		)
	`)
	if err != nil {
		t.Fatalf("failed to create migrations table: %v", err)
	}

	_, err = db.Exec("INSERT INTO migrations (version, dirty) VALUES (1, TRUE)")
	if err != nil {
		t.Fatalf("failed to insert dirty migration: %v", err)
	}

	err = RunMigrations(db)
	if err == nil {
		t.Fatal("expected RunMigrations to fail on dirty database, but it succeeded")
	}

	if !strings.Contains(err.Error(), "database is in a dirty state") {
		t.Errorf("expected error to mention dirty state, got: %v", err)
	}

	if !strings.Contains(err.Error(), "failed migration(s): [1]") {
		t.Errorf("expected error to mention failed migration version 1, got: %v", err)
	}
}

func TestRunMigrations_FailureMarksDirty(t *testing.T) {
	db := openMemoryDB(t)

	// A table with the right name but the wrong shape makes the index
	// migration fail.
	_, err := db.Exec("CREATE TABLE todo_table (id INTEGER PRIMARY KEY)")
	require.NoError(t, err)

	err = RunMigrations(db)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to apply migration 2")

	err = RunMigrations(db)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed migration(s): [2]")
}

func TestExtractVersion(t *testing.T) {
	assert.Equal(t, 1, extractVersion("000001_create_todo_table.up.sql"))
	assert.Equal(t, 12, extractVersion("000012_something.up.sql"))
	assert.Equal(t, 0, extractVersion("readme.sql"))
}
