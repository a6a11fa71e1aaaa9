package ui

import (
	"context"
	"testing"
	"time"

	"github.com/charmbracelet/bubbles/cursor"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"todo-list/internal/api"
	"todo-list/internal/config"
	"todo-list/internal/domain"
)

func setupModel(t *testing.T) (*Model, api.API) {
	t.Helper()
	cfg := config.NewConfig()
	cfg.Application.Environment = config.EnvironmentTesting

	a, err := api.Open(context.Background(), cfg)
	require.NoError(t, err)
	m := New(a, cfg)
	m.search.Cursor.SetMode(cursor.CursorStatic)
	m.name.Cursor.SetMode(cursor.CursorStatic)
	t.Cleanup(func() {
		m.Close()
		a.Close()
	})
	return m, a
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// press sends msg and runs any write it starts, feeding the result back.
func press(t *testing.T, m *Model, msg tea.Msg) {
	t.Helper()
	_, cmd := m.Update(msg)
	if cmd == nil {
		return
	}
	if out, ok := cmd().(opDoneMsg); ok {
		m.Update(out)
	}
}

// syncView waits until the engine shows cond and hands the view to the model.
func syncView(t *testing.T, m *Model, a api.API, cond func(v viewMsg) bool) {
	t.Helper()
	require.Eventually(t, func() bool {
		return cond(viewMsg(a.Displayed()))
	}, time.Second, 5*time.Millisecond)
	m.Update(viewMsg(a.Displayed()))
}

func TestModel_EmptyList(t *testing.T) {
	m, _ := setupModel(t)

	out := m.View()
	assert.Contains(t, out, "To-do")
	assert.Contains(t, out, "Nothing to do")
	assert.Contains(t, out, "Total: 0")
}

func TestModel_AddToggleDelete(t *testing.T) {
	m, a := setupModel(t)

	press(t, m, runes("n"))
	assert.Equal(t, modeAdd, m.mode)
	press(t, m, runes("Buy milk"))
	press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, modeList, m.mode)
	assert.Contains(t, m.View(), `Added "Buy milk"`)

	syncView(t, m, a, func(v viewMsg) bool { return v.Count == 1 })
	out := m.View()
	assert.Contains(t, out, "[ ] Buy milk")
	assert.Contains(t, out, "Total: 1")

	press(t, m, runes("x"))
	syncView(t, m, a, func(v viewMsg) bool { return v.Count == 1 && v.Tasks[0].IsCompleted })
	assert.Contains(t, m.View(), "[x]")

	press(t, m, runes("d"))
	assert.Equal(t, modeConfirmDelete, m.mode)
	assert.Contains(t, m.View(), `Delete "Buy milk"? (y/n)`)
	press(t, m, runes("y"))
	syncView(t, m, a, func(v viewMsg) bool { return v.Total == 0 })
	assert.Contains(t, m.View(), "Total: 0")
}

func TestModel_DeleteCancelled(t *testing.T) {
	m, a := setupModel(t)
	_, err := a.CreateTask(context.Background(), "Pay rent", "", time.Time{})
	require.NoError(t, err)
	syncView(t, m, a, func(v viewMsg) bool { return v.Count == 1 })

	press(t, m, runes("d"))
	press(t, m, runes("n"))
	assert.Equal(t, modeList, m.mode)

	tasks, err := a.ListTasks(context.Background())
	require.NoError(t, err)
	assert.Len(t, tasks, 1)
}

func TestModel_AddRejectsEmptyName(t *testing.T) {
	m, a := setupModel(t)

	press(t, m, runes("n"))
	press(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	assert.Contains(t, m.View(), "task name is required")
	tasks, err := a.ListTasks(context.Background())
	require.NoError(t, err)
	assert.Empty(t, tasks)
}

func TestModel_EditName(t *testing.T) {
	m, a := setupModel(t)
	ctx := context.Background()
	task, err := a.CreateTask(ctx, "Buy milk", "", time.Time{})
	require.NoError(t, err)
	syncView(t, m, a, func(v viewMsg) bool { return v.Count == 1 })

	press(t, m, runes("e"))
	assert.Equal(t, modeEdit, m.mode)
	assert.Equal(t, "Buy milk", m.name.Value())

	press(t, m, tea.KeyMsg{Type: tea.KeyCtrlU})
	press(t, m, runes("Buy oat milk"))
	press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, modeList, m.mode)
	assert.Contains(t, m.View(), `Updated "Buy oat milk"`)

	got, err := a.GetTask(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, "Buy oat milk", got.Name)

	syncView(t, m, a, func(v viewMsg) bool {
		return len(v.Tasks) == 1 && v.Tasks[0].Name == "Buy oat milk"
	})
	assert.Contains(t, m.View(), "Buy oat milk")
}

func TestModel_EditRejectsEmptyName(t *testing.T) {
	m, a := setupModel(t)
	ctx := context.Background()
	task, err := a.CreateTask(ctx, "Pay rent", "", time.Time{})
	require.NoError(t, err)
	syncView(t, m, a, func(v viewMsg) bool { return v.Count == 1 })

	press(t, m, runes("e"))
	press(t, m, tea.KeyMsg{Type: tea.KeyCtrlU})
	press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Contains(t, m.View(), "task name is required")

	got, err := a.GetTask(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, "Pay rent", got.Name)
}

func TestModel_EditWithoutTasks(t *testing.T) {
	m, _ := setupModel(t)

	press(t, m, runes("e"))
	assert.Equal(t, modeList, m.mode)
}

func TestModel_SearchAndFilter(t *testing.T) {
	m, a := setupModel(t)
	ctx := context.Background()

	_, err := a.CreateTask(ctx, "Buy milk", "", time.Now().Add(time.Hour))
	require.NoError(t, err)
	rent, err := a.CreateTask(ctx, "Pay rent", "urgent", time.Now().Add(2*time.Hour))
	require.NoError(t, err)
	_, err = a.ToggleTask(ctx, rent.ID)
	require.NoError(t, err)
	syncView(t, m, a, func(v viewMsg) bool { return v.Count == 2 && v.Tasks[1].IsCompleted })

	press(t, m, runes("f"))
	assert.Equal(t, domain.FilterCompleted, m.view.Filter)
	require.Len(t, m.view.Tasks, 1)
	assert.Equal(t, "Pay rent", m.view.Tasks[0].Name)

	press(t, m, runes("f"))
	assert.Equal(t, domain.FilterUncompleted, m.view.Filter)
	press(t, m, runes("f"))
	assert.Equal(t, domain.FilterAll, m.view.Filter)

	press(t, m, runes("/"))
	assert.Equal(t, modeSearch, m.mode)
	press(t, m, runes("URG"))
	require.Len(t, m.view.Tasks, 1)
	assert.Equal(t, "Pay rent", m.view.Tasks[0].Name)

	press(t, m, runes("zzz"))
	assert.Contains(t, m.View(), "No tasks match.")

	press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, modeList, m.mode)
	press(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	assert.Equal(t, 2, m.view.Count)
}

func TestModel_CursorStaysInRange(t *testing.T) {
	m, a := setupModel(t)
	ctx := context.Background()

	for _, name := range []string{"One", "Two", "Three"} {
		_, err := a.CreateTask(ctx, name, "", time.Time{})
		require.NoError(t, err)
	}
	syncView(t, m, a, func(v viewMsg) bool { return v.Count == 3 })

	press(t, m, runes("j"))
	press(t, m, runes("j"))
	press(t, m, runes("j"))
	assert.Equal(t, 2, m.cursor)
	press(t, m, runes("k"))
	assert.Equal(t, 1, m.cursor)

	press(t, m, runes("/"))
	press(t, m, runes("One"))
	assert.Equal(t, 0, m.cursor)
}

func TestModel_QuitsWhenBackendCloses(t *testing.T) {
	m, _ := setupModel(t)

	_, cmd := m.Update(viewClosedMsg{})
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())

	_, cmd = m.Update(runes("q"))
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}
