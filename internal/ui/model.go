// Package ui is the interactive terminal browser over the displayed list.
package ui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"todo-list/internal/api"
	"todo-list/internal/config"
	"todo-list/internal/domain"
	"todo-list/internal/engine"
	"todo-list/internal/errors"
	"todo-list/internal/live"
)

// mode is what keystrokes currently drive
type mode int

const (
	modeList mode = iota
	modeSearch
	modeAdd
	modeEdit
	modeConfirmDelete
)

// viewMsg carries a new displayed list from the engine
type viewMsg engine.View

// viewClosedMsg means the backend shut down
type viewClosedMsg struct{}

// opDoneMsg reports the outcome of a write
type opDoneMsg struct {
	status string
	err    error
}

// Model is the bubbletea model of the browser
type Model struct {
	api    api.API
	cfg    *config.Config
	keys   KeyMap
	styles Styles
	help   help.Model

	sub  *live.Subscription[engine.View]
	view engine.View

	mode   mode
	cursor int
	search textinput.Model
	name   textinput.Model

	// editing is the task being renamed in modeEdit
	editing domain.Task

	status string
	err    error

	width  int
	height int
}

// New creates a browser over a. It subscribes to the displayed list
// immediately; Close releases the subscription.
func New(a api.API, cfg *config.Config) *Model {
	if cfg == nil {
		cfg = config.NewConfig()
	}

	search := textinput.New()
	search.Placeholder = "Search tasks..."
	search.Prompt = "/ "
	search.CharLimit = 100

	name := textinput.New()
	name.Placeholder = "What needs doing?"
	name.Prompt = "+ "
	name.CharLimit = cfg.Validation.TaskNameMaxLength

	return &Model{
		api:    a,
		cfg:    cfg,
		keys:   DefaultKeyMap(),
		styles: NewStyles(),
		help:   help.New(),
		sub:    a.Watch(),
		view:   a.Displayed(),
		search: search,
		name:   name,
	}
}

// Run shows the browser until the user quits or ctx ends
func Run(ctx context.Context, a api.API, cfg *config.Config) error {
	m := New(a, cfg)
	defer m.Close()

	_, err := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	return err
}

// Close releases the view subscription
func (m *Model) Close() {
	m.sub.Cancel()
}

// Init starts listening for views
func (m *Model) Init() tea.Cmd {
	return waitForView(m.sub)
}

func waitForView(sub *live.Subscription[engine.View]) tea.Cmd {
	return func() tea.Msg {
		v, ok := <-sub.C()
		if !ok {
			return viewClosedMsg{}
		}
		return viewMsg(v)
	}
}

// Update handles messages
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case viewMsg:
		m.setView(engine.View(msg))
		return m, waitForView(m.sub)

	case viewClosedMsg:
		return m, tea.Quit

	case opDoneMsg:
		m.status = msg.status
		m.err = msg.err
		return m, nil

	case tea.KeyMsg:
		switch m.mode {
		case modeSearch:
			return m.updateSearch(msg)
		case modeAdd, modeEdit:
			return m.updateName(msg)
		case modeConfirmDelete:
			return m.updateConfirmDelete(msg)
		default:
			return m.updateList(msg)
		}
	}

	return m, nil
}

func (m *Model) setView(v engine.View) {
	m.view = v
	if m.cursor >= len(v.Tasks) {
		m.cursor = max(0, len(v.Tasks)-1)
	}
}

func (m *Model) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.err = nil

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}

	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(m.view.Tasks)-1 {
			m.cursor++
		}

	case key.Matches(msg, m.keys.Toggle):
		if task, ok := m.selected(); ok {
			return m, m.toggle(task)
		}

	case key.Matches(msg, m.keys.Delete):
		if _, ok := m.selected(); ok {
			m.mode = modeConfirmDelete
		}

	case key.Matches(msg, m.keys.New):
		m.mode = modeAdd
		m.name.Prompt = "+ "
		m.name.SetValue("")
		return m, m.name.Focus()

	case key.Matches(msg, m.keys.Edit):
		task, ok := m.selected()
		if !ok {
			return m, nil
		}
		m.mode = modeEdit
		m.editing = task
		m.name.Prompt = "~ "
		m.name.SetValue(task.Name)
		m.name.CursorEnd()
		return m, m.name.Focus()

	case key.Matches(msg, m.keys.Search):
		m.mode = modeSearch
		return m, m.search.Focus()

	case key.Matches(msg, m.keys.Filter):
		if err := m.api.SetFilter(m.view.Filter.Next()); err != nil {
			m.err = err
		}
		m.setView(m.api.Displayed())

	case key.Matches(msg, m.keys.Back):
		if m.search.Value() != "" {
			m.search.SetValue("")
			m.api.SetSearchQuery("")
			m.setView(m.api.Displayed())
		}
	}

	return m, nil
}

func (m *Model) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Back), key.Matches(msg, m.keys.Enter):
		m.search.Blur()
		m.mode = modeList
		return m, nil
	}

	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	m.api.SetSearchQuery(m.search.Value())
	m.setView(m.api.Displayed())
	return m, cmd
}

// updateName drives the name input for both new and renamed tasks
func (m *Model) updateName(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Back):
		m.name.Blur()
		m.mode = modeList
		return m, nil

	case key.Matches(msg, m.keys.Enter):
		name := m.name.Value()
		m.name.Blur()
		editing := m.mode == modeEdit
		m.mode = modeList
		if editing {
			return m, m.rename(m.editing, name)
		}
		return m, m.create(name)
	}

	var cmd tea.Cmd
	m.name, cmd = m.name.Update(msg)
	return m, cmd
}

func (m *Model) updateConfirmDelete(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.mode = modeList
	if msg.String() != "y" {
		return m, nil
	}
	if task, ok := m.selected(); ok {
		return m, m.delete(task)
	}
	return m, nil
}

func (m *Model) selected() (domain.Task, bool) {
	if m.cursor < 0 || m.cursor >= len(m.view.Tasks) {
		return domain.Task{}, false
	}
	return m.view.Tasks[m.cursor], true
}

// write runs fn in the background with the configured timeout
func (m *Model) write(fn func(ctx context.Context) (string, error)) tea.Cmd {
	timeout := m.cfg.Application.Timeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		status, err := fn(ctx)
		return opDoneMsg{status: status, err: err}
	}
}

func (m *Model) create(name string) tea.Cmd {
	return m.write(func(ctx context.Context) (string, error) {
		task, err := m.api.CreateTask(ctx, name, "", time.Time{})
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("Added %q", task.Name), nil
	})
}

func (m *Model) rename(task domain.Task, name string) tea.Cmd {
	return m.write(func(ctx context.Context) (string, error) {
		updated, err := m.api.EditTask(ctx, task.ID, api.TaskChanges{Name: &name})
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("Updated %q", updated.Name), nil
	})
}

func (m *Model) toggle(task domain.Task) tea.Cmd {
	return m.write(func(ctx context.Context) (string, error) {
		toggled, err := m.api.ToggleTask(ctx, task.ID)
		if err != nil {
			return "", err
		}
		if toggled.IsCompleted {
			return fmt.Sprintf("Completed %q", toggled.Name), nil
		}
		return fmt.Sprintf("Reopened %q", toggled.Name), nil
	})
}

func (m *Model) delete(task domain.Task) tea.Cmd {
	return m.write(func(ctx context.Context) (string, error) {
		if err := m.api.DeleteTask(ctx, task.ID); err != nil {
			return "", err
		}
		return fmt.Sprintf("Deleted %q", task.Name), nil
	})
}

// View renders the browser
func (m *Model) View() string {
	var b strings.Builder

	b.WriteString(m.styles.Title.Render("To-do"))
	b.WriteString("\n")
	b.WriteString(m.renderSearch())
	b.WriteString("\n")
	b.WriteString(m.renderTabs())
	b.WriteString("\n\n")
	b.WriteString(m.renderList())
	b.WriteString(m.styles.Total.Render(fmt.Sprintf("Total: %d", m.view.Count)))
	b.WriteString("\n")
	b.WriteString(m.renderFooter())

	return b.String()
}

func (m *Model) renderSearch() string {
	if m.mode == modeAdd || m.mode == modeEdit {
		return m.styles.SearchFocus.Render(m.name.View())
	}
	if m.mode == modeSearch {
		return m.styles.SearchFocus.Render(m.search.View())
	}
	return m.styles.Search.Render(m.search.View())
}

func (m *Model) renderTabs() string {
	tabs := make([]string, 0, len(domain.FilterModes))
	for _, fm := range domain.FilterModes {
		label := strings.ToUpper(fm.String()[:1]) + fm.String()[1:]
		if fm == m.view.Filter {
			tabs = append(tabs, m.styles.TabActive.Render(label))
		} else {
			tabs = append(tabs, m.styles.Tab.Render(label))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func (m *Model) renderList() string {
	if len(m.view.Tasks) == 0 {
		if m.view.Total == 0 {
			return m.styles.Help.Render("Nothing to do. Press n to add a task.") + "\n"
		}
		return m.styles.Help.Render("No tasks match.") + "\n"
	}

	var b strings.Builder
	for i, task := range m.view.Tasks {
		b.WriteString(m.renderTask(task, i == m.cursor))
		b.WriteString("\n")
	}
	return b.String()
}

func (m *Model) renderTask(task domain.Task, selected bool) string {
	check := "[ ]"
	name := task.Name
	if task.IsCompleted {
		check = "[x]"
		name = m.styles.Completed.Render(name)
	}
	reminder := m.styles.Reminder.Render(task.ReminderAt().Format(m.cfg.Time.DisplayFormat))

	line := fmt.Sprintf("%s %s  %s", check, name, reminder)
	style := m.styles.Item
	if selected {
		style = m.styles.ItemSelected
	}
	out := style.Render(line)

	if m.cfg.Display.ShowNotes && task.Note != "" {
		out += "\n" + m.styles.Note.Render(strings.Join(strings.Fields(task.Note), " "))
	}
	return out
}

func (m *Model) renderFooter() string {
	var lines []string

	switch {
	case m.mode == modeConfirmDelete:
		if task, ok := m.selected(); ok {
			lines = append(lines, m.styles.Error.Render(fmt.Sprintf("Delete %q? (y/n)", task.Name)))
		}
	case m.err != nil:
		lines = append(lines, m.styles.Error.Render(errors.GetUserMessage(m.err)))
	case m.status != "":
		lines = append(lines, m.styles.Status.Render(m.status))
	}

	lines = append(lines, m.styles.Help.Render(m.help.ShortHelpView(m.keys.ShortHelp())))
	return strings.Join(lines, "\n")
}
