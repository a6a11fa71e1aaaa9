package engine

import (
	"todo-list/internal/domain"
)

// View is one published state of the displayed list.
type View struct {
	Tasks  []domain.Task
	Count  int
	Total  int
	Query  string
	Filter domain.FilterMode
}

// Apply narrows tasks to those matching query (case-insensitive substring of
// name or note) and passing mode, keeping the incoming order. An empty query
// places no text constraint. The result is never nil and never aliases tasks.
func Apply(tasks []domain.Task, query string, mode domain.FilterMode) []domain.Task {
	out := make([]domain.Task, 0, len(tasks))
	for _, task := range tasks {
		if task.Matches(query) && mode.Keep(task) {
			out = append(out, task)
		}
	}
	return out
}

func buildView(all []domain.Task, query string, mode domain.FilterMode) View {
	tasks := Apply(all, query, mode)
	return View{
		Tasks:  tasks,
		Count:  len(tasks),
		Total:  len(all),
		Query:  query,
		Filter: mode,
	}
}
