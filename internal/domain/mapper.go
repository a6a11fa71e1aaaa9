package domain

import (
	"todo-list/internal/repository/sqlite"
)

// TaskMapper handles conversion between domain and database Task models.
type TaskMapper struct{}

// NewTaskMapper creates a new TaskMapper instance.
func NewTaskMapper() *TaskMapper {
	return &TaskMapper{}
}

// ToDatabase converts a domain Task to a database Task.
func (m *TaskMapper) ToDatabase(domainTask Task) sqlite.Task {
	return sqlite.Task{
		ID:           domainTask.ID,
		Name:         domainTask.Name,
		IsCompleted:  domainTask.IsCompleted,
		ReminderTime: domainTask.ReminderTime,
		Note:         domainTask.Note,
	}
}

// FromDatabase converts a database Task to a domain Task.
func (m *TaskMapper) FromDatabase(dbTask sqlite.Task) Task {
	return Task{
		ID:           dbTask.ID,
		Name:         dbTask.Name,
		IsCompleted:  dbTask.IsCompleted,
		ReminderTime: dbTask.ReminderTime,
		Note:         dbTask.Note,
	}
}

// FromDatabaseList converts repository rows to domain values, keeping order.
// The result is never nil so an empty list and "no rows" look the same.
func (m *TaskMapper) FromDatabaseList(dbTasks []*sqlite.Task) []Task {
	domainTasks := make([]Task, 0, len(dbTasks))
	for _, task := range dbTasks {
		if task == nil {
			continue
		}
		domainTasks = append(domainTasks, m.FromDatabase(*task))
	}
	return domainTasks
}

// Mapper groups the mappers used by the store.
type Mapper struct {
	Task *TaskMapper
}

// NewMapper creates a new Mapper instance with all sub-mappers.
func NewMapper() *Mapper {
	return &Mapper{
		Task: NewTaskMapper(),
	}
}
