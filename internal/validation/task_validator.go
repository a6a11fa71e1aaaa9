package validation

import (
	"todo-list/internal/config"
	"todo-list/internal/domain"
)

// TaskValidator provides validation for Task-related operations
type TaskValidator struct {
	validator *Validator
}

// NewTaskValidator creates a new task validator
func NewTaskValidator() *TaskValidator {
	return &TaskValidator{
		validator: NewValidator(),
	}
}

// NewTaskValidatorWithConfig creates a task validator using configured limits
func NewTaskValidatorWithConfig(cfg *config.Config) *TaskValidator {
	return &TaskValidator{
		validator: NewValidatorWithConfig(cfg),
	}
}

// Validator exposes the underlying validator
func (tv *TaskValidator) Validator() *Validator {
	return tv.validator
}

// ValidateTaskName validates a task name for creation or update
func (tv *TaskValidator) ValidateTaskName(name string) error {
	validationError := NewValidationError()
	trimmedName := tv.validator.TrimAndValidateString(name)

	if !tv.validator.IsNonEmptyString(trimmedName) {
		validationError.AddRequiredError(FieldName)
		return validationError
	}

	if !tv.validator.IsValidTaskNameLength(trimmedName) {
		validationError.AddInvalidLengthError(FieldName, trimmedName,
			tv.validator.getTaskNameMinLength(), tv.validator.getTaskNameMaxLength())
	}

	if !tv.validator.IsValidTaskName(trimmedName) {
		validationError.AddInvalidCharacterError(FieldName, trimmedName)
	}

	return validationError.OrNil()
}

// ValidateNote validates an optional note
func (tv *TaskValidator) ValidateNote(note string) error {
	validationError := NewValidationError()
	trimmed := tv.validator.TrimAndValidateString(note)

	if !tv.validator.IsValidNoteLength(trimmed) {
		validationError.AddInvalidLengthError(FieldNote, trimmed, 0, tv.validator.getNoteMaxLength())
	}
	if !tv.validator.IsValidNote(trimmed) {
		validationError.AddInvalidCharacterError(FieldNote, trimmed)
	}

	return validationError.OrNil()
}

// ValidateReminderTime validates a reminder in epoch milliseconds
func (tv *TaskValidator) ValidateReminderTime(ms int64) error {
	if ms <= 0 {
		validationError := NewValidationError()
		validationError.AddRequiredError(FieldReminder)
		return validationError
	}
	if !tv.validator.IsValidReminderTime(ms) {
		validationError := NewValidationError()
		validationError.AddInvalidValueError(FieldReminder, ms, "must be within ten years of now")
		return validationError
	}
	return nil
}

// ValidateTaskID validates a task ID
func (tv *TaskValidator) ValidateTaskID(id int64) error {
	if !tv.validator.IsValidTaskID(id) {
		validationError := NewValidationError()
		validationError.AddInvalidValueError(FieldID, id, "must be a positive integer")
		return validationError
	}
	return nil
}

// ValidateTask validates every field of task. A zero ID is allowed.
func (tv *TaskValidator) ValidateTask(task domain.Task) error {
	validationError := NewValidationError()

	if task.ID != 0 {
		validationError.Merge(FieldID, tv.ValidateTaskID(task.ID))
	}
	validationError.Merge(FieldName, tv.ValidateTaskName(task.Name))
	validationError.Merge(FieldNote, tv.ValidateNote(task.Note))
	validationError.Merge(FieldReminder, tv.ValidateReminderTime(task.ReminderTime))

	return validationError.OrNil()
}

// ValidateTaskForCreation validates a task that has not been stored yet
func (tv *TaskValidator) ValidateTaskForCreation(task domain.Task) error {
	validationError := NewValidationError()

	if task.ID != 0 {
		validationError.AddInvalidValueError(FieldID, task.ID, "is assigned by the store")
	}
	validationError.Merge(FieldName, tv.ValidateTask(domain.Task{
		Name:         task.Name,
		Note:         task.Note,
		ReminderTime: task.ReminderTime,
	}))

	return validationError.OrNil()
}

// ValidateTaskForUpdate validates a replacement for a stored task
func (tv *TaskValidator) ValidateTaskForUpdate(task domain.Task) error {
	validationError := NewValidationError()

	validationError.Merge(FieldID, tv.ValidateTaskID(task.ID))
	if task.IsPersisted() {
		validationError.Merge(FieldName, tv.ValidateTask(task))
	} else {
		validationError.Merge(FieldName, tv.ValidateTask(domain.Task{
			Name:         task.Name,
			Note:         task.Note,
			ReminderTime: task.ReminderTime,
		}))
	}

	return validationError.OrNil()
}

// CleanTask returns task with surrounding whitespace removed from name and note
func (tv *TaskValidator) CleanTask(task domain.Task) domain.Task {
	task.Name = tv.validator.TrimAndValidateString(task.Name)
	task.Note = tv.validator.TrimAndValidateString(task.Note)
	return task
}

