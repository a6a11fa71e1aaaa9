// Package api is the validation boundary between the command surfaces and
// the task store. Every intent is checked here before it reaches the store,
// and the displayed list is served from the filter engine.
package api

import (
	"context"
	"strconv"
	"time"

	"todo-list/internal/config"
	"todo-list/internal/domain"
	"todo-list/internal/engine"
	"todo-list/internal/errors"
	"todo-list/internal/live"
	"todo-list/internal/logging"
	"todo-list/internal/store"
	"todo-list/internal/validation"
)

// API defines the interface for all to-do operations.
type API interface {
	// Task operations
	CreateTask(ctx context.Context, name, note string, reminder time.Time) (domain.Task, error)
	GetTask(ctx context.Context, id int64) (domain.Task, error)
	UpdateTask(ctx context.Context, task domain.Task) (domain.Task, error)
	EditTask(ctx context.Context, id int64, changes TaskChanges) (domain.Task, error)
	ToggleTask(ctx context.Context, id int64) (domain.Task, error)
	DeleteTask(ctx context.Context, id int64) error
	ListTasks(ctx context.Context) ([]domain.Task, error)
	SearchTasks(ctx context.Context, query string, mode domain.FilterMode) ([]domain.Task, error)

	// Displayed list
	SetSearchQuery(text string)
	SetFilter(mode domain.FilterMode) error
	Displayed() engine.View
	Watch() *live.Subscription[engine.View]

	Close() error
}

// TaskChanges lists the fields to replace in EditTask. Nil means unchanged.
type TaskChanges struct {
	Name      *string
	Note      *string
	Reminder  *time.Time
	Completed *bool
}

// IsEmpty reports whether no field is set.
func (c TaskChanges) IsEmpty() bool {
	return c.Name == nil && c.Note == nil && c.Reminder == nil && c.Completed == nil
}

type apiImpl struct {
	store     *store.Store
	engine    *engine.Engine
	validator *validation.TaskValidator
	offset    time.Duration
	now       func() time.Time
}

// New creates an API over an open store and an engine following it.
// The API owns both and closes them in Close.
func New(st *store.Store, eng *engine.Engine, cfg *config.Config) API {
	if cfg == nil {
		cfg = config.NewConfig()
	}
	return &apiImpl{
		store:     st,
		engine:    eng,
		validator: validation.NewTaskValidatorWithConfig(cfg),
		offset:    cfg.Time.DefaultReminderOffset,
		now:       time.Now,
	}
}

// Open builds the whole backend described by cfg: repository, store and
// engine, with the engine starting on the configured default filter.
func Open(ctx context.Context, cfg *config.Config) (API, error) {
	repo, err := config.CreateRepository(cfg)
	if err != nil {
		return nil, errors.NewDatabaseError("open database", err)
	}

	st, err := store.New(ctx, repo, store.Options{
		WriteTimeout: cfg.GetWriteTimeout(),
		QueryTimeout: cfg.GetQueryTimeout(),
	})
	if err != nil {
		repo.Close()
		return nil, err
	}

	eng, err := engine.New(ctx, st)
	if err != nil {
		st.Close()
		return nil, err
	}
	if err := eng.SetFilter(cfg.DefaultFilterMode()); err != nil {
		eng.Close()
		st.Close()
		return nil, err
	}

	return New(st, eng, cfg), nil
}

// CreateTask validates and stores a new task. A zero reminder means the
// default: the configured offset from now, on the hour.
func (a *apiImpl) CreateTask(ctx context.Context, name, note string, reminder time.Time) (domain.Task, error) {
	if reminder.IsZero() {
		reminder = a.defaultReminder()
	}

	task := a.validator.CleanTask(domain.Task{Name: name, Note: note, ReminderTime: reminder.UnixMilli()})
	if err := a.validator.ValidateTaskForCreation(task); err != nil {
		return domain.Task{}, validationFailed(err)
	}

	created, err := a.engine.Insert(ctx, task).Wait(ctx)
	if err != nil {
		return domain.Task{}, err
	}
	logging.Debugf("api: created task %d %q\n", created.ID, created.Name)
	return created, nil
}

func (a *apiImpl) GetTask(ctx context.Context, id int64) (domain.Task, error) {
	if err := a.validator.ValidateTaskID(id); err != nil {
		return domain.Task{}, validationFailed(err)
	}
	return a.store.Get(ctx, id)
}

// UpdateTask replaces the stored task with task.ID. Naming an unknown task
// is reported as not found.
func (a *apiImpl) UpdateTask(ctx context.Context, task domain.Task) (domain.Task, error) {
	task = a.validator.CleanTask(task)
	if err := a.validator.ValidateTaskForUpdate(task); err != nil {
		return domain.Task{}, validationFailed(err)
	}
	if _, err := a.store.Get(ctx, task.ID); err != nil {
		return domain.Task{}, err
	}
	return a.engine.Update(ctx, task).Wait(ctx)
}

// EditTask applies changes to the stored task with the given id.
func (a *apiImpl) EditTask(ctx context.Context, id int64, changes TaskChanges) (domain.Task, error) {
	if changes.IsEmpty() {
		return domain.Task{}, errors.NewInvalidInputError("changes", nil, "nothing to change")
	}

	task, err := a.GetTask(ctx, id)
	if err != nil {
		return domain.Task{}, err
	}
	if changes.Name != nil {
		task.Name = *changes.Name
	}
	if changes.Note != nil {
		task.Note = *changes.Note
	}
	if changes.Reminder != nil {
		task.ReminderTime = changes.Reminder.UnixMilli()
	}
	if changes.Completed != nil {
		task.IsCompleted = *changes.Completed
	}
	return a.UpdateTask(ctx, task)
}

// ToggleTask flips the completion flag of the stored task.
func (a *apiImpl) ToggleTask(ctx context.Context, id int64) (domain.Task, error) {
	task, err := a.GetTask(ctx, id)
	if err != nil {
		return domain.Task{}, err
	}
	return a.engine.Toggle(ctx, task).Wait(ctx)
}

// DeleteTask removes the stored task with the given id.
func (a *apiImpl) DeleteTask(ctx context.Context, id int64) error {
	task, err := a.GetTask(ctx, id)
	if err != nil {
		return err
	}
	_, err = a.engine.Delete(ctx, task).Wait(ctx)
	return err
}

func (a *apiImpl) ListTasks(ctx context.Context) ([]domain.Task, error) {
	return a.store.All(ctx)
}

// SearchTasks reads the store's search feed for query once and narrows it
// to mode.
func (a *apiImpl) SearchTasks(ctx context.Context, query string, mode domain.FilterMode) ([]domain.Task, error) {
	if !mode.IsValid() {
		return nil, errors.NewInvalidInputError("filter", int(mode), "unknown filter mode")
	}

	sub, err := a.store.WatchSearch(ctx, query)
	if err != nil {
		return nil, err
	}
	defer sub.Cancel()

	select {
	case tasks, ok := <-sub.C():
		if !ok {
			return nil, errors.NewClosedError("search tasks")
		}
		return engine.Apply(tasks, "", mode), nil
	case <-ctx.Done():
		return nil, errors.FromContextError("search tasks", ctx.Err())
	}
}

func (a *apiImpl) SetSearchQuery(text string) {
	a.engine.SetSearchQuery(text)
}

func (a *apiImpl) SetFilter(mode domain.FilterMode) error {
	return a.engine.SetFilter(mode)
}

func (a *apiImpl) Displayed() engine.View {
	return a.engine.Displayed()
}

func (a *apiImpl) Watch() *live.Subscription[engine.View] {
	return a.engine.Watch()
}

// Close stops the engine, drains pending writes and closes the database.
func (a *apiImpl) Close() error {
	a.engine.Close()
	return a.store.Close()
}

// defaultReminder is now plus the configured offset, truncated to the hour.
func (a *apiImpl) defaultReminder() time.Time {
	return domain.DefaultReminder(a.now().Add(a.offset - time.Hour))
}

// validationFailed wraps field errors as a validation AppError whose message
// is the user-facing summary.
func validationFailed(err error) error {
	ve, ok := err.(*validation.ValidationError)
	if !ok {
		return err
	}
	appErr := errors.NewValidationError(ve.GetUserFriendlyMessage(), ve)
	for _, fe := range ve.Errors {
		appErr.WithContext(fe.Field, fe.Value)
	}
	return appErr
}

// ParseTaskID parses a user-supplied task ID.
func ParseTaskID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, errors.NewInvalidInputError("id", s, "must be a positive integer")
	}
	return id, nil
}
