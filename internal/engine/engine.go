// Package engine derives the displayed task list from the stored tasks, the
// search text and the filter mode.
package engine

import (
	"context"
	"sync"

	"todo-list/internal/domain"
	"todo-list/internal/errors"
	"todo-list/internal/live"
	"todo-list/internal/logging"
	"todo-list/internal/store"
)

// Source is the slice of the store the engine needs.
type Source interface {
	WatchAll() *live.Subscription[[]domain.Task]
	Insert(ctx context.Context, task domain.Task) *store.Op
	Update(ctx context.Context, task domain.Task) *store.Op
	Delete(ctx context.Context, task domain.Task) *store.Op
}

// Engine owns the search text and filter mode for one screen or command.
// Every input change recomputes the view before it is published.
type Engine struct {
	src Source

	mu      sync.Mutex
	all     []domain.Task
	query   string
	filter  domain.FilterMode
	current View

	views *live.Signal[View]
	feed  *live.Subscription[[]domain.Task]
	done  chan struct{}
	once  sync.Once
}

// New subscribes to src and waits for the first task list, so Displayed is
// meaningful as soon as New returns.
func New(ctx context.Context, src Source) (*Engine, error) {
	feed := src.WatchAll()

	var first []domain.Task
	select {
	case tasks, ok := <-feed.C():
		if !ok {
			return nil, errors.NewClosedError("watch tasks")
		}
		first = tasks
	case <-ctx.Done():
		feed.Cancel()
		return nil, errors.FromContextError("load tasks", ctx.Err())
	}

	e := &Engine{
		src:    src,
		all:    first,
		filter: domain.FilterAll,
		views:  live.NewSignal[View](),
		feed:   feed,
		done:   make(chan struct{}),
	}
	e.recomputeLocked()

	go e.run()
	return e, nil
}

func (e *Engine) run() {
	defer close(e.done)
	for tasks := range e.feed.C() {
		e.mu.Lock()
		e.all = tasks
		e.recomputeLocked()
		e.mu.Unlock()
	}
}

// recomputeLocked rebuilds the view and publishes it. Caller holds mu.
func (e *Engine) recomputeLocked() {
	e.current = buildView(e.all, e.query, e.filter)
	logging.Debugf("engine: %d of %d tasks (query %q, filter %s)\n",
		e.current.Count, e.current.Total, e.query, e.filter)
	e.views.Set(e.current)
}

// SetSearchQuery replaces the search text.
func (e *Engine) SetSearchQuery(text string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.query = text
	e.recomputeLocked()
}

// SetFilter selects the filter mode.
func (e *Engine) SetFilter(mode domain.FilterMode) error {
	if !mode.IsValid() {
		return errors.NewInvalidInputError("filter", int(mode), "unknown filter mode")
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.filter = mode
	e.recomputeLocked()
	return nil
}

// Displayed returns the current view.
func (e *Engine) Displayed() View {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.current
}

// Watch subscribes to views; the current one is delivered immediately.
func (e *Engine) Watch() *live.Subscription[View] {
	return e.views.Subscribe()
}

// Insert forwards to the store. The view updates once the write lands.
func (e *Engine) Insert(ctx context.Context, task domain.Task) *store.Op {
	return e.src.Insert(ctx, task)
}

// Update forwards to the store.
func (e *Engine) Update(ctx context.Context, task domain.Task) *store.Op {
	return e.src.Update(ctx, task)
}

// Delete forwards to the store.
func (e *Engine) Delete(ctx context.Context, task domain.Task) *store.Op {
	return e.src.Delete(ctx, task)
}

// Toggle stores task with its completion flag flipped.
func (e *Engine) Toggle(ctx context.Context, task domain.Task) *store.Op {
	return e.src.Update(ctx, task.Toggled())
}

// Close stops following the store and closes view subscriptions.
func (e *Engine) Close() {
	e.once.Do(func() {
		e.feed.Cancel()
		<-e.done
		e.views.Close()
	})
}
