package store

import (
	"context"

	"todo-list/internal/domain"
	"todo-list/internal/errors"
)

// Op is the handle of a queued write. Callers that do not care about the
// outcome can drop it.
type Op struct {
	done chan struct{}
	task domain.Task
	err  error
}

func newOp() *Op {
	return &Op{done: make(chan struct{})}
}

func (o *Op) finish(task domain.Task, err error) {
	o.task = task
	o.err = err
	close(o.done)
}

// Done is closed once the write has finished and feeds are refreshed.
func (o *Op) Done() <-chan struct{} {
	return o.done
}

// Wait blocks until the write finishes or ctx ends.
func (o *Op) Wait(ctx context.Context) (domain.Task, error) {
	select {
	case <-o.done:
		return o.task, o.err
	case <-ctx.Done():
		return domain.Task{}, errors.FromContextError("wait for write", ctx.Err())
	}
}
