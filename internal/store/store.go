// Package store is the persistent task store. Reads go straight to the
// repository; writes are queued to a single background writer and complete
// asynchronously. After every write the live feeds are refreshed, so
// subscribers always converge on the stored state.
package store

import (
	"context"
	"sync"
	"time"

	"todo-list/internal/domain"
	"todo-list/internal/errors"
	"todo-list/internal/live"
	"todo-list/internal/logging"
	"todo-list/internal/repository/sqlite"
)

// Options tune the store.
type Options struct {
	// WriteTimeout bounds one write plus the feed refresh that follows it.
	WriteTimeout time.Duration
	// QueryTimeout bounds one-shot reads.
	QueryTimeout time.Duration
	// QueueSize is the number of writes that may be pending before
	// submitting blocks.
	QueueSize int
}

// DefaultOptions returns the options used when none are configured.
func DefaultOptions() Options {
	return Options{
		WriteTimeout: 5 * time.Second,
		QueryTimeout: 10 * time.Second,
		QueueSize:    64,
	}
}

type job struct {
	ctx   context.Context
	name  string
	apply func(ctx context.Context) (domain.Task, error)
	op    *Op
}

// Store persists tasks and publishes live snapshots of them.
// Slices delivered through feeds are shared between subscribers and must
// not be modified.
type Store struct {
	repo   sqlite.Repository
	mapper *domain.TaskMapper
	opts   Options

	jobs chan job
	quit chan struct{}
	done chan struct{}

	// lifecycle guards closed and sends on jobs.
	lifecycle sync.RWMutex
	closed    bool

	// feedMu serializes feed refreshes with each other and with writes.
	feedMu   sync.Mutex
	all      *live.Signal[[]domain.Task]
	searches map[string]*live.Signal[[]domain.Task]
}

// New opens a store over repo, loads the initial snapshot and starts the
// writer. The store owns repo from here on and closes it in Close.
func New(ctx context.Context, repo sqlite.Repository, opts Options) (*Store, error) {
	def := DefaultOptions()
	if opts.WriteTimeout <= 0 {
		opts.WriteTimeout = def.WriteTimeout
	}
	if opts.QueryTimeout <= 0 {
		opts.QueryTimeout = def.QueryTimeout
	}
	if opts.QueueSize <= 0 {
		opts.QueueSize = def.QueueSize
	}

	s := &Store{
		repo:     repo,
		mapper:   domain.NewTaskMapper(),
		opts:     opts,
		jobs:     make(chan job, opts.QueueSize),
		quit:     make(chan struct{}),
		done:     make(chan struct{}),
		all:      live.NewSignal[[]domain.Task](),
		searches: make(map[string]*live.Signal[[]domain.Task]),
	}

	tasks, err := s.All(ctx)
	if err != nil {
		return nil, err
	}
	s.all.Set(tasks)

	go s.run()
	return s, nil
}

// Insert queues task for insertion. The completed Op carries the task with
// its assigned ID.
func (s *Store) Insert(ctx context.Context, task domain.Task) *Op {
	return s.submit(ctx, "insert task", func(ctx context.Context) (domain.Task, error) {
		row := s.mapper.ToDatabase(task)
		row.ID = 0
		if err := s.repo.CreateTask(ctx, &row); err != nil {
			return domain.Task{}, err
		}
		return s.mapper.FromDatabase(row), nil
	})
}

// Update queues a full replacement of the stored task with task.ID.
// Updating a task that no longer exists succeeds without effect.
func (s *Store) Update(ctx context.Context, task domain.Task) *Op {
	return s.submit(ctx, "update task", func(ctx context.Context) (domain.Task, error) {
		row := s.mapper.ToDatabase(task)
		err := s.repo.UpdateTask(ctx, &row)
		if errors.IsErrorType(err, errors.ErrorTypeNotFound) {
			logging.Debugf("store: update skipped, task %d not found\n", task.ID)
			return task, nil
		}
		return task, err
	})
}

// Delete queues removal of task.ID. Deleting a missing task succeeds
// without effect.
func (s *Store) Delete(ctx context.Context, task domain.Task) *Op {
	return s.submit(ctx, "delete task", func(ctx context.Context) (domain.Task, error) {
		err := s.repo.DeleteTask(ctx, task.ID)
		if errors.IsErrorType(err, errors.ErrorTypeNotFound) {
			logging.Debugf("store: delete skipped, task %d not found\n", task.ID)
			return task, nil
		}
		return task, err
	})
}

// All returns every stored task, earliest reminder first.
func (s *Store) All(ctx context.Context) ([]domain.Task, error) {
	ctx, cancel := context.WithTimeout(ctx, s.opts.QueryTimeout)
	defer cancel()

	rows, err := s.repo.ListTasks(ctx)
	if err != nil {
		return nil, errors.FromContextError("list tasks", err)
	}
	return s.mapper.FromDatabaseList(rows), nil
}

// Search returns the tasks whose name or note contains query.
func (s *Store) Search(ctx context.Context, query string) ([]domain.Task, error) {
	ctx, cancel := context.WithTimeout(ctx, s.opts.QueryTimeout)
	defer cancel()

	rows, err := s.repo.SearchTasks(ctx, query)
	if err != nil {
		return nil, errors.FromContextError("search tasks", err)
	}
	return s.mapper.FromDatabaseList(rows), nil
}

// Get returns the task with the given id.
func (s *Store) Get(ctx context.Context, id int64) (domain.Task, error) {
	ctx, cancel := context.WithTimeout(ctx, s.opts.QueryTimeout)
	defer cancel()

	row, err := s.repo.GetTask(ctx, id)
	if err != nil {
		return domain.Task{}, errors.FromContextError("get task", err)
	}
	return s.mapper.FromDatabase(*row), nil
}

// WatchAll subscribes to the full task list. The current list is delivered
// immediately.
func (s *Store) WatchAll() *live.Subscription[[]domain.Task] {
	return s.all.Subscribe()
}

// WatchSearch subscribes to the tasks matching query. The first
// subscription for a query runs the search before returning.
func (s *Store) WatchSearch(ctx context.Context, query string) (*live.Subscription[[]domain.Task], error) {
	s.lifecycle.RLock()
	closed := s.closed
	s.lifecycle.RUnlock()
	if closed {
		return nil, errors.NewClosedError("watch search")
	}

	s.feedMu.Lock()
	defer s.feedMu.Unlock()

	if sig, ok := s.searches[query]; ok {
		return sig.Subscribe(), nil
	}

	tasks, err := s.Search(ctx, query)
	if err != nil {
		return nil, err
	}
	sig := live.NewSignal[[]domain.Task]()
	sig.Set(tasks)
	s.searches[query] = sig
	return sig.Subscribe(), nil
}

// Close stops accepting writes, waits for queued writes to finish, closes
// every feed and then the repository.
func (s *Store) Close() error {
	s.lifecycle.Lock()
	if s.closed {
		s.lifecycle.Unlock()
		return nil
	}
	s.closed = true
	close(s.quit)
	s.lifecycle.Unlock()

	<-s.done

	s.feedMu.Lock()
	s.all.Close()
	for q, sig := range s.searches {
		sig.Close()
		delete(s.searches, q)
	}
	s.feedMu.Unlock()

	return s.repo.Close()
}

func (s *Store) submit(ctx context.Context, name string, apply func(ctx context.Context) (domain.Task, error)) *Op {
	op := newOp()

	s.lifecycle.RLock()
	defer s.lifecycle.RUnlock()
	if s.closed {
		op.finish(domain.Task{}, errors.NewClosedError(name))
		return op
	}

	select {
	case s.jobs <- job{ctx: ctx, name: name, apply: apply, op: op}:
	case <-ctx.Done():
		op.finish(domain.Task{}, errors.FromContextError(name, ctx.Err()))
	}
	return op
}

func (s *Store) run() {
	defer close(s.done)
	for {
		select {
		case j := <-s.jobs:
			s.process(j)
		case <-s.quit:
			for {
				select {
				case j := <-s.jobs:
					s.process(j)
				default:
					return
				}
			}
		}
	}
}

func (s *Store) process(j job) {
	ctx, cancel := context.WithTimeout(j.ctx, s.opts.WriteTimeout)
	defer cancel()

	s.feedMu.Lock()
	task, err := j.apply(ctx)
	if err != nil {
		s.feedMu.Unlock()
		err = errors.FromContextError(j.name, err)
		logging.Debugf("store: %s failed: %v\n", j.name, err)
		j.op.finish(domain.Task{}, err)
		return
	}
	s.refreshLocked(ctx)
	s.feedMu.Unlock()

	logging.Debugf("store: %s %d\n", j.name, task.ID)
	j.op.finish(task, nil)
}

// refreshLocked reloads every feed. Feeds without subscribers are dropped.
// A failed reload keeps the previous value. Caller holds feedMu.
func (s *Store) refreshLocked(ctx context.Context) {
	rows, err := s.repo.ListTasks(ctx)
	if err != nil {
		logging.Debugf("store: refresh all failed: %v\n", err)
	} else {
		s.all.Set(s.mapper.FromDatabaseList(rows))
	}

	for query, sig := range s.searches {
		if sig.Subscribers() == 0 {
			sig.Close()
			delete(s.searches, query)
			continue
		}
		rows, err := s.repo.SearchTasks(ctx, query)
		if err != nil {
			logging.Debugf("store: refresh search %q failed: %v\n", query, err)
			continue
		}
		sig.Set(s.mapper.FromDatabaseList(rows))
	}
}
