package store

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"todo-list/internal/domain"
	"todo-list/internal/errors"
	"todo-list/internal/live"
	"todo-list/internal/repository/sqlite"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// flakyRepository fails writes on demand.
type flakyRepository struct {
	sqlite.Repository
	mu       sync.Mutex
	failNext error
}

func (r *flakyRepository) failWith(err error) {
	r.mu.Lock()
	r.failNext = err
	r.mu.Unlock()
}

func (r *flakyRepository) takeFailure() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	err := r.failNext
	r.failNext = nil
	return err
}

func (r *flakyRepository) CreateTask(ctx context.Context, task *sqlite.Task) error {
	if err := r.takeFailure(); err != nil {
		return err
	}
	return r.Repository.CreateTask(ctx, task)
}

func newTestStore(t *testing.T) (*Store, *flakyRepository) {
	t.Helper()
	repo, err := sqlite.New(":memory:")
	require.NoError(t, err)

	flaky := &flakyRepository{Repository: repo}
	s, err := New(context.Background(), flaky, DefaultOptions())
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s, flaky
}

func mustInsert(t *testing.T, s *Store, name string, reminder int64) domain.Task {
	t.Helper()
	task, err := s.Insert(context.Background(), domain.Task{Name: name, ReminderTime: reminder}).Wait(context.Background())
	require.NoError(t, err)
	return task
}

func next(t *testing.T, sub *live.Subscription[[]domain.Task]) []domain.Task {
	t.Helper()
	select {
	case tasks, ok := <-sub.C():
		require.True(t, ok, "feed closed")
		return tasks
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for feed")
		return nil
	}
}

func names(tasks []domain.Task) []string {
	out := []string{}
	for _, task := range tasks {
		out = append(out, task.Name)
	}
	return out
}

func TestInsert_AssignsID(t *testing.T) {
	s, _ := newTestStore(t)

	first := mustInsert(t, s, "Buy milk", 100)
	second := mustInsert(t, s, "Pay rent", 200)

	assert.Greater(t, first.ID, int64(0))
	assert.Greater(t, second.ID, first.ID)

	got, err := s.Get(context.Background(), second.ID)
	require.NoError(t, err)
	assert.Equal(t, second, got)
}

func TestInsert_IgnoresCallerID(t *testing.T) {
	s, _ := newTestStore(t)

	task := mustInsert(t, s, "Buy milk", 100)
	copyTask := task
	copyTask.Name = "Buy bread"

	inserted, err := s.Insert(context.Background(), copyTask).Wait(context.Background())
	require.NoError(t, err)
	assert.NotEqual(t, task.ID, inserted.ID)

	all, err := s.All(context.Background())
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestUpdate_ReplacesTask(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	task := mustInsert(t, s, "Pay rent", 100)
	task.IsCompleted = true
	task.Note = "paid"

	_, err := s.Update(ctx, task).Wait(ctx)
	require.NoError(t, err)

	got, err := s.Get(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, task, got)
}

func TestUpdateAndDelete_MissingTaskIsNoOp(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	ghost := domain.Task{ID: 404, Name: "ghost", ReminderTime: 1}

	_, err := s.Update(ctx, ghost).Wait(ctx)
	assert.NoError(t, err)
	_, err = s.Delete(ctx, ghost).Wait(ctx)
	assert.NoError(t, err)

	all, err := s.All(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestDelete_RemovesTask(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	task := mustInsert(t, s, "Buy milk", 100)
	_, err := s.Delete(ctx, task).Wait(ctx)
	require.NoError(t, err)

	_, err = s.Get(ctx, task.ID)
	assert.True(t, errors.IsErrorType(err, errors.ErrorTypeNotFound))
}

func TestWatchAll_EmitsCurrentAndChanges(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	sub := s.WatchAll()
	defer sub.Cancel()
	assert.Empty(t, next(t, sub))

	late := mustInsert(t, s, "late", 300)
	assert.Equal(t, []string{"late"}, names(next(t, sub)))

	mustInsert(t, s, "early", 100)
	assert.Equal(t, []string{"early", "late"}, names(next(t, sub)))

	_, err := s.Delete(ctx, late).Wait(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"early"}, names(next(t, sub)))
}

func TestWatchSearch(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	mustInsert(t, s, "Buy milk", 100)

	sub, err := s.WatchSearch(ctx, "MILK")
	require.NoError(t, err)
	defer sub.Cancel()
	assert.Equal(t, []string{"Buy milk"}, names(next(t, sub)))

	_, err = s.Insert(ctx, domain.Task{Name: "Pay rent", ReminderTime: 50, Note: "not milk related"}).Wait(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Pay rent", "Buy milk"}, names(next(t, sub)))

	again, err := s.WatchSearch(ctx, "MILK")
	require.NoError(t, err)
	defer again.Cancel()
	assert.Len(t, next(t, again), 2)
}

func TestWatchSearch_DropsUnwatchedFeeds(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	sub, err := s.WatchSearch(ctx, "milk")
	require.NoError(t, err)
	sub.Cancel()

	mustInsert(t, s, "Buy milk", 100)

	s.feedMu.Lock()
	_, ok := s.searches["milk"]
	s.feedMu.Unlock()
	assert.False(t, ok)
}

func TestWriteFailure_KeepsFeedAndReportsError(t *testing.T) {
	s, flaky := newTestStore(t)
	ctx := context.Background()

	mustInsert(t, s, "Buy milk", 100)
	sub := s.WatchAll()
	defer sub.Cancel()
	assert.Len(t, next(t, sub), 1)

	flaky.failWith(fmt.Errorf("disk full"))
	_, err := s.Insert(ctx, domain.Task{Name: "Pay rent", ReminderTime: 1}).Wait(ctx)
	require.Error(t, err)
	assert.True(t, errors.IsErrorType(err, errors.ErrorTypeDatabase))
	assert.Contains(t, err.Error(), "disk full")

	select {
	case tasks := <-sub.C():
		t.Fatalf("feed changed after failed write: %v", names(tasks))
	default:
	}
}

func TestWritesAreAppliedInOrder(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	task := mustInsert(t, s, "counter", 1)
	var ops []*Op
	for i := 0; i < 20; i++ {
		task.Note = fmt.Sprintf("rev %d", i)
		ops = append(ops, s.Update(ctx, task))
	}
	for _, op := range ops {
		_, err := op.Wait(ctx)
		require.NoError(t, err)
	}

	got, err := s.Get(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, "rev 19", got.Note)
}

func TestOp_WaitHonoursContext(t *testing.T) {
	op := newOp()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := op.Wait(ctx)
	assert.True(t, errors.IsErrorType(err, errors.ErrorTypeTimeout))
}

func TestClose_DrainsQueuedWrites(t *testing.T) {
	repo, err := sqlite.New(":memory:")
	require.NoError(t, err)
	s, err := New(context.Background(), repo, DefaultOptions())
	require.NoError(t, err)

	ctx := context.Background()
	var ops []*Op
	for i := 0; i < 10; i++ {
		ops = append(ops, s.Insert(ctx, domain.Task{Name: fmt.Sprintf("task %d", i), ReminderTime: int64(i + 1)}))
	}
	sub := s.WatchAll()

	require.NoError(t, s.Close())
	for _, op := range ops {
		select {
		case <-op.Done():
		default:
			t.Fatal("queued write not finished after Close")
		}
	}

	// The feed is closed after delivering its last value.
	var last []domain.Task
	for tasks := range sub.C() {
		last = tasks
	}
	assert.Len(t, last, 10)

	_, err = s.Insert(ctx, domain.Task{Name: "late", ReminderTime: 1}).Wait(ctx)
	assert.True(t, errors.IsErrorType(err, errors.ErrorTypeClosed), "got %v", err)
	_, err = s.WatchSearch(ctx, "late")
	assert.True(t, errors.IsErrorType(err, errors.ErrorTypeClosed), "got %v", err)
	assert.NoError(t, s.Close())
}
