package engine

import (
	"context"
	"testing"
	"time"

	"todo-list/internal/domain"
	"todo-list/internal/live"
	"todo-list/internal/repository/sqlite"
	"todo-list/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestEngine(t *testing.T, seed ...domain.Task) (*Engine, *store.Store) {
	t.Helper()
	ctx := context.Background()

	repo, err := sqlite.New(":memory:")
	require.NoError(t, err)
	s, err := store.New(ctx, repo, store.DefaultOptions())
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	for _, task := range seed {
		_, err := s.Insert(ctx, task).Wait(ctx)
		require.NoError(t, err)
	}

	e, err := New(ctx, s)
	require.NoError(t, err)
	t.Cleanup(e.Close)
	return e, s
}

func seedScenario() []domain.Task {
	return []domain.Task{
		{Name: "Buy milk", IsCompleted: false, ReminderTime: 1000, Note: ""},
		{Name: "Pay rent", IsCompleted: true, ReminderTime: 2000, Note: "urgent"},
	}
}

func displayedIDs(e *Engine) []int64 {
	ids := []int64{}
	for _, task := range e.Displayed().Tasks {
		ids = append(ids, task.ID)
	}
	return ids
}

func TestEngine_InitialView(t *testing.T) {
	e, _ := newTestEngine(t, seedScenario()...)

	view := e.Displayed()
	assert.Equal(t, 2, view.Count)
	assert.Equal(t, 2, view.Total)
	assert.Equal(t, domain.FilterAll, view.Filter)
	assert.Equal(t, "", view.Query)
	assert.Equal(t, []int64{1, 2}, displayedIDs(e))
}

func TestEngine_Scenario(t *testing.T) {
	e, _ := newTestEngine(t, seedScenario()...)

	require.NoError(t, e.SetFilter(domain.FilterCompleted))
	assert.Equal(t, []int64{2}, displayedIDs(e))

	require.NoError(t, e.SetFilter(domain.FilterAll))
	e.SetSearchQuery("urg")
	assert.Equal(t, []int64{2}, displayedIDs(e))

	e.SetSearchQuery("milk")
	require.NoError(t, e.SetFilter(domain.FilterCompleted))
	assert.Equal(t, []int64{}, displayedIDs(e))
	assert.Equal(t, 0, e.Displayed().Count)

	e.SetSearchQuery("")
	require.NoError(t, e.SetFilter(domain.FilterAll))
	assert.Equal(t, []int64{1, 2}, displayedIDs(e))
}

func TestEngine_SetFilterRejectsUnknownMode(t *testing.T) {
	e, _ := newTestEngine(t)

	err := e.SetFilter(domain.FilterMode(7))
	assert.Error(t, err)
	assert.Equal(t, domain.FilterAll, e.Displayed().Filter)
}

func TestEngine_RecomputeIsIdempotent(t *testing.T) {
	e, _ := newTestEngine(t, seedScenario()...)

	e.SetSearchQuery("r")
	first := e.Displayed()
	e.SetSearchQuery("r")
	assert.Equal(t, first, e.Displayed())
}

func TestEngine_FollowsStoreWrites(t *testing.T) {
	e, _ := newTestEngine(t)
	ctx := context.Background()

	inserted, err := e.Insert(ctx, domain.Task{Name: "Buy milk", ReminderTime: 1000, Note: "2l"}).Wait(ctx)
	require.NoError(t, err)
	require.Eventually(t, func() bool { return e.Displayed().Count == 1 }, 2*time.Second, 5*time.Millisecond)

	got := e.Displayed().Tasks[0]
	assert.Equal(t, inserted, got)
	assert.Equal(t, "Buy milk", got.Name)
	assert.Equal(t, "2l", got.Note)

	_, err = e.Toggle(ctx, got).Wait(ctx)
	require.NoError(t, err)
	require.Eventually(t, func() bool {
		view := e.Displayed()
		return view.Count == 1 && view.Tasks[0].IsCompleted
	}, 2*time.Second, 5*time.Millisecond)

	renamed := e.Displayed().Tasks[0]
	renamed.Name = "Buy oat milk"
	_, err = e.Update(ctx, renamed).Wait(ctx)
	require.NoError(t, err)
	require.Eventually(t, func() bool {
		view := e.Displayed()
		return view.Count == 1 && view.Tasks[0].Name == "Buy oat milk" && view.Tasks[0].ID == inserted.ID
	}, 2*time.Second, 5*time.Millisecond)

	_, err = e.Delete(ctx, renamed).Wait(ctx)
	require.NoError(t, err)
	require.Eventually(t, func() bool { return e.Displayed().Count == 0 }, 2*time.Second, 5*time.Millisecond)
}

func TestEngine_FilterAppliesToIncomingWrites(t *testing.T) {
	e, _ := newTestEngine(t, seedScenario()...)
	ctx := context.Background()

	require.NoError(t, e.SetFilter(domain.FilterUncompleted))
	assert.Equal(t, []int64{1}, displayedIDs(e))

	_, err := e.Insert(ctx, domain.Task{Name: "Done already", IsCompleted: true, ReminderTime: 1}).Wait(ctx)
	require.NoError(t, err)
	_, err = e.Insert(ctx, domain.Task{Name: "Walk dog", ReminderTime: 3000}).Wait(ctx)
	require.NoError(t, err)

	require.Eventually(t, func() bool { return e.Displayed().Total == 4 }, 2*time.Second, 5*time.Millisecond)
	assert.Equal(t, []int64{1, 4}, displayedIDs(e))
}

func TestEngine_Watch(t *testing.T) {
	e, _ := newTestEngine(t, seedScenario()...)

	sub := e.Watch()
	defer sub.Cancel()

	view := <-sub.C()
	assert.Equal(t, 2, view.Count)

	e.SetSearchQuery("milk")
	select {
	case view = <-sub.C():
	case <-time.After(time.Second):
		t.Fatal("no view published after SetSearchQuery")
	}
	assert.Equal(t, 1, view.Count)
	assert.Equal(t, "milk", view.Query)
}

func TestEngine_Close(t *testing.T) {
	e, _ := newTestEngine(t)
	sub := e.Watch()

	e.Close()
	e.Close()

	for range sub.C() {
	}
}

func TestNew_FeedUnavailable(t *testing.T) {
	repo, err := sqlite.New(":memory:")
	require.NoError(t, err)
	s, err := store.New(context.Background(), repo, store.DefaultOptions())
	require.NoError(t, err)
	require.NoError(t, s.Close())

	// Subscribing to a closed store yields a closed feed.
	_, err = New(context.Background(), s)
	assert.Error(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = New(ctx, neverSource{})
	assert.Error(t, err)
}

// neverSource is a Source whose feed never delivers.
type neverSource struct{}

func (neverSource) WatchAll() *live.Subscription[[]domain.Task] {
	return live.NewSignal[[]domain.Task]().Subscribe()
}

func (neverSource) Insert(context.Context, domain.Task) *store.Op { return nil }
func (neverSource) Update(context.Context, domain.Task) *store.Op { return nil }
func (neverSource) Delete(context.Context, domain.Task) *store.Op { return nil }
