package gateway

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"focustimer/internal/kvstore"
	"focustimer/internal/model"
)

type fakeRemote struct {
	tasks    []model.Task
	sessions []model.Session
	configs  []model.TimerConfig

	calls   int
	failAll bool
}

func (r *fakeRemote) record() error {
	r.calls++
	if r.failAll {
		return errors.New("server unreachable")
	}
	return nil
}

func (r *fakeRemote) Tasks(context.Context) ([]model.Task, error) {
	if err := r.record(); err != nil {
		return nil, err
	}
	return r.tasks, nil
}

func (r *fakeRemote) CreateTask(_ context.Context, task model.Task) error {
	if err := r.record(); err != nil {
		return err
	}
	r.tasks = append([]model.Task{task}, r.tasks...)
	return nil
}

func (r *fakeRemote) UpdateTask(_ context.Context, id string, patch model.TaskPatch) error {
	if err := r.record(); err != nil {
		return err
	}
	for i := range r.tasks {
		if r.tasks[i].ID == id {
			patch.Apply(&r.tasks[i])
		}
	}
	return nil
}

func (r *fakeRemote) DeleteTask(_ context.Context, id string) error {
	if err := r.record(); err != nil {
		return err
	}
	kept := r.tasks[:0]
	for _, task := range r.tasks {
		if task.ID != id {
			kept = append(kept, task)
		}
	}
	r.tasks = kept
	return nil
}

func (r *fakeRemote) SaveSession(_ context.Context, session model.Session) error {
	if err := r.record(); err != nil {
		return err
	}
	r.sessions = append(r.sessions, session)
	return nil
}

func (r *fakeRemote) SaveConfig(_ context.Context, cfg model.TimerConfig) error {
	if err := r.record(); err != nil {
		return err
	}
	r.configs = append(r.configs, cfg)
	return nil
}

// brokenStore fails every write once armed, simulating a full or
// corrupt local database.
type brokenStore struct {
	kvstore.Store
	failWrites bool
}

func (s *brokenStore) Set(ctx context.Context, key, value string) error {
	if s.failWrites {
		return errors.New("disk full")
	}
	return s.Store.Set(ctx, key, value)
}

func newTestGateway(remote Remote, userID string) (*Gateway, kvstore.Store) {
	kv := kvstore.NewMemory()
	gw := New(kv, remote, func() string { return userID }, slog.New(slog.NewTextHandler(io.Discard, nil)))
	return gw, kv
}

func TestAddTaskSignedOutNeverTouchesServer(t *testing.T) {
	ctx := context.Background()
	remote := &fakeRemote{}
	gw, _ := newTestGateway(remote, "")

	task := gw.AddTask(ctx, "write report", model.PriorityHigh, model.TaskPatch{})
	require.NotEmpty(t, task.ID)

	tasks := gw.Tasks(ctx)
	require.Len(t, tasks, 1)
	assert.Equal(t, task.ID, tasks[0].ID)
	assert.Equal(t, "write report", tasks[0].Title)
	assert.Zero(t, remote.calls, "signed-out operation must not call the server")
}

func TestAddTaskSendsClientIDToServer(t *testing.T) {
	ctx := context.Background()
	remote := &fakeRemote{}
	gw, _ := newTestGateway(remote, "user-1")

	task := gw.AddTask(ctx, "plan sprint", model.PriorityMedium, model.TaskPatch{})

	require.Len(t, remote.tasks, 1)
	assert.Equal(t, task.ID, remote.tasks[0].ID, "server receives the client-generated id")
}

func TestAddTaskDefaultsInvalidPriority(t *testing.T) {
	ctx := context.Background()
	gw, _ := newTestGateway(&fakeRemote{}, "")

	task := gw.AddTask(ctx, "untriaged", "urgent", model.TaskPatch{})
	assert.Equal(t, model.PriorityMedium, task.Priority)
}

func TestTasksPrefersRemoteAndRefreshesCache(t *testing.T) {
	ctx := context.Background()
	remote := &fakeRemote{tasks: []model.Task{{ID: "remote-1", Title: "from server"}}}
	gw, _ := newTestGateway(remote, "user-1")

	tasks := gw.Tasks(ctx)
	require.Len(t, tasks, 1)
	assert.Equal(t, "remote-1", tasks[0].ID)

	// The fetch result must now be servable offline.
	remote.failAll = true
	tasks = gw.Tasks(ctx)
	require.Len(t, tasks, 1)
	assert.Equal(t, "remote-1", tasks[0].ID)
}

func TestTasksFallsBackToCacheOnServerFailure(t *testing.T) {
	ctx := context.Background()
	remote := &fakeRemote{failAll: true}
	gw, _ := newTestGateway(remote, "")

	local := gw.AddTask(ctx, "offline work", model.PriorityLow, model.TaskPatch{})

	gwAuthed := New(kvFrom(gw), remote, func() string { return "user-1" }, slog.New(slog.NewTextHandler(io.Discard, nil)))
	tasks := gwAuthed.Tasks(ctx)
	require.Len(t, tasks, 1)
	assert.Equal(t, local.ID, tasks[0].ID)
}

// kvFrom reuses a gateway's store to simulate the same device signing in.
func kvFrom(g *Gateway) kvstore.Store { return g.kv }

func TestUpdateTaskAppliesLocallyDespiteServerFailure(t *testing.T) {
	ctx := context.Background()
	remote := &fakeRemote{}
	gw, _ := newTestGateway(remote, "user-1")

	task := gw.AddTask(ctx, "draft", model.PriorityMedium, model.TaskPatch{})

	remote.failAll = true
	completed := true
	require.NoError(t, gw.UpdateTask(ctx, task.ID, model.TaskPatch{Completed: &completed}))

	remoteCallsAfterUpdate := remote.calls
	tasks := gw.Tasks(ctx)
	require.Len(t, tasks, 1)
	assert.True(t, tasks[0].Completed, "local copy patched even though the server write failed")
	assert.Greater(t, remoteCallsAfterUpdate, 1, "server write was attempted")
}

func TestUpdateAndDeleteSurfaceLocalWriteFailure(t *testing.T) {
	ctx := context.Background()
	store := &brokenStore{Store: kvstore.NewMemory()}
	gw := New(store, &fakeRemote{}, func() string { return "" }, slog.New(slog.NewTextHandler(io.Discard, nil)))

	task := gw.AddTask(ctx, "draft", model.PriorityMedium, model.TaskPatch{})

	store.failWrites = true
	completed := true
	assert.Error(t, gw.UpdateTask(ctx, task.ID, model.TaskPatch{Completed: &completed}))
	assert.Error(t, gw.DeleteTask(ctx, task.ID))

	store.failWrites = false
	tasks := gw.Tasks(ctx)
	require.Len(t, tasks, 1)
	assert.False(t, tasks[0].Completed, "failed write left the cache untouched")
}

func TestDeleteTaskRemovesFromCache(t *testing.T) {
	ctx := context.Background()
	gw, _ := newTestGateway(&fakeRemote{failAll: true}, "")

	keep := gw.AddTask(ctx, "keep", model.PriorityMedium, model.TaskPatch{})
	drop := gw.AddTask(ctx, "drop", model.PriorityMedium, model.TaskPatch{})

	require.NoError(t, gw.DeleteTask(ctx, drop.ID))

	tasks := gw.Tasks(ctx)
	require.Len(t, tasks, 1)
	assert.Equal(t, keep.ID, tasks[0].ID)
}

func TestSaveSessionLocalFirstThenMirror(t *testing.T) {
	ctx := context.Background()
	remote := &fakeRemote{}
	gw, _ := newTestGateway(remote, "user-1")

	saved, err := gw.SaveSession(ctx, model.Session{Duration: 25, CompletedAt: 1700000000000, Type: model.SessionTypeFocus})
	require.NoError(t, err)
	require.NotEmpty(t, saved.ID)

	sessions := gw.Sessions(ctx)
	require.Len(t, sessions, 1)
	assert.Equal(t, saved.ID, sessions[0].ID)

	require.Len(t, remote.sessions, 1)
	assert.Equal(t, saved.ID, remote.sessions[0].ID)
}

func TestSaveSessionSurvivesMirrorFailure(t *testing.T) {
	ctx := context.Background()
	remote := &fakeRemote{failAll: true}
	gw, _ := newTestGateway(remote, "user-1")

	_, err := gw.SaveSession(ctx, model.Session{Duration: 5, CompletedAt: 1700000000000, Type: model.SessionTypeBreak})
	require.NoError(t, err, "mirror failures never surface")
	assert.Len(t, gw.Sessions(ctx), 1)
}

func TestSaveSessionCreditsLinkedTask(t *testing.T) {
	ctx := context.Background()
	gw, _ := newTestGateway(&fakeRemote{}, "")

	task := gw.AddTask(ctx, "deep work", model.PriorityHigh, model.TaskPatch{})

	for i := 0; i < 2; i++ {
		_, err := gw.SaveSession(ctx, model.Session{Duration: 25, CompletedAt: 1700000000000, Type: model.SessionTypeFocus, TaskID: task.ID})
		require.NoError(t, err)
	}

	tasks := gw.Tasks(ctx)
	require.Len(t, tasks, 1)
	assert.Equal(t, 2, tasks[0].PomodorosCompleted)
}

func TestSaveSessionToleratesDanglingTask(t *testing.T) {
	ctx := context.Background()
	gw, _ := newTestGateway(&fakeRemote{}, "")

	_, err := gw.SaveSession(ctx, model.Session{Duration: 25, CompletedAt: 1700000000000, Type: model.SessionTypeFocus, TaskID: "gone"})
	require.NoError(t, err)
	assert.Len(t, gw.Sessions(ctx), 1)
}

func TestBreakSessionDoesNotCreditTask(t *testing.T) {
	ctx := context.Background()
	gw, _ := newTestGateway(&fakeRemote{}, "")

	task := gw.AddTask(ctx, "deep work", model.PriorityHigh, model.TaskPatch{})
	_, err := gw.SaveSession(ctx, model.Session{Duration: 5, CompletedAt: 1700000000000, Type: model.SessionTypeBreak, TaskID: task.ID})
	require.NoError(t, err)

	tasks := gw.Tasks(ctx)
	require.Len(t, tasks, 1)
	assert.Zero(t, tasks[0].PomodorosCompleted)
}

func TestClearSessions(t *testing.T) {
	ctx := context.Background()
	gw, _ := newTestGateway(&fakeRemote{}, "")

	_, err := gw.SaveSession(ctx, model.Session{Duration: 25, CompletedAt: 1700000000000, Type: model.SessionTypeFocus})
	require.NoError(t, err)
	require.NoError(t, gw.ClearSessions(ctx))
	assert.Empty(t, gw.Sessions(ctx))
}

func TestPushConfigRequiresAuth(t *testing.T) {
	ctx := context.Background()
	remote := &fakeRemote{}
	gw, _ := newTestGateway(remote, "")

	err := gw.PushConfig(ctx, model.DefaultTimerConfig())
	assert.ErrorIs(t, err, ErrNotAuthenticated)
	assert.Zero(t, remote.calls)
}

func TestInitializeRemoteSeedsConfigAndWelcomeTask(t *testing.T) {
	ctx := context.Background()
	remote := &fakeRemote{}
	gw, _ := newTestGateway(remote, "user-1")

	require.NoError(t, gw.InitializeRemote(ctx, model.DefaultTimerConfig()))
	require.Len(t, remote.configs, 1)
	require.Len(t, remote.tasks, 1)
	assert.NotEmpty(t, remote.tasks[0].ID)
}

func TestInitializeRemoteRequiresAuth(t *testing.T) {
	ctx := context.Background()
	gw, _ := newTestGateway(&fakeRemote{}, "")

	assert.ErrorIs(t, gw.InitializeRemote(ctx, model.DefaultTimerConfig()), ErrNotAuthenticated)
}
