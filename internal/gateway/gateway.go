// Package gateway merges the fast local cache and the optional sync
// server into one persistence surface for tasks, sessions and timer
// configuration. Local is the cache of record when offline; the server
// is the source of truth for tasks when a user is signed in. Remote
// failures fall back to local state, are logged, and are never
// retried.
package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"focustimer/internal/kvstore"
	"focustimer/internal/model"
)

const (
	keyTasks    = "tasks"
	keySessions = "sessions"
)

// Remote is the sync-server surface the gateway depends on. Every call
// presumes an authenticated session; the gateway never invokes it
// without one.
type Remote interface {
	Tasks(ctx context.Context) ([]model.Task, error)
	CreateTask(ctx context.Context, task model.Task) error
	UpdateTask(ctx context.Context, id string, patch model.TaskPatch) error
	DeleteTask(ctx context.Context, id string) error
	SaveSession(ctx context.Context, session model.Session) error
	SaveConfig(ctx context.Context, cfg model.TimerConfig) error
}

// UserIDFunc supplies the current authenticated user id, or "" when
// signed out.
type UserIDFunc func() string

type Gateway struct {
	kv     kvstore.Store
	remote Remote
	userID UserIDFunc
	log    *slog.Logger
	now    func() time.Time
}

func New(kv kvstore.Store, remote Remote, userID UserIDFunc, log *slog.Logger) *Gateway {
	return &Gateway{
		kv:     kv,
		remote: remote,
		userID: userID,
		log:    log,
		now:    time.Now,
	}
}

func (g *Gateway) authenticated() bool {
	return g.remote != nil && g.userID() != ""
}

// Tasks returns the task list, preferring the server when signed in
// and overwriting the local cache with its result. Any failure falls
// back to the cached list.
func (g *Gateway) Tasks(ctx context.Context) []model.Task {
	if g.authenticated() {
		tasks, err := g.remote.Tasks(ctx)
		if err == nil {
			if cacheErr := g.writeTaskCache(ctx, tasks); cacheErr != nil {
				g.log.Warn("refresh task cache", "error", cacheErr)
			}
			return tasks
		}
		g.log.Warn("fetch remote tasks, using local cache", "error", err)
	}
	return g.readTaskCache(ctx)
}

// AddTask creates a task with a stable client-generated id. The same
// id is sent to the server, so a failed remote write never leaves the
// local and remote copies disagreeing about identity.
func (g *Gateway) AddTask(ctx context.Context, title, priority string, extra model.TaskPatch) model.Task {
	if !model.ValidPriority(priority) {
		priority = model.PriorityMedium
	}
	task := model.Task{
		ID:        uuid.NewString(),
		Title:     title,
		CreatedAt: g.now().UnixMilli(),
		Priority:  priority,
	}
	extra.Apply(&task)

	if g.authenticated() {
		if err := g.remote.CreateTask(ctx, task); err != nil {
			g.log.Warn("create remote task, keeping local copy", "task", task.ID, "error", err)
		}
	}

	tasks := g.readTaskCache(ctx)
	if err := g.writeTaskCache(ctx, append([]model.Task{task}, tasks...)); err != nil {
		g.log.Warn("cache new task", "task", task.ID, "error", err)
	}
	return task
}

// UpdateTask patches the task on the server and in the cache
// independently; a remote failure is logged and not rolled back on
// the local side. The returned error reports only a failed local
// write.
func (g *Gateway) UpdateTask(ctx context.Context, id string, patch model.TaskPatch) error {
	if g.authenticated() {
		if err := g.remote.UpdateTask(ctx, id, patch); err != nil {
			g.log.Warn("update remote task", "task", id, "error", err)
		}
	}

	tasks := g.readTaskCache(ctx)
	for i := range tasks {
		if tasks[i].ID == id {
			patch.Apply(&tasks[i])
		}
	}
	return g.writeTaskCache(ctx, tasks)
}

// DeleteTask removes the task on both sides; like UpdateTask, only a
// failed local write surfaces.
func (g *Gateway) DeleteTask(ctx context.Context, id string) error {
	if g.authenticated() {
		if err := g.remote.DeleteTask(ctx, id); err != nil {
			g.log.Warn("delete remote task", "task", id, "error", err)
		}
	}

	tasks := g.readTaskCache(ctx)
	kept := tasks[:0]
	for _, task := range tasks {
		if task.ID != id {
			kept = append(kept, task)
		}
	}
	return g.writeTaskCache(ctx, kept)
}

// Sessions returns the local history. Session reads never consult the
// server; the mirror exists for backup, not for reading back.
func (g *Gateway) Sessions(ctx context.Context) []model.Session {
	raw, ok, err := g.kv.Get(ctx, keySessions)
	if err != nil {
		g.log.Warn("read session history", "error", err)
		return nil
	}
	if !ok {
		return nil
	}
	var sessions []model.Session
	if err := json.Unmarshal([]byte(raw), &sessions); err != nil {
		g.log.Warn("decode session history", "error", err)
		return nil
	}
	return sessions
}

// SaveSession appends to the local history unconditionally, then
// mirrors to the server best-effort. A focus session linked to a task
// also bumps that task's pomodoro count.
func (g *Gateway) SaveSession(ctx context.Context, session model.Session) (model.Session, error) {
	session.ID = uuid.NewString()

	sessions := append([]model.Session{session}, g.Sessions(ctx)...)
	encoded, err := json.Marshal(sessions)
	if err != nil {
		return session, err
	}
	if err := g.kv.Set(ctx, keySessions, string(encoded)); err != nil {
		return session, err
	}

	if session.Type == model.SessionTypeFocus && session.TaskID != "" {
		g.creditTask(ctx, session.TaskID)
	}

	if g.authenticated() {
		if err := g.remote.SaveSession(ctx, session); err != nil {
			g.log.Warn("mirror session", "session", session.ID, "error", err)
		}
	}
	return session, nil
}

// ClearSessions wipes the local history. Only ever called from an
// explicit user action.
func (g *Gateway) ClearSessions(ctx context.Context) error {
	return g.kv.Remove(ctx, keySessions)
}

// PushConfig writes the timer configuration to the server. Settings
// are local-only otherwise; nothing pushes them automatically.
func (g *Gateway) PushConfig(ctx context.Context, cfg model.TimerConfig) error {
	if !g.authenticated() {
		return ErrNotAuthenticated
	}
	return g.remote.SaveConfig(ctx, cfg)
}

// InitializeRemote seeds a fresh account: the current configuration
// plus a welcome task. User-triggered.
func (g *Gateway) InitializeRemote(ctx context.Context, cfg model.TimerConfig) error {
	if !g.authenticated() {
		return ErrNotAuthenticated
	}
	if err := g.remote.SaveConfig(ctx, cfg); err != nil {
		return err
	}
	welcome := model.Task{
		ID:        uuid.NewString(),
		Title:     "Welcome to Focus Timer!",
		CreatedAt: g.now().UnixMilli(),
		Priority:  model.PriorityMedium,
	}
	return g.remote.CreateTask(ctx, welcome)
}

func (g *Gateway) creditTask(ctx context.Context, taskID string) {
	tasks := g.readTaskCache(ctx)
	for i := range tasks {
		if tasks[i].ID == taskID {
			count := tasks[i].PomodorosCompleted + 1
			patch := model.TaskPatch{PomodorosCompleted: &count}
			if err := g.UpdateTask(ctx, taskID, patch); err != nil {
				g.log.Warn("credit task pomodoro", "task", taskID, "error", err)
			}
			return
		}
	}
	// Dangling task references are tolerated.
}

func (g *Gateway) readTaskCache(ctx context.Context) []model.Task {
	raw, ok, err := g.kv.Get(ctx, keyTasks)
	if err != nil {
		g.log.Warn("read task cache", "error", err)
		return nil
	}
	if !ok {
		return nil
	}
	var tasks []model.Task
	if err := json.Unmarshal([]byte(raw), &tasks); err != nil {
		g.log.Warn("decode task cache", "error", err)
		return nil
	}
	return tasks
}

func (g *Gateway) writeTaskCache(ctx context.Context, tasks []model.Task) error {
	encoded, err := json.Marshal(tasks)
	if err != nil {
		return fmt.Errorf("encode task cache: %w", err)
	}
	if err := g.kv.Set(ctx, keyTasks, string(encoded)); err != nil {
		return fmt.Errorf("write task cache: %w", err)
	}
	return nil
}
