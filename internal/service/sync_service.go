package service

import (
	"context"

	apperrors "focustimer/internal/errors"
	"focustimer/internal/model"
	"focustimer/internal/repository"
)

// SyncService is the server half of the sync gateway: per-user task,
// session and settings documents. Clients mint their own ids; the
// server stores them verbatim so offline and online copies never
// disagree about identity.
type SyncService struct {
	taskRepo     *repository.TaskRepository
	sessionRepo  *repository.SessionRepository
	settingsRepo *repository.SettingsRepository
}

func NewSyncService(
	taskRepo *repository.TaskRepository,
	sessionRepo *repository.SessionRepository,
	settingsRepo *repository.SettingsRepository,
) *SyncService {
	return &SyncService{
		taskRepo:     taskRepo,
		sessionRepo:  sessionRepo,
		settingsRepo: settingsRepo,
	}
}

func (s *SyncService) ListTasks(ctx context.Context, userID string) ([]model.Task, *apperrors.APIError) {
	tasks, err := s.taskRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, apperrors.Internal("failed to list tasks")
	}
	return tasks, nil
}

func (s *SyncService) CreateTask(ctx context.Context, userID string, task model.Task) (*model.Task, *apperrors.APIError) {
	if task.ID == "" {
		return nil, apperrors.BadRequest("invalid_id", "task id is required")
	}
	if task.Title == "" {
		return nil, apperrors.BadRequest("invalid_title", "task title is required")
	}
	if !model.ValidPriority(task.Priority) {
		task.Priority = model.PriorityMedium
	}

	if err := s.taskRepo.Insert(ctx, userID, &task); err != nil {
		return nil, apperrors.Internal("failed to create task")
	}
	return &task, nil
}

func (s *SyncService) UpdateTask(ctx context.Context, userID, id string, patch model.TaskPatch) (*model.Task, *apperrors.APIError) {
	if patch.Priority != nil && !model.ValidPriority(*patch.Priority) {
		return nil, apperrors.BadRequest("invalid_priority", "priority must be low, medium or high")
	}

	task, err := s.taskRepo.Get(ctx, userID, id)
	if err == repository.ErrNotFound {
		return nil, apperrors.NotFound("task_not_found", "task not found")
	}
	if err != nil {
		return nil, apperrors.Internal("failed to read task")
	}

	patch.Apply(task)
	if err := s.taskRepo.Update(ctx, userID, task); err != nil {
		if err == repository.ErrNotFound {
			return nil, apperrors.NotFound("task_not_found", "task not found")
		}
		return nil, apperrors.Internal("failed to update task")
	}
	return task, nil
}

func (s *SyncService) DeleteTask(ctx context.Context, userID, id string) *apperrors.APIError {
	err := s.taskRepo.Delete(ctx, userID, id)
	if err == repository.ErrNotFound {
		return apperrors.NotFound("task_not_found", "task not found")
	}
	if err != nil {
		return apperrors.Internal("failed to delete task")
	}
	return nil
}

func (s *SyncService) SaveSession(ctx context.Context, userID string, session model.Session) *apperrors.APIError {
	if session.ID == "" {
		return apperrors.BadRequest("invalid_id", "session id is required")
	}
	if session.Duration < 1 {
		return apperrors.BadRequest("invalid_duration", "duration must be at least one minute")
	}
	if session.Type != model.SessionTypeFocus && session.Type != model.SessionTypeBreak {
		return apperrors.BadRequest("invalid_type", "type must be focus or break")
	}

	if err := s.sessionRepo.Insert(ctx, userID, &session); err != nil {
		return apperrors.Internal("failed to save session")
	}
	return nil
}

func (s *SyncService) ListSessions(ctx context.Context, userID string, limit int) ([]model.Session, *apperrors.APIError) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	sessions, err := s.sessionRepo.ListByUser(ctx, userID, limit)
	if err != nil {
		return nil, apperrors.Internal("failed to list sessions")
	}
	return sessions, nil
}

func (s *SyncService) GetSettings(ctx context.Context, userID string) (model.TimerConfig, *apperrors.APIError) {
	cfg, err := s.settingsRepo.Get(ctx, userID)
	if err == repository.ErrNotFound {
		return model.DefaultTimerConfig(), nil
	}
	if err != nil {
		return model.TimerConfig{}, apperrors.Internal("failed to read settings")
	}
	return cfg, nil
}

func (s *SyncService) SaveSettings(ctx context.Context, userID string, cfg model.TimerConfig) *apperrors.APIError {
	if cfg.FocusMinutes <= 0 || cfg.ShortBreakMinutes <= 0 || cfg.LongBreakMinutes <= 0 {
		return apperrors.BadRequest("invalid_duration", "all durations must be positive minutes")
	}
	if cfg.SessionsBeforeLongBreak < 2 {
		return apperrors.BadRequest("invalid_cadence", "sessionsBeforeLongBreak must be at least 2")
	}

	if err := s.settingsRepo.Upsert(ctx, userID, cfg); err != nil {
		return apperrors.Internal("failed to save settings")
	}
	return nil
}
