package repository

import (
	"context"
	"database/sql"
	"fmt"

	"focustimer/internal/model"
)

type TaskRepository struct {
	db *sql.DB
}

func NewTaskRepository(db *sql.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

func (r *TaskRepository) Insert(ctx context.Context, userID string, task *model.Task) error {
	_, err := r.db.ExecContext(
		ctx,
		`INSERT INTO tasks (
			id, user_id, title, completed, pomodoros_completed, created_at,
			priority, description, start_date, end_date, estimated_duration
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		task.ID,
		userID,
		task.Title,
		task.Completed,
		task.PomodorosCompleted,
		task.CreatedAt,
		task.Priority,
		nullableString(task.Description),
		nullableInt64(task.StartDate),
		nullableInt64(task.EndDate),
		nullableInt(task.EstimatedDuration),
	)
	if err != nil {
		return fmt.Errorf("insert task: %w", err)
	}
	return nil
}

func (r *TaskRepository) Get(ctx context.Context, userID, id string) (*model.Task, error) {
	row := r.db.QueryRowContext(
		ctx,
		`SELECT id, title, completed, pomodoros_completed, created_at,
		        priority, description, start_date, end_date, estimated_duration
		 FROM tasks
		 WHERE user_id = ? AND id = ?`,
		userID,
		id,
	)
	task, err := scanTask(row)
	if err != nil {
		return nil, err
	}
	return task, nil
}

func (r *TaskRepository) Update(ctx context.Context, userID string, task *model.Task) error {
	result, err := r.db.ExecContext(
		ctx,
		`UPDATE tasks
		 SET title = ?,
		     completed = ?,
		     pomodoros_completed = ?,
		     priority = ?,
		     description = ?,
		     start_date = ?,
		     end_date = ?,
		     estimated_duration = ?
		 WHERE user_id = ? AND id = ?`,
		task.Title,
		task.Completed,
		task.PomodorosCompleted,
		task.Priority,
		nullableString(task.Description),
		nullableInt64(task.StartDate),
		nullableInt64(task.EndDate),
		nullableInt(task.EstimatedDuration),
		userID,
		task.ID,
	)
	if err != nil {
		return fmt.Errorf("update task: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update task rows: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *TaskRepository) Delete(ctx context.Context, userID, id string) error {
	result, err := r.db.ExecContext(
		ctx,
		`DELETE FROM tasks WHERE user_id = ? AND id = ?`,
		userID,
		id,
	)
	if err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete task rows: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *TaskRepository) ListByUser(ctx context.Context, userID string) ([]model.Task, error) {
	rows, err := r.db.QueryContext(
		ctx,
		`SELECT id, title, completed, pomodoros_completed, created_at,
		        priority, description, start_date, end_date, estimated_duration
		 FROM tasks
		 WHERE user_id = ?
		 ORDER BY created_at DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	defer rows.Close()

	tasks := make([]model.Task, 0)
	for rows.Next() {
		task, scanErr := scanTask(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		tasks = append(tasks, *task)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate tasks: %w", err)
	}
	return tasks, nil
}

func scanTask(s scanner) (*model.Task, error) {
	task := model.Task{}
	var description sql.NullString
	var startDate, endDate sql.NullInt64
	var estimatedDuration sql.NullInt64
	err := s.Scan(
		&task.ID,
		&task.Title,
		&task.Completed,
		&task.PomodorosCompleted,
		&task.CreatedAt,
		&task.Priority,
		&description,
		&startDate,
		&endDate,
		&estimatedDuration,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("scan task: %w", err)
	}

	if description.Valid {
		task.Description = description.String
	}
	if startDate.Valid {
		task.StartDate = startDate.Int64
	}
	if endDate.Valid {
		task.EndDate = endDate.Int64
	}
	if estimatedDuration.Valid {
		task.EstimatedDuration = int(estimatedDuration.Int64)
	}
	return &task, nil
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func nullableString(value string) interface{} {
	if value == "" {
		return nil
	}
	return value
}

func nullableInt64(value int64) interface{} {
	if value == 0 {
		return nil
	}
	return value
}

func nullableInt(value int) interface{} {
	if value == 0 {
		return nil
	}
	return value
}
