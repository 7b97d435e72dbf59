package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"focustimer/internal/model"
)

type SettingsRepository struct {
	db *sql.DB
}

func NewSettingsRepository(db *sql.DB) *SettingsRepository {
	return &SettingsRepository{db: db}
}

func (r *SettingsRepository) Get(ctx context.Context, userID string) (model.TimerConfig, error) {
	row := r.db.QueryRowContext(
		ctx,
		`SELECT focus_minutes, short_break_minutes, long_break_minutes, sessions_before_long_break
		 FROM timer_settings
		 WHERE user_id = ?`,
		userID,
	)

	var cfg model.TimerConfig
	err := row.Scan(
		&cfg.FocusMinutes,
		&cfg.ShortBreakMinutes,
		&cfg.LongBreakMinutes,
		&cfg.SessionsBeforeLongBreak,
	)
	if err == sql.ErrNoRows {
		return model.TimerConfig{}, ErrNotFound
	}
	if err != nil {
		return model.TimerConfig{}, fmt.Errorf("get settings: %w", err)
	}
	return cfg, nil
}

func (r *SettingsRepository) Upsert(ctx context.Context, userID string, cfg model.TimerConfig) error {
	now := time.Now().UTC().Format(time.RFC3339Nano)
	_, err := r.db.ExecContext(
		ctx,
		`INSERT INTO timer_settings (
			user_id, focus_minutes, short_break_minutes, long_break_minutes,
			sessions_before_long_break, updated_at
		) VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(user_id) DO UPDATE SET
			focus_minutes = excluded.focus_minutes,
			short_break_minutes = excluded.short_break_minutes,
			long_break_minutes = excluded.long_break_minutes,
			sessions_before_long_break = excluded.sessions_before_long_break,
			updated_at = excluded.updated_at`,
		userID,
		cfg.FocusMinutes,
		cfg.ShortBreakMinutes,
		cfg.LongBreakMinutes,
		cfg.SessionsBeforeLongBreak,
		now,
	)
	if err != nil {
		return fmt.Errorf("upsert settings: %w", err)
	}
	return nil
}
