package repository

import (
	"context"
	"database/sql"
	"fmt"

	"focustimer/internal/model"
)

type SessionRepository struct {
	db *sql.DB
}

func NewSessionRepository(db *sql.DB) *SessionRepository {
	return &SessionRepository{db: db}
}

// Insert mirrors a client session record. Records are immutable; there
// is no update path.
func (r *SessionRepository) Insert(ctx context.Context, userID string, session *model.Session) error {
	_, err := r.db.ExecContext(
		ctx,
		`INSERT INTO sessions (id, user_id, duration_minutes, completed_at, type, task_id)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		session.ID,
		userID,
		session.Duration,
		session.CompletedAt,
		session.Type,
		nullableString(session.TaskID),
	)
	if err != nil {
		return fmt.Errorf("insert session: %w", err)
	}
	return nil
}

func (r *SessionRepository) ListByUser(ctx context.Context, userID string, limit int) ([]model.Session, error) {
	rows, err := r.db.QueryContext(
		ctx,
		`SELECT id, duration_minutes, completed_at, type, task_id
		 FROM sessions
		 WHERE user_id = ?
		 ORDER BY completed_at DESC
		 LIMIT ?`,
		userID,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	defer rows.Close()

	sessions := make([]model.Session, 0, limit)
	for rows.Next() {
		var session model.Session
		var taskID sql.NullString
		if err := rows.Scan(
			&session.ID,
			&session.Duration,
			&session.CompletedAt,
			&session.Type,
			&taskID,
		); err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		if taskID.Valid {
			session.TaskID = taskID.String
		}
		sessions = append(sessions, session)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sessions: %w", err)
	}
	return sessions, nil
}
