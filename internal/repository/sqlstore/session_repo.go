package sqlstore

import (
	"context"
	"fmt"
	"time"

	"coursetracker/internal/database"
	"coursetracker/internal/models"
)

// SessionRepository handles database operations for bearer sessions
type SessionRepository struct {
	q database.DBTX
}

func scanSession(row rowScanner) (*models.Session, error) {
	session := &models.Session{}
	var ttlSeconds int64
	if err := row.Scan(&session.Token, &session.UserID, &session.IssuedAt, &ttlSeconds); err != nil {
		return nil, err
	}
	session.TTL = time.Duration(ttlSeconds) * time.Second
	return session, nil
}

// Create inserts a session; a second live session for the same user is a duplicate
func (r *SessionRepository) Create(ctx context.Context, session *models.Session) error {
	query := `
		INSERT INTO sessions (token, user_id, issued_at, ttl_seconds)
		VALUES (?, ?, ?, ?)
	`
	_, err := r.q.ExecContext(ctx, query,
		session.Token, session.UserID, session.IssuedAt, int64(session.TTL/time.Second))
	if err != nil {
		return insertErr(r.q, err, "session")
	}
	return nil
}

// Get retrieves a session by token
func (r *SessionRepository) Get(ctx context.Context, token string) (*models.Session, error) {
	session, err := scanSession(r.q.QueryRowContext(ctx,
		"SELECT token, user_id, issued_at, ttl_seconds FROM sessions WHERE token = ?", token))
	if err != nil {
		return nil, rowErr(err, "session")
	}
	return session, nil
}

// GetByUser retrieves the session owned by a user
func (r *SessionRepository) GetByUser(ctx context.Context, userID int64) (*models.Session, error) {
	session, err := scanSession(r.q.QueryRowContext(ctx,
		"SELECT token, user_id, issued_at, ttl_seconds FROM sessions WHERE user_id = ?", userID))
	if err != nil {
		return nil, rowErr(err, "session")
	}
	return session, nil
}

// List retrieves every stored session
func (r *SessionRepository) List(ctx context.Context) ([]models.Session, error) {
	rows, err := r.q.QueryContext(ctx, "SELECT token, user_id, issued_at, ttl_seconds FROM sessions ORDER BY issued_at")
	if err != nil {
		return nil, fmt.Errorf("failed to query sessions: %w", err)
	}
	defer rows.Close()

	var sessions []models.Session
	for rows.Next() {
		session, err := scanSession(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan session: %w", err)
		}
		sessions = append(sessions, *session)
	}
	return sessions, rows.Err()
}

// Delete removes a session; deleting an absent token is not an error
func (r *SessionRepository) Delete(ctx context.Context, token string) error {
	if _, err := r.q.ExecContext(ctx, "DELETE FROM sessions WHERE token = ?", token); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

// DeleteByUser removes every session owned by a user
func (r *SessionRepository) DeleteByUser(ctx context.Context, userID int64) error {
	if _, err := r.q.ExecContext(ctx, "DELETE FROM sessions WHERE user_id = ?", userID); err != nil {
		return fmt.Errorf("failed to delete user sessions: %w", err)
	}
	return nil
}
