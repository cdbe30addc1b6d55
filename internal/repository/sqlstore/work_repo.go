package sqlstore

import (
	"context"
	"fmt"

	"coursetracker/internal/database"
	"coursetracker/internal/models"
	"coursetracker/internal/repository"
)

// WorkRepository handles database operations for in-progress work sessions
type WorkRepository struct {
	q database.DBTX
}

const workSelect = `
	SELECT w.user_id, w.course_id, w.since, w.elapsed_seconds, u.name, c.name
	FROM working w
	JOIN users u ON u.id = w.user_id
	JOIN courses c ON c.id = w.course_id
`

func scanWork(row rowScanner) (*models.WorkSession, error) {
	ws := &models.WorkSession{}
	if err := row.Scan(&ws.UserID, &ws.CourseID, &ws.Since, &ws.ElapsedSeconds, &ws.UserName, &ws.CourseName); err != nil {
		return nil, err
	}
	return ws, nil
}

// Start inserts the working row. The primary key on user_id rejects a second one.
func (r *WorkRepository) Start(ctx context.Context, ws *models.WorkSession) error {
	_, err := r.q.ExecContext(ctx,
		"INSERT INTO working (user_id, course_id, since, elapsed_seconds) VALUES (?, ?, ?, ?)",
		ws.UserID, ws.CourseID, ws.Since, ws.ElapsedSeconds)
	if err != nil {
		return insertErr(r.q, err, "work session")
	}
	return nil
}

// Get retrieves a user's working row
func (r *WorkRepository) Get(ctx context.Context, userID int64) (*models.WorkSession, error) {
	ws, err := scanWork(r.q.QueryRowContext(ctx, workSelect+" WHERE w.user_id = ?", userID))
	if err != nil {
		return nil, rowErr(err, "work session")
	}
	return ws, nil
}

// Delete removes a user's working row and reports whether it existed
func (r *WorkRepository) Delete(ctx context.Context, userID int64) (bool, error) {
	res, err := r.q.ExecContext(ctx, "DELETE FROM working WHERE user_id = ?", userID)
	if err != nil {
		return false, fmt.Errorf("failed to delete work session: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read work session delete result: %w", err)
	}
	return n > 0, nil
}

// UpdateElapsed stores the heartbeat duration of a live session
func (r *WorkRepository) UpdateElapsed(ctx context.Context, userID int64, seconds int64) (bool, error) {
	res, err := r.q.ExecContext(ctx, "UPDATE working SET elapsed_seconds = ? WHERE user_id = ?", seconds, userID)
	if err != nil {
		return false, fmt.Errorf("failed to update elapsed time: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read elapsed time update result: %w", err)
	}
	return n > 0, nil
}

// List retrieves every live work session
func (r *WorkRepository) List(ctx context.Context) ([]models.WorkSession, error) {
	rows, err := r.q.QueryContext(ctx, workSelect+" ORDER BY w.since")
	if err != nil {
		return nil, fmt.Errorf("failed to query work sessions: %w", err)
	}
	defer rows.Close()

	var sessions []models.WorkSession
	for rows.Next() {
		ws, err := scanWork(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan work session: %w", err)
		}
		sessions = append(sessions, *ws)
	}
	return sessions, rows.Err()
}

// CountInScope counts live sessions touching the scope
func (r *WorkRepository) CountInScope(ctx context.Context, scope repository.Scope) (int, error) {
	filter, err := scopeFilter("working", scope)
	if err != nil {
		return 0, err
	}
	var n int
	if err := r.q.QueryRowContext(ctx, "SELECT COUNT(*) FROM working WHERE "+filter, scope.ID).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count work sessions: %w", err)
	}
	return n, nil
}
