package sqlstore

import (
	"context"
	"fmt"

	"coursetracker/internal/database"
	"coursetracker/internal/models"
	"coursetracker/internal/repository"
)

// LogRepository handles database operations for completed work intervals
type LogRepository struct {
	q database.DBTX
}

const logColumns = `logs.id, logs.user_id, logs.course_id, logs.duration, logs.started_at, logs.logged_at`

// Create inserts a log entry and sets its ID
func (r *LogRepository) Create(ctx context.Context, entry *models.LogEntry) error {
	query := `
		INSERT INTO logs (user_id, course_id, duration, started_at, logged_at)
		VALUES (?, ?, ?, ?, ?)
	`
	id, err := r.q.ExecReturningID(ctx, query,
		entry.UserID, entry.CourseID, entry.Duration, entry.StartedAt, entry.LoggedAt)
	if err != nil {
		return fmt.Errorf("failed to create log entry: %w", err)
	}
	entry.ID = id
	return nil
}

// ListByUser retrieves a user's log entries in chronological order
func (r *LogRepository) ListByUser(ctx context.Context, userID int64) ([]models.LogEntry, error) {
	return r.query(ctx, "SELECT "+logColumns+" FROM logs WHERE logs.user_id = ? ORDER BY logs.started_at, logs.id", userID)
}

// ListInScope retrieves the log entries a destructive delete would remove
func (r *LogRepository) ListInScope(ctx context.Context, scope repository.Scope) ([]models.LogEntry, error) {
	filter, err := scopeFilter("logs", scope)
	if err != nil {
		return nil, err
	}
	return r.query(ctx, "SELECT "+logColumns+" FROM logs WHERE "+filter+" ORDER BY logs.id", scope.ID)
}

func (r *LogRepository) query(ctx context.Context, query string, args ...any) ([]models.LogEntry, error) {
	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query logs: %w", err)
	}
	defer rows.Close()

	var entries []models.LogEntry
	for rows.Next() {
		var e models.LogEntry
		if err := rows.Scan(&e.ID, &e.UserID, &e.CourseID, &e.Duration, &e.StartedAt, &e.LoggedAt); err != nil {
			return nil, fmt.Errorf("failed to scan log entry: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// DeleteInScope removes the log entries in scope and returns how many went
func (r *LogRepository) DeleteInScope(ctx context.Context, scope repository.Scope) (int64, error) {
	filter, err := scopeFilter("logs", scope)
	if err != nil {
		return 0, err
	}
	res, err := r.q.ExecContext(ctx, "DELETE FROM logs WHERE "+filter, scope.ID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete logs: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to read log delete result: %w", err)
	}
	return n, nil
}

// TotalForUser sums a user's logged seconds
func (r *LogRepository) TotalForUser(ctx context.Context, userID int64) (int64, error) {
	var total int64
	err := r.q.QueryRowContext(ctx,
		"SELECT COALESCE(SUM(duration), 0) FROM logs WHERE user_id = ?", userID).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("failed to sum logs: %w", err)
	}
	return total, nil
}

// Leaderboard sums durations per user
func (r *LogRepository) Leaderboard(ctx context.Context) ([]models.LeaderboardEntry, error) {
	query := `
		SELECT u.id, u.identity, u.name, COALESCE(SUM(l.duration), 0) AS total
		FROM users u
		LEFT JOIN logs l ON l.user_id = u.id
		GROUP BY u.id, u.identity, u.name
		ORDER BY total DESC, u.id ASC
	`
	rows, err := r.q.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query leaderboard: %w", err)
	}
	defer rows.Close()

	var entries []models.LeaderboardEntry
	for rows.Next() {
		var e models.LeaderboardEntry
		if err := rows.Scan(&e.UserID, &e.Identity, &e.Name, &e.TotalSeconds); err != nil {
			return nil, fmt.Errorf("failed to scan leaderboard entry: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
