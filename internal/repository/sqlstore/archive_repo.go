package sqlstore

import (
	"context"
	"fmt"

	"coursetracker/internal/database"
	"coursetracker/internal/models"
)

// ArchiveRepository handles the write-once archive of deleted log entries
type ArchiveRepository struct {
	q database.DBTX
}

// Insert writes one archive row and sets its ID
func (r *ArchiveRepository) Insert(ctx context.Context, e *models.ArchiveEntry) error {
	query := `
		INSERT INTO archive (batch_id, log_id, user_id, user_identity, user_name, user_email,
			course_id, course_name, course_url, course_description, category_name,
			duration, started_at, logged_at, archived_at, reason)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	id, err := r.q.ExecReturningID(ctx, query,
		e.BatchID, e.LogID, e.UserID, e.UserIdentity, e.UserName, e.UserEmail,
		e.CourseID, e.CourseName, e.CourseURL, e.CourseDescription, e.CategoryName,
		e.Duration, e.StartedAt, e.LoggedAt, e.ArchivedAt, e.Reason,
	)
	if err != nil {
		return fmt.Errorf("failed to archive log entry: %w", err)
	}
	e.ID = id
	return nil
}

// List retrieves all archive rows in insertion order
func (r *ArchiveRepository) List(ctx context.Context) ([]models.ArchiveEntry, error) {
	query := `
		SELECT id, batch_id, log_id, user_id, user_identity, user_name, user_email,
			course_id, course_name, course_url, COALESCE(course_description, ''), category_name,
			duration, started_at, logged_at, archived_at, reason
		FROM archive
		ORDER BY id
	`
	rows, err := r.q.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query archive: %w", err)
	}
	defer rows.Close()

	var entries []models.ArchiveEntry
	for rows.Next() {
		var e models.ArchiveEntry
		if err := rows.Scan(
			&e.ID, &e.BatchID, &e.LogID, &e.UserID, &e.UserIdentity, &e.UserName, &e.UserEmail,
			&e.CourseID, &e.CourseName, &e.CourseURL, &e.CourseDescription, &e.CategoryName,
			&e.Duration, &e.StartedAt, &e.LoggedAt, &e.ArchivedAt, &e.Reason,
		); err != nil {
			return nil, fmt.Errorf("failed to scan archive entry: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Count returns the number of archive rows
func (r *ArchiveRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.q.QueryRowContext(ctx, "SELECT COUNT(*) FROM archive").Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count archive: %w", err)
	}
	return n, nil
}
