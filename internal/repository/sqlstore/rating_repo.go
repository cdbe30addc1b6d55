package sqlstore

import (
	"context"
	"fmt"
	"time"

	"coursetracker/internal/database"
	"coursetracker/internal/models"
)

// RatingRepository handles database operations for course ratings
type RatingRepository struct {
	q database.DBTX
}

// Upsert stores a rating, replacing any previous one for the pair
func (r *RatingRepository) Upsert(ctx context.Context, rating models.Rating, at time.Time) error {
	query := r.q.GetDialect().UpsertRating()
	if _, err := r.q.ExecContext(ctx, query, rating.UserID, rating.CourseID, rating.Value, at); err != nil {
		return fmt.Errorf("failed to save rating: %w", err)
	}
	return nil
}

// Get retrieves a user's rating of a course
func (r *RatingRepository) Get(ctx context.Context, userID, courseID int64) (int, error) {
	var value int
	err := r.q.QueryRowContext(ctx,
		"SELECT rating FROM ratings WHERE user_id = ? AND course_id = ?", userID, courseID).Scan(&value)
	if err != nil {
		return 0, rowErr(err, "rating")
	}
	return value, nil
}

// ListByUser retrieves all ratings given by a user
func (r *RatingRepository) ListByUser(ctx context.Context, userID int64) ([]models.Rating, error) {
	rows, err := r.q.QueryContext(ctx,
		"SELECT user_id, course_id, rating FROM ratings WHERE user_id = ? ORDER BY course_id", userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query ratings: %w", err)
	}
	defer rows.Close()

	var ratings []models.Rating
	for rows.Next() {
		var rt models.Rating
		if err := rows.Scan(&rt.UserID, &rt.CourseID, &rt.Value); err != nil {
			return nil, fmt.Errorf("failed to scan rating: %w", err)
		}
		ratings = append(ratings, rt)
	}
	return ratings, rows.Err()
}

// DeleteByUser removes all ratings given by a user
func (r *RatingRepository) DeleteByUser(ctx context.Context, userID int64) error {
	if _, err := r.q.ExecContext(ctx, "DELETE FROM ratings WHERE user_id = ?", userID); err != nil {
		return fmt.Errorf("failed to delete user ratings: %w", err)
	}
	return nil
}

// DeleteByCourse removes all ratings of a course
func (r *RatingRepository) DeleteByCourse(ctx context.Context, courseID int64) error {
	if _, err := r.q.ExecContext(ctx, "DELETE FROM ratings WHERE course_id = ?", courseID); err != nil {
		return fmt.Errorf("failed to delete course ratings: %w", err)
	}
	return nil
}
