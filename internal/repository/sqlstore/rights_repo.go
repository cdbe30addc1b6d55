package sqlstore

import (
	"context"
	"fmt"

	"coursetracker/internal/database"
	"coursetracker/internal/models"
)

// RightsRepository handles database operations for user category rights
type RightsRepository struct {
	q database.DBTX
}

// Replace deletes the user's rights and inserts one row per category.
// Callers run it inside a transaction.
func (r *RightsRepository) Replace(ctx context.Context, userID int64, categoryIDs []int64) error {
	if err := r.DeleteByUser(ctx, userID); err != nil {
		return err
	}
	for _, categoryID := range categoryIDs {
		_, err := r.q.ExecContext(ctx,
			"INSERT INTO rights (user_id, category_id) VALUES (?, ?)", userID, categoryID)
		if err != nil {
			return insertErr(r.q, err, "right")
		}
	}
	return nil
}

// Has reports whether the user holds a right on the category
func (r *RightsRepository) Has(ctx context.Context, userID, categoryID int64) (bool, error) {
	var n int
	err := r.q.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM rights WHERE user_id = ? AND category_id = ?", userID, categoryID).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("failed to check right: %w", err)
	}
	return n > 0, nil
}

// ListCategories retrieves the categories a user holds rights on
func (r *RightsRepository) ListCategories(ctx context.Context, userID int64) ([]models.Category, error) {
	query := `
		SELECT c.id, c.name
		FROM rights r
		JOIN categories c ON c.id = r.category_id
		WHERE r.user_id = ?
		ORDER BY c.name
	`
	rows, err := r.q.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query rights: %w", err)
	}
	defer rows.Close()

	var categories []models.Category
	for rows.Next() {
		var c models.Category
		if err := rows.Scan(&c.ID, &c.Name); err != nil {
			return nil, fmt.Errorf("failed to scan right: %w", err)
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

// DeleteByUser removes all rights held by a user
func (r *RightsRepository) DeleteByUser(ctx context.Context, userID int64) error {
	if _, err := r.q.ExecContext(ctx, "DELETE FROM rights WHERE user_id = ?", userID); err != nil {
		return fmt.Errorf("failed to delete rights: %w", err)
	}
	return nil
}

// DeleteByCategory removes all rights on a category
func (r *RightsRepository) DeleteByCategory(ctx context.Context, categoryID int64) error {
	if _, err := r.q.ExecContext(ctx, "DELETE FROM rights WHERE category_id = ?", categoryID); err != nil {
		return fmt.Errorf("failed to delete category rights: %w", err)
	}
	return nil
}
