package sqlstore

import (
	"context"
	"database/sql"
	"fmt"

	"coursetracker/internal/database"
	"coursetracker/internal/models"
	"coursetracker/internal/repository"
)

const userColumns = `id, identity, email, name, password_hash, is_admin, created_at`

// UserRepository handles database operations for users
type UserRepository struct {
	q database.DBTX
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (*models.User, error) {
	user := &models.User{}
	var hash sql.NullString
	if err := row.Scan(
		&user.ID,
		&user.Identity,
		&user.Email,
		&user.Name,
		&hash,
		&user.IsAdmin,
		&user.CreatedAt,
	); err != nil {
		return nil, err
	}
	user.PasswordHash = hash.String
	return user, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

// Create inserts a new user and sets its ID
func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (identity, email, name, password_hash, is_admin, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`
	id, err := r.q.ExecReturningID(ctx, query,
		user.Identity, user.Email, user.Name, nullString(user.PasswordHash), user.IsAdmin, user.CreatedAt)
	if err != nil {
		return insertErr(r.q, err, "user")
	}
	user.ID = id
	return nil
}

// Count returns the number of users
func (r *UserRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.q.QueryRowContext(ctx, "SELECT COUNT(*) FROM users").Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count users: %w", err)
	}
	return n, nil
}

// GetByID retrieves a user by ID
func (r *UserRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	user, err := scanUser(r.q.QueryRowContext(ctx, "SELECT "+userColumns+" FROM users WHERE id = ?", id))
	if err != nil {
		return nil, rowErr(err, "user")
	}
	return user, nil
}

// GetByIdentity retrieves a user by the digest of their email
func (r *UserRepository) GetByIdentity(ctx context.Context, identity string) (*models.User, error) {
	return r.getUnique(ctx, "SELECT "+userColumns+" FROM users WHERE identity = ? LIMIT 2", identity)
}

// GetByEmail retrieves a user by email address
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.getUnique(ctx, "SELECT "+userColumns+" FROM users WHERE email = ? LIMIT 2", email)
}

// getUnique fails with ErrAmbiguous when more than one row matches
func (r *UserRepository) getUnique(ctx context.Context, query string, arg any) (*models.User, error) {
	users, err := r.query(ctx, query, arg)
	if err != nil {
		return nil, err
	}
	switch len(users) {
	case 0:
		return nil, fmt.Errorf("user: %w", repository.ErrNotFound)
	case 1:
		return &users[0], nil
	default:
		return nil, fmt.Errorf("user: %w", repository.ErrAmbiguous)
	}
}

// List retrieves all users in creation order
func (r *UserRepository) List(ctx context.Context) ([]models.User, error) {
	return r.query(ctx, "SELECT "+userColumns+" FROM users ORDER BY id")
}

func (r *UserRepository) query(ctx context.Context, query string, args ...any) ([]models.User, error) {
	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query users: %w", err)
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, *user)
	}
	return users, rows.Err()
}

// UpdateName changes a user's display name
func (r *UserRepository) UpdateName(ctx context.Context, id int64, name string) error {
	res, err := r.q.ExecContext(ctx, "UPDATE users SET name = ? WHERE id = ?", name, id)
	if err != nil {
		return fmt.Errorf("failed to update user name: %w", err)
	}
	return affected(res, "user")
}

// SetAdmin changes a user's admin flag
func (r *UserRepository) SetAdmin(ctx context.Context, id int64, isAdmin bool) error {
	res, err := r.q.ExecContext(ctx, "UPDATE users SET is_admin = ? WHERE id = ?", isAdmin, id)
	if err != nil {
		return fmt.Errorf("failed to update admin flag: %w", err)
	}
	return affected(res, "user")
}

// SetPasswordHash stores or clears a user's password hash
func (r *UserRepository) SetPasswordHash(ctx context.Context, id int64, hash string) error {
	res, err := r.q.ExecContext(ctx, "UPDATE users SET password_hash = ? WHERE id = ?", nullString(hash), id)
	if err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	return affected(res, "user")
}

// SetPasswordIfUnset stores hash only for users without one
func (r *UserRepository) SetPasswordIfUnset(ctx context.Context, id int64, hash string) (bool, error) {
	res, err := r.q.ExecContext(ctx,
		"UPDATE users SET password_hash = ? WHERE id = ? AND password_hash IS NULL", hash, id)
	if err != nil {
		return false, fmt.Errorf("failed to set password: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read password update result: %w", err)
	}
	return n == 1, nil
}

// Delete removes a user row. Dependent rows must already be gone.
func (r *UserRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.q.ExecContext(ctx, "DELETE FROM users WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	return affected(res, "user")
}
