// Package sqlstore implements repository.Store over the dialect-aware
// database wrappers.
package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"coursetracker/internal/database"
	"coursetracker/internal/repository"
)

// Store is a repository.Store backed by a SQL database
type Store struct {
	db *database.DB
	q  database.DBTX
}

// New creates a store on db
func New(db *database.DB) *Store {
	return &Store{db: db, q: db}
}

func (s *Store) Users() repository.UserRepository { return &UserRepository{q: s.q} }
func (s *Store) Sessions() repository.SessionRepository { return &SessionRepository{q: s.q} }
func (s *Store) Catalog() repository.CatalogRepository { return &CatalogRepository{q: s.q} }
func (s *Store) Rights() repository.RightsRepository { return &RightsRepository{q: s.q} }
func (s *Store) Work() repository.WorkRepository { return &WorkRepository{q: s.q} }
func (s *Store) Logs() repository.LogRepository { return &LogRepository{q: s.q} }
func (s *Store) Archive() repository.ArchiveRepository { return &ArchiveRepository{q: s.q} }
func (s *Store) Ratings() repository.RatingRepository { return &RatingRepository{q: s.q} }

// WithTx runs fn in a database transaction. Inside a transaction it just calls fn.
func (s *Store) WithTx(ctx context.Context, fn func(repository.Store) error) error {
	if _, inTx := s.q.(*database.Tx); inTx {
		return fn(s)
	}
	return s.db.WithTx(ctx, func(tx *database.Tx) error {
		return fn(&Store{db: s.db, q: tx})
	})
}

// insertErr maps unique violations to repository.ErrDuplicate
func insertErr(q database.DBTX, err error, what string) error {
	if q.GetDialect().IsUniqueViolation(err) {
		return fmt.Errorf("%s: %w", what, repository.ErrDuplicate)
	}
	return fmt.Errorf("failed to create %s: %w", what, err)
}

// rowErr maps sql.ErrNoRows to repository.ErrNotFound
func rowErr(err error, what string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%s: %w", what, repository.ErrNotFound)
	}
	return fmt.Errorf("failed to get %s: %w", what, err)
}

// affected returns ErrNotFound when an update or delete touched no row
func affected(res sql.Result, what string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read result for %s: %w", what, err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", what, repository.ErrNotFound)
	}
	return nil
}

// scopeFilters is the fixed set of WHERE fragments per table and scope kind.
// Identifiers never come from callers.
var scopeFilters = map[string]map[repository.ScopeKind]string{
	"logs": {
		repository.ScopeUser:     "logs.user_id = ?",
		repository.ScopeCourse:   "logs.course_id = ?",
		repository.ScopeCategory: "logs.course_id IN (SELECT id FROM courses WHERE category_id = ?)",
	},
	"working": {
		repository.ScopeUser:     "working.user_id = ?",
		repository.ScopeCourse:   "working.course_id = ?",
		repository.ScopeCategory: "working.course_id IN (SELECT id FROM courses WHERE category_id = ?)",
	},
}

func scopeFilter(table string, scope repository.Scope) (string, error) {
	filter, ok := scopeFilters[table][scope.Kind]
	if !ok {
		return "", fmt.Errorf("unsupported scope %s for %s", scope.Kind, table)
	}
	return filter, nil
}
