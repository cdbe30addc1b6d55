// Package repository defines the storage abstraction the services run on.
// sqlstore implements it over database/sql and inmem implements it in memory.
package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"coursetracker/internal/models"
)

var (
	// ErrNotFound is returned when a lookup matches no row
	ErrNotFound = errors.New("not found")
	// ErrAmbiguous is returned when a lookup that must be unique matches several rows
	ErrAmbiguous = errors.New("ambiguous match")
	// ErrDuplicate is returned when an insert violates a uniqueness constraint
	ErrDuplicate = errors.New("duplicate")
)

// ScopeKind selects which column an archive scope filters on
type ScopeKind int

const (
	ScopeCategory ScopeKind = iota + 1
	ScopeCourse
	ScopeUser
)

func (k ScopeKind) String() string {
	switch k {
	case ScopeCategory:
		return "category"
	case ScopeCourse:
		return "course"
	case ScopeUser:
		return "user"
	default:
		return fmt.Sprintf("scope(%d)", int(k))
	}
}

// Scope is the set of rows touched by a destructive delete
type Scope struct {
	Kind ScopeKind
	ID   int64
}

// ByCategory scopes to every course in a category
func ByCategory(id int64) Scope { return Scope{Kind: ScopeCategory, ID: id} }

// ByCourse scopes to a single course
func ByCourse(id int64) Scope { return Scope{Kind: ScopeCourse, ID: id} }

// ByUser scopes to a single user
func ByUser(id int64) Scope { return Scope{Kind: ScopeUser, ID: id} }

// Store groups the repositories. WithTx runs fn against a store whose
// writes commit together or not at all; nested calls join the outer transaction.
type Store interface {
	Users() UserRepository
	Sessions() SessionRepository
	Catalog() CatalogRepository
	Rights() RightsRepository
	Work() WorkRepository
	Logs() LogRepository
	Archive() ArchiveRepository
	Ratings() RatingRepository

	WithTx(ctx context.Context, fn func(Store) error) error
}

type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	Count(ctx context.Context) (int, error)
	GetByID(ctx context.Context, id int64) (*models.User, error)
	GetByIdentity(ctx context.Context, identity string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	List(ctx context.Context) ([]models.User, error)
	UpdateName(ctx context.Context, id int64, name string) error
	SetAdmin(ctx context.Context, id int64, isAdmin bool) error
	// SetPasswordHash stores hash; an empty hash clears it
	SetPasswordHash(ctx context.Context, id int64, hash string) error
	// SetPasswordIfUnset stores hash only when none is set, reporting whether it did
	SetPasswordIfUnset(ctx context.Context, id int64, hash string) (bool, error)
	Delete(ctx context.Context, id int64) error
}

type SessionRepository interface {
	Create(ctx context.Context, session *models.Session) error
	Get(ctx context.Context, token string) (*models.Session, error)
	GetByUser(ctx context.Context, userID int64) (*models.Session, error)
	List(ctx context.Context) ([]models.Session, error)
	Delete(ctx context.Context, token string) error
	DeleteByUser(ctx context.Context, userID int64) error
}

type CatalogRepository interface {
	CreateCategory(ctx context.Context, category *models.Category) error
	GetCategoryByName(ctx context.Context, name string) (*models.Category, error)
	ListCategories(ctx context.Context) ([]models.Category, error)
	DeleteCategory(ctx context.Context, id int64) error

	CreateCourse(ctx context.Context, course *models.Course) error
	GetCourseByID(ctx context.Context, id int64) (*models.Course, error)
	GetCourseByName(ctx context.Context, name string) (*models.Course, error)
	ListCourses(ctx context.Context) ([]models.Course, error)
	ListCoursesByCategory(ctx context.Context, categoryID int64) ([]models.Course, error)
	DeleteCourse(ctx context.Context, id int64) error
}

type RightsRepository interface {
	// Replace swaps the user's full rights set for categoryIDs
	Replace(ctx context.Context, userID int64, categoryIDs []int64) error
	Has(ctx context.Context, userID, categoryID int64) (bool, error)
	ListCategories(ctx context.Context, userID int64) ([]models.Category, error)
	DeleteByUser(ctx context.Context, userID int64) error
	DeleteByCategory(ctx context.Context, categoryID int64) error
}

type WorkRepository interface {
	// Start inserts the user's working row; ErrDuplicate if one exists
	Start(ctx context.Context, ws *models.WorkSession) error
	Get(ctx context.Context, userID int64) (*models.WorkSession, error)
	// Delete removes the user's working row, reporting whether one existed
	Delete(ctx context.Context, userID int64) (bool, error)
	UpdateElapsed(ctx context.Context, userID int64, seconds int64) (bool, error)
	List(ctx context.Context) ([]models.WorkSession, error)
	CountInScope(ctx context.Context, scope Scope) (int, error)
}

type LogRepository interface {
	Create(ctx context.Context, entry *models.LogEntry) error
	ListByUser(ctx context.Context, userID int64) ([]models.LogEntry, error)
	ListInScope(ctx context.Context, scope Scope) ([]models.LogEntry, error)
	DeleteInScope(ctx context.Context, scope Scope) (int64, error)
	TotalForUser(ctx context.Context, userID int64) (int64, error)
	// Leaderboard sums durations per user, zero-log users included,
	// ordered by total descending then user id
	Leaderboard(ctx context.Context) ([]models.LeaderboardEntry, error)
}

type ArchiveRepository interface {
	Insert(ctx context.Context, entry *models.ArchiveEntry) error
	List(ctx context.Context) ([]models.ArchiveEntry, error)
	Count(ctx context.Context) (int, error)
}

type RatingRepository interface {
	Upsert(ctx context.Context, rating models.Rating, at time.Time) error
	Get(ctx context.Context, userID, courseID int64) (int, error)
	ListByUser(ctx context.Context, userID int64) ([]models.Rating, error)
	DeleteByUser(ctx context.Context, userID int64) error
	DeleteByCourse(ctx context.Context, courseID int64) error
}
