// Package inmem is a repository.Store kept in process memory. Every table is
// a slice behind one mutex; transactions hold the mutex and restore a
// snapshot of all tables when the callback fails.
package inmem

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"coursetracker/internal/models"
	"coursetracker/internal/repository"
)

type tables struct {
	users      []models.User
	sessions   []models.Session
	categories []models.Category
	courses    []models.Course
	rights     []models.Right
	working    []models.WorkSession
	logs       []models.LogEntry
	archive    []models.ArchiveEntry
	ratings    []models.Rating

	lastID int64
}

func (t *tables) clone() *tables {
	return &tables{
		users:      slices.Clone(t.users),
		sessions:   slices.Clone(t.sessions),
		categories: slices.Clone(t.categories),
		courses:    slices.Clone(t.courses),
		rights:     slices.Clone(t.rights),
		working:    slices.Clone(t.working),
		logs:       slices.Clone(t.logs),
		archive:    slices.Clone(t.archive),
		ratings:    slices.Clone(t.ratings),
		lastID:     t.lastID,
	}
}

func (t *tables) nextID() int64 {
	t.lastID++
	return t.lastID
}

type shared struct {
	mu     sync.Mutex
	t      *tables
	faults map[string]error
}

// Store is an in-memory repository.Store
type Store struct {
	s    *shared
	inTx bool
}

// New creates an empty store
func New() *Store {
	return &Store{s: &shared{t: &tables{}, faults: make(map[string]error)}}
}

// FailOn makes the named operation (for example "archive.Insert") return err
// until cleared with a nil err.
func (st *Store) FailOn(op string, err error) {
	st.lock()
	defer st.unlock()
	if err == nil {
		delete(st.s.faults, op)
		return
	}
	st.s.faults[op] = err
}

func (st *Store) fault(op string) error {
	if err, ok := st.s.faults[op]; ok {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (st *Store) lock() {
	if !st.inTx {
		st.s.mu.Lock()
	}
}

func (st *Store) unlock() {
	if !st.inTx {
		st.s.mu.Unlock()
	}
}

func (st *Store) Users() repository.UserRepository { return &userRepo{st} }
func (st *Store) Sessions() repository.SessionRepository { return &sessionRepo{st} }
func (st *Store) Catalog() repository.CatalogRepository { return &catalogRepo{st} }
func (st *Store) Rights() repository.RightsRepository { return &rightsRepo{st} }
func (st *Store) Work() repository.WorkRepository { return &workRepo{st} }
func (st *Store) Logs() repository.LogRepository { return &logRepo{st} }
func (st *Store) Archive() repository.ArchiveRepository { return &archiveRepo{st} }
func (st *Store) Ratings() repository.RatingRepository { return &ratingRepo{st} }

// WithTx runs fn with the store locked and rolls every table back if fn fails
func (st *Store) WithTx(ctx context.Context, fn func(repository.Store) error) error {
	if st.inTx {
		return fn(st)
	}

	st.s.mu.Lock()
	defer st.s.mu.Unlock()

	snapshot := st.s.t.clone()
	if err := fn(&Store{s: st.s, inTx: true}); err != nil {
		st.s.t = snapshot
		return err
	}
	return nil
}

func notFound(what string) error {
	return fmt.Errorf("%s: %w", what, repository.ErrNotFound)
}

func duplicate(what string) error {
	return fmt.Errorf("%s: %w", what, repository.ErrDuplicate)
}

// unique returns the single match or ErrNotFound/ErrAmbiguous
func unique[T any](rows []T, match func(T) bool, what string) (*T, error) {
	var found *T
	for i := range rows {
		if !match(rows[i]) {
			continue
		}
		if found != nil {
			return nil, fmt.Errorf("%s: %w", what, repository.ErrAmbiguous)
		}
		row := rows[i]
		found = &row
	}
	if found == nil {
		return nil, notFound(what)
	}
	return found, nil
}

// inScope reports whether a (user, course) pair falls in scope. Caller holds the lock.
func (st *Store) inScope(scope repository.Scope, userID, courseID int64) (bool, error) {
	switch scope.Kind {
	case repository.ScopeUser:
		return userID == scope.ID, nil
	case repository.ScopeCourse:
		return courseID == scope.ID, nil
	case repository.ScopeCategory:
		for _, c := range st.s.t.courses {
			if c.ID == courseID {
				return c.CategoryID == scope.ID, nil
			}
		}
		return false, nil
	default:
		return false, fmt.Errorf("unsupported scope %s", scope.Kind)
	}
}
