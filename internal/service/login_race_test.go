package service

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"coursetracker/internal/database"
	"coursetracker/internal/models"
	"coursetracker/internal/repository"
	"coursetracker/internal/repository/inmem"
	"coursetracker/internal/repository/sqlstore"
	"coursetracker/internal/security"
)

// lostRaceStore makes the first session insert fail as if another login had
// just inserted a session for the same user
type lostRaceStore struct {
	repository.Store
	lost *atomic.Bool
}

func (s lostRaceStore) Sessions() repository.SessionRepository {
	return lostRaceSessions{SessionRepository: s.Store.Sessions(), lost: s.lost}
}

func (s lostRaceStore) WithTx(ctx context.Context, fn func(repository.Store) error) error {
	return s.Store.WithTx(ctx, func(tx repository.Store) error {
		return fn(lostRaceStore{Store: tx, lost: s.lost})
	})
}

type lostRaceSessions struct {
	repository.SessionRepository
	lost *atomic.Bool
}

func (r lostRaceSessions) Create(ctx context.Context, session *models.Session) error {
	if r.lost.CompareAndSwap(false, true) {
		return fmt.Errorf("failed to create session: %w", repository.ErrDuplicate)
	}
	return r.SessionRepository.Create(ctx, session)
}

func TestLoginRetriesAfterLosingInsertRace(t *testing.T) {
	ctx := context.Background()
	lost := &atomic.Bool{}
	deps := Deps{Store: lostRaceStore{Store: inmem.New(), lost: lost}}
	users := NewUserService(deps, NewArchiveService(deps))
	auth := NewAuthService(deps, security.NewHasher(1000), time.Hour)

	admin, err := users.Bootstrap(ctx, NewUserInput{Email: "admin@x.com", Name: "Admin"})
	require.NoError(t, err)
	require.NoError(t, auth.ValidateUser(ctx, admin.Identity, "pw"))

	result, err := auth.Login(ctx, "admin@x.com", "pw")
	require.NoError(t, err)
	assert.True(t, lost.Load(), "first insert should have lost")
	assert.NotEmpty(t, result.Token)

	valid, err := auth.IsValid(ctx, result.Token)
	require.NoError(t, err)
	assert.True(t, valid)
}

func TestConcurrentLoginsShareOneSession(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping SQL-backed login test in short mode")
	}
	ctx := context.Background()

	db, err := database.Initialize(filepath.Join(t.TempDir(), "login.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, db.RunMigrations())

	deps := Deps{Store: sqlstore.New(db)}
	users := NewUserService(deps, NewArchiveService(deps))
	auth := NewAuthService(deps, security.NewHasher(1000), time.Hour)

	admin, err := users.Bootstrap(ctx, NewUserInput{Email: "admin@x.com", Name: "Admin"})
	require.NoError(t, err)
	require.NoError(t, auth.ValidateUser(ctx, admin.Identity, "pw"))

	const logins = 20
	tokens := make([]string, logins)
	errs := make([]error, logins)
	var wg sync.WaitGroup
	for i := range logins {
		wg.Add(1)
		go func() {
			defer wg.Done()
			result, err := auth.Login(ctx, "admin@x.com", "pw")
			errs[i] = err
			if err == nil {
				tokens[i] = result.Token
			}
		}()
	}
	wg.Wait()

	for i := range logins {
		require.NoError(t, errs[i], "login %d", i)
		assert.Equal(t, tokens[0], tokens[i], "login %d got a different token", i)
	}

	sessions, err := deps.Store.Sessions().List(ctx)
	require.NoError(t, err)
	assert.Len(t, sessions, 1)
}
