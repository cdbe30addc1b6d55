package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"coursetracker/internal/models"
	"coursetracker/internal/repository/inmem"
	"coursetracker/internal/security"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type fixture struct {
	ctx   context.Context
	store *inmem.Store
	clock *fakeClock

	auth    *AuthService
	rights  *RightsService
	work    *WorkService
	archive *ArchiveService
	catalog *CatalogService
	users   *UserService
	reports *ReportService

	admin *models.User
}

func newFixture(t *testing.T, ttl time.Duration) *fixture {
	t.Helper()

	clock := &fakeClock{now: time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)}
	store := inmem.New()
	deps := Deps{Store: store, Now: clock.Now}

	f := &fixture{ctx: context.Background(), store: store, clock: clock}
	f.auth = NewAuthService(deps, security.NewHasher(1000), ttl)
	f.rights = NewRightsService(deps)
	f.work = NewWorkService(deps, f.rights)
	f.archive = NewArchiveService(deps)
	f.catalog = NewCatalogService(deps, f.rights, f.archive)
	f.users = NewUserService(deps, f.archive)
	f.reports = NewReportService(deps)

	admin, err := f.users.Bootstrap(f.ctx, NewUserInput{Email: "admin@x.com", Name: "Admin"})
	require.NoError(t, err)
	f.admin = admin
	return f
}

func (f *fixture) member(t *testing.T, email, name string) *models.User {
	t.Helper()
	u, err := f.users.AddUser(f.ctx, f.admin, NewUserInput{Email: email, Name: name})
	require.NoError(t, err)
	return u
}

func (f *fixture) course(t *testing.T, category, name string) *models.Course {
	t.Helper()
	if _, err := f.catalog.AddCategory(f.ctx, f.admin, category); err != nil {
		require.ErrorIs(t, err, ErrCategoryExists)
	}
	c, err := f.catalog.AddCourse(f.ctx, f.admin, CourseInput{
		Name:                name,
		URL:                 "https://example.com/" + name,
		Category:            category,
		WeeklyCommitmentLow: 2,
		DurationWeeks:       6,
	})
	require.NoError(t, err)
	return c
}

func (f *fixture) grant(t *testing.T, u *models.User, categories ...string) {
	t.Helper()
	_, err := f.rights.Grant(f.ctx, f.admin, u.Identity, categories)
	require.NoError(t, err)
}

// logWork runs a full start/stop cycle for seconds of work
func (f *fixture) logWork(t *testing.T, u *models.User, course string, seconds int64) *models.LogEntry {
	t.Helper()
	_, err := f.work.StartWork(f.ctx, u, course)
	require.NoError(t, err)
	f.clock.Advance(time.Duration(seconds) * time.Second)
	entry, err := f.work.StopWork(f.ctx, u, seconds)
	require.NoError(t, err)
	return entry
}
