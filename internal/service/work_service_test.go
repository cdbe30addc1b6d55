package service

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStartWorkTwiceConflicts(t *testing.T) {
	f := newFixture(t, DefaultSessionTTL)
	u := f.member(t, "u@x.com", "U")
	f.course(t, "Math", "Algebra")
	f.grant(t, u, "Math")

	_, err := f.work.StartWork(f.ctx, u, "Algebra")
	require.NoError(t, err)

	_, err = f.work.StartWork(f.ctx, u, "Algebra")
	assert.ErrorIs(t, err, ErrAlreadyWorking)
	assert.Equal(t, KindConflict, KindOf(err))

	active, err := f.work.ListActiveWorkers(f.ctx, f.admin)
	require.NoError(t, err)
	assert.Len(t, active, 1)
}

func TestStopWorkWritesLog(t *testing.T) {
	f := newFixture(t, DefaultSessionTTL)
	u := f.member(t, "u@x.com", "U")
	f.course(t, "Math", "Algebra")
	f.grant(t, u, "Math")

	ws, err := f.work.StartWork(f.ctx, u, "Algebra")
	require.NoError(t, err)

	status, err := f.work.IsWorking(f.ctx, u.ID)
	require.NoError(t, err)
	assert.True(t, status.Working)
	assert.Equal(t, "Algebra", status.CourseName)

	f.clock.Advance(10 * time.Minute)
	entry, err := f.work.StopWork(f.ctx, u, 600)
	require.NoError(t, err)
	assert.EqualValues(t, 600, entry.Duration)
	assert.True(t, entry.StartedAt.Equal(ws.Since))
	assert.True(t, entry.LoggedAt.Equal(f.clock.Now()))

	status, err = f.work.IsWorking(f.ctx, u.ID)
	require.NoError(t, err)
	assert.False(t, status.Working)

	logs, err := f.store.Logs().ListByUser(f.ctx, u.ID)
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.EqualValues(t, 600, logs[0].Duration)

	_, err = f.work.StopWork(f.ctx, u, 1)
	assert.ErrorIs(t, err, ErrNotWorking)
}

func TestStartWorkChecks(t *testing.T) {
	f := newFixture(t, DefaultSessionTTL)
	u := f.member(t, "u@x.com", "U")
	f.course(t, "Math", "Algebra")

	_, err := f.work.StartWork(f.ctx, u, "Algebra")
	assert.ErrorIs(t, err, ErrForbidden, "no rights on the category")

	_, err = f.work.StartWork(f.ctx, u, "Geometry")
	assert.ErrorIs(t, err, ErrUnknownCourse)

	_, err = f.work.StartWork(f.ctx, f.admin, "Algebra")
	assert.NoError(t, err, "admins have every right")
}

func TestStopWorkRejectsNegativeDuration(t *testing.T) {
	f := newFixture(t, DefaultSessionTTL)
	u := f.member(t, "u@x.com", "U")
	f.course(t, "Math", "Algebra")
	f.grant(t, u, "Math")

	// an idle user is not working, whatever the duration
	_, err := f.work.StopWork(f.ctx, u, -1)
	assert.ErrorIs(t, err, ErrNotWorking)

	_, err = f.work.StartWork(f.ctx, u, "Algebra")
	require.NoError(t, err)

	_, err = f.work.StopWork(f.ctx, u, -1)
	assert.ErrorIs(t, err, ErrInvalidDuration)

	status, err := f.work.IsWorking(f.ctx, u.ID)
	require.NoError(t, err)
	assert.True(t, status.Working, "rejected stop must not end the session")
}

func TestStopWorkIsAtomic(t *testing.T) {
	f := newFixture(t, DefaultSessionTTL)
	u := f.member(t, "u@x.com", "U")
	f.course(t, "Math", "Algebra")
	f.grant(t, u, "Math")
	_, err := f.work.StartWork(f.ctx, u, "Algebra")
	require.NoError(t, err)

	f.store.FailOn("logs.Create", errors.New("write failed"))
	_, err = f.work.StopWork(f.ctx, u, 60)
	require.Error(t, err)
	assert.Equal(t, KindStorage, KindOf(err))

	status, err := f.work.IsWorking(f.ctx, u.ID)
	require.NoError(t, err)
	assert.True(t, status.Working, "working row must survive a failed log write")

	f.store.FailOn("logs.Create", nil)
	_, err = f.work.StopWork(f.ctx, u, 60)
	assert.NoError(t, err)
}

func TestUpdateTimeAndForceStop(t *testing.T) {
	f := newFixture(t, DefaultSessionTTL)
	u := f.member(t, "u@x.com", "U")
	stranger := f.member(t, "s@x.com", "S")
	f.course(t, "Math", "Algebra")
	f.grant(t, u, "Math")

	assert.ErrorIs(t, f.work.UpdateTime(f.ctx, u, 5), ErrNotWorking)

	_, err := f.work.StartWork(f.ctx, u, "Algebra")
	require.NoError(t, err)
	require.NoError(t, f.work.UpdateTime(f.ctx, u, 420))
	assert.ErrorIs(t, f.work.UpdateTime(f.ctx, u, -3), ErrInvalidDuration)

	status, err := f.work.IsWorking(f.ctx, u.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 420, status.ElapsedSeconds)

	_, err = f.work.ForceStop(f.ctx, stranger, u.Identity)
	assert.ErrorIs(t, err, ErrForbidden)

	entry, err := f.work.ForceStop(f.ctx, f.admin, u.Identity)
	require.NoError(t, err)
	assert.EqualValues(t, 420, entry.Duration, "force stop uses the stored heartbeat")

	_, err = f.work.ForceStop(f.ctx, u, u.Identity)
	assert.ErrorIs(t, err, ErrNotWorking)
}

func TestListActiveWorkersRequiresAdmin(t *testing.T) {
	f := newFixture(t, DefaultSessionTTL)
	u := f.member(t, "u@x.com", "U")

	_, err := f.work.ListActiveWorkers(f.ctx, u)
	assert.ErrorIs(t, err, ErrForbidden)
}
