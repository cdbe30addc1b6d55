package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"coursetracker/internal/models"
)

func TestLeaderboardRanking(t *testing.T) {
	f := newFixture(t, DefaultSessionTTL)
	f.course(t, "Math", "Algebra")

	// inserted in an order that differs from the ranking
	hundred := f.member(t, "a@x.com", "A")
	zero := f.member(t, "b@x.com", "B")
	threeHundred := f.member(t, "c@x.com", "C")
	for _, u := range []*models.User{hundred, zero, threeHundred} {
		f.grant(t, u, "Math")
	}
	f.logWork(t, threeHundred, "Algebra", 300)
	f.logWork(t, hundred, "Algebra", 100)

	board, err := f.reports.Leaderboard(f.ctx)
	require.NoError(t, err)

	byUser := make(map[int64]int64)
	var order []int64
	for _, e := range board {
		byUser[e.UserID] = e.TotalSeconds
		order = append(order, e.UserID)
	}
	assert.EqualValues(t, 300, byUser[threeHundred.ID])
	assert.EqualValues(t, 100, byUser[hundred.ID])
	assert.Contains(t, byUser, zero.ID, "users without logs still appear")
	assert.EqualValues(t, 0, byUser[zero.ID])

	assert.Equal(t, threeHundred.ID, order[0])
	assert.Equal(t, hundred.ID, order[1])

	totals := make([]int64, 0, len(board))
	for _, e := range board {
		totals = append(totals, e.TotalSeconds)
	}
	assert.IsNonIncreasing(t, totals)
}

func TestUserHistory(t *testing.T) {
	f := newFixture(t, DefaultSessionTTL)
	u := f.member(t, "u@x.com", "U")
	other := f.member(t, "o@x.com", "O")
	f.course(t, "Math", "Algebra")
	f.course(t, "Math", "Calculus")
	f.grant(t, u, "Math")

	f.logWork(t, u, "Calculus", 3600)
	f.clock.Advance(time.Hour)
	f.logWork(t, u, "Algebra", 61)
	require.NoError(t, f.catalog.RateCourse(f.ctx, u, "Algebra", 5))

	history, err := f.reports.UserHistory(f.ctx, u, u.Identity)
	require.NoError(t, err)
	require.Len(t, history.Entries, 2)
	assert.Equal(t, "Calculus", history.Entries[0].CourseName)
	assert.Nil(t, history.Entries[0].Rating)
	assert.Equal(t, "Algebra", history.Entries[1].CourseName)
	require.NotNil(t, history.Entries[1].Rating)
	assert.Equal(t, 5, *history.Entries[1].Rating)
	assert.True(t, history.Entries[0].StartedAt.Before(history.Entries[1].StartedAt))
	assert.EqualValues(t, 3661, history.TotalSeconds)
	assert.Equal(t, "1:01:01", history.Total())

	_, err = f.reports.UserHistory(f.ctx, other, u.Identity)
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = f.reports.UserHistory(f.ctx, f.admin, u.Identity)
	assert.NoError(t, err)

	total, err := f.reports.UserStats(f.ctx, u, u.Identity)
	require.NoError(t, err)
	assert.EqualValues(t, 3661, total)

	_, err = f.reports.UserStats(f.ctx, other, u.Identity)
	assert.ErrorIs(t, err, ErrForbidden)
}
