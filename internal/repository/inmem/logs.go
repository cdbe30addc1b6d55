package inmem

import (
	"cmp"
	"context"
	"slices"

	"coursetracker/internal/models"
	"coursetracker/internal/repository"
)

type logRepo struct{ st *Store }

func (r *logRepo) Create(ctx context.Context, entry *models.LogEntry) error {
	r.st.lock()
	defer r.st.unlock()
	if err := r.st.fault("logs.Create"); err != nil {
		return err
	}
	entry.ID = r.st.s.t.nextID()
	r.st.s.t.logs = append(r.st.s.t.logs, *entry)
	return nil
}

func (r *logRepo) ListByUser(ctx context.Context, userID int64) ([]models.LogEntry, error) {
	r.st.lock()
	defer r.st.unlock()
	var out []models.LogEntry
	for _, e := range r.st.s.t.logs {
		if e.UserID == userID {
			out = append(out, e)
		}
	}
	slices.SortStableFunc(out, func(a, b models.LogEntry) int {
		if c := a.StartedAt.Compare(b.StartedAt); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
	return out, nil
}

func (r *logRepo) ListInScope(ctx context.Context, scope repository.Scope) ([]models.LogEntry, error) {
	r.st.lock()
	defer r.st.unlock()
	var out []models.LogEntry
	for _, e := range r.st.s.t.logs {
		ok, err := r.st.inScope(scope, e.UserID, e.CourseID)
		if err != nil {
			return nil, err
		}
		if ok {
			out = append(out, e)
		}
	}
	return out, nil
}

func (r *logRepo) DeleteInScope(ctx context.Context, scope repository.Scope) (int64, error) {
	r.st.lock()
	defer r.st.unlock()
	if err := r.st.fault("logs.Delete"); err != nil {
		return 0, err
	}
	kept := r.st.s.t.logs[:0:0]
	var deleted int64
	for _, e := range r.st.s.t.logs {
		ok, err := r.st.inScope(scope, e.UserID, e.CourseID)
		if err != nil {
			return 0, err
		}
		if ok {
			deleted++
			continue
		}
		kept = append(kept, e)
	}
	r.st.s.t.logs = kept
	return deleted, nil
}

func (r *logRepo) TotalForUser(ctx context.Context, userID int64) (int64, error) {
	r.st.lock()
	defer r.st.unlock()
	var total int64
	for _, e := range r.st.s.t.logs {
		if e.UserID == userID {
			total += e.Duration
		}
	}
	return total, nil
}

func (r *logRepo) Leaderboard(ctx context.Context) ([]models.LeaderboardEntry, error) {
	r.st.lock()
	defer r.st.unlock()
	totals := make(map[int64]int64)
	for _, e := range r.st.s.t.logs {
		totals[e.UserID] += e.Duration
	}

	out := make([]models.LeaderboardEntry, 0, len(r.st.s.t.users))
	for _, u := range r.st.s.t.users {
		out = append(out, models.LeaderboardEntry{
			UserID:       u.ID,
			Identity:     u.Identity,
			Name:         u.Name,
			TotalSeconds: totals[u.ID],
		})
	}
	slices.SortStableFunc(out, func(a, b models.LeaderboardEntry) int {
		if c := cmp.Compare(b.TotalSeconds, a.TotalSeconds); c != 0 {
			return c
		}
		return cmp.Compare(a.UserID, b.UserID)
	})
	return out, nil
}
