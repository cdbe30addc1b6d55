package inmem

import (
	"context"
	"slices"

	"coursetracker/internal/models"
	"coursetracker/internal/repository"
)

type workRepo struct{ st *Store }

func (r *workRepo) Start(ctx context.Context, ws *models.WorkSession) error {
	r.st.lock()
	defer r.st.unlock()
	if err := r.st.fault("work.Start"); err != nil {
		return err
	}
	t := r.st.s.t
	if slices.ContainsFunc(t.working, func(w models.WorkSession) bool { return w.UserID == ws.UserID }) {
		return duplicate("work session")
	}
	stored := *ws
	stored.UserName, stored.CourseName = "", ""
	t.working = append(t.working, stored)
	return nil
}

// withNames fills the joined user and course names. Caller holds the lock.
func (r *workRepo) withNames(ws models.WorkSession) models.WorkSession {
	for _, u := range r.st.s.t.users {
		if u.ID == ws.UserID {
			ws.UserName = u.Name
		}
	}
	for _, c := range r.st.s.t.courses {
		if c.ID == ws.CourseID {
			ws.CourseName = c.Name
		}
	}
	return ws
}

func (r *workRepo) Get(ctx context.Context, userID int64) (*models.WorkSession, error) {
	r.st.lock()
	defer r.st.unlock()
	ws, err := unique(r.st.s.t.working, func(w models.WorkSession) bool { return w.UserID == userID }, "work session")
	if err != nil {
		return nil, err
	}
	joined := r.withNames(*ws)
	return &joined, nil
}

func (r *workRepo) Delete(ctx context.Context, userID int64) (bool, error) {
	r.st.lock()
	defer r.st.unlock()
	if err := r.st.fault("work.Delete"); err != nil {
		return false, err
	}
	t := r.st.s.t
	n := len(t.working)
	t.working = slices.DeleteFunc(t.working, func(w models.WorkSession) bool { return w.UserID == userID })
	return len(t.working) < n, nil
}

func (r *workRepo) UpdateElapsed(ctx context.Context, userID int64, seconds int64) (bool, error) {
	r.st.lock()
	defer r.st.unlock()
	if err := r.st.fault("work.UpdateElapsed"); err != nil {
		return false, err
	}
	for i := range r.st.s.t.working {
		if r.st.s.t.working[i].UserID == userID {
			r.st.s.t.working[i].ElapsedSeconds = seconds
			return true, nil
		}
	}
	return false, nil
}

func (r *workRepo) List(ctx context.Context) ([]models.WorkSession, error) {
	r.st.lock()
	defer r.st.unlock()
	out := make([]models.WorkSession, 0, len(r.st.s.t.working))
	for _, ws := range r.st.s.t.working {
		out = append(out, r.withNames(ws))
	}
	slices.SortStableFunc(out, func(a, b models.WorkSession) int { return a.Since.Compare(b.Since) })
	return out, nil
}

func (r *workRepo) CountInScope(ctx context.Context, scope repository.Scope) (int, error) {
	r.st.lock()
	defer r.st.unlock()
	n := 0
	for _, ws := range r.st.s.t.working {
		ok, err := r.st.inScope(scope, ws.UserID, ws.CourseID)
		if err != nil {
			return 0, err
		}
		if ok {
			n++
		}
	}
	return n, nil
}
