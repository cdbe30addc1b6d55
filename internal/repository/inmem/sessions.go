package inmem

import (
	"context"
	"slices"

	"coursetracker/internal/models"
)

type sessionRepo struct{ st *Store }

func (r *sessionRepo) Create(ctx context.Context, session *models.Session) error {
	r.st.lock()
	defer r.st.unlock()
	if err := r.st.fault("sessions.Create"); err != nil {
		return err
	}
	t := r.st.s.t
	for _, s := range t.sessions {
		if s.Token == session.Token || s.UserID == session.UserID {
			return duplicate("session")
		}
	}
	t.sessions = append(t.sessions, *session)
	return nil
}

func (r *sessionRepo) Get(ctx context.Context, token string) (*models.Session, error) {
	r.st.lock()
	defer r.st.unlock()
	return unique(r.st.s.t.sessions, func(s models.Session) bool { return s.Token == token }, "session")
}

func (r *sessionRepo) GetByUser(ctx context.Context, userID int64) (*models.Session, error) {
	r.st.lock()
	defer r.st.unlock()
	return unique(r.st.s.t.sessions, func(s models.Session) bool { return s.UserID == userID }, "session")
}

func (r *sessionRepo) List(ctx context.Context) ([]models.Session, error) {
	r.st.lock()
	defer r.st.unlock()
	return slices.Clone(r.st.s.t.sessions), nil
}

func (r *sessionRepo) Delete(ctx context.Context, token string) error {
	r.st.lock()
	defer r.st.unlock()
	if err := r.st.fault("sessions.Delete"); err != nil {
		return err
	}
	t := r.st.s.t
	t.sessions = slices.DeleteFunc(t.sessions, func(s models.Session) bool { return s.Token == token })
	return nil
}

func (r *sessionRepo) DeleteByUser(ctx context.Context, userID int64) error {
	r.st.lock()
	defer r.st.unlock()
	if err := r.st.fault("sessions.Delete"); err != nil {
		return err
	}
	t := r.st.s.t
	t.sessions = slices.DeleteFunc(t.sessions, func(s models.Session) bool { return s.UserID == userID })
	return nil
}
