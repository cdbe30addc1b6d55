package inmem

import (
	"context"
	"errors"
	"slices"

	"coursetracker/internal/models"
	"coursetracker/internal/repository"
)

type userRepo struct{ st *Store }

func (r *userRepo) Create(ctx context.Context, user *models.User) error {
	r.st.lock()
	defer r.st.unlock()
	if err := r.st.fault("users.Create"); err != nil {
		return err
	}
	t := r.st.s.t
	for _, u := range t.users {
		if u.Identity == user.Identity || u.Email == user.Email {
			return duplicate("user")
		}
	}
	user.ID = t.nextID()
	t.users = append(t.users, *user)
	return nil
}

func (r *userRepo) Count(ctx context.Context) (int, error) {
	r.st.lock()
	defer r.st.unlock()
	return len(r.st.s.t.users), nil
}

func (r *userRepo) GetByID(ctx context.Context, id int64) (*models.User, error) {
	r.st.lock()
	defer r.st.unlock()
	return unique(r.st.s.t.users, func(u models.User) bool { return u.ID == id }, "user")
}

func (r *userRepo) GetByIdentity(ctx context.Context, identity string) (*models.User, error) {
	r.st.lock()
	defer r.st.unlock()
	return unique(r.st.s.t.users, func(u models.User) bool { return u.Identity == identity }, "user")
}

func (r *userRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	r.st.lock()
	defer r.st.unlock()
	return unique(r.st.s.t.users, func(u models.User) bool { return u.Email == email }, "user")
}

func (r *userRepo) List(ctx context.Context) ([]models.User, error) {
	r.st.lock()
	defer r.st.unlock()
	return slices.Clone(r.st.s.t.users), nil
}

func (r *userRepo) update(id int64, fn func(*models.User)) error {
	r.st.lock()
	defer r.st.unlock()
	if err := r.st.fault("users.Update"); err != nil {
		return err
	}
	for i := range r.st.s.t.users {
		if r.st.s.t.users[i].ID == id {
			fn(&r.st.s.t.users[i])
			return nil
		}
	}
	return notFound("user")
}

func (r *userRepo) UpdateName(ctx context.Context, id int64, name string) error {
	return r.update(id, func(u *models.User) { u.Name = name })
}

func (r *userRepo) SetAdmin(ctx context.Context, id int64, isAdmin bool) error {
	return r.update(id, func(u *models.User) { u.IsAdmin = isAdmin })
}

func (r *userRepo) SetPasswordHash(ctx context.Context, id int64, hash string) error {
	return r.update(id, func(u *models.User) { u.PasswordHash = hash })
}

func (r *userRepo) SetPasswordIfUnset(ctx context.Context, id int64, hash string) (bool, error) {
	set := false
	err := r.update(id, func(u *models.User) {
		if u.PasswordHash == "" {
			u.PasswordHash = hash
			set = true
		}
	})
	if errors.Is(err, repository.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return set, nil
}

func (r *userRepo) Delete(ctx context.Context, id int64) error {
	r.st.lock()
	defer r.st.unlock()
	if err := r.st.fault("users.Delete"); err != nil {
		return err
	}
	t := r.st.s.t
	n := len(t.users)
	t.users = slices.DeleteFunc(t.users, func(u models.User) bool { return u.ID == id })
	if len(t.users) == n {
		return notFound("user")
	}
	return nil
}
