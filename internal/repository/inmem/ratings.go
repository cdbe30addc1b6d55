package inmem

import (
	"cmp"
	"context"
	"slices"
	"time"

	"coursetracker/internal/models"
)

type ratingRepo struct{ st *Store }

func (r *ratingRepo) Upsert(ctx context.Context, rating models.Rating, at time.Time) error {
	r.st.lock()
	defer r.st.unlock()
	if err := r.st.fault("ratings.Upsert"); err != nil {
		return err
	}
	t := r.st.s.t
	for i := range t.ratings {
		if t.ratings[i].UserID == rating.UserID && t.ratings[i].CourseID == rating.CourseID {
			t.ratings[i].Value = rating.Value
			return nil
		}
	}
	t.ratings = append(t.ratings, rating)
	return nil
}

func (r *ratingRepo) Get(ctx context.Context, userID, courseID int64) (int, error) {
	r.st.lock()
	defer r.st.unlock()
	rt, err := unique(r.st.s.t.ratings, func(rt models.Rating) bool {
		return rt.UserID == userID && rt.CourseID == courseID
	}, "rating")
	if err != nil {
		return 0, err
	}
	return rt.Value, nil
}

func (r *ratingRepo) ListByUser(ctx context.Context, userID int64) ([]models.Rating, error) {
	r.st.lock()
	defer r.st.unlock()
	var out []models.Rating
	for _, rt := range r.st.s.t.ratings {
		if rt.UserID == userID {
			out = append(out, rt)
		}
	}
	slices.SortFunc(out, func(a, b models.Rating) int { return cmp.Compare(a.CourseID, b.CourseID) })
	return out, nil
}

func (r *ratingRepo) DeleteByUser(ctx context.Context, userID int64) error {
	return r.deleteWhere(func(rt models.Rating) bool { return rt.UserID == userID })
}

func (r *ratingRepo) DeleteByCourse(ctx context.Context, courseID int64) error {
	return r.deleteWhere(func(rt models.Rating) bool { return rt.CourseID == courseID })
}

func (r *ratingRepo) deleteWhere(match func(models.Rating) bool) error {
	r.st.lock()
	defer r.st.unlock()
	if err := r.st.fault("ratings.Delete"); err != nil {
		return err
	}
	r.st.s.t.ratings = slices.DeleteFunc(r.st.s.t.ratings, match)
	return nil
}
