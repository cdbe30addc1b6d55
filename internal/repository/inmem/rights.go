package inmem

import (
	"cmp"
	"context"
	"slices"

	"coursetracker/internal/models"
)

type rightsRepo struct{ st *Store }

func (r *rightsRepo) Replace(ctx context.Context, userID int64, categoryIDs []int64) error {
	r.st.lock()
	defer r.st.unlock()
	if err := r.st.fault("rights.Replace"); err != nil {
		return err
	}
	t := r.st.s.t
	t.rights = slices.DeleteFunc(t.rights, func(rt models.Right) bool { return rt.UserID == userID })
	for _, id := range categoryIDs {
		right := models.Right{UserID: userID, CategoryID: id}
		if slices.Contains(t.rights, right) {
			return duplicate("right")
		}
		t.rights = append(t.rights, right)
	}
	return nil
}

func (r *rightsRepo) Has(ctx context.Context, userID, categoryID int64) (bool, error) {
	r.st.lock()
	defer r.st.unlock()
	return slices.Contains(r.st.s.t.rights, models.Right{UserID: userID, CategoryID: categoryID}), nil
}

func (r *rightsRepo) ListCategories(ctx context.Context, userID int64) ([]models.Category, error) {
	r.st.lock()
	defer r.st.unlock()
	t := r.st.s.t
	var out []models.Category
	for _, c := range t.categories {
		if slices.Contains(t.rights, models.Right{UserID: userID, CategoryID: c.ID}) {
			out = append(out, c)
		}
	}
	slices.SortFunc(out, func(a, b models.Category) int { return cmp.Compare(a.Name, b.Name) })
	return out, nil
}

func (r *rightsRepo) DeleteByUser(ctx context.Context, userID int64) error {
	return r.deleteWhere(func(rt models.Right) bool { return rt.UserID == userID })
}

func (r *rightsRepo) DeleteByCategory(ctx context.Context, categoryID int64) error {
	return r.deleteWhere(func(rt models.Right) bool { return rt.CategoryID == categoryID })
}

func (r *rightsRepo) deleteWhere(match func(models.Right) bool) error {
	r.st.lock()
	defer r.st.unlock()
	if err := r.st.fault("rights.Delete"); err != nil {
		return err
	}
	r.st.s.t.rights = slices.DeleteFunc(r.st.s.t.rights, match)
	return nil
}
