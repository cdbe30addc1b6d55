package inmem

import (
	"cmp"
	"context"
	"slices"

	"coursetracker/internal/models"
)

type catalogRepo struct{ st *Store }

func (r *catalogRepo) CreateCategory(ctx context.Context, category *models.Category) error {
	r.st.lock()
	defer r.st.unlock()
	if err := r.st.fault("catalog.CreateCategory"); err != nil {
		return err
	}
	t := r.st.s.t
	for _, c := range t.categories {
		if c.Name == category.Name {
			return duplicate("category")
		}
	}
	category.ID = t.nextID()
	t.categories = append(t.categories, *category)
	return nil
}

func (r *catalogRepo) GetCategoryByName(ctx context.Context, name string) (*models.Category, error) {
	r.st.lock()
	defer r.st.unlock()
	return unique(r.st.s.t.categories, func(c models.Category) bool { return c.Name == name }, "category")
}

func (r *catalogRepo) ListCategories(ctx context.Context) ([]models.Category, error) {
	r.st.lock()
	defer r.st.unlock()
	out := slices.Clone(r.st.s.t.categories)
	slices.SortFunc(out, func(a, b models.Category) int { return cmp.Compare(a.Name, b.Name) })
	return out, nil
}

func (r *catalogRepo) DeleteCategory(ctx context.Context, id int64) error {
	r.st.lock()
	defer r.st.unlock()
	if err := r.st.fault("catalog.DeleteCategory"); err != nil {
		return err
	}
	t := r.st.s.t
	n := len(t.categories)
	t.categories = slices.DeleteFunc(t.categories, func(c models.Category) bool { return c.ID == id })
	if len(t.categories) == n {
		return notFound("category")
	}
	return nil
}

func (r *catalogRepo) CreateCourse(ctx context.Context, course *models.Course) error {
	r.st.lock()
	defer r.st.unlock()
	if err := r.st.fault("catalog.CreateCourse"); err != nil {
		return err
	}
	t := r.st.s.t
	if !slices.ContainsFunc(t.categories, func(c models.Category) bool { return c.ID == course.CategoryID }) {
		return notFound("category")
	}
	for _, c := range t.courses {
		if c.Name == course.Name {
			return duplicate("course")
		}
	}
	course.ID = t.nextID()
	stored := *course
	stored.CategoryName = ""
	t.courses = append(t.courses, stored)
	return nil
}

// withCategory fills the joined category name. Caller holds the lock.
func (r *catalogRepo) withCategory(c models.Course) models.Course {
	for _, cat := range r.st.s.t.categories {
		if cat.ID == c.CategoryID {
			c.CategoryName = cat.Name
			break
		}
	}
	return c
}

func (r *catalogRepo) GetCourseByID(ctx context.Context, id int64) (*models.Course, error) {
	r.st.lock()
	defer r.st.unlock()
	c, err := unique(r.st.s.t.courses, func(c models.Course) bool { return c.ID == id }, "course")
	if err != nil {
		return nil, err
	}
	joined := r.withCategory(*c)
	return &joined, nil
}

func (r *catalogRepo) GetCourseByName(ctx context.Context, name string) (*models.Course, error) {
	r.st.lock()
	defer r.st.unlock()
	c, err := unique(r.st.s.t.courses, func(c models.Course) bool { return c.Name == name }, "course")
	if err != nil {
		return nil, err
	}
	joined := r.withCategory(*c)
	return &joined, nil
}

func (r *catalogRepo) ListCourses(ctx context.Context) ([]models.Course, error) {
	return r.list(func(models.Course) bool { return true }), nil
}

func (r *catalogRepo) ListCoursesByCategory(ctx context.Context, categoryID int64) ([]models.Course, error) {
	return r.list(func(c models.Course) bool { return c.CategoryID == categoryID }), nil
}

func (r *catalogRepo) list(match func(models.Course) bool) []models.Course {
	r.st.lock()
	defer r.st.unlock()
	var out []models.Course
	for _, c := range r.st.s.t.courses {
		if match(c) {
			out = append(out, r.withCategory(c))
		}
	}
	slices.SortFunc(out, func(a, b models.Course) int { return cmp.Compare(a.Name, b.Name) })
	return out
}

func (r *catalogRepo) DeleteCourse(ctx context.Context, id int64) error {
	r.st.lock()
	defer r.st.unlock()
	if err := r.st.fault("catalog.DeleteCourse"); err != nil {
		return err
	}
	t := r.st.s.t
	n := len(t.courses)
	t.courses = slices.DeleteFunc(t.courses, func(c models.Course) bool { return c.ID == id })
	if len(t.courses) == n {
		return notFound("course")
	}
	return nil
}
