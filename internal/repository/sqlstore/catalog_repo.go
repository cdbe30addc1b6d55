package sqlstore

import (
	"context"
	"database/sql"
	"fmt"

	"coursetracker/internal/database"
	"coursetracker/internal/models"
	"coursetracker/internal/repository"
)

const courseSelect = `
	SELECT c.id, c.name, c.url, c.category_id, cat.name,
		COALESCE(c.description, ''), COALESCE(c.about, ''), COALESCE(c.syllabus, ''), COALESCE(c.notes, ''),
		c.weekly_commitment_low, c.weekly_commitment_high, c.duration_weeks
	FROM courses c
	JOIN categories cat ON cat.id = c.category_id
`

// CatalogRepository handles database operations for categories and courses
type CatalogRepository struct {
	q database.DBTX
}

// CreateCategory inserts a category and sets its ID
func (r *CatalogRepository) CreateCategory(ctx context.Context, category *models.Category) error {
	id, err := r.q.ExecReturningID(ctx, "INSERT INTO categories (name) VALUES (?)", category.Name)
	if err != nil {
		return insertErr(r.q, err, "category")
	}
	category.ID = id
	return nil
}

// GetCategoryByName retrieves a category by name
func (r *CatalogRepository) GetCategoryByName(ctx context.Context, name string) (*models.Category, error) {
	categories, err := r.queryCategories(ctx, "SELECT id, name FROM categories WHERE name = ? LIMIT 2", name)
	if err != nil {
		return nil, err
	}
	switch len(categories) {
	case 0:
		return nil, fmt.Errorf("category: %w", repository.ErrNotFound)
	case 1:
		return &categories[0], nil
	default:
		return nil, fmt.Errorf("category: %w", repository.ErrAmbiguous)
	}
}

// ListCategories retrieves all categories ordered by name
func (r *CatalogRepository) ListCategories(ctx context.Context) ([]models.Category, error) {
	return r.queryCategories(ctx, "SELECT id, name FROM categories ORDER BY name")
}

func (r *CatalogRepository) queryCategories(ctx context.Context, query string, args ...any) ([]models.Category, error) {
	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query categories: %w", err)
	}
	defer rows.Close()

	var categories []models.Category
	for rows.Next() {
		var c models.Category
		if err := rows.Scan(&c.ID, &c.Name); err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

// DeleteCategory removes a category row. Its courses must already be gone.
func (r *CatalogRepository) DeleteCategory(ctx context.Context, id int64) error {
	res, err := r.q.ExecContext(ctx, "DELETE FROM categories WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete category: %w", err)
	}
	return affected(res, "category")
}

// CreateCourse inserts a course and sets its ID
func (r *CatalogRepository) CreateCourse(ctx context.Context, course *models.Course) error {
	query := `
		INSERT INTO courses (name, url, category_id, description, about, syllabus, notes,
			weekly_commitment_low, weekly_commitment_high, duration_weeks)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	var high sql.NullInt64
	if course.WeeklyCommitmentHigh != nil {
		high = sql.NullInt64{Int64: int64(*course.WeeklyCommitmentHigh), Valid: true}
	}
	id, err := r.q.ExecReturningID(ctx, query,
		course.Name, course.URL, course.CategoryID,
		course.Description, course.About, course.Syllabus, course.Notes,
		course.WeeklyCommitmentLow, high, course.DurationWeeks,
	)
	if err != nil {
		return insertErr(r.q, err, "course")
	}
	course.ID = id
	return nil
}

func scanCourse(row rowScanner) (*models.Course, error) {
	c := &models.Course{}
	var high sql.NullInt64
	if err := row.Scan(
		&c.ID, &c.Name, &c.URL, &c.CategoryID, &c.CategoryName,
		&c.Description, &c.About, &c.Syllabus, &c.Notes,
		&c.WeeklyCommitmentLow, &high, &c.DurationWeeks,
	); err != nil {
		return nil, err
	}
	if high.Valid {
		v := int(high.Int64)
		c.WeeklyCommitmentHigh = &v
	}
	return c, nil
}

// GetCourseByID retrieves a course by ID
func (r *CatalogRepository) GetCourseByID(ctx context.Context, id int64) (*models.Course, error) {
	course, err := scanCourse(r.q.QueryRowContext(ctx, courseSelect+" WHERE c.id = ?", id))
	if err != nil {
		return nil, rowErr(err, "course")
	}
	return course, nil
}

// GetCourseByName retrieves a course by name
func (r *CatalogRepository) GetCourseByName(ctx context.Context, name string) (*models.Course, error) {
	courses, err := r.queryCourses(ctx, courseSelect+" WHERE c.name = ? LIMIT 2", name)
	if err != nil {
		return nil, err
	}
	switch len(courses) {
	case 0:
		return nil, fmt.Errorf("course: %w", repository.ErrNotFound)
	case 1:
		return &courses[0], nil
	default:
		return nil, fmt.Errorf("course: %w", repository.ErrAmbiguous)
	}
}

// ListCourses retrieves all courses ordered by name
func (r *CatalogRepository) ListCourses(ctx context.Context) ([]models.Course, error) {
	return r.queryCourses(ctx, courseSelect+" ORDER BY c.name")
}

// ListCoursesByCategory retrieves the courses of one category
func (r *CatalogRepository) ListCoursesByCategory(ctx context.Context, categoryID int64) ([]models.Course, error) {
	return r.queryCourses(ctx, courseSelect+" WHERE c.category_id = ? ORDER BY c.name", categoryID)
}

func (r *CatalogRepository) queryCourses(ctx context.Context, query string, args ...any) ([]models.Course, error) {
	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query courses: %w", err)
	}
	defer rows.Close()

	var courses []models.Course
	for rows.Next() {
		c, err := scanCourse(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan course: %w", err)
		}
		courses = append(courses, *c)
	}
	return courses, rows.Err()
}

// DeleteCourse removes a course row. Logs, ratings and working rows must already be gone.
func (r *CatalogRepository) DeleteCourse(ctx context.Context, id int64) error {
	res, err := r.q.ExecContext(ctx, "DELETE FROM courses WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete course: %w", err)
	}
	return affected(res, "course")
}
