package service

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"coursetracker/internal/models"
	"coursetracker/internal/repository"
)

// CourseInput describes a new course
type CourseInput struct {
	Name                 string `validate:"required,max=100"`
	URL                  string `validate:"required,url,max=500"`
	Category             string `validate:"required"`
	Description          string
	About                string
	Syllabus             string
	Notes                string
	WeeklyCommitmentLow  int  `validate:"gte=0"`
	WeeklyCommitmentHigh *int `validate:"omitempty,gte=0"`
	DurationWeeks        int  `validate:"gte=0"`
}

type categoryInput struct {
	Name string `validate:"required,max=50"`
}

// CatalogService manages categories, courses and ratings
type CatalogService struct {
	base
	rights  *RightsService
	archive *ArchiveService
}

// NewCatalogService creates a new catalog service
func NewCatalogService(deps Deps, rights *RightsService, archive *ArchiveService) *CatalogService {
	return &CatalogService{
		base:    newBase(deps, "catalog"),
		rights:  rights,
		archive: archive,
	}
}

// AddCategory creates a category
func (s *CatalogService) AddCategory(ctx context.Context, actor *models.User, name string) (*models.Category, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	name = strings.TrimSpace(name)
	if err := s.check(categoryInput{Name: name}); err != nil {
		return nil, err
	}

	category := &models.Category{Name: name}
	if err := s.store.Catalog().CreateCategory(ctx, category); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrCategoryExists
		}
		return nil, s.storageFailure("add category", err)
	}

	s.log.Info("category added", zap.String("category", name))
	return category, nil
}

// ListCategories returns every category
func (s *CatalogService) ListCategories(ctx context.Context) ([]models.Category, error) {
	categories, err := s.store.Catalog().ListCategories(ctx)
	if err != nil {
		return nil, s.storageFailure("list categories", err)
	}
	return categories, nil
}

// AddCourse creates a course in an existing category
func (s *CatalogService) AddCourse(ctx context.Context, actor *models.User, input CourseInput) (*models.Course, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	input.Name = strings.TrimSpace(input.Name)
	if err := s.check(input); err != nil {
		return nil, err
	}
	if input.WeeklyCommitmentHigh != nil && *input.WeeklyCommitmentHigh < input.WeeklyCommitmentLow {
		return nil, invalidInput("weekly commitment upper bound is below the lower bound")
	}

	category, err := s.categoryByName(ctx, s.store, input.Category)
	if err != nil {
		return nil, err
	}

	course := &models.Course{
		Name:                 input.Name,
		URL:                  input.URL,
		CategoryID:           category.ID,
		CategoryName:         category.Name,
		Description:          input.Description,
		About:                input.About,
		Syllabus:             input.Syllabus,
		Notes:                input.Notes,
		WeeklyCommitmentLow:  input.WeeklyCommitmentLow,
		WeeklyCommitmentHigh: input.WeeklyCommitmentHigh,
		DurationWeeks:        input.DurationWeeks,
	}
	if err := s.store.Catalog().CreateCourse(ctx, course); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrCourseExists
		}
		return nil, s.storageFailure("add course", err)
	}

	s.log.Info("course added", zap.String("course", course.Name), zap.String("category", category.Name))
	return course, nil
}

// ListCourses returns the names of the courses user may see
func (s *CatalogService) ListCourses(ctx context.Context, user *models.User) ([]string, error) {
	courses, err := s.ListCoursesWithDetails(ctx, user)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(courses))
	for _, c := range courses {
		names = append(names, c.Name)
	}
	return names, nil
}

// ListCoursesWithDetails returns the courses user may see. Courses outside
// the user's rights are left out rather than reported.
func (s *CatalogService) ListCoursesWithDetails(ctx context.Context, user *models.User) ([]models.Course, error) {
	if user == nil {
		return nil, ErrUnknownUser
	}
	visible, err := s.rights.visibleCategories(ctx, user)
	if err != nil {
		return nil, err
	}
	courses, err := s.store.Catalog().ListCourses(ctx)
	if err != nil {
		return nil, s.storageFailure("list courses", err)
	}
	if visible == nil {
		return courses, nil
	}

	filtered := courses[:0]
	for _, c := range courses {
		if visible[c.CategoryID] {
			filtered = append(filtered, c)
		}
	}
	return filtered, nil
}

// DeleteCourse archives the course's history and deletes it
func (s *CatalogService) DeleteCourse(ctx context.Context, actor *models.User, name, reason string) (*ArchiveResult, error) {
	return s.archive.ArchiveAndDelete(ctx, actor, CourseTarget(name), reason)
}

// DeleteCategory archives the history of every course in the category and
// deletes the courses and the category
func (s *CatalogService) DeleteCategory(ctx context.Context, actor *models.User, name, reason string) (*ArchiveResult, error) {
	return s.archive.ArchiveAndDelete(ctx, actor, CategoryTarget(name), reason)
}

// RateCourse stores the user's 0-5 rating; rating again replaces the old value
func (s *CatalogService) RateCourse(ctx context.Context, user *models.User, courseName string, rating int) error {
	if user == nil {
		return ErrUnknownUser
	}
	if rating < 0 || rating > 5 {
		return ErrInvalidRating
	}
	course, err := s.courseByName(ctx, s.store, courseName)
	if err != nil {
		return err
	}
	ok, err := s.rights.allowed(ctx, s.store, user, course.CategoryID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrForbidden
	}

	value := models.Rating{UserID: user.ID, CourseID: course.ID, Value: rating}
	if err := s.store.Ratings().Upsert(ctx, value, s.now()); err != nil {
		return s.storageFailure("rate course", err)
	}
	return nil
}

// GetRating returns the user's rating of a course and whether one exists
func (s *CatalogService) GetRating(ctx context.Context, user *models.User, courseName string) (int, bool, error) {
	if user == nil {
		return 0, false, ErrUnknownUser
	}
	course, err := s.courseByName(ctx, s.store, courseName)
	if err != nil {
		return 0, false, err
	}
	value, err := s.store.Ratings().Get(ctx, user.ID, course.ID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return 0, false, nil
		}
		return 0, false, s.storageFailure("get rating", err)
	}
	return value, true, nil
}
