package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListCoursesFiltersByRights(t *testing.T) {
	f := newFixture(t, DefaultSessionTTL)
	u := f.member(t, "u@x.com", "U")
	f.course(t, "Math", "Algebra")
	f.course(t, "Math", "Calculus")
	f.course(t, "Art", "Drawing")

	names, err := f.catalog.ListCourses(f.ctx, u)
	require.NoError(t, err)
	assert.Empty(t, names, "no rights means no courses")

	f.grant(t, u, "Math")
	names, err = f.catalog.ListCourses(f.ctx, u)
	require.NoError(t, err)
	assert.Equal(t, []string{"Algebra", "Calculus"}, names)

	details, err := f.catalog.ListCoursesWithDetails(f.ctx, u)
	require.NoError(t, err)
	require.Len(t, details, 2)
	assert.Equal(t, "Math", details[0].CategoryName)

	all, err := f.catalog.ListCourses(f.ctx, f.admin)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestAddCourseValidation(t *testing.T) {
	f := newFixture(t, DefaultSessionTTL)
	_, err := f.catalog.AddCategory(f.ctx, f.admin, "Math")
	require.NoError(t, err)

	low := 1
	tests := []struct {
		name  string
		input CourseInput
		kind  Kind
	}{
		{name: "missing name", input: CourseInput{URL: "https://x.org", Category: "Math"}, kind: KindInvalidInput},
		{name: "bad url", input: CourseInput{Name: "A", URL: "not a url", Category: "Math"}, kind: KindInvalidInput},
		{name: "negative weeks", input: CourseInput{Name: "A", URL: "https://x.org", Category: "Math", DurationWeeks: -1}, kind: KindInvalidInput},
		{name: "inverted commitment", input: CourseInput{Name: "A", URL: "https://x.org", Category: "Math", WeeklyCommitmentLow: 3, WeeklyCommitmentHigh: &low}, kind: KindInvalidInput},
		{name: "unknown category", input: CourseInput{Name: "A", URL: "https://x.org", Category: "Nope"}, kind: KindNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.catalog.AddCourse(f.ctx, f.admin, tt.input)
			require.Error(t, err)
			assert.Equal(t, tt.kind, KindOf(err))
		})
	}

	high := 5
	course, err := f.catalog.AddCourse(f.ctx, f.admin, CourseInput{
		Name: "Algebra", URL: "https://x.org/algebra", Category: "Math",
		WeeklyCommitmentLow: 2, WeeklyCommitmentHigh: &high, DurationWeeks: 8,
	})
	require.NoError(t, err)
	assert.NotZero(t, course.ID)

	_, err = f.catalog.AddCourse(f.ctx, f.admin, CourseInput{Name: "Algebra", URL: "https://x.org/2", Category: "Math"})
	assert.ErrorIs(t, err, ErrCourseExists)

	_, err = f.catalog.AddCategory(f.ctx, f.admin, "Math")
	assert.ErrorIs(t, err, ErrCategoryExists)
}

func TestCatalogAdminOnly(t *testing.T) {
	f := newFixture(t, DefaultSessionTTL)
	u := f.member(t, "u@x.com", "U")

	_, err := f.catalog.AddCategory(f.ctx, u, "Math")
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = f.catalog.AddCourse(f.ctx, u, CourseInput{Name: "A", URL: "https://x.org", Category: "Math"})
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestRateCourse(t *testing.T) {
	f := newFixture(t, DefaultSessionTTL)
	u := f.member(t, "u@x.com", "U")
	f.course(t, "Math", "Algebra")

	assert.ErrorIs(t, f.catalog.RateCourse(f.ctx, u, "Algebra", 3), ErrForbidden)

	f.grant(t, u, "Math")
	assert.ErrorIs(t, f.catalog.RateCourse(f.ctx, u, "Algebra", 6), ErrInvalidRating)
	assert.ErrorIs(t, f.catalog.RateCourse(f.ctx, u, "Algebra", -1), ErrInvalidRating)
	assert.ErrorIs(t, f.catalog.RateCourse(f.ctx, u, "Nope", 3), ErrUnknownCourse)

	_, ok, err := f.catalog.GetRating(f.ctx, u, "Algebra")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, f.catalog.RateCourse(f.ctx, u, "Algebra", 3))
	require.NoError(t, f.catalog.RateCourse(f.ctx, u, "Algebra", 0))

	value, ok, err := f.catalog.GetRating(f.ctx, u, "Algebra")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 0, value)

	ratings, err := f.store.Ratings().ListByUser(f.ctx, u.ID)
	require.NoError(t, err)
	assert.Len(t, ratings, 1, "second rating updates rather than duplicates")
}
