package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRightsCheck(t *testing.T) {
	f := newFixture(t, DefaultSessionTTL)
	u := f.member(t, "u@x.com", "U")
	f.course(t, "CategoryA", "A1")
	f.course(t, "CategoryB", "B1")

	f.grant(t, u, "CategoryA")

	tests := []struct {
		category string
		want     bool
	}{
		{category: "CategoryA", want: true},
		{category: "CategoryB", want: false},
		{category: "Missing", want: false},
	}
	for _, tt := range tests {
		t.Run(tt.category, func(t *testing.T) {
			got, err := f.rights.Check(f.ctx, u, tt.category)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	ok, err := f.rights.Check(f.ctx, f.admin, "CategoryB")
	require.NoError(t, err)
	assert.True(t, ok, "admins pass without a right row")
}

func TestGrantReplacesRights(t *testing.T) {
	f := newFixture(t, DefaultSessionTTL)
	u := f.member(t, "u@x.com", "U")
	f.course(t, "CategoryA", "A1")
	f.course(t, "CategoryB", "B1")

	f.grant(t, u, "CategoryA")
	f.grant(t, u, "CategoryB")

	rights, err := f.rights.ListRights(f.ctx, u, u.Identity)
	require.NoError(t, err)
	require.Len(t, rights, 1)
	assert.Equal(t, "CategoryB", rights[0].Name)
}

func TestGrantWildcardIsSnapshot(t *testing.T) {
	f := newFixture(t, DefaultSessionTTL)
	u := f.member(t, "u@x.com", "U")
	f.course(t, "CategoryA", "A1")
	f.course(t, "CategoryB", "B1")

	granted, err := f.rights.Grant(f.ctx, f.admin, u.Identity, []string{AllCategories})
	require.NoError(t, err)
	assert.Len(t, granted, 2)

	_, err = f.catalog.AddCategory(f.ctx, f.admin, "CategoryC")
	require.NoError(t, err)

	ok, err := f.rights.Check(f.ctx, u, "CategoryA")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = f.rights.Check(f.ctx, u, "CategoryC")
	require.NoError(t, err)
	assert.False(t, ok, "categories added after a wildcard grant are not included")
}

func TestGrantRequiresAdmin(t *testing.T) {
	f := newFixture(t, DefaultSessionTTL)
	u := f.member(t, "u@x.com", "U")
	other := f.member(t, "o@x.com", "O")
	f.course(t, "CategoryA", "A1")

	_, err := f.rights.Grant(f.ctx, u, other.Identity, []string{"CategoryA"})
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = f.rights.Grant(f.ctx, f.admin, other.Identity, []string{"Nope"})
	assert.ErrorIs(t, err, ErrUnknownCategory)

	_, err = f.rights.ListRights(f.ctx, u, other.Identity)
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestGrantUnknownCategoryLeavesRightsAlone(t *testing.T) {
	f := newFixture(t, DefaultSessionTTL)
	u := f.member(t, "u@x.com", "U")
	f.course(t, "CategoryA", "A1")
	f.grant(t, u, "CategoryA")

	_, err := f.rights.Grant(f.ctx, f.admin, u.Identity, []string{"Nope"})
	require.Error(t, err)

	ok, err := f.rights.Check(f.ctx, u, "CategoryA")
	require.NoError(t, err)
	assert.True(t, ok)
}
