package service

import (
	"context"
	"slices"

	"go.uber.org/zap"

	"coursetracker/internal/models"
	"coursetracker/internal/repository"
)

// AllCategories grants every category that exists at grant time
const AllCategories = "*"

// RightsService manages which categories each user may see and work in
type RightsService struct {
	base
}

// NewRightsService creates a new rights service
func NewRightsService(deps Deps) *RightsService {
	return &RightsService{base: newBase(deps, "rights")}
}

// Grant replaces the subject's rights with the named categories. "*"
// expands to the categories that exist now; later categories are not included.
func (s *RightsService) Grant(ctx context.Context, actor *models.User, subjectIdentity string, categoryNames []string) ([]models.Category, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}

	var granted []models.Category
	err := s.store.WithTx(ctx, func(tx repository.Store) error {
		subject, err := s.userByIdentity(ctx, tx, subjectIdentity)
		if err != nil {
			return err
		}

		if slices.Contains(categoryNames, AllCategories) {
			granted, err = tx.Catalog().ListCategories(ctx)
			if err != nil {
				return err
			}
		} else {
			granted = granted[:0]
			seen := make(map[int64]bool)
			for _, name := range categoryNames {
				category, err := s.categoryByName(ctx, tx, name)
				if err != nil {
					return err
				}
				if seen[category.ID] {
					continue
				}
				seen[category.ID] = true
				granted = append(granted, *category)
			}
		}

		ids := make([]int64, 0, len(granted))
		for _, c := range granted {
			ids = append(ids, c.ID)
		}
		return tx.Rights().Replace(ctx, subject.ID, ids)
	})
	if err != nil {
		return nil, s.storageFailure("grant rights", err)
	}

	s.log.Info("rights granted",
		zap.Int64("admin_id", actor.ID),
		zap.String("subject", subjectIdentity),
		zap.Int("categories", len(granted)),
	)
	return granted, nil
}

// Check reports whether user may access the named category. Admins always may.
// An unknown category is simply not accessible.
func (s *RightsService) Check(ctx context.Context, user *models.User, categoryName string) (bool, error) {
	category, err := s.categoryByName(ctx, s.store, categoryName)
	if err != nil {
		if KindOf(err) == KindNotFound {
			return false, nil
		}
		return false, err
	}
	return s.allowed(ctx, s.store, user, category.ID)
}

// allowed re-reads the user's admin flag and rights on every call
func (s *RightsService) allowed(ctx context.Context, store repository.Store, user *models.User, categoryID int64) (bool, error) {
	if user == nil {
		return false, nil
	}
	current, err := store.Users().GetByID(ctx, user.ID)
	if err != nil {
		return false, lookupErr(err, ErrUnknownUser, ErrAmbiguousUser)
	}
	if current.IsAdmin {
		return true, nil
	}
	ok, err := store.Rights().Has(ctx, current.ID, categoryID)
	if err != nil {
		return false, s.storageFailure("check right", err)
	}
	return ok, nil
}

// visibleCategories returns the set of category ids user may see, or nil
// for admins, who see everything
func (s *RightsService) visibleCategories(ctx context.Context, user *models.User) (map[int64]bool, error) {
	current, err := s.store.Users().GetByID(ctx, user.ID)
	if err != nil {
		return nil, lookupErr(err, ErrUnknownUser, ErrAmbiguousUser)
	}
	if current.IsAdmin {
		return nil, nil
	}
	categories, err := s.store.Rights().ListCategories(ctx, current.ID)
	if err != nil {
		return nil, s.storageFailure("list rights", err)
	}
	visible := make(map[int64]bool, len(categories))
	for _, c := range categories {
		visible[c.ID] = true
	}
	return visible, nil
}

// ListRights returns the categories the subject holds explicit rights on
func (s *RightsService) ListRights(ctx context.Context, actor *models.User, subjectIdentity string) ([]models.Category, error) {
	subject, err := s.userByIdentity(ctx, s.store, subjectIdentity)
	if err != nil {
		return nil, err
	}
	if err := requireSelfOrAdmin(actor, subject.ID); err != nil {
		return nil, err
	}
	categories, err := s.store.Rights().ListCategories(ctx, subject.ID)
	if err != nil {
		return nil, s.storageFailure("list rights", err)
	}
	return categories, nil
}
