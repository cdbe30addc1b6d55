// Package service holds the course tracker engine: credentials and
// sessions, the rights matrix, the work-session state machine, the archive
// engine and reporting. Every operation returns *Error on failure.
package service

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"coursetracker/internal/models"
	"coursetracker/internal/repository"
)

// Deps are the collaborators shared by every service
type Deps struct {
	Store  repository.Store
	Logger *zap.Logger
	// Now defaults to time.Now
	Now func() time.Time
}

type base struct {
	store    repository.Store
	log      *zap.Logger
	now      func() time.Time
	validate *validator.Validate
}

var validate = validator.New(validator.WithRequiredStructEnabled())

func newBase(deps Deps, component string) base {
	log := deps.Logger
	if log == nil {
		log = zap.NewNop()
	}
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	return base{
		store:    deps.Store,
		log:      log.With(zap.String("component", component)),
		now:      func() time.Time { return now().UTC() },
		validate: validate,
	}
}

// check runs struct validation and reports the first failing field
func (b *base) check(input any) error {
	if err := b.validate.Struct(input); err != nil {
		if verrs, ok := err.(validator.ValidationErrors); ok && len(verrs) > 0 {
			f := verrs[0]
			return invalidInput("invalid %s: failed %s", f.Field(), f.Tag())
		}
		return invalidInput("invalid input")
	}
	return nil
}

func (b *base) userByIdentity(ctx context.Context, store repository.Store, identity string) (*models.User, error) {
	user, err := store.Users().GetByIdentity(ctx, identity)
	if err != nil {
		return nil, lookupErr(err, ErrUnknownUser, ErrAmbiguousUser)
	}
	return user, nil
}

func (b *base) courseByName(ctx context.Context, store repository.Store, name string) (*models.Course, error) {
	course, err := store.Catalog().GetCourseByName(ctx, name)
	if err != nil {
		return nil, lookupErr(err, ErrUnknownCourse, ErrAmbiguousCourse)
	}
	return course, nil
}

func (b *base) categoryByName(ctx context.Context, store repository.Store, name string) (*models.Category, error) {
	category, err := store.Catalog().GetCategoryByName(ctx, name)
	if err != nil {
		return nil, lookupErr(err, ErrUnknownCategory, ErrAmbiguousCategory)
	}
	return category, nil
}

// storageFailure logs the cause and returns the generic error
func (b *base) storageFailure(op string, err error) error {
	wrapped := storageErr(err)
	if KindOf(wrapped) == KindStorage {
		b.log.Error("storage failure", zap.String("op", op), zap.Error(err))
	}
	return wrapped
}

func requireAdmin(actor *models.User) error {
	if actor == nil || !actor.IsAdmin {
		return ErrForbidden
	}
	return nil
}

// requireSelfOrAdmin allows admins and the subject user
func requireSelfOrAdmin(actor *models.User, subjectID int64) error {
	if actor == nil {
		return ErrForbidden
	}
	if actor.IsAdmin || actor.ID == subjectID {
		return nil
	}
	return ErrForbidden
}
