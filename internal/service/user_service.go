package service

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"coursetracker/internal/models"
	"coursetracker/internal/repository"
	"coursetracker/internal/security"
)

// NewUserInput describes an account created by an administrator
type NewUserInput struct {
	Email string `validate:"required,email,max=254"`
	Name  string `validate:"required,max=100"`
	Admin bool
}

type nameInput struct {
	Name string `validate:"required,max=100"`
}

// UserService handles administrative user management
type UserService struct {
	base
	archive *ArchiveService
}

// NewUserService creates a new user service
func NewUserService(deps Deps, archive *ArchiveService) *UserService {
	return &UserService{base: newBase(deps, "users"), archive: archive}
}

// AddUser creates an account without a password. The user sets one through
// validation before they can log in.
func (s *UserService) AddUser(ctx context.Context, actor *models.User, input NewUserInput) (*models.User, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	if err := s.check(input); err != nil {
		return nil, err
	}
	return s.create(ctx, input)
}

// Bootstrap creates the first administrator. It fails once any user exists.
func (s *UserService) Bootstrap(ctx context.Context, input NewUserInput) (*models.User, error) {
	if err := s.check(input); err != nil {
		return nil, err
	}
	input.Admin = true

	var user *models.User
	err := s.store.WithTx(ctx, func(tx repository.Store) error {
		count, err := tx.Users().Count(ctx)
		if err != nil {
			return err
		}
		if count > 0 {
			return ErrForbidden
		}
		user, err = s.createIn(ctx, tx, input)
		return err
	})
	if err != nil {
		return nil, s.storageFailure("bootstrap admin", err)
	}
	return user, nil
}

func (s *UserService) create(ctx context.Context, input NewUserInput) (*models.User, error) {
	user, err := s.createIn(ctx, s.store, input)
	if err != nil {
		return nil, s.storageFailure("add user", err)
	}
	return user, nil
}

func (s *UserService) createIn(ctx context.Context, store repository.Store, input NewUserInput) (*models.User, error) {
	email := security.NormalizeEmail(input.Email)
	user := &models.User{
		Identity:  security.Identity(email),
		Email:     email,
		Name:      strings.TrimSpace(input.Name),
		IsAdmin:   input.Admin,
		CreatedAt: s.now(),
	}
	if err := store.Users().Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}
	s.log.Info("user added", zap.Int64("user_id", user.ID), zap.Bool("admin", user.IsAdmin))
	return user, nil
}

// GetUser resolves a user by identity
func (s *UserService) GetUser(ctx context.Context, identity string) (*models.User, error) {
	return s.userByIdentity(ctx, s.store, identity)
}

// ListUsers returns every user
func (s *UserService) ListUsers(ctx context.Context, actor *models.User) ([]models.User, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	users, err := s.store.Users().List(ctx)
	if err != nil {
		return nil, s.storageFailure("list users", err)
	}
	return users, nil
}

// UpdateName changes a display name. Users may rename themselves.
func (s *UserService) UpdateName(ctx context.Context, actor *models.User, identity, name string) error {
	name = strings.TrimSpace(name)
	if err := s.check(nameInput{Name: name}); err != nil {
		return err
	}
	subject, err := s.userByIdentity(ctx, s.store, identity)
	if err != nil {
		return err
	}
	if err := requireSelfOrAdmin(actor, subject.ID); err != nil {
		return err
	}
	if err := s.store.Users().UpdateName(ctx, subject.ID, name); err != nil {
		return lookupErr(err, ErrUnknownUser, ErrAmbiguousUser)
	}
	return nil
}

// SetAdmin grants or revokes administrator status
func (s *UserService) SetAdmin(ctx context.Context, actor *models.User, identity string, isAdmin bool) error {
	if err := requireAdmin(actor); err != nil {
		return err
	}
	subject, err := s.userByIdentity(ctx, s.store, identity)
	if err != nil {
		return err
	}
	if err := s.store.Users().SetAdmin(ctx, subject.ID, isAdmin); err != nil {
		return lookupErr(err, ErrUnknownUser, ErrAmbiguousUser)
	}
	s.log.Info("admin flag changed",
		zap.Int64("admin_id", actor.ID),
		zap.Int64("user_id", subject.ID),
		zap.Bool("admin", isAdmin),
	)
	return nil
}

// ResetPassword clears a user's password and ends their sessions; the user
// must validate again before logging in
func (s *UserService) ResetPassword(ctx context.Context, actor *models.User, identity string) error {
	if err := requireAdmin(actor); err != nil {
		return err
	}
	err := s.store.WithTx(ctx, func(tx repository.Store) error {
		subject, err := s.userByIdentity(ctx, tx, identity)
		if err != nil {
			return err
		}
		if err := tx.Users().SetPasswordHash(ctx, subject.ID, ""); err != nil {
			return err
		}
		return tx.Sessions().DeleteByUser(ctx, subject.ID)
	})
	if err != nil {
		return s.storageFailure("reset password", err)
	}
	s.log.Info("password reset", zap.Int64("admin_id", actor.ID), zap.String("subject", identity))
	return nil
}

// DeleteUser archives the user's history and removes the account
func (s *UserService) DeleteUser(ctx context.Context, actor *models.User, identity, reason string) (*ArchiveResult, error) {
	return s.archive.ArchiveAndDelete(ctx, actor, UserTarget(identity), reason)
}
