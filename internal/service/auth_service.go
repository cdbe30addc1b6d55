package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"coursetracker/internal/models"
	"coursetracker/internal/repository"
	"coursetracker/internal/security"
)

// DefaultSessionTTL is used when no TTL is configured
const DefaultSessionTTL = 2 * time.Hour

// SignupInput is a self-registration request. Password is accepted for
// client compatibility but never stored; see Signup.
type SignupInput struct {
	Email    string `validate:"required,email,max=254"`
	Name     string `validate:"required,max=100"`
	Password string
	Admin    bool
}

// LoginResult is returned by a successful login
type LoginResult struct {
	User     *models.User
	Token    string
	TTL      time.Duration
	IssuedAt time.Time
	Reused   bool
}

// AuthService is the credential store and session manager
type AuthService struct {
	base
	hasher *security.Hasher
	ttl    time.Duration
}

// NewAuthService creates a new auth service
func NewAuthService(deps Deps, hasher *security.Hasher, ttl time.Duration) *AuthService {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &AuthService{
		base:   newBase(deps, "auth"),
		hasher: hasher,
		ttl:    ttl,
	}
}

// Signup registers an account. The submitted password is ignored: the account
// stays pending until ValidateUser sets its password. Only the very first
// account may ask for admin.
func (s *AuthService) Signup(ctx context.Context, input SignupInput) (*models.User, error) {
	if err := s.check(input); err != nil {
		return nil, err
	}

	var user *models.User
	err := s.store.WithTx(ctx, func(tx repository.Store) error {
		if input.Admin {
			count, err := tx.Users().Count(ctx)
			if err != nil {
				return err
			}
			if count > 0 {
				return ErrForbidden
			}
		}

		email := security.NormalizeEmail(input.Email)
		user = &models.User{
			Identity:  security.Identity(email),
			Email:     email,
			Name:      input.Name,
			IsAdmin:   input.Admin,
			CreatedAt: s.now(),
		}
		if err := tx.Users().Create(ctx, user); err != nil {
			if errors.Is(err, repository.ErrDuplicate) {
				return ErrEmailTaken
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, s.storageFailure("signup", err)
	}

	s.log.Info("user signed up", zap.Int64("user_id", user.ID), zap.Bool("admin", user.IsAdmin))
	return user, nil
}

// ValidateUser sets the first password of a pending account
func (s *AuthService) ValidateUser(ctx context.Context, identity, password string) error {
	if password == "" {
		return invalidInput("password is required")
	}

	user, err := s.userByIdentity(ctx, s.store, identity)
	if err != nil {
		return err
	}
	if user.Validated() {
		return ErrPasswordAlreadySet
	}

	hash, err := s.hasher.HashPassword(password)
	if err != nil {
		return s.storageFailure("validate user", err)
	}

	set, err := s.store.Users().SetPasswordIfUnset(ctx, user.ID, hash)
	if err != nil {
		return s.storageFailure("validate user", err)
	}
	if !set {
		return ErrPasswordAlreadySet
	}

	s.log.Info("user validated", zap.Int64("user_id", user.ID))
	return nil
}

// NotValidatedError carries the public identifier of a pending account so
// clients can route to validation
type NotValidatedError struct {
	Identity string
}

func (e *NotValidatedError) Error() string { return ErrNotValidated.Msg }

func (e *NotValidatedError) Unwrap() error { return ErrNotValidated }

// Login verifies credentials and returns the user's live session, issuing a
// new one when none is live. Unknown users and wrong passwords fail the same way.
func (s *AuthService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	user, err := s.store.Users().GetByIdentity(ctx, security.Identity(email))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) || errors.Is(err, repository.ErrAmbiguous) {
			return nil, ErrInvalidCredentials
		}
		return nil, s.storageFailure("login", err)
	}
	if !user.Validated() {
		return nil, &NotValidatedError{Identity: user.Identity}
	}
	if !s.hasher.CheckPassword(password, user.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	result, err := s.issueSession(ctx, user)
	if errors.Is(err, repository.ErrDuplicate) {
		// a concurrent login for the same user won; hand out its session
		result, err = s.issueSession(ctx, user)
	}
	if err != nil {
		return nil, s.storageFailure("login", err)
	}

	if result.Reused {
		s.log.Debug("session reused", zap.Int64("user_id", user.ID))
	} else {
		s.log.Info("session issued", zap.Int64("user_id", user.ID))
	}
	return result, nil
}

func (s *AuthService) issueSession(ctx context.Context, user *models.User) (*LoginResult, error) {
	now := s.now()

	var result *LoginResult
	err := s.store.WithTx(ctx, func(tx repository.Store) error {
		existing, err := tx.Sessions().GetByUser(ctx, user.ID)
		switch {
		case err == nil && !existing.IsExpired(now):
			result = &LoginResult{User: user, Token: existing.Token, TTL: existing.TTL, IssuedAt: existing.IssuedAt, Reused: true}
			return nil
		case err != nil && !errors.Is(err, repository.ErrNotFound):
			return err
		}

		if err := tx.Sessions().DeleteByUser(ctx, user.ID); err != nil {
			return err
		}

		token, err := security.GenerateSessionToken()
		if err != nil {
			return err
		}
		session := &models.Session{Token: token, UserID: user.ID, IssuedAt: now, TTL: s.ttl}
		if err := tx.Sessions().Create(ctx, session); err != nil {
			return err
		}
		result = &LoginResult{User: user, Token: token, TTL: s.ttl, IssuedAt: now}
		return nil
	})
	return result, err
}

// IsValid reports whether token names a live session. Expired sessions are
// deleted on this check.
func (s *AuthService) IsValid(ctx context.Context, token string) (bool, error) {
	_, err := s.session(ctx, token)
	if err != nil {
		if errors.Is(err, ErrSessionInvalid) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// Authenticate resolves the owner of a live session
func (s *AuthService) Authenticate(ctx context.Context, token string) (*models.User, error) {
	session, err := s.session(ctx, token)
	if err != nil {
		return nil, err
	}
	user, err := s.store.Users().GetByID(ctx, session.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrSessionInvalid
		}
		return nil, s.storageFailure("authenticate", err)
	}
	return user, nil
}

func (s *AuthService) session(ctx context.Context, token string) (*models.Session, error) {
	if token == "" {
		return nil, ErrSessionInvalid
	}
	session, err := s.store.Sessions().Get(ctx, token)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrSessionInvalid
		}
		return nil, s.storageFailure("session lookup", err)
	}
	if session.IsExpired(s.now()) {
		if err := s.store.Sessions().Delete(ctx, token); err != nil {
			return nil, s.storageFailure("session reap", err)
		}
		s.log.Debug("expired session reaped", zap.Int64("user_id", session.UserID))
		return nil, ErrSessionInvalid
	}
	return session, nil
}

// Logout deletes every session of the user. It is a no-op without sessions.
func (s *AuthService) Logout(ctx context.Context, userID int64) error {
	if err := s.store.Sessions().DeleteByUser(ctx, userID); err != nil {
		return s.storageFailure("logout", err)
	}
	s.log.Info("user logged out", zap.Int64("user_id", userID))
	return nil
}

// ChangePassword replaces a validated user's password and revokes their sessions
func (s *AuthService) ChangePassword(ctx context.Context, actor *models.User, oldPassword, newPassword string) error {
	if actor == nil {
		return ErrSessionInvalid
	}
	if newPassword == "" {
		return invalidInput("new password is required")
	}

	user, err := s.store.Users().GetByID(ctx, actor.ID)
	if err != nil {
		return lookupErr(err, ErrUnknownUser, ErrAmbiguousUser)
	}
	if !user.Validated() {
		return ErrNotValidated
	}
	if !s.hasher.CheckPassword(oldPassword, user.PasswordHash) {
		return ErrInvalidCredentials
	}

	hash, err := s.hasher.HashPassword(newPassword)
	if err != nil {
		return s.storageFailure("change password", err)
	}

	err = s.store.WithTx(ctx, func(tx repository.Store) error {
		if err := tx.Users().SetPasswordHash(ctx, user.ID, hash); err != nil {
			return err
		}
		return tx.Sessions().DeleteByUser(ctx, user.ID)
	})
	if err != nil {
		return s.storageFailure("change password", err)
	}

	s.log.Info("password changed", zap.Int64("user_id", user.ID))
	return nil
}

// ReapExpired deletes every expired session and returns how many went.
// It runs only when an operator asks for it.
func (s *AuthService) ReapExpired(ctx context.Context) (int, error) {
	sessions, err := s.store.Sessions().List(ctx)
	if err != nil {
		return 0, s.storageFailure("reap sessions", err)
	}

	now := s.now()
	reaped := 0
	for _, session := range sessions {
		if !session.IsExpired(now) {
			continue
		}
		if err := s.store.Sessions().Delete(ctx, session.Token); err != nil {
			return reaped, s.storageFailure("reap sessions", err)
		}
		reaped++
	}

	s.log.Info("expired sessions reaped", zap.Int("count", reaped))
	return reaped, nil
}

// TTL returns the lifetime of newly issued sessions
func (s *AuthService) TTL() time.Duration {
	return s.ttl
}
