package service

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"coursetracker/internal/repository"
	"coursetracker/internal/security"
)

func TestSignupValidateLoginLogout(t *testing.T) {
	f := newFixture(t, DefaultSessionTTL)

	user, err := f.auth.Signup(f.ctx, SignupInput{Email: "a@x.com", Name: "A", Password: "pw"})
	require.NoError(t, err)
	assert.False(t, user.Validated())

	_, err = f.auth.Login(f.ctx, "a@x.com", "pw")
	require.ErrorIs(t, err, ErrNotValidated)
	var pending *NotValidatedError
	require.True(t, errors.As(err, &pending))
	assert.Equal(t, security.Identity("a@x.com"), pending.Identity)
	assert.Equal(t, KindForbidden, KindOf(err))

	require.NoError(t, f.auth.ValidateUser(f.ctx, security.Identity("a@x.com"), "pw2"))

	result, err := f.auth.Login(f.ctx, "a@x.com", "pw2")
	require.NoError(t, err)
	assert.Len(t, result.Token, 64)
	assert.Equal(t, 2*time.Hour, result.TTL)

	valid, err := f.auth.IsValid(f.ctx, result.Token)
	require.NoError(t, err)
	assert.True(t, valid)

	require.NoError(t, f.auth.Logout(f.ctx, result.User.ID))
	valid, err = f.auth.IsValid(f.ctx, result.Token)
	require.NoError(t, err)
	assert.False(t, valid)

	assert.NoError(t, f.auth.Logout(f.ctx, result.User.ID), "logout is idempotent")
}

func TestLoginFailuresLookAlike(t *testing.T) {
	f := newFixture(t, DefaultSessionTTL)
	u := f.member(t, "a@x.com", "A")
	require.NoError(t, f.auth.ValidateUser(f.ctx, u.Identity, "secret"))

	_, wrongPassword := f.auth.Login(f.ctx, "a@x.com", "nope")
	_, unknownUser := f.auth.Login(f.ctx, "ghost@x.com", "secret")

	require.Error(t, wrongPassword)
	require.Error(t, unknownUser)
	assert.Equal(t, wrongPassword.Error(), unknownUser.Error())
	assert.ErrorIs(t, wrongPassword, ErrInvalidCredentials)
	assert.ErrorIs(t, unknownUser, ErrInvalidCredentials)
}

func TestLoginIsCaseInsensitiveOnEmail(t *testing.T) {
	f := newFixture(t, DefaultSessionTTL)
	u := f.member(t, "a@x.com", "A")
	require.NoError(t, f.auth.ValidateUser(f.ctx, u.Identity, "secret"))

	_, err := f.auth.Login(f.ctx, " A@X.COM", "secret")
	assert.NoError(t, err)
}

func TestLoginReusesLiveSession(t *testing.T) {
	f := newFixture(t, time.Hour)
	u := f.member(t, "a@x.com", "A")
	require.NoError(t, f.auth.ValidateUser(f.ctx, u.Identity, "secret"))

	first, err := f.auth.Login(f.ctx, "a@x.com", "secret")
	require.NoError(t, err)
	assert.False(t, first.Reused)

	f.clock.Advance(30 * time.Minute)
	second, err := f.auth.Login(f.ctx, "a@x.com", "secret")
	require.NoError(t, err)
	assert.True(t, second.Reused)
	assert.Equal(t, first.Token, second.Token)

	f.clock.Advance(30 * time.Minute)
	third, err := f.auth.Login(f.ctx, "a@x.com", "secret")
	require.NoError(t, err)
	assert.NotEqual(t, first.Token, third.Token, "expired session must be replaced")

	valid, err := f.auth.IsValid(f.ctx, first.Token)
	require.NoError(t, err)
	assert.False(t, valid, "old token is overwritten")
}

func TestExpiredTokenIsReapedOnCheck(t *testing.T) {
	f := newFixture(t, time.Second)
	u := f.member(t, "a@x.com", "A")
	require.NoError(t, f.auth.ValidateUser(f.ctx, u.Identity, "secret"))

	result, err := f.auth.Login(f.ctx, "a@x.com", "secret")
	require.NoError(t, err)

	// still stored until someone checks it
	f.clock.Advance(time.Second)
	_, err = f.store.Sessions().Get(f.ctx, result.Token)
	require.NoError(t, err)

	valid, err := f.auth.IsValid(f.ctx, result.Token)
	require.NoError(t, err)
	assert.False(t, valid)

	valid, err = f.auth.IsValid(f.ctx, result.Token)
	require.NoError(t, err)
	assert.False(t, valid)

	_, err = f.store.Sessions().Get(f.ctx, result.Token)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestAuthenticate(t *testing.T) {
	f := newFixture(t, time.Hour)
	u := f.member(t, "a@x.com", "A")
	require.NoError(t, f.auth.ValidateUser(f.ctx, u.Identity, "secret"))
	result, err := f.auth.Login(f.ctx, "a@x.com", "secret")
	require.NoError(t, err)

	got, err := f.auth.Authenticate(f.ctx, result.Token)
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)

	_, err = f.auth.Authenticate(f.ctx, "not-a-token")
	assert.ErrorIs(t, err, ErrSessionInvalid)
	assert.Equal(t, KindUnauthenticated, KindOf(err))

	_, err = f.auth.Authenticate(f.ctx, "")
	assert.ErrorIs(t, err, ErrSessionInvalid)
}

func TestValidateUserOnlyOnce(t *testing.T) {
	f := newFixture(t, DefaultSessionTTL)
	u := f.member(t, "a@x.com", "A")

	require.NoError(t, f.auth.ValidateUser(f.ctx, u.Identity, "one"))
	err := f.auth.ValidateUser(f.ctx, u.Identity, "two")
	assert.ErrorIs(t, err, ErrPasswordAlreadySet)
	assert.Equal(t, KindConflict, KindOf(err))

	assert.ErrorIs(t, f.auth.ValidateUser(f.ctx, "unknown", "pw"), ErrUnknownUser)
}

func TestSignupRules(t *testing.T) {
	f := newFixture(t, DefaultSessionTTL)

	_, err := f.auth.Signup(f.ctx, SignupInput{Email: "b@x.com", Name: "B", Password: "pw", Admin: true})
	assert.ErrorIs(t, err, ErrForbidden, "only the first account may be admin")

	_, err = f.auth.Signup(f.ctx, SignupInput{Email: "admin@x.com", Name: "Again", Password: "pw"})
	assert.ErrorIs(t, err, ErrEmailTaken)

	_, err = f.auth.Signup(f.ctx, SignupInput{Email: "not-an-email", Name: "C", Password: "pw"})
	assert.Equal(t, KindInvalidInput, KindOf(err))

	// the signup password is not a credential; the account waits for validation
	u, err := f.auth.Signup(f.ctx, SignupInput{Email: "d@x.com", Name: "D"})
	require.NoError(t, err)
	assert.False(t, u.Validated())
	_, err = f.auth.Login(f.ctx, "d@x.com", "")
	assert.ErrorIs(t, err, ErrNotValidated)
}

func TestChangePasswordRevokesSessions(t *testing.T) {
	f := newFixture(t, time.Hour)
	u := f.member(t, "a@x.com", "A")
	require.NoError(t, f.auth.ValidateUser(f.ctx, u.Identity, "old"))
	result, err := f.auth.Login(f.ctx, "a@x.com", "old")
	require.NoError(t, err)

	assert.ErrorIs(t, f.auth.ChangePassword(f.ctx, u, "wrong", "new"), ErrInvalidCredentials)
	require.NoError(t, f.auth.ChangePassword(f.ctx, u, "old", "new"))

	valid, err := f.auth.IsValid(f.ctx, result.Token)
	require.NoError(t, err)
	assert.False(t, valid)

	_, err = f.auth.Login(f.ctx, "a@x.com", "new")
	assert.NoError(t, err)
}

func TestReapExpired(t *testing.T) {
	f := newFixture(t, time.Minute)
	for _, email := range []string{"a@x.com", "b@x.com"} {
		u := f.member(t, email, email)
		require.NoError(t, f.auth.ValidateUser(f.ctx, u.Identity, "pw"))
		_, err := f.auth.Login(f.ctx, email, "pw")
		require.NoError(t, err)
	}

	n, err := f.auth.ReapExpired(f.ctx)
	require.NoError(t, err)
	assert.Zero(t, n)

	f.clock.Advance(time.Minute)
	n, err = f.auth.ReapExpired(f.ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	sessions, err := f.store.Sessions().List(f.ctx)
	require.NoError(t, err)
	assert.Empty(t, sessions)
}

func TestStorageFailureIsGeneric(t *testing.T) {
	f := newFixture(t, time.Hour)
	u := f.member(t, "a@x.com", "A")
	require.NoError(t, f.auth.ValidateUser(f.ctx, u.Identity, "pw"))

	cause := errors.New("disk on fire at /var/lib/db")
	f.store.FailOn("sessions.Create", cause)

	_, err := f.auth.Login(f.ctx, "a@x.com", "pw")
	require.Error(t, err)
	assert.Equal(t, KindStorage, KindOf(err))
	assert.Equal(t, "server error", err.Error())
	assert.ErrorIs(t, err, cause)
}
