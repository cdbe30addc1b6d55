package models

import "time"

// User is a member or administrator. PasswordHash is empty until the
// account has been validated.
type User struct {
	ID           int64
	Identity     string
	Email        string
	Name         string
	PasswordHash string
	IsAdmin      bool
	CreatedAt    time.Time
}

// Validated reports whether the user has set a password
func (u *User) Validated() bool {
	return u.PasswordHash != ""
}

// Session is an issued bearer token
type Session struct {
	Token    string
	UserID   int64
	IssuedAt time.Time
	TTL      time.Duration
}

// ExpiresAt returns issuedAt + ttl
func (s *Session) ExpiresAt() time.Time {
	return s.IssuedAt.Add(s.TTL)
}

// IsExpired reports whether the session is past its expiry at now.
// A session is expired at exactly issuedAt + ttl.
func (s *Session) IsExpired(now time.Time) bool {
	return !now.Before(s.ExpiresAt())
}

// Remaining returns the time left before expiry, never negative
func (s *Session) Remaining(now time.Time) time.Duration {
	d := s.ExpiresAt().Sub(now)
	if d < 0 {
		return 0
	}
	return d
}
