package models

import (
	"testing"
	"time"
)

func TestSessionIsExpired(t *testing.T) {
	issued := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		now  time.Time
		want bool
	}{
		{name: "fresh", now: issued, want: false},
		{name: "one second before expiry", now: issued.Add(time.Hour - time.Second), want: false},
		{name: "exactly at expiry", now: issued.Add(time.Hour), want: true},
		{name: "long past expiry", now: issued.Add(24 * time.Hour), want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			session := Session{Token: "t", UserID: 1, IssuedAt: issued, TTL: time.Hour}
			if got := session.IsExpired(tt.now); got != tt.want {
				t.Errorf("Session.IsExpired() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSessionRemaining(t *testing.T) {
	issued := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	session := Session{IssuedAt: issued, TTL: time.Hour}

	if got := session.Remaining(issued.Add(15 * time.Minute)); got != 45*time.Minute {
		t.Errorf("Remaining() = %v, want 45m", got)
	}
	if got := session.Remaining(issued.Add(2 * time.Hour)); got != 0 {
		t.Errorf("Remaining() after expiry = %v, want 0", got)
	}
}

func TestFormatElapsed(t *testing.T) {
	tests := []struct {
		seconds int64
		want    string
	}{
		{0, "0:00:00"},
		{59, "0:00:59"},
		{61, "0:01:01"},
		{3600, "1:00:00"},
		{90061, "25:01:01"},
		{-5, "0:00:00"},
	}

	for _, tt := range tests {
		if got := FormatElapsed(tt.seconds); got != tt.want {
			t.Errorf("FormatElapsed(%d) = %q, want %q", tt.seconds, got, tt.want)
		}
	}
}

func TestUserValidated(t *testing.T) {
	u := User{Email: "a@x.com"}
	if u.Validated() {
		t.Error("user without password hash should not be validated")
	}
	u.PasswordHash = "pbkdf2_sha256$1$c2FsdA$aGFzaA"
	if !u.Validated() {
		t.Error("user with password hash should be validated")
	}
}
