package service

import (
	"errors"
	"fmt"

	"coursetracker/internal/repository"
)

// Kind classifies an Error for callers that map failures to responses
type Kind int

const (
	KindNotFound Kind = iota + 1
	KindAmbiguous
	KindForbidden
	KindConflict
	KindInvalidInput
	KindStorage
	KindActiveWorker
	KindUnauthenticated
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindAmbiguous:
		return "ambiguous"
	case KindForbidden:
		return "forbidden"
	case KindConflict:
		return "conflict"
	case KindInvalidInput:
		return "invalid_input"
	case KindStorage:
		return "storage"
	case KindActiveWorker:
		return "active_worker"
	case KindUnauthenticated:
		return "unauthenticated"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Error is the failure type returned by every service operation.
// Msg is safe to show to users; Err holds the cause, if any.
type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	return e.Msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches errors of the same kind and message, so wrapped causes still
// compare equal to the sentinels below.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind && t.Msg == e.Msg
}

var (
	ErrUnknownUser        = &Error{Kind: KindNotFound, Msg: "unknown user"}
	ErrUnknownCourse      = &Error{Kind: KindNotFound, Msg: "unknown course"}
	ErrUnknownCategory    = &Error{Kind: KindNotFound, Msg: "unknown category"}
	ErrAmbiguousUser      = &Error{Kind: KindAmbiguous, Msg: "more than one user matches"}
	ErrAmbiguousCourse    = &Error{Kind: KindAmbiguous, Msg: "more than one course matches"}
	ErrAmbiguousCategory  = &Error{Kind: KindAmbiguous, Msg: "more than one category matches"}
	ErrForbidden          = &Error{Kind: KindForbidden, Msg: "not allowed"}
	ErrInvalidCredentials = &Error{Kind: KindUnauthenticated, Msg: "incorrect email or password"}
	ErrSessionInvalid     = &Error{Kind: KindUnauthenticated, Msg: "session is invalid or expired"}
	ErrNotValidated       = &Error{Kind: KindForbidden, Msg: "account has not been validated"}
	ErrPasswordAlreadySet = &Error{Kind: KindConflict, Msg: "password already set"}
	ErrAlreadyWorking     = &Error{Kind: KindConflict, Msg: "already working"}
	ErrNotWorking         = &Error{Kind: KindConflict, Msg: "not working"}
	ErrEmailTaken         = &Error{Kind: KindConflict, Msg: "email already registered"}
	ErrCategoryExists     = &Error{Kind: KindConflict, Msg: "category already exists"}
	ErrCourseExists       = &Error{Kind: KindConflict, Msg: "course already exists"}
	ErrInvalidDuration    = &Error{Kind: KindInvalidInput, Msg: "duration must be a non-negative number of seconds"}
	ErrInvalidRating      = &Error{Kind: KindInvalidInput, Msg: "rating must be between 0 and 5"}
	ErrActiveWorker       = &Error{Kind: KindActiveWorker, Msg: "someone is currently working in this scope"}
)

// KindOf returns the Kind of err, or KindStorage for foreign errors
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindStorage
}

// invalidInput builds an InvalidInput error with a specific message
func invalidInput(format string, args ...any) error {
	return &Error{Kind: KindInvalidInput, Msg: fmt.Sprintf(format, args...)}
}

// storageErr hides a store failure behind a generic message
func storageErr(err error) error {
	var e *Error
	if errors.As(err, &e) {
		return err
	}
	return &Error{Kind: KindStorage, Msg: "server error", Err: err}
}

// lookupErr maps repository lookup failures to the given sentinels
func lookupErr(err error, notFound, ambiguous *Error) error {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return notFound
	case errors.Is(err, repository.ErrAmbiguous):
		return ambiguous
	default:
		return storageErr(err)
	}
}
