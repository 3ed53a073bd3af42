package usecase

import "errors"

var (
	ErrInvalidInput          = errors.New("invalid input")
	ErrNotFound              = errors.New("resource not found")
	ErrUnauthorized          = errors.New("unauthorized")
	ErrConflict              = errors.New("concurrent modification")
	ErrCascadeFailure        = errors.New("invite cascade failed")
	ErrRosterLocked          = errors.New("roster is locked")
	ErrDependencyUnavailable = errors.New("dependency unavailable")
)
