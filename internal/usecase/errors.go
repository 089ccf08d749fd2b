package usecase

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidInput          = errors.New("invalid input")
	ErrNotFound              = errors.New("resource not found")
	ErrUnauthorized          = errors.New("unauthorized")
	ErrForbidden             = errors.New("forbidden")
	ErrConflict              = errors.New("conflict")
	ErrCapacityExceeded      = fmt.Errorf("%w: team is at capacity", ErrConflict)
	ErrDependencyUnavailable = errors.New("dependency unavailable")
)
