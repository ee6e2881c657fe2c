package errors

import (
	"errors"
	"fmt"
)

// Error taxonomy for the authentication core
var (
	// Request errors
	ErrInvalidInput = errors.New("invalid input")
	ErrConflict     = errors.New("email or username already exists")

	// Authentication errors
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserNotFound       = errors.New("user not found")
	ErrForbidden          = errors.New("user not authorized to logout this session")

	// Token errors
	ErrInvalidToken = errors.New("invalid token")

	// Session errors
	ErrSessionNotFound = errors.New("no active session found")

	// Repository miss, never surfaced raw
	ErrNotFound = errors.New("not found")
)

// Wrapf wraps an error with context using fmt.Errorf
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf(format+": %w", append(args, err)...)
}

// Is reports whether any error in err's chain matches target
func Is(err, target error) bool {
	return errors.Is(err, target)
}
