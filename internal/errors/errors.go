package errors

import (
	"errors"
	"fmt"
)

// Common error types for the marketplace front end
var (
	// Configuration errors, fail fast at startup
	ErrUnknownRole      = errors.New("unknown role")
	ErrInvalidRouteSpec = errors.New("invalid route spec")

	// Login / signup errors, recoverable and surfaced as form messages
	ErrLoginValidation  = errors.New("login validation failed")
	ErrSignupValidation = errors.New("signup validation failed")

	// Session errors
	ErrInvalidSession  = errors.New("invalid session")
	ErrSessionNotFound = errors.New("session not found")
	ErrSessionExpired  = errors.New("session expired")

	// User errors
	ErrUserExists = errors.New("user already exists")

	// Token errors
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")

	// General errors
	ErrNotFound = errors.New("not found")
	ErrInternal = errors.New("internal error")
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

// As finds the first error in err's chain that matches target
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}
