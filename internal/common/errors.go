// Package common defines sentinel errors and small helpers shared by the
// SmartTask store, its services and front ends. Callers should use errors.Is
// to match these values; lower layers wrap them with fmt.Errorf("...: %w").
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound     = errors.New("not found")
	ErrDuplicateEmail = errors.New("email already registered")
	ErrPersistence    = errors.New("persistence failure")

	// Account validation and authentication errors.
	ErrInvalidEmail  = errors.New("invalid email format")
	ErrWeakPassword  = errors.New("password must be at least 6 characters")
	ErrInvalidName   = errors.New("first and last name are required")
	ErrInactive      = errors.New("account is deactivated")
	ErrWrongPassword = errors.New("wrong password")

	// Task validation errors.
	ErrEmptyTitle     = errors.New("task title cannot be empty")
	ErrEmptyOwner     = errors.New("owner email cannot be empty")
	ErrMissingDueDate = errors.New("due date cannot be empty")
	ErrInvalidDueDate = errors.New("invalid due date, use YYYY-MM-DD and HH:MM")
	ErrOwnerNotFound  = errors.New("owner account does not exist")

	// Query errors.
	ErrInvalidFilter = errors.New("invalid filter")

	// Service-level errors used by the front ends.
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("unauthorized")

	// Auth errors (invalid, malformed or expired session token).
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")
)
