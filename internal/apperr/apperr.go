// Package apperr holds the error kinds shared by every layer.
//
// Repositories and services declare their own sentinels by wrapping one of
// these kinds, so callers can match either the specific error
// (users.ErrUserNotFound) or the kind (apperr.ErrNotFound).
package apperr

import "errors"

var (
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrDuplicateUsername   = errors.New("username already taken")
	ErrInvalidBank         = errors.New("invalid bank")
	ErrNotFound            = errors.New("not found")
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrInvalidAmount       = errors.New("invalid amount")
	ErrInvalidInput        = errors.New("invalid input")
	ErrUserLocked          = errors.New("user is locked")
	ErrUnauthorized        = errors.New("unauthorized")
	ErrForbidden           = errors.New("forbidden")
)
