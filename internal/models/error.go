package models

import "errors"

// Sentinel errors for common failure conditions
var (
	ErrNotFound       = errors.New("resource not found")
	ErrConflict       = errors.New("resource already exists")
	ErrUnauthorized   = errors.New("unauthorized")
	ErrForbidden      = errors.New("forbidden")
	ErrBadRequest     = errors.New("bad request")
	ErrInternalServer = errors.New("internal server error")

	// OTP verification outcomes. Handlers collapse all of these into one
	// generic user-facing message; the distinction exists for logs and tests.
	ErrCodeNotFound     = errors.New("no pending code for this email")
	ErrCodeExpired      = errors.New("code has expired")
	ErrCodeInvalid      = errors.New("code does not match")
	ErrTooManyAttempts  = errors.New("too many failed attempts for this code")
)
