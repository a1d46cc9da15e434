// Package common defines the sentinel errors shared across the service,
// repository, and transport layers. Callers match them with errors.Is.
package common

import "errors"

var (
	// repository-level errors
	ErrorNotFound  = errors.New("not found")
	ErrorDuplicate = errors.New("duplicate record")

	// generic service-level error for anything outside the expected taxonomy
	ErrorInternal = errors.New("internal error")

	// validation errors
	ErrValidation = errors.New("validation fails")

	// account errors
	ErrDuplicateEmail   = errors.New("user already exists")
	ErrEmailInUse       = errors.New("email already in use")
	ErrUserNotFound     = errors.New("user not found")
	ErrPasswordMismatch = errors.New("password does not match")

	// token errors
	ErrTokenMissing = errors.New("token not provided")
	ErrTokenInvalid = errors.New("token invalid")
)
