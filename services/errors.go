package services

import "errors"

// Common errors. Routes translate these to HTTP status codes: NotFound
// errors to 404, ErrForbidden to 403, credential errors to 401, the
// *Exists errors to 409.
var (
	ErrUserNotFound       = errors.New("user not found")
	ErrNoteNotFound       = errors.New("note not found")
	ErrTagNotFound        = errors.New("tag not found")
	ErrForbidden          = errors.New("forbidden")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid token")
	ErrInvalidInput       = errors.New("invalid input")
	ErrUserExists         = errors.New("username already taken")
	ErrTagExists          = errors.New("tag name already taken")
	ErrInternal           = errors.New("internal server error")
)
