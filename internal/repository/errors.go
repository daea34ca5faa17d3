// Package repository defines error types that are reused across multiple
// repositories. These sentinel values allow higher layers such as
// handlers and the central HTTP error handler to distinguish between
// different failure scenarios. For example, ErrNotFound indicates that
// no active record matched a lookup, while ErrResetInvalid signals that
// a presented reset token did not redeem — deliberately without saying
// whether it was wrong or merely expired.
package repository

import "errors"

// ErrNotFound is returned when a lookup matches no active record.
// Handlers should translate this into an HTTP 404 response.
var ErrNotFound = errors.New("not found")

// ErrEmailExists is returned when a create or profile update collides
// with an existing email address. Translates to HTTP 409.
var ErrEmailExists = errors.New("email already exists")

// ErrNameExists is returned when a create collides with an existing
// user name. Translates to HTTP 409.
var ErrNameExists = errors.New("name already exists")

// ErrInvalidEmail is returned when an email address fails format
// validation at the write boundary. Translates to HTTP 400.
var ErrInvalidEmail = errors.New("invalid email address")

// ErrNameLength is returned when a user name is shorter than 3 or
// longer than 40 characters. Translates to HTTP 400.
var ErrNameLength = errors.New("name must be between 3 and 40 characters")

// ErrPasswordTooShort is returned when a new password has fewer than 8
// characters. Translates to HTTP 400.
var ErrPasswordTooShort = errors.New("password must be at least 8 characters")

// ErrPasswordMismatch is returned when the confirmation value supplied
// with a new password does not equal the password itself. The
// confirmation is validated and discarded; it is never persisted.
// Translates to HTTP 400.
var ErrPasswordMismatch = errors.New("passwords do not match")

// ErrResetInvalid is returned when reset token redemption fails for any
// reason — unknown digest, already consumed, or expired. The cases are
// intentionally not distinguished so the error surface cannot be used
// as an oracle. Translates to HTTP 401.
var ErrResetInvalid = errors.New("token is invalid or has expired")
