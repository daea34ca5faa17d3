package repository

import (
	"net/mail"
	"strings"
	"unicode/utf8"
)

// Write-boundary validation. These checks run inside the repository at
// every create or password mutation so callers cannot skip them; they
// are plain functions rather than schema hooks so ordering stays
// explicit and unit-testable.

const (
	minNameLen     = 3
	maxNameLen     = 40
	minPasswordLen = 8
)

// NormalizeEmail lowercases and trims an email address. Every identity
// lookup and write goes through this so the unique index never sees two
// casings of the same address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ValidateEmail checks the normalized address parses as a bare RFC 5322
// address.
func ValidateEmail(email string) error {
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return ErrInvalidEmail
	}
	return nil
}

// ValidateName enforces the 3..40 character bound on display names.
func ValidateName(name string) error {
	n := utf8.RuneCountInString(strings.TrimSpace(name))
	if n < minNameLen || n > maxNameLen {
		return ErrNameLength
	}
	return nil
}

// ValidateNewPassword enforces the minimum length and that the
// confirmation value equals the password. The confirmation exists only
// for this check and is discarded by every caller afterwards.
func ValidateNewPassword(password, confirm string) error {
	if len(password) < minPasswordLen {
		return ErrPasswordTooShort
	}
	if password != confirm {
		return ErrPasswordMismatch
	}
	return nil
}
