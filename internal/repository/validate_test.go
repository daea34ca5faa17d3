package repository

import (
	"strings"
	"testing"
)

func TestNormalizeEmail(t *testing.T) {
	t.Parallel()

	if got := NormalizeEmail("  A@X.Com "); got != "a@x.com" {
		t.Fatalf("NormalizeEmail = %q, want a@x.com", got)
	}
}

func TestValidateEmail(t *testing.T) {
	t.Parallel()

	if err := ValidateEmail("a@x.com"); err != nil {
		t.Fatalf("valid email rejected: %v", err)
	}
	for _, bad := range []string{"", "not-an-email", "a@", "Display Name <a@x.com>"} {
		if err := ValidateEmail(bad); err != ErrInvalidEmail {
			t.Fatalf("ValidateEmail(%q) = %v, want ErrInvalidEmail", bad, err)
		}
	}
}

func TestValidateName(t *testing.T) {
	t.Parallel()

	if err := ValidateName("Jo"); err != ErrNameLength {
		t.Fatalf("too-short name: %v, want ErrNameLength", err)
	}
	if err := ValidateName(strings.Repeat("x", 41)); err != ErrNameLength {
		t.Fatalf("too-long name: %v, want ErrNameLength", err)
	}
	if err := ValidateName("Gejza Strudlic"); err != nil {
		t.Fatalf("valid name rejected: %v", err)
	}
}

func TestValidateNewPassword(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name     string
		password string
		confirm  string
		want     error
	}{
		{"ok", "password1", "password1", nil},
		{"too short", "pass1", "pass1", ErrPasswordTooShort},
		{"seven chars", "1234567", "1234567", ErrPasswordTooShort},
		{"confirmation differs", "password1", "password2", ErrPasswordMismatch},
		{"confirmation empty", "password1", "", ErrPasswordMismatch},
	}
	for _, tc := range cases {
		if got := ValidateNewPassword(tc.password, tc.confirm); got != tc.want {
			t.Fatalf("%s: ValidateNewPassword = %v, want %v", tc.name, got, tc.want)
		}
	}
}
