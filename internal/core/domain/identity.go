package domain

import (
	"regexp"
	"strings"
)

var (
	emailPattern    = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
	usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_]+$`)
)

const (
	usernameMinLen = 3
	usernameMaxLen = 50
	passwordMinLen = 8
)

// Email is a normalized email address: trimmed, lower-cased, and shaped like
// local@domain.tld. Two Emails are equal iff their normalized strings are equal.
type Email struct {
	value string
}

func NewEmail(raw string) (Email, error) {
	v := strings.ToLower(strings.TrimSpace(raw))
	if v == "" {
		return Email{}, &ValidationError{Message: "email is required"}
	}
	if !emailPattern.MatchString(v) {
		return Email{}, &ValidationError{Message: "invalid email format"}
	}
	return Email{value: v}, nil
}

func (e Email) String() string { return e.value }

// Username is a validated account handle: trimmed, 3-50 characters from
// [a-zA-Z0-9_].
type Username struct {
	value string
}

func NewUsername(raw string) (Username, error) {
	v := strings.TrimSpace(raw)
	if len(v) < usernameMinLen || len(v) > usernameMaxLen {
		return Username{}, &ValidationError{Message: "username must be between 3 and 50 characters"}
	}
	if !usernamePattern.MatchString(v) {
		return Username{}, &ValidationError{Message: "username may only contain letters, numbers and underscores"}
	}
	return Username{value: v}, nil
}

func (u Username) String() string { return u.value }

// Password exists only during registration and password changes. The aggregate
// never stores it; only the hash produced by the hasher collaborator persists.
type Password struct {
	value string
}

func NewPassword(raw string) (Password, error) {
	if len(raw) < passwordMinLen {
		return Password{}, &ValidationError{Message: "password must be at least 8 characters"}
	}
	return Password{value: raw}, nil
}

func (p Password) String() string { return p.value }
