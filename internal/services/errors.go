package services

import (
	"errors"
	"sort"
	"strings"
)

var (
	// ErrSignupCodeExists is returned when an active, unused code
	// already exists for the requested email address.
	ErrSignupCodeExists = errors.New("signup code already exists for email address")

	// ErrInvalidSignupCode covers unknown, expired and exhausted codes.
	ErrInvalidSignupCode = errors.New("invalid signup code")

	// ErrEmailTaken is returned when an email address is already owned
	// by a different user.
	ErrEmailTaken = errors.New("email address already in use")

	// ErrUserExists is returned when signup loses a race on the
	// username or email uniqueness constraints.
	ErrUserExists = errors.New("user already exists")

	// ErrInvalidConfirmationToken covers unknown, expired and already
	// consumed confirmation tokens.
	ErrInvalidConfirmationToken = errors.New("invalid confirmation token")

	// ErrSessionRevoked is returned when a structurally valid token has
	// been revoked.
	ErrSessionRevoked = errors.New("session has been revoked")
)

// NonFieldErrors is the key used for validation failures that do not
// belong to a single field.
const NonFieldErrors = "non_field_errors"

// FieldErrors collects validation messages per field. All failures are
// gathered and reported together instead of failing on the first one.
type FieldErrors map[string][]string

func (e FieldErrors) Add(field, message string) {
	e[field] = append(e[field], message)
}

func (e FieldErrors) Error() string {
	fields := make([]string, 0, len(e))
	for field := range e {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	var b strings.Builder
	b.WriteString("validation failed:")
	for _, field := range fields {
		b.WriteString(" ")
		b.WriteString(field)
		b.WriteString(": ")
		b.WriteString(strings.Join(e[field], "; "))
	}
	return b.String()
}
