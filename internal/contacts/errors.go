package contacts

import (
	"errors"
	"fmt"

	"github.com/tartampluch/go-addressbook/internal/config"
)

// Sentinel errors matched with errors.Is by the command boundary.
var (
	ErrValidation = errors.New(config.ErrValidation)
	ErrNotFound   = errors.New(config.ErrNotFound)
)

// Field identifies which value a failure refers to.
type Field string

const (
	FieldName     Field = "name"
	FieldPhone    Field = "phone"
	FieldBirthday Field = "birthday"
)

// ValidationError reports a raw value rejected at construction time.
// It matches ErrValidation.
type ValidationError struct {
	Field  Field
	Value  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s %q: %s", e.Field, e.Value, e.Reason)
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// NotFoundError reports an operation targeting a contact or phone that is not present.
// It matches ErrNotFound.
type NotFoundError struct {
	Field Field
	Value string
}

func (e *NotFoundError) Error() string {
	reason := config.ErrContactNotFound
	if e.Field == FieldPhone {
		reason = config.ErrPhoneNotFound
	}
	return fmt.Sprintf("%s: %q", reason, e.Value)
}

func (e *NotFoundError) Unwrap() error {
	return ErrNotFound
}
