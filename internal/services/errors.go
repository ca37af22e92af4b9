package services

import (
	"errors"
	"fmt"
)

// ErrDuplicate reports a relation or occasion name that is already taken.
var ErrDuplicate = errors.New("already exists")

// ValidationError is returned when user input is rejected before any write.
type ValidationError struct {
	Field string
	Err   error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %v", e.Field, e.Err)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

func invalid(field string, err error) error {
	return &ValidationError{Field: field, Err: err}
}
