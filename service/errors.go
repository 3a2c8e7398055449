package service

import (
	"errors"
	"fmt"
)

// ErrValidation is wrapped by every request validation failure.
var ErrValidation = errors.New("invalid request")

// ValidationError names the request field that failed.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

func invalid(field, format string, args ...any) error {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}
