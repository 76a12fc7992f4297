package domain

import (
	"errors"
	"fmt"
)

var (
	ErrNotAuthenticated = errors.New("authentication required")
	ErrForbidden        = errors.New("forbidden")
	ErrNotFound         = errors.New("not found")
	ErrInvalid          = errors.New("invalid input")
)

// ValidationError 字段级校验失败，errors.Is(err, ErrInvalid) 为 true
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Reason
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error { return ErrInvalid }

func Invalid(field, reason string) error { return &ValidationError{Field: field, Reason: reason} }
