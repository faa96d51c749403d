package core

import (
	"errors"
	"fmt"
)

var (
	ErrValidation  = errors.New("validation failed")
	ErrDuplicate   = errors.New("duplicate entry")
	ErrPersistence = errors.New("persistence failed")
)

// ValidationError reports a missing or malformed input field.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// DuplicateError reports a category that already exists under a case-insensitive comparison.
type DuplicateError struct {
	Name     string
	Existing string
}

func (e *DuplicateError) Error() string {
	return fmt.Sprintf("category %q already exists as %q", e.Name, e.Existing)
}

func (e *DuplicateError) Is(target error) bool {
	return target == ErrDuplicate
}

// PersistenceError wraps a store failure. The action that triggered it has not been committed.
type PersistenceError struct {
	Op  string
	Key string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Key, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

func (e *PersistenceError) Is(target error) bool {
	return target == ErrPersistence
}
