package engine

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinels matched by the structured error types below via errors.Is.
var (
	ErrEmptyInput = errors.New("empty input")
	ErrNotFound   = errors.New("not found")
)

// EmptyInputError reports statistics requested over zero records.
type EmptyInputError struct {
	Operation string // e.g. "education.Summary"
}

func (e *EmptyInputError) Error() string {
	return fmt.Sprintf("%s: no records to analyze", e.Operation)
}

func (e *EmptyInputError) Is(target error) bool { return target == ErrEmptyInput }

// NewEmptyInput builds an EmptyInputError for an operation.
func NewEmptyInput(operation string) *EmptyInputError {
	return &EmptyInputError{Operation: operation}
}

// NotFoundError reports comparison keys absent from a table.
type NotFoundError struct {
	Kind string   // "district or state", "city"
	Keys []string // every key that was not found
}

func (e *NotFoundError) Error() string {
	quoted := make([]string, len(e.Keys))
	for i, k := range e.Keys {
		quoted[i] = fmt.Sprintf("%q", k)
	}
	return fmt.Sprintf("%s not found: %s", e.Kind, strings.Join(quoted, ", "))
}

func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

// NewNotFound builds a NotFoundError; it returns nil when keys is empty so
// callers can collect misses and return the result directly.
func NewNotFound(kind string, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	return &NotFoundError{Kind: kind, Keys: keys}
}
