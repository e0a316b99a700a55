package dataset

import (
	"errors"
	"fmt"
	"strings"
)

// ErrLoad is matched by every LoadError via errors.Is.
var ErrLoad = errors.New("load error")

// LoadError reports malformed or missing source data.
type LoadError struct {
	Dataset string // "education", "pollution"
	Source  string // file path, when known
	Row     int    // 1-based data row (header excluded), 0 if not row-specific
	Column  string // schema key, empty if not column-specific
	Value   string // offending raw value
	Reason  string
	Err     error // underlying cause, may be nil
}

func (e *LoadError) Error() string {
	var parts []string

	where := e.Dataset
	if e.Source != "" {
		where = fmt.Sprintf("%s (%s)", e.Dataset, e.Source)
	}
	parts = append(parts, fmt.Sprintf("load %s", where))

	if e.Row > 0 {
		parts = append(parts, fmt.Sprintf("row %d", e.Row))
	}
	if e.Column != "" {
		parts = append(parts, fmt.Sprintf("column %s", e.Column))
	}
	if e.Value != "" {
		parts = append(parts, fmt.Sprintf("value=%q", e.Value))
	}
	if e.Reason != "" {
		parts = append(parts, e.Reason)
	}

	msg := strings.Join(parts, " - ")
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *LoadError) Is(target error) bool { return target == ErrLoad }

func (e *LoadError) Unwrap() error { return e.Err }

func newReadError(dataset, source string, err error) *LoadError {
	return &LoadError{Dataset: dataset, Source: source, Reason: "unreadable source", Err: err}
}

func newMissingValue(dataset, source string, row int, column string) *LoadError {
	return &LoadError{Dataset: dataset, Source: source, Row: row, Column: column, Reason: "missing required value"}
}

func newTypeMismatch(dataset, source string, row int, column, value, expected string) *LoadError {
	return &LoadError{
		Dataset: dataset,
		Source:  source,
		Row:     row,
		Column:  column,
		Value:   value,
		Reason:  fmt.Sprintf("expected %s", expected),
	}
}

func newOutOfRange(dataset, source string, row int, column, value, bounds string) *LoadError {
	return &LoadError{
		Dataset: dataset,
		Source:  source,
		Row:     row,
		Column:  column,
		Value:   value,
		Reason:  fmt.Sprintf("out of range, want %s", bounds),
	}
}

func newDuplicate(dataset, source string, row int, key string, firstRow int) *LoadError {
	return &LoadError{
		Dataset: dataset,
		Source:  source,
		Row:     row,
		Value:   key,
		Reason:  fmt.Sprintf("duplicate record, first seen at row %d", firstRow),
	}
}
