package encoding

import (
	"errors"
	"fmt"
)

// Common errors.
var (
	// ErrSchemaMismatch reports a value the fitted table has never seen,
	// such as an unknown category. Since Fit scans train and test
	// jointly, hitting this means a record bypassed the fitting pass.
	ErrSchemaMismatch = errors.New("value outside fitted schema")

	// ErrEncodingRange reports a numeric value that cannot be
	// represented in the bits allocated for its field. Out-of-range
	// values are rejected, never truncated.
	ErrEncodingRange = errors.New("value exceeds allocated bit width")
)

// RangeError describes a numeric value that overflows its field's
// allocated width.
type RangeError struct {
	Field string // Field name
	Value uint64 // Integer value after any float scaling
	Max   uint64 // Largest value the allocated bits can hold
}

// Error implements the error interface.
func (e *RangeError) Error() string {
	return fmt.Sprintf("field %q: value %d exceeds fitted maximum %d", e.Field, e.Value, e.Max)
}

// Unwrap makes errors.Is(err, ErrEncodingRange) work.
func (e *RangeError) Unwrap() error {
	return ErrEncodingRange
}

// CategoryError describes a categorical value (or missing field) absent
// from the fitted index.
type CategoryError struct {
	Field string
	Value string
}

// Error implements the error interface.
func (e *CategoryError) Error() string {
	return fmt.Sprintf("field %q: category %q not present in fitted table", e.Field, e.Value)
}

// Unwrap makes errors.Is(err, ErrSchemaMismatch) work.
func (e *CategoryError) Unwrap() error {
	return ErrSchemaMismatch
}
