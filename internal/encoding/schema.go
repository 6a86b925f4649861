// Package encoding converts raw tabular intrusion-detection records into
// fixed-width binary feature vectors.
//
// The package works in two strict phases:
//
//  1. Fit scans the union of the train and test splits once and builds an
//     immutable BitAllocationTable: per-field bit widths derived from the
//     observed maxima (integer fields), a stable category index
//     (categorical fields), or the schema-declared fixed width (float
//     fields).
//  2. Encode is a pure function of (record, table): each field is emitted
//     as MSB-first unsigned binary and the groups are concatenated in
//     schema order, so every record yields a vector of the same total
//     width.
//
// Fitting over both splits jointly is mandatory: it is what keeps
// category indices and integer widths identical across train and test.
// A table is never widened after Fit; values that fall outside the
// fitted range at encode time are rejected.
package encoding

import (
	"fmt"
	"strconv"
)

// FieldKind selects the binary encoding method for a field.
type FieldKind int

// Supported field kinds.
const (
	// Integer fields hold bounded non-negative integers; the bit width
	// is derived from the maximum value observed during Fit.
	Integer FieldKind = iota

	// Categorical fields hold strings from a finite set; each distinct
	// value gets a stable index, assigned in sorted order during Fit.
	Categorical

	// Float fields hold bounded non-negative floats; values are scaled
	// by a fixed factor, truncated toward zero, and encoded into a
	// fixed, data-independent bit width declared in the schema.
	Float
)

// String returns the kind name used in config files and error messages.
func (k FieldKind) String() string {
	switch k {
	case Integer:
		return "integer"
	case Categorical:
		return "categorical"
	case Float:
		return "float"
	default:
		return "unknown"
	}
}

// ParseFieldKind converts a config string into a FieldKind.
func ParseFieldKind(s string) (FieldKind, error) {
	switch s {
	case "integer":
		return Integer, nil
	case "categorical":
		return Categorical, nil
	case "float":
		return Float, nil
	default:
		return 0, fmt.Errorf("unknown field kind %q", s)
	}
}

// Field describes one column of the input schema.
//
// Scale and Bits are only meaningful for Float fields: the raw value is
// multiplied by Scale and truncated before binarization into exactly
// Bits bits. Keeping the float width fixed (rather than data-derived)
// keeps the representable range stable across splits.
type Field struct {
	Name  string
	Kind  FieldKind
	Scale float64
	Bits  int
}

// Schema is the ordered list of input fields. Field order fixes the bit
// layout of every encoded vector.
type Schema []Field

// Validate checks structural schema invariants before fitting.
func (s Schema) Validate() error {
	if len(s) == 0 {
		return fmt.Errorf("schema has no fields")
	}
	seen := make(map[string]bool, len(s))
	for i, f := range s {
		if f.Name == "" {
			return fmt.Errorf("field %d has empty name", i)
		}
		if seen[f.Name] {
			return fmt.Errorf("duplicate field name %q", f.Name)
		}
		seen[f.Name] = true
		if f.Kind == Float {
			if f.Scale <= 0 {
				return fmt.Errorf("float field %q: scale must be > 0, got %v", f.Name, f.Scale)
			}
			if f.Bits < 1 {
				return fmt.Errorf("float field %q: bits must be >= 1, got %d", f.Name, f.Bits)
			}
		}
	}
	return nil
}

// Record is one raw data row: field name to unparsed value. Values are
// parsed according to the schema's field kind during Fit and Encode.
type Record map[string]string

// fieldValue fetches and syntax-checks the raw value for f.
func fieldValue(r Record, f Field) (string, error) {
	raw, ok := r[f.Name]
	if !ok {
		return "", &CategoryError{Field: f.Name, Value: "<missing>"}
	}
	return raw, nil
}

// parseUint parses a bounded non-negative integer field value.
func parseUint(f Field, raw string) (uint64, error) {
	v, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("field %q: invalid integer %q: %w", f.Name, raw, err)
	}
	return v, nil
}

// parseFloat parses a bounded non-negative float field value.
func parseFloat(f Field, raw string) (float64, error) {
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("field %q: invalid float %q: %w", f.Name, raw, err)
	}
	if v < 0 {
		return 0, fmt.Errorf("field %q: negative value %v not representable", f.Name, v)
	}
	return v, nil
}
