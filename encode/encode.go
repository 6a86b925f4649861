// Copyright 2026 bitgate. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package encode provides the public API for fixed-width binary feature
// encoding in bitgate.
//
// Raw tabular records (integers, categorical strings, bounded floats)
// are converted into fixed-width binary vectors through a two-phase
// contract:
//
//	table, err := encode.Fit(schema, trainRecords, testRecords)
//	vec, err := table.Encode(record)
//
// Fit derives per-field bit widths from the union of both splits and is
// the only stateful step; Encode is a pure function of (record, table).
package encode

import (
	"github.com/bitgate-ml/bitgate/internal/encoding"
)

// Type aliases for the public API.

// FieldKind selects the binary encoding method for a field.
type FieldKind = encoding.FieldKind

// Field kind constants.
const (
	Integer     FieldKind = encoding.Integer
	Categorical FieldKind = encoding.Categorical
	Float       FieldKind = encoding.Float
)

// Field describes one column of the input schema.
type Field = encoding.Field

// Schema is the ordered list of input fields.
type Schema = encoding.Schema

// Record is one raw data row: field name to unparsed value.
type Record = encoding.Record

// BitVector is a fixed-width binary feature vector.
type BitVector = encoding.BitVector

// BitAllocationTable maps every schema field to its fitted bit width
// and encoding method.
type BitAllocationTable = encoding.BitAllocationTable

// Common errors.
var (
	// ErrSchemaMismatch reports a value the fitted table has never seen.
	ErrSchemaMismatch = encoding.ErrSchemaMismatch

	// ErrEncodingRange reports a value that overflows its field's bits.
	ErrEncodingRange = encoding.ErrEncodingRange
)

// Fit builds a BitAllocationTable from the union of the train and test
// splits.
//
// Example:
//
//	schema := encode.Schema{
//	    {Name: "dur", Kind: encode.Integer},
//	    {Name: "proto", Kind: encode.Categorical},
//	    {Name: "rate", Kind: encode.Float, Scale: 10, Bits: 4},
//	}
//	table, err := encode.Fit(schema, train, test)
func Fit(schema Schema, train, test []Record) (*BitAllocationTable, error) {
	return encoding.Fit(schema, train, test)
}
