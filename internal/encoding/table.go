package encoding

import (
	"fmt"
	"math/bits"
	"sort"
)

// fieldCodec holds the fitted encoding parameters for one field.
type fieldCodec struct {
	field Field
	bits  int
	max   uint64         // integer/float fields: largest encodable value
	index map[string]int // categorical fields: value -> index
}

// BitAllocationTable maps every schema field to its fitted bit width and
// encoding method. Tables are immutable after Fit and safe for
// concurrent use by any number of Encode calls.
type BitAllocationTable struct {
	schema    Schema
	codecs    []fieldCodec
	totalBits int
}

// Fit builds a BitAllocationTable from the union of the train and test
// splits.
//
// Per field:
//   - Integer: width is max(1, ceil(log2(maxObserved+1))); the fitted
//     maximum bounds later Encode calls.
//   - Categorical: distinct values from both splits are indexed in
//     sorted order; width is max(1, ceil(log2(distinctCount))).
//     Sorted-order assignment keeps the table independent of record
//     order, so refitting the same corpus always yields the same layout.
//   - Float: width and scale come from the schema; Fit verifies every
//     observed value fits the declared width after scaling and
//     truncation.
//
// Both splits must be presented together. Fitting on train alone and
// encoding test records is exactly the mismatch ErrSchemaMismatch and
// ErrEncodingRange exist to catch.
func Fit(schema Schema, train, test []Record) (*BitAllocationTable, error) {
	if err := schema.Validate(); err != nil {
		return nil, fmt.Errorf("invalid schema: %w", err)
	}

	codecs := make([]fieldCodec, 0, len(schema))
	totalBits := 0

	for _, f := range schema {
		var codec fieldCodec
		var err error
		switch f.Kind {
		case Integer:
			codec, err = fitInteger(f, train, test)
		case Categorical:
			codec, err = fitCategorical(f, train, test)
		case Float:
			codec, err = fitFloat(f, train, test)
		default:
			err = fmt.Errorf("field %q: unknown kind %d", f.Name, f.Kind)
		}
		if err != nil {
			return nil, err
		}
		codecs = append(codecs, codec)
		totalBits += codec.bits
	}

	return &BitAllocationTable{
		schema:    schema,
		codecs:    codecs,
		totalBits: totalBits,
	}, nil
}

// fitInteger scans both splits for the field's maximum value.
func fitInteger(f Field, train, test []Record) (fieldCodec, error) {
	var maxSeen uint64
	for _, split := range [][]Record{train, test} {
		for _, r := range split {
			raw, err := fieldValue(r, f)
			if err != nil {
				return fieldCodec{}, err
			}
			v, err := parseUint(f, raw)
			if err != nil {
				return fieldCodec{}, err
			}
			if v > maxSeen {
				maxSeen = v
			}
		}
	}

	return fieldCodec{
		field: f,
		bits:  widthFor(maxSeen),
		max:   maxSeen,
	}, nil
}

// fitCategorical collects the distinct values of both splits and assigns
// indices in sorted order.
func fitCategorical(f Field, train, test []Record) (fieldCodec, error) {
	distinct := make(map[string]bool)
	for _, split := range [][]Record{train, test} {
		for _, r := range split {
			raw, err := fieldValue(r, f)
			if err != nil {
				return fieldCodec{}, err
			}
			distinct[raw] = true
		}
	}
	if len(distinct) == 0 {
		return fieldCodec{}, fmt.Errorf("field %q: no values observed during fit", f.Name)
	}

	values := make([]string, 0, len(distinct))
	for v := range distinct {
		values = append(values, v)
	}
	sort.Strings(values)

	index := make(map[string]int, len(values))
	for i, v := range values {
		index[v] = i
	}

	return fieldCodec{
		field: f,
		bits:  widthFor(uint64(len(values) - 1)),
		max:   uint64(len(values) - 1),
		index: index,
	}, nil
}

// fitFloat validates every observed value against the schema-declared
// fixed width. The width itself is never data-derived.
func fitFloat(f Field, train, test []Record) (fieldCodec, error) {
	capacity := maxForWidth(f.Bits)
	for _, split := range [][]Record{train, test} {
		for _, r := range split {
			raw, err := fieldValue(r, f)
			if err != nil {
				return fieldCodec{}, err
			}
			v, err := parseFloat(f, raw)
			if err != nil {
				return fieldCodec{}, err
			}
			scaled := uint64(v * f.Scale) // truncation toward zero
			if scaled > capacity {
				return fieldCodec{}, &RangeError{Field: f.Name, Value: scaled, Max: capacity}
			}
		}
	}

	return fieldCodec{
		field: f,
		bits:  f.Bits,
		max:   capacity,
	}, nil
}

// widthFor returns the minimal unsigned width for values in [0, max],
// never less than one bit.
func widthFor(max uint64) int {
	if max == 0 {
		return 1
	}
	return bits.Len64(max)
}

// maxForWidth returns the largest value representable in width bits.
func maxForWidth(width int) uint64 {
	if width >= 64 {
		return ^uint64(0)
	}
	return 1<<uint(width) - 1
}

// TotalBits returns the fixed width of every vector this table encodes.
func (t *BitAllocationTable) TotalBits() int {
	return t.totalBits
}

// Schema returns the schema the table was fitted for.
func (t *BitAllocationTable) Schema() Schema {
	return t.schema
}

// FieldBits returns the fitted bit width of the named field.
func (t *BitAllocationTable) FieldBits(name string) (int, bool) {
	for _, c := range t.codecs {
		if c.field.Name == name {
			return c.bits, true
		}
	}
	return 0, false
}

// Categories returns the fitted categories of a categorical field in
// index order. Returns nil for other kinds or unknown names.
func (t *BitAllocationTable) Categories(name string) []string {
	for _, c := range t.codecs {
		if c.field.Name == name && c.index != nil {
			values := make([]string, len(c.index))
			for v, i := range c.index {
				values[i] = v
			}
			return values
		}
	}
	return nil
}
