package encoding

import (
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// BitVector is a fixed-width binary feature vector. Each element is
// exactly 0 or 1; one byte per bit keeps the vectors directly indexable
// and cheap to turn into float32 model inputs.
type BitVector []byte

// Float32 converts the vector into {0,1} float32 model inputs.
func (v BitVector) Float32() []float32 {
	out := make([]float32, len(v))
	for i, b := range v {
		out[i] = float32(b)
	}
	return out
}

// Uint decodes bits [from, to) as MSB-first unsigned binary. Used to
// verify field round trips.
func (v BitVector) Uint(from, to int) uint64 {
	var out uint64
	for _, b := range v[from:to] {
		out = out<<1 | uint64(b)
	}
	return out
}

// Encode converts one record into a fixed-width binary feature vector.
//
// Pure function of (record, table): per-field values are emitted as
// MSB-first unsigned binary in schema order. The result always has
// exactly TotalBits elements.
//
// Values outside the fitted range are rejected: integers and scaled
// floats above the fitted maximum return ErrEncodingRange, unknown
// categories return ErrSchemaMismatch. There is no partial output on
// error.
func (t *BitAllocationTable) Encode(r Record) (BitVector, error) {
	vec := make(BitVector, 0, t.totalBits)

	for i := range t.codecs {
		c := &t.codecs[i]
		raw, err := fieldValue(r, c.field)
		if err != nil {
			return nil, err
		}

		var value uint64
		switch c.field.Kind {
		case Integer:
			value, err = parseUint(c.field, raw)
			if err != nil {
				return nil, err
			}
		case Categorical:
			idx, ok := c.index[raw]
			if !ok {
				return nil, &CategoryError{Field: c.field.Name, Value: raw}
			}
			value = uint64(idx)
		case Float:
			f, err := parseFloat(c.field, raw)
			if err != nil {
				return nil, err
			}
			value = uint64(f * c.field.Scale) // truncation toward zero
		}

		if value > c.max {
			return nil, &RangeError{Field: c.field.Name, Value: value, Max: c.max}
		}
		vec = appendBits(vec, value, c.bits)
	}

	return vec, nil
}

// appendBits emits the low width bits of value, most significant first.
func appendBits(vec BitVector, value uint64, width int) BitVector {
	for i := width - 1; i >= 0; i-- {
		vec = append(vec, byte(value>>uint(i)&1))
	}
	return vec
}

// EncodeAll encodes a slice of records, fanning the work out over
// workers goroutines (<= 0 selects GOMAXPROCS).
//
// Encoding is embarrassingly parallel: the table is read-only and each
// record is independent. Results keep input order regardless of worker
// scheduling. The first error cancels the remaining work and is
// returned; no partial vector is kept for the failing record.
func (t *BitAllocationTable) EncodeAll(records []Record, workers int) ([]BitVector, error) {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	out := make([]BitVector, len(records))
	g := new(errgroup.Group)
	g.SetLimit(workers)

	for i := range records {
		i := i
		g.Go(func() error {
			vec, err := t.Encode(records[i])
			if err != nil {
				return fmt.Errorf("record %d: %w", i, err)
			}
			out[i] = vec
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
