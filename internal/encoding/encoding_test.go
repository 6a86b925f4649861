package encoding_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bitgate-ml/bitgate/internal/encoding"
)

// toySchema is the reference toy layout: one integer field bounded by 3
// (2 bits), one categorical field with 2 distinct values (1 bit), one
// float field scaled by 10 into 4 fixed bits. Total: 7 bits.
func toySchema() encoding.Schema {
	return encoding.Schema{
		{Name: "dur", Kind: encoding.Integer},
		{Name: "proto", Kind: encoding.Categorical},
		{Name: "rate", Kind: encoding.Float, Scale: 10, Bits: 4},
	}
}

func toyRecords() []encoding.Record {
	return []encoding.Record{
		{"dur": "3", "proto": "tcp", "rate": "0.7"},
		{"dur": "1", "proto": "udp", "rate": "1.5"},
	}
}

// TestFit_ToySchema tests end-to-end width derivation on toy data:
// 2 + 1 + 4 = 7 bits.
func TestFit_ToySchema(t *testing.T) {
	records := toyRecords()
	table, err := encoding.Fit(toySchema(), records[:1], records[1:])
	require.NoError(t, err)

	assert.Equal(t, 7, table.TotalBits())

	durBits, ok := table.FieldBits("dur")
	require.True(t, ok)
	assert.Equal(t, 2, durBits, "max 3 needs 2 bits")

	protoBits, _ := table.FieldBits("proto")
	assert.Equal(t, 1, protoBits, "2 categories need 1 bit")

	rateBits, _ := table.FieldBits("rate")
	assert.Equal(t, 4, rateBits, "float width is schema-declared")
}

// TestEncode_FixedWidth tests the fixed-width invariant for all records.
func TestEncode_FixedWidth(t *testing.T) {
	records := toyRecords()
	table, err := encoding.Fit(toySchema(), records[:1], records[1:])
	require.NoError(t, err)

	for i, r := range records {
		vec, err := table.Encode(r)
		require.NoError(t, err, "record %d", i)
		assert.Len(t, vec, table.TotalBits(), "record %d", i)
	}
}

// TestEncode_Deterministic tests that repeated calls agree bit for bit.
func TestEncode_Deterministic(t *testing.T) {
	records := toyRecords()
	table, err := encoding.Fit(toySchema(), records[:1], records[1:])
	require.NoError(t, err)

	a, err := table.Encode(records[0])
	require.NoError(t, err)
	b, err := table.Encode(records[0])
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

// TestEncode_ToyLayout pins the exact bit layout of the toy rows.
func TestEncode_ToyLayout(t *testing.T) {
	records := toyRecords()
	table, err := encoding.Fit(toySchema(), records[:1], records[1:])
	require.NoError(t, err)

	// dur=3 -> 11; proto=tcp (sorted before udp) -> 0; rate=0.7*10=7 -> 0111.
	vec, err := table.Encode(records[0])
	require.NoError(t, err)
	assert.Equal(t, encoding.BitVector{1, 1, 0, 0, 1, 1, 1}, vec)

	// dur=1 -> 01; proto=udp -> 1; rate=1.5*10=15 -> 1111.
	vec, err = table.Encode(records[1])
	require.NoError(t, err)
	assert.Equal(t, encoding.BitVector{0, 1, 1, 1, 1, 1, 1}, vec)
}

// TestEncode_IntegerRoundTrip tests that decoding the integer field's
// bits recovers the original value for every value up to the fitted max.
func TestEncode_IntegerRoundTrip(t *testing.T) {
	schema := encoding.Schema{{Name: "n", Kind: encoding.Integer}}
	train := []encoding.Record{{"n": "0"}, {"n": "100"}}
	table, err := encoding.Fit(schema, train, nil)
	require.NoError(t, err)

	width, _ := table.FieldBits("n")
	assert.Equal(t, 7, width, "max 100 needs 7 bits")

	for v := uint64(0); v <= 100; v++ {
		vec, err := table.Encode(encoding.Record{"n": itoa(v)})
		require.NoError(t, err)
		assert.Equal(t, v, vec.Uint(0, width), "value %d", v)
	}
}

func itoa(v uint64) string {
	if v == 0 {
		return "0"
	}
	var buf [20]byte
	i := len(buf)
	for v > 0 {
		i--
		buf[i] = byte('0' + v%10)
		v /= 10
	}
	return string(buf[i:])
}

// TestEncode_CategoricalInjective tests that distinct categories map to
// distinct bit patterns, with indices assigned in sorted order.
func TestEncode_CategoricalInjective(t *testing.T) {
	schema := encoding.Schema{{Name: "svc", Kind: encoding.Categorical}}
	train := []encoding.Record{{"svc": "http"}, {"svc": "dns"}, {"svc": "ftp"}, {"svc": "smtp"}, {"svc": "ssh"}}
	table, err := encoding.Fit(schema, train, nil)
	require.NoError(t, err)

	width, _ := table.FieldBits("svc")
	assert.Equal(t, 3, width, "5 categories need 3 bits")

	assert.Equal(t, []string{"dns", "ftp", "http", "smtp", "ssh"}, table.Categories("svc"))

	seen := make(map[string]string)
	for _, r := range train {
		vec, err := table.Encode(r)
		require.NoError(t, err)
		key := string(vec)
		if prev, dup := seen[key]; dup {
			t.Errorf("categories %q and %q share bit pattern %v", prev, r["svc"], vec)
		}
		seen[key] = r["svc"]
	}
}

// TestFit_JointSplits tests that test-split values widen the table the
// same way train values do.
func TestFit_JointSplits(t *testing.T) {
	schema := encoding.Schema{{Name: "n", Kind: encoding.Integer}}
	train := []encoding.Record{{"n": "3"}}
	test := []encoding.Record{{"n": "200"}}

	table, err := encoding.Fit(schema, train, test)
	require.NoError(t, err)

	width, _ := table.FieldBits("n")
	assert.Equal(t, 8, width, "joint fit must cover the test maximum")

	// Both splits encode without range errors.
	_, err = table.Encode(test[0])
	assert.NoError(t, err)
}

// TestEncode_RejectsOutOfRange tests the reject policy for values above
// the fitted maximum.
func TestEncode_RejectsOutOfRange(t *testing.T) {
	schema := encoding.Schema{{Name: "n", Kind: encoding.Integer}}
	table, err := encoding.Fit(schema, []encoding.Record{{"n": "7"}}, nil)
	require.NoError(t, err)

	// 8 needs 4 bits; the table allocated 3 and must reject, not truncate.
	_, err = table.Encode(encoding.Record{"n": "8"})
	require.Error(t, err)
	assert.ErrorIs(t, err, encoding.ErrEncodingRange)

	var rangeErr *encoding.RangeError
	require.ErrorAs(t, err, &rangeErr)
	assert.Equal(t, "n", rangeErr.Field)
	assert.Equal(t, uint64(8), rangeErr.Value)
}

// TestEncode_UnknownCategory tests rejection of categories the fit
// never saw.
func TestEncode_UnknownCategory(t *testing.T) {
	schema := encoding.Schema{{Name: "svc", Kind: encoding.Categorical}}
	table, err := encoding.Fit(schema, []encoding.Record{{"svc": "http"}, {"svc": "dns"}}, nil)
	require.NoError(t, err)

	_, err = table.Encode(encoding.Record{"svc": "telnet"})
	require.Error(t, err)
	assert.ErrorIs(t, err, encoding.ErrSchemaMismatch)
}

// TestEncode_MissingField tests rejection of records without a schema
// field.
func TestEncode_MissingField(t *testing.T) {
	schema := encoding.Schema{{Name: "n", Kind: encoding.Integer}}
	table, err := encoding.Fit(schema, []encoding.Record{{"n": "1"}}, nil)
	require.NoError(t, err)

	_, err = table.Encode(encoding.Record{"other": "1"})
	assert.ErrorIs(t, err, encoding.ErrSchemaMismatch)
}

// TestFit_FloatOverflow tests that fit rejects data the declared float
// width cannot hold.
func TestFit_FloatOverflow(t *testing.T) {
	schema := encoding.Schema{{Name: "rate", Kind: encoding.Float, Scale: 10, Bits: 4}}
	// 2.0 * 10 = 20 > 15.
	_, err := encoding.Fit(schema, []encoding.Record{{"rate": "2.0"}}, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, encoding.ErrEncodingRange)
}

// TestEncode_FloatTruncation tests truncation toward zero after scaling.
func TestEncode_FloatTruncation(t *testing.T) {
	schema := encoding.Schema{{Name: "rate", Kind: encoding.Float, Scale: 10, Bits: 4}}
	table, err := encoding.Fit(schema, []encoding.Record{{"rate": "1.5"}}, nil)
	require.NoError(t, err)

	// 0.79 * 10 = 7.9, truncates to 7, not 8.
	vec, err := table.Encode(encoding.Record{"rate": "0.79"})
	require.NoError(t, err)
	assert.Equal(t, uint64(7), vec.Uint(0, 4))
}

// TestFit_InvalidSchema tests schema validation failures.
func TestFit_InvalidSchema(t *testing.T) {
	tests := []struct {
		name   string
		schema encoding.Schema
	}{
		{"empty", encoding.Schema{}},
		{"duplicate names", encoding.Schema{
			{Name: "a", Kind: encoding.Integer},
			{Name: "a", Kind: encoding.Integer},
		}},
		{"float without scale", encoding.Schema{{Name: "f", Kind: encoding.Float, Bits: 4}}},
		{"float without bits", encoding.Schema{{Name: "f", Kind: encoding.Float, Scale: 10}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := encoding.Fit(tt.schema, nil, nil)
			assert.Error(t, err)
		})
	}
}

// TestFit_SingleValueFields tests the one-bit minimum width.
func TestFit_SingleValueFields(t *testing.T) {
	schema := encoding.Schema{
		{Name: "zero", Kind: encoding.Integer},
		{Name: "only", Kind: encoding.Categorical},
	}
	table, err := encoding.Fit(schema, []encoding.Record{{"zero": "0", "only": "x"}}, nil)
	require.NoError(t, err)

	zeroBits, _ := table.FieldBits("zero")
	onlyBits, _ := table.FieldBits("only")
	assert.Equal(t, 1, zeroBits)
	assert.Equal(t, 1, onlyBits)
	assert.Equal(t, 2, table.TotalBits())
}

// TestEncodeAll tests parallel encoding: order preservation and error
// propagation.
func TestEncodeAll(t *testing.T) {
	schema := encoding.Schema{{Name: "n", Kind: encoding.Integer}}
	var records []encoding.Record
	for v := 0; v < 500; v++ {
		records = append(records, encoding.Record{"n": itoa(uint64(v))})
	}
	table, err := encoding.Fit(schema, records, nil)
	require.NoError(t, err)

	vectors, err := table.EncodeAll(records, 8)
	require.NoError(t, err)
	require.Len(t, vectors, len(records))

	width, _ := table.FieldBits("n")
	for i, vec := range vectors {
		assert.Equal(t, uint64(i), vec.Uint(0, width), "row %d out of order", i)
	}

	// One bad record fails the whole batch.
	records[250] = encoding.Record{"n": "100000"}
	_, err = table.EncodeAll(records, 8)
	require.Error(t, err)
	assert.True(t, errors.Is(err, encoding.ErrEncodingRange))
}

// TestBitVector_Float32 tests conversion to {0,1} model inputs.
func TestBitVector_Float32(t *testing.T) {
	vec := encoding.BitVector{1, 0, 1, 1}
	assert.Equal(t, []float32{1, 0, 1, 1}, vec.Float32())
}
