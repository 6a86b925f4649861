package serialization_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bitgate-ml/bitgate/internal/nn"
	"github.com/bitgate-ml/bitgate/internal/serialization"
	"github.com/bitgate-ml/bitgate/internal/tensor"
)

// TestWriteReadRoundTrip tests that a written model loads back with
// identical behavior and metadata.
func TestWriteReadRoundTrip(t *testing.T) {
	model := nn.NewMLP(10, []int{6, 4}, 42)
	meta := serialization.ModelMeta{
		InputWidth:  10,
		Hidden:      []int{6, 4},
		WeightBits:  2,
		Bipolar:     true,
		EncoderBits: 7,
	}

	path := filepath.Join(t.TempDir(), "model.bgx")
	require.NoError(t, serialization.WriteModel(path, model, meta))

	loaded, header, err := serialization.ReadModel(path)
	require.NoError(t, err)

	assert.Equal(t, serialization.FormatVersion, header.FormatVersion)
	assert.Equal(t, meta, header.Model)

	x, err := tensor.FromSlice([]float32{1, 0, 1, 1, 0, 0, 1, 0, 1, 1}, tensor.Shape{1, 10})
	require.NoError(t, err)
	assert.Equal(t, model.Forward(x).At(0, 0), loaded.Forward(x).At(0, 0),
		"loaded model should reproduce the original's logits exactly")
}

// TestWrite_Deterministic tests that identical models write identical
// bytes apart from the timestamp.
func TestWrite_Deterministic(t *testing.T) {
	model := nn.NewMLP(5, []int{3}, 7)
	meta := serialization.ModelMeta{InputWidth: 5, Hidden: []int{3}}

	dir := t.TempDir()
	pathA := filepath.Join(dir, "a.bgx")
	pathB := filepath.Join(dir, "b.bgx")
	require.NoError(t, serialization.WriteModel(pathA, model, meta))
	require.NoError(t, serialization.WriteModel(pathB, model, meta))

	_, headerA, err := serialization.ReadModel(pathA)
	require.NoError(t, err)
	_, headerB, err := serialization.ReadModel(pathB)
	require.NoError(t, err)

	assert.Equal(t, headerA.Tensors, headerB.Tensors, "tensor layout should be deterministic")
}

// TestRead_CorruptedData tests checksum detection on a flipped byte.
func TestRead_CorruptedData(t *testing.T) {
	model := nn.NewMLP(4, []int{2}, 1)
	path := filepath.Join(t.TempDir(), "model.bgx")
	require.NoError(t, serialization.WriteModel(path, model, serialization.ModelMeta{InputWidth: 4, Hidden: []int{2}}))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)

	// Flip one byte in the data section (between header and checksum).
	raw[len(raw)-serialization.ChecksumSize-5] ^= 0xFF
	require.NoError(t, os.WriteFile(path, raw, 0o644))

	_, _, err = serialization.ReadModel(path)
	assert.ErrorIs(t, err, serialization.ErrChecksumMismatch)
}

// TestRead_BadMagic tests rejection of foreign files.
func TestRead_BadMagic(t *testing.T) {
	path := filepath.Join(t.TempDir(), "model.bgx")
	require.NoError(t, os.WriteFile(path, []byte("NOPExxxxxxxxxxxxxxxxxxxx"), 0o644))

	_, _, err := serialization.ReadModel(path)
	assert.ErrorIs(t, err, serialization.ErrInvalidMagic)
}

// TestRead_Truncated tests rejection of files cut mid-header.
func TestRead_Truncated(t *testing.T) {
	model := nn.NewMLP(4, []int{2}, 1)
	path := filepath.Join(t.TempDir(), "model.bgx")
	require.NoError(t, serialization.WriteModel(path, model, serialization.ModelMeta{InputWidth: 4, Hidden: []int{2}}))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, raw[:20], 0o644))

	_, _, err = serialization.ReadModel(path)
	assert.Error(t, err)
}
