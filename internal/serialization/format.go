// Package serialization reads and writes the .bgx interchange format
// consumed by the downstream hardware-compilation toolchain.
//
// File layout:
//
//	[4]  magic "BGEX"
//	[4]  format version (uint32, little endian)
//	[8]  header size (uint64, little endian)
//	[n]  JSON header (model topology, tensor metadata)
//	[p]  zero padding to a 64-byte boundary
//	[d]  tensor data (float32, little endian, offsets from header)
//	[32] SHA-256 checksum of the data section
package serialization

import "time"

// Format constants.
const (
	MagicBytes      = "BGEX"
	FormatVersion   = 1
	HeaderAlignment = 64 // tensor data starts on a 64-byte boundary
	ChecksumSize    = 32 // SHA-256
)

// Header is the JSON header of a .bgx file.
type Header struct {
	FormatVersion int               `json:"format_version"`
	CreatedAt     time.Time         `json:"created_at"`
	Model         ModelMeta         `json:"model"`
	Tensors       []TensorMeta      `json:"tensors"`
	Metadata      map[string]string `json:"metadata,omitempty"`
}

// ModelMeta describes the exported classifier's topology and I/O
// contract. It carries everything needed to rebuild the model and to
// feed it correctly.
type ModelMeta struct {
	InputWidth  int   `json:"input_width"`            // padded input width
	Hidden      []int `json:"hidden"`                 // hidden layer sizes
	WeightBits  int   `json:"weight_bits,omitempty"`  // 0 = full precision
	Bipolar     bool  `json:"bipolar"`                // I/O in {-1,+1} with zero-threshold output
	EncoderBits int   `json:"encoder_bits,omitempty"` // unpadded feature width
}

// TensorMeta describes one tensor in the data section. Offsets are
// relative to the start of the data section.
type TensorMeta struct {
	Name   string `json:"name"`
	Shape  []int  `json:"shape"`
	Offset int64  `json:"offset"`
	Size   int64  `json:"size"`
}
